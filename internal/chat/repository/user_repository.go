package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"perfume_shop_service/internal/chat/domain"
)

// ErrUserNotFound 查無此使用者
var ErrUserNotFound = errors.New("user not found")

// UserRepository definition get user info
// users 資料表由 auth 子系統維護，這裡只做連線驗證與收件者檢查的唯讀查詢
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindAdminIDs(ctx context.Context) ([]string, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, username, email, role, COALESCE(avatar, '') FROM users WHERE id = $1", userID)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.Avatar)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindAdminIDs 查詢所有管理員 id，供通知 fan-out 使用
func (r *userRepository) FindAdminIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM users WHERE role = $1", "ADMIN")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
