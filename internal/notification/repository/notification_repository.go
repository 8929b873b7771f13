package repository

import (
	"context"
	"errors"

	"perfume_shop_service/internal/notification/domain"

	"gorm.io/gorm"
)

// ErrNotificationNotFound 查無此通知
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository definition notification durable store
// 所有查詢與異動一律帶 user_id 條件，授權直接折進查詢述詞
type NotificationRepository interface {
	AutoMigrate() error
	Create(ctx context.Context, n *domain.Notification) error
	// CreateBatch 批次寫入，一次通知多個目標 (例如通知所有管理員)
	CreateBatch(ctx context.Context, ns []domain.Notification) error
	FindByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Notification, error)
	FindUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	FindByType(ctx context.Context, userID, notifType string, offset, limit int) ([]domain.Notification, error)
	FindByID(ctx context.Context, notificationID string) (*domain.Notification, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	CountByType(ctx context.Context, userID, notifType string) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, notificationID, userID string) (int64, error)
	DeleteAllRead(ctx context.Context, userID string) (int64, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository create a NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Notification{})
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&ns).Error
	return ns, err
}

func (r *notificationRepository) FindUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, false).
		Order("created_at DESC").
		Find(&ns).Error
	return ns, err
}

func (r *notificationRepository) FindByType(ctx context.Context, userID, notifType string, offset, limit int) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, notifType).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&ns).Error
	return ns, err
}

func (r *notificationRepository) FindByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", notificationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) CountByType(ctx context.Context, userID, notifType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", userID, notifType).
		Count(&count).Error
	return count, err
}

// MarkRead 只有擁有者的通知會被翻成已讀，回傳影響筆數供上層判斷 not found
func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

func (r *notificationRepository) Delete(ctx context.Context, notificationID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, true).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}
