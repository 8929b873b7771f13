package repository

import (
	"context"
	"errors"

	"perfume_shop_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ErrMessageNotFound 查無此訊息
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository definition message durable store
type MessageRepository interface {
	AutoMigrate() error
	Create(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// FindBetween 取兩人之間的訊息 (雙向)，建立時間由新到舊排序後分頁
	FindBetween(ctx context.Context, userID, otherUserID string, offset, limit int) ([]domain.Message, error)
	// FindAllForUser 取使用者參與的所有訊息，由新到舊，用於彙整對話列表
	FindAllForUser(ctx context.Context, userID string) ([]domain.Message, error)
	CountUnreadFrom(ctx context.Context, otherUserID, userID string) (int64, error)
	CountUnreadTotal(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, messageID string) error
	MarkConversationRead(ctx context.Context, otherUserID, userID string) error
	Delete(ctx context.Context, messageID string) error
	DeleteConversation(ctx context.Context, userID, otherUserID string) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository create a MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Message{})
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	// 回填 sender/receiver 摘要，ack 與推送需要完整訊息
	return r.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		First(msg, "id = ?", msg.ID).Error
}

func (r *messageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).First(&msg, "id = ?", messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) FindBetween(ctx context.Context, userID, otherUserID string, offset, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) FindAllForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) CountUnreadFrom(ctx context.Context, otherUserID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", otherUserID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) CountUnreadTotal(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 將單則訊息翻成已讀，重複標記不報錯
func (r *messageRepository) MarkRead(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ?", messageID).
		Update("read", true).Error
}

// MarkConversationRead 批次將對方傳來的未讀訊息翻成已讀
func (r *messageRepository) MarkConversationRead(ctx context.Context, otherUserID, userID string) error {
	return r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", otherUserID, userID, false).
		Update("read", true).Error
}

func (r *messageRepository) Delete(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Message{}, "id = ?", messageID).Error
}

func (r *messageRepository) DeleteConversation(ctx context.Context, userID, otherUserID string) error {
	return r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Delete(&domain.Message{}).Error
}
