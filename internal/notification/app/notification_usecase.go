package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	chatdomain "perfume_shop_service/internal/chat/domain"
	chatrepo "perfume_shop_service/internal/chat/repository"
	"perfume_shop_service/internal/notification/domain"
	"perfume_shop_service/internal/notification/repository"
	errprocess "perfume_shop_service/pkg/err"
	"perfume_shop_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotOwner 通知屬於其他使用者
var ErrNotOwner = errors.New("no access for this notification")

// Presence 查詢目標是否在線，決定建立通知後要不要推送
type Presence interface {
	Resolve(userID string) (string, bool)
}

// NotificationUseCase 負責通知的讀寫與即時推送
// 所有子系統事件 (新訊息、訂單、申請審核) 都走 Create/CreateBulk 這個共用入口
type NotificationUseCase struct {
	repo     repository.NotificationRepository
	presence Presence
	pubsub   chatrepo.PubSub
}

// NewNotificationUseCase init notification use case
func NewNotificationUseCase(
	repo repository.NotificationRepository,
	presence Presence,
	pubsub chatrepo.PubSub,
) *NotificationUseCase {
	return &NotificationUseCase{
		repo:     repo,
		presence: presence,
		pubsub:   pubsub,
	}
}

// Create 寫入一筆通知，目標在線就順帶推送 notification event
// 推送不分觸發來源，訂單/審核事件與訊息通知行為一致
func (uc *NotificationUseCase) Create(ctx context.Context, in domain.CreateNotification) (*domain.Notification, error) {
	if in.UserID == "" {
		return nil, errprocess.Set("notification target is empty")
	}

	n := domain.Notification{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Type:      string(in.Type),
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		CreatedAt: time.Now(),
	}
	if in.Metadata != nil {
		data, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, err
		}
		n.Metadata = data
	}

	if err := uc.repo.Create(ctx, &n); err != nil {
		return nil, err
	}

	uc.pushIfOnline(ctx, &n)
	return &n, nil
}

// CreateBulk fan-out 給多個目標，一次批次寫入
// 用於「通知所有管理員」之類的場景
func (uc *NotificationUseCase) CreateBulk(ctx context.Context, userIDs []string, in domain.CreateNotification) ([]domain.Notification, error) {
	var metadata json.RawMessage
	if in.Metadata != nil {
		data, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = data
	}

	ns := make([]domain.Notification, 0, len(userIDs))
	now := time.Now()
	for _, userID := range userIDs {
		ns = append(ns, domain.Notification{
			ID:        uuid.New().String(),
			UserID:    userID,
			Type:      string(in.Type),
			Title:     in.Title,
			Message:   in.Message,
			Link:      in.Link,
			Metadata:  metadata,
			Read:      false,
			CreatedAt: now,
		})
	}

	if err := uc.repo.CreateBatch(ctx, ns); err != nil {
		return nil, err
	}

	for i := range ns {
		uc.pushIfOnline(ctx, &ns[i])
	}
	return ns, nil
}

// pushIfOnline 目標不在線就直接丟棄，對方之後透過拉取補上
func (uc *NotificationUseCase) pushIfOnline(ctx context.Context, n *domain.Notification) {
	if _, ok := uc.presence.Resolve(n.UserID); !ok {
		return
	}
	event := chatdomain.WSEvent{Event: chatdomain.EventNotification, Payload: n}
	if err := uc.pubsub.Publish(ctx, chatdomain.UserChannel(n.UserID), event); err != nil {
		logger.Log.Error("notification push err",
			zap.String("userID", n.UserID), zap.String("type", n.Type), zap.Error(err))
	}
}

// List 分頁取通知，連同未讀數與總數
func (uc *NotificationUseCase) List(ctx context.Context, userID string, page, limit int) ([]domain.Notification, int64, int64, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	ns, err := uc.repo.FindByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, 0, false, err
	}
	unreadCount, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, false, err
	}
	total, err := uc.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, 0, false, err
	}

	return ns, unreadCount, total, len(ns) == limit, nil
}

// Unread 取所有未讀通知
func (uc *NotificationUseCase) Unread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return uc.repo.FindUnread(ctx, userID)
}

// UnreadCount 未讀通知數，每次重新計算不做快取
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.repo.CountUnread(ctx, userID)
}

// ListByType 依類型分頁
func (uc *NotificationUseCase) ListByType(ctx context.Context, userID, notifType string, page, limit int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	ns, err := uc.repo.FindByType(ctx, userID, notifType, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.repo.CountByType(ctx, userID, notifType)
	if err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

// GetByID 取單則通知，非擁有者回傳 ErrNotOwner
func (uc *NotificationUseCase) GetByID(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := uc.repo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotOwner
	}
	return n, nil
}

// MarkRead 標記單則已讀，擁有者條件折在查詢內，
// 別人的通知一律回報 not found 而不是 forbidden
func (uc *NotificationUseCase) MarkRead(ctx context.Context, notificationID, userID string) error {
	rows, err := uc.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 全部標記已讀
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.repo.MarkAllRead(ctx, userID)
}

// Delete 刪除單則通知
func (uc *NotificationUseCase) Delete(ctx context.Context, notificationID, userID string) error {
	rows, err := uc.repo.Delete(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

// DeleteAllRead 刪除所有已讀通知，回傳刪除筆數
func (uc *NotificationUseCase) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.repo.DeleteAllRead(ctx, userID)
}

// DeleteAll 刪除所有通知，回傳刪除筆數
func (uc *NotificationUseCase) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return uc.repo.DeleteAll(ctx, userID)
}
