package app

import (
	"context"
	"os"
	"testing"

	chatdomain "perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/notification/domain"
	"perfume_shop_service/internal/notification/repository"
	"perfume_shop_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// 測試 Create 目標在線時推送 notification event
func TestNotificationUseCase_Create_PushWhenOnline(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockPresence := new(MockPresence)
	mockPubSub := new(MockPubSub)

	mockRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockPresence.On("Resolve", userID).Return("conn-1", true)
	mockPubSub.On("Publish", ctx, chatdomain.UserChannel(userID), mock.MatchedBy(func(e chatdomain.WSEvent) bool {
		return e.Event == chatdomain.EventNotification
	})).Return(nil)

	uc := NewNotificationUseCase(mockRepo, mockPresence, mockPubSub)
	n, err := uc.Create(ctx, domain.CreateNotification{
		UserID:  userID,
		Type:    domain.TypeOrder,
		Title:   "Order paid",
		Message: "Your order has been paid",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, string(domain.TypeOrder), n.Type)
	assert.False(t, n.Read)

	mockRepo.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
}

// 測試 Create 目標離線時只落地不推送
func TestNotificationUseCase_Create_NoPushWhenOffline(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockPresence := new(MockPresence)
	mockPubSub := new(MockPubSub)

	mockRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockPresence.On("Resolve", userID).Return("", false)

	uc := NewNotificationUseCase(mockRepo, mockPresence, mockPubSub)
	_, err := uc.Create(ctx, domain.CreateNotification{
		UserID: userID,
		Type:   domain.TypeMessage,
		Title:  "New message",
	})

	assert.NoError(t, err)
	mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// 測試 CreateBulk 批次寫入並逐一推送在線目標
func TestNotificationUseCase_CreateBulk(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockPresence := new(MockPresence)
	mockPubSub := new(MockPubSub)

	mockRepo.On("CreateBatch", ctx, mock.MatchedBy(func(ns []domain.Notification) bool {
		return len(ns) == 2
	})).Return(nil)
	mockPresence.On("Resolve", "admin-1").Return("conn-1", true)
	mockPresence.On("Resolve", "admin-2").Return("", false)
	mockPubSub.On("Publish", ctx, chatdomain.UserChannel("admin-1"), mock.Anything).Return(nil)

	uc := NewNotificationUseCase(mockRepo, mockPresence, mockPubSub)
	ns, err := uc.CreateBulk(ctx, []string{"admin-1", "admin-2"}, domain.CreateNotification{
		Type:  domain.TypeSystem,
		Title: "New owner request",
	})

	assert.NoError(t, err)
	assert.Len(t, ns, 2)

	// 只有在線的 admin-1 收到推送
	mockPubSub.AssertNumberOfCalls(t, "Publish", 1)
}

// 測試 List 分頁與 hasMore
func TestNotificationUseCase_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("FindByUser", ctx, userID, 0, 2).
		Return([]domain.Notification{{ID: "n1"}, {ID: "n2"}}, nil)
	mockRepo.On("CountUnread", ctx, userID).Return(int64(3), nil)
	mockRepo.On("CountByUser", ctx, userID).Return(int64(10), nil)

	uc := NewNotificationUseCase(mockRepo, new(MockPresence), new(MockPubSub))
	ns, unreadCount, total, hasMore, err := uc.List(ctx, userID, 1, 2)

	assert.NoError(t, err)
	assert.Len(t, ns, 2)
	assert.Equal(t, int64(3), unreadCount)
	assert.Equal(t, int64(10), total)
	assert.True(t, hasMore)
}

// 測試 GetByID 非擁有者
func TestNotificationUseCase_GetByID_NotOwner(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("FindByID", ctx, "n1").
		Return(&domain.Notification{ID: "n1", UserID: "alice"}, nil)

	uc := NewNotificationUseCase(mockRepo, new(MockPresence), new(MockPubSub))
	_, err := uc.GetByID(ctx, "n1", "bob")

	assert.ErrorIs(t, err, ErrNotOwner)
}

// 測試 MarkRead 更新不到任何列時回報 not found
// 別人的通知與不存在的通知一視同仁
func TestNotificationUseCase_MarkRead_NotFound(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("MarkRead", ctx, "n1", "bob").Return(int64(0), nil)

	uc := NewNotificationUseCase(mockRepo, new(MockPresence), new(MockPubSub))
	err := uc.MarkRead(ctx, "n1", "bob")

	assert.ErrorIs(t, err, repository.ErrNotificationNotFound)
}

// 測試 MarkRead 成功
func TestNotificationUseCase_MarkRead(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("MarkRead", ctx, "n1", "alice").Return(int64(1), nil)

	uc := NewNotificationUseCase(mockRepo, new(MockPresence), new(MockPubSub))
	assert.NoError(t, uc.MarkRead(ctx, "n1", "alice"))
}

// 測試 DeleteAllRead 回傳刪除筆數
func TestNotificationUseCase_DeleteAllRead(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("DeleteAllRead", ctx, "alice").Return(int64(4), nil)

	uc := NewNotificationUseCase(mockRepo, new(MockPresence), new(MockPubSub))
	deleted, err := uc.DeleteAllRead(ctx, "alice")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
