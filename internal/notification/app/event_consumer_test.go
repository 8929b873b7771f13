package app

import (
	"context"
	"testing"

	"perfume_shop_service/internal/notification/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newConsumerFixture() (*EventConsumer, *MockNotificationRepository, *MockAdminDirectory) {
	mockRepo := new(MockNotificationRepository)
	mockPresence := new(MockPresence)
	mockAdmins := new(MockAdminDirectory)

	mockPresence.On("Resolve", mock.Anything).Return("", false)

	notifUC := NewNotificationUseCase(mockRepo, mockPresence, new(MockPubSub))
	return NewEventConsumer(nil, notifUC, mockAdmins), mockRepo, mockAdmins
}

// 測試訂單付款事件轉成 ORDER 通知
func TestEventConsumer_Dispatch_OrderPaid(t *testing.T) {
	ctx := context.Background()
	consumer, mockRepo, _ := newConsumerFixture()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "buyer-1" &&
			n.Type == string(domain.TypeOrder) &&
			n.Link == "/orders/order-9"
	})).Return(nil)

	err := consumer.dispatch(ctx, SubsystemEvent{
		Type:    EventOrderPaid,
		UserID:  "buyer-1",
		OrderID: "order-9",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// 測試審核結果事件轉成 REQUEST_STATUS 通知
func TestEventConsumer_Dispatch_RequestReviewed(t *testing.T) {
	ctx := context.Background()
	consumer, mockRepo, _ := newConsumerFixture()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == "applicant-1" && n.Type == string(domain.TypeRequestStatus)
	})).Return(nil)

	err := consumer.dispatch(ctx, SubsystemEvent{
		Type:      EventRequestReviewed,
		UserID:    "applicant-1",
		RequestID: "req-3",
		Status:    "approved",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// 測試新申請事件 fan-out 給所有管理員
func TestEventConsumer_Dispatch_RequestSubmitted(t *testing.T) {
	ctx := context.Background()
	consumer, mockRepo, mockAdmins := newConsumerFixture()

	mockAdmins.On("FindAdminIDs", ctx).Return([]string{"admin-1", "admin-2"}, nil)
	mockRepo.On("CreateBatch", ctx, mock.MatchedBy(func(ns []domain.Notification) bool {
		return len(ns) == 2 && ns[0].Type == string(domain.TypeSystem)
	})).Return(nil)

	err := consumer.dispatch(ctx, SubsystemEvent{
		Type:      EventRequestSubmitted,
		RequestID: "req-3",
		Username:  "alice",
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// 測試未知事件類型直接忽略
func TestEventConsumer_Dispatch_UnknownType(t *testing.T) {
	ctx := context.Background()
	consumer, mockRepo, _ := newConsumerFixture()

	err := consumer.dispatch(ctx, SubsystemEvent{Type: "something.else"})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
