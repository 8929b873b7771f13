package app

import (
	"context"

	chatdomain "perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/notification/domain"

	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// AutoMigrate moke migrate
func (m *MockNotificationRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create moke create notification
func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// CreateBatch moke batch create
func (m *MockNotificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

// FindByUser moke find by user
func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindUnread moke find unread
func (m *MockNotificationRepository) FindUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByType moke find by type
func (m *MockNotificationRepository) FindByType(ctx context.Context, userID, notifType string, offset, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, notifType, offset, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID moke find by id
func (m *MockNotificationRepository) FindByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountByUser moke count by user
func (m *MockNotificationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUnread moke count unread
func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// CountByType moke count by type
func (m *MockNotificationRepository) CountByType(ctx context.Context, userID, notifType string) (int64, error) {
	args := m.Called(ctx, userID, notifType)
	return args.Get(0).(int64), args.Error(1)
}

// MarkRead moke mark read
func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (int64, error) {
	args := m.Called(ctx, notificationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MarkAllRead moke mark all read
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Delete moke delete
func (m *MockNotificationRepository) Delete(ctx context.Context, notificationID, userID string) (int64, error) {
	args := m.Called(ctx, notificationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteAllRead moke delete all read
func (m *MockNotificationRepository) DeleteAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteAll moke delete all
func (m *MockNotificationRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPresence Mock Presence
type MockPresence struct {
	mock.Mock
}

// Resolve moke resolve user connection
func (m *MockPresence) Resolve(userID string) (string, bool) {
	args := m.Called(userID)
	return args.String(0), args.Bool(1)
}

// MockPubSub Mock PubSub
type MockPubSub struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockPubSub) Publish(ctx context.Context, channel string, event chatdomain.WSEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

// Subscribe moke subscriber
func (m *MockPubSub) Subscribe(ctx context.Context, channel string, handler func(event chatdomain.WSEvent)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockAdminDirectory Mock AdminDirectory
type MockAdminDirectory struct {
	mock.Mock
}

// FindAdminIDs moke find admin ids
func (m *MockAdminDirectory) FindAdminIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
