package app

import (
	"context"

	"perfume_shop_service/internal/chat/domain"
	ndomain "perfume_shop_service/internal/notification/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// AutoMigrate moke migrate
func (m *MockMessageRepository) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}

// Create moke create message
func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindBetween moke find messages between two users
func (m *MockMessageRepository) FindBetween(ctx context.Context, userID, otherUserID string, offset, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, userID, otherUserID, offset, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAllForUser moke find all messages for user
func (m *MockMessageRepository) FindAllForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountUnreadFrom moke count unread from one user
func (m *MockMessageRepository) CountUnreadFrom(ctx context.Context, otherUserID, userID string) (int64, error) {
	args := m.Called(ctx, otherUserID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// CountUnreadTotal moke count unread total
func (m *MockMessageRepository) CountUnreadTotal(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MarkRead moke mark one message read
func (m *MockMessageRepository) MarkRead(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MarkConversationRead moke mark conversation read
func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, otherUserID, userID string) error {
	args := m.Called(ctx, otherUserID, userID)
	return args.Error(0)
}

// Delete moke delete message
func (m *MockMessageRepository) Delete(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// DeleteConversation moke delete conversation
func (m *MockMessageRepository) DeleteConversation(ctx context.Context, userID, otherUserID string) error {
	args := m.Called(ctx, userID, otherUserID)
	return args.Error(0)
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByID moke find user by id
func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAdminIDs moke find admin ids
func (m *MockUserRepository) FindAdminIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRedisPubSub Mock RedisPubSub
type MockRedisPubSub struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockRedisPubSub) Publish(ctx context.Context, channel string, event domain.WSEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

// Subscribe moke subscriber
func (m *MockRedisPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.WSEvent)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockPresence Mock PresenceRegistry
type MockPresence struct {
	mock.Mock
}

// Register moke register connection
func (m *MockPresence) Register(userID, connID string) {
	m.Called(userID, connID)
}

// Unregister moke unregister connection
func (m *MockPresence) Unregister(userID, connID string) {
	m.Called(userID, connID)
}

// Resolve moke resolve user connection
func (m *MockPresence) Resolve(userID string) (string, bool) {
	args := m.Called(userID)
	return args.String(0), args.Bool(1)
}

// OnlineUsers moke list online users
func (m *MockPresence) OnlineUsers() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// Create moke create notification
func (m *MockNotifier) Create(ctx context.Context, in ndomain.CreateNotification) (*ndomain.Notification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) != nil {
		return args.Get(0).(*ndomain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}
