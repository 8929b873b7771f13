package app

import (
	"context"
	"os"
	"testing"
	"time"

	"perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/chat/repository"
	ndomain "perfume_shop_service/internal/notification/domain"

	"perfume_shop_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// 測試 MessageUseCase.Send 收件者在線
func TestMessageUseCase_Send(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New().String()
	receiverID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	mockPubSub := new(MockRedisPubSub)
	mockPresence := new(MockPresence)
	mockNotifier := new(MockNotifier)

	mockUserRepo.On("FindByID", ctx, receiverID).Return(&domain.User{ID: receiverID, Username: "bob"}, nil)
	mockMsgRepo.On("Create", ctx, mock.Anything).Return(nil)

	// 收件者在線，new_message 推到個人 channel
	mockPresence.On("Resolve", receiverID).Return(uuid.New().String(), true)
	mockPubSub.On("Publish", ctx, domain.UserChannel(receiverID), mock.Anything).Return(nil)

	mockNotifier.On("Create", ctx, mock.MatchedBy(func(in ndomain.CreateNotification) bool {
		return in.UserID == receiverID &&
			in.Type == ndomain.TypeMessage &&
			in.Title == "New message" &&
			in.Message == "alice: Hello!" &&
			in.Link == "/messages/"+senderID
	})).Return(&ndomain.Notification{}, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockUserRepo, mockPubSub, mockPresence, mockNotifier)
	msg, err := uc.Send(ctx, &domain.SocketUser{UserID: senderID, Username: "alice"}, receiverID, "Hello!")

	assert.NoError(t, err)
	assert.Equal(t, senderID, msg.SenderID)
	assert.Equal(t, receiverID, msg.ReceiverID)
	assert.False(t, msg.Read)

	mockMsgRepo.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

// 測試 Send 空白內容直接擋下
func TestMessageUseCase_Send_EmptyContent(t *testing.T) {
	ctx := context.Background()

	uc := NewMessageUseCase(new(MockMessageRepository), new(MockUserRepository),
		new(MockRedisPubSub), new(MockPresence), new(MockNotifier))

	_, err := uc.Send(ctx, &domain.SocketUser{UserID: "u1"}, "u2", "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

// 測試 Send 收件者不存在
func TestMessageUseCase_Send_ReceiverNotFound(t *testing.T) {
	ctx := context.Background()
	receiverID := uuid.New().String()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByID", ctx, receiverID).Return(nil, repository.ErrUserNotFound)

	uc := NewMessageUseCase(new(MockMessageRepository), mockUserRepo,
		new(MockRedisPubSub), new(MockPresence), new(MockNotifier))

	_, err := uc.Send(ctx, &domain.SocketUser{UserID: "u1"}, receiverID, "hi")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

// 測試 Send 收件者離線，訊息照常落地，不推送 new_message 但通知仍然建立
func TestMessageUseCase_Send_ReceiverOffline(t *testing.T) {
	ctx := context.Background()
	receiverID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockUserRepo := new(MockUserRepository)
	mockPubSub := new(MockRedisPubSub)
	mockPresence := new(MockPresence)
	mockNotifier := new(MockNotifier)

	mockUserRepo.On("FindByID", ctx, receiverID).Return(&domain.User{ID: receiverID}, nil)
	mockMsgRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockPresence.On("Resolve", receiverID).Return("", false)
	mockNotifier.On("Create", ctx, mock.Anything).Return(&ndomain.Notification{}, nil)

	uc := NewMessageUseCase(mockMsgRepo, mockUserRepo, mockPubSub, mockPresence, mockNotifier)
	msg, err := uc.Send(ctx, &domain.SocketUser{UserID: "u1", Username: "alice"}, receiverID, "hi")

	assert.NoError(t, err)
	assert.NotNil(t, msg)

	mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	mockNotifier.AssertExpectations(t)
}

// 測試 GetHistory 分頁與反轉
func TestMessageUseCase_GetHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()
	otherID := uuid.New().String()
	now := time.Now()

	// repo 回傳由新到舊
	desc := []domain.Message{
		{ID: "m3", CreatedAt: now},
		{ID: "m2", CreatedAt: now.Add(-time.Minute)},
		{ID: "m1", CreatedAt: now.Add(-2 * time.Minute)},
	}

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindBetween", ctx, userID, otherID, 0, 3).Return(desc, nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}
	messages, hasMore, err := uc.GetHistory(ctx, userID, otherID, 1, 3)

	assert.NoError(t, err)
	// 滿頁表示可能還有更舊的
	assert.True(t, hasMore)
	// 回傳由舊到新
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m3", messages[2].ID)
}

// 測試 GetHistory 不足一頁
func TestMessageUseCase_GetHistory_LastPage(t *testing.T) {
	ctx := context.Background()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindBetween", ctx, "a", "b", 50, 50).
		Return([]domain.Message{{ID: "m1"}}, nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}
	messages, hasMore, err := uc.GetHistory(ctx, "a", "b", 2, 50)

	assert.NoError(t, err)
	assert.False(t, hasMore)
	assert.Len(t, messages, 1)
}

// 測試 GetConversations 依對象彙整，保留最新一則與未讀數
func TestMessageUseCase_GetConversations(t *testing.T) {
	ctx := context.Background()
	userID := "me"
	now := time.Now()

	messages := []domain.Message{
		{ID: "m3", SenderID: "alice", ReceiverID: userID, CreatedAt: now,
			Sender: &domain.UserSummary{ID: "alice", Username: "alice"}},
		{ID: "m2", SenderID: userID, ReceiverID: "bob", CreatedAt: now.Add(-time.Minute),
			Receiver: &domain.UserSummary{ID: "bob", Username: "bob"}},
		{ID: "m1", SenderID: "alice", ReceiverID: userID, CreatedAt: now.Add(-2 * time.Minute),
			Sender: &domain.UserSummary{ID: "alice", Username: "alice"}},
	}

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindAllForUser", ctx, userID).Return(messages, nil)
	mockMsgRepo.On("CountUnreadFrom", ctx, "alice", userID).Return(int64(2), nil)
	mockMsgRepo.On("CountUnreadFrom", ctx, "bob", userID).Return(int64(0), nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}
	conversations, err := uc.GetConversations(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, conversations, 2)

	// alice 的最新訊息是 m3
	assert.Equal(t, "alice", conversations[0].User.ID)
	assert.Equal(t, "m3", conversations[0].LastMessage.ID)
	assert.Equal(t, int64(2), conversations[0].UnreadCount)

	assert.Equal(t, "bob", conversations[1].User.ID)
	assert.Equal(t, int64(0), conversations[1].UnreadCount)
}

// 測試 MarkRead 只有收件者能標
func TestMessageUseCase_MarkRead(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: "alice", ReceiverID: "bob"}, nil)
	mockMsgRepo.On("MarkRead", ctx, messageID).Return(nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}

	assert.NoError(t, uc.MarkRead(ctx, messageID, "bob"))
	assert.ErrorIs(t, uc.MarkRead(ctx, messageID, "alice"), ErrNotReceiver)
}

// 測試已讀訊息重複標記不報錯
func TestMessageUseCase_MarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: "alice", ReceiverID: "bob", Read: true}, nil)
	mockMsgRepo.On("MarkRead", ctx, messageID).Return(nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}

	assert.NoError(t, uc.MarkRead(ctx, messageID, "bob"))
	assert.NoError(t, uc.MarkRead(ctx, messageID, "bob"))
}

// 測試 MarkConversationRead 對方在線收到 messages_read_by
func TestMessageUseCase_MarkConversationRead(t *testing.T) {
	ctx := context.Background()

	mockMsgRepo := new(MockMessageRepository)
	mockPubSub := new(MockRedisPubSub)
	mockPresence := new(MockPresence)

	mockMsgRepo.On("MarkConversationRead", ctx, "alice", "me").Return(nil)
	mockPresence.On("Resolve", "alice").Return("conn-1", true)
	mockPubSub.On("Publish", ctx, domain.UserChannel("alice"), mock.MatchedBy(func(e domain.WSEvent) bool {
		return e.Event == domain.EventMessagesReadBy
	})).Return(nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo, pubsub: mockPubSub, presence: mockPresence}

	assert.NoError(t, uc.MarkConversationRead(ctx, "me", "alice"))
	mockPubSub.AssertExpectations(t)
}

// 測試 Typing 對方離線直接丟棄
func TestMessageUseCase_Typing_Offline(t *testing.T) {
	ctx := context.Background()

	mockPubSub := new(MockRedisPubSub)
	mockPresence := new(MockPresence)
	mockPresence.On("Resolve", "bob").Return("", false)

	uc := &MessageUseCase{pubsub: mockPubSub, presence: mockPresence}
	uc.Typing(ctx, "alice", "bob", true)

	mockPubSub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// 測試 Delete 非參與者不可刪
func TestMessageUseCase_Delete_NotParticipant(t *testing.T) {
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("FindByID", ctx, messageID).
		Return(&domain.Message{ID: messageID, SenderID: "alice", ReceiverID: "bob"}, nil)

	uc := &MessageUseCase{msgRepo: mockMsgRepo}
	assert.ErrorIs(t, uc.Delete(ctx, messageID, "carol"), ErrNotParticipant)
}
