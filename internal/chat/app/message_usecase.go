package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/chat/repository"
	ndomain "perfume_shop_service/internal/notification/domain"
	"perfume_shop_service/pkg"
	"perfume_shop_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyContent 訊息內容不可為空
	ErrEmptyContent = errors.New("message content is empty")
	// ErrNotReceiver 只有收件者能標記已讀
	ErrNotReceiver = errors.New("only the receiver can mark this message")
	// ErrNotParticipant 非對話參與者
	ErrNotParticipant = errors.New("not a participant of this message")
)

// Notifier 建立通知的共用入口 (寫入 + 在線推送)
type Notifier interface {
	Create(ctx context.Context, in ndomain.CreateNotification) (*ndomain.Notification, error)
}

// MessageUseCase 負責私訊的傳送、讀取與已讀狀態
type MessageUseCase struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	pubsub   repository.PubSub
	presence PresenceRegistry
	notifier Notifier
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	msgRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	pubsub repository.PubSub,
	presence PresenceRegistry,
	notifier Notifier,
) *MessageUseCase {
	return &MessageUseCase{
		msgRepo:  msgRepo,
		userRepo: userRepo,
		pubsub:   pubsub,
		presence: presence,
		notifier: notifier,
	}
}

// Send 建立訊息並通知收件者
// 訊息與通知是兩筆獨立寫入，中間失敗不互相回滾
func (uc *MessageUseCase) Send(ctx context.Context, sender *domain.SocketUser, receiverID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	// 收件者必須存在
	if _, err := uc.userRepo.FindByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         uuid.New().String(),
		SenderID:   sender.UserID,
		ReceiverID: receiverID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now(),
	}
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	// 收件者在線就推送 new_message，不在線直接略過，由對方下次拉取補上
	if _, ok := uc.presence.Resolve(receiverID); ok {
		event := domain.WSEvent{Event: domain.EventNewMessage, Payload: msg}
		if err := uc.pubsub.Publish(ctx, domain.UserChannel(receiverID), event); err != nil {
			logger.Log.Error("new_message push err",
				zap.String("receiverID", receiverID), zap.Error(err))
		}
	}

	// 伴隨的 MESSAGE 通知 (通知的在線推送由 notifier 處理)
	_, err := uc.notifier.Create(ctx, ndomain.CreateNotification{
		UserID:  receiverID,
		Type:    ndomain.TypeMessage,
		Title:   "New message",
		Message: fmt.Sprintf("%s: %s", sender.Username, pkg.Truncate(content, 50)),
		Link:    "/messages/" + sender.UserID,
		Metadata: map[string]interface{}{
			"messageId": msg.ID,
			"senderId":  sender.UserID,
		},
	})
	if err != nil {
		// 訊息已落地，通知失敗只記錄
		logger.Log.Error("message notification err",
			zap.String("messageID", msg.ID), zap.Error(err))
	}

	return msg, nil
}

// GetHistory 取兩人訊息分頁
// 底層查詢由新到舊，page 1 永遠是最近的 limit 筆，回傳前反轉成由舊到新方便顯示
func (uc *MessageUseCase) GetHistory(ctx context.Context, userID, withUserID string, page, limit int) ([]domain.Message, bool, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	messages, err := uc.msgRepo.FindBetween(ctx, userID, withUserID, offset, limit)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) == limit

	// reverse desc → asc
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, hasMore, nil
}

// GetConversations 把使用者所有訊息依對話對象彙整
// 每組保留最新一則與未讀數，即時計算不落地
func (uc *MessageUseCase) GetConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	messages, err := uc.msgRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := []domain.Conversation{}
	seen := make(map[string]bool)

	// 訊息已按時間由新到舊，每個對象第一次出現的就是最新訊息
	for _, msg := range messages {
		otherUserID := msg.SenderID
		other := msg.Sender
		if msg.SenderID == userID {
			otherUserID = msg.ReceiverID
			other = msg.Receiver
		}
		if seen[otherUserID] {
			continue
		}
		seen[otherUserID] = true

		unreadCount, err := uc.msgRepo.CountUnreadFrom(ctx, otherUserID, userID)
		if err != nil {
			return nil, err
		}

		conv := domain.Conversation{
			LastMessage: msg,
			UnreadCount: unreadCount,
		}
		if other != nil {
			conv.User = *other
		} else {
			conv.User = domain.UserSummary{ID: otherUserID}
		}
		conversations = append(conversations, conv)
	}

	return conversations, nil
}

// MarkRead 單則已讀，只有收件者可以標，重複標記不報錯
func (uc *MessageUseCase) MarkRead(ctx context.Context, messageID, userID string) error {
	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ReceiverID != userID {
		return ErrNotReceiver
	}
	return uc.msgRepo.MarkRead(ctx, messageID)
}

// MarkConversationRead 批次已讀，並通知對方 messages_read_by
func (uc *MessageUseCase) MarkConversationRead(ctx context.Context, userID, withUserID string) error {
	if err := uc.msgRepo.MarkConversationRead(ctx, withUserID, userID); err != nil {
		return err
	}

	if _, ok := uc.presence.Resolve(withUserID); ok {
		event := domain.WSEvent{
			Event:   domain.EventMessagesReadBy,
			Payload: map[string]interface{}{"userId": userID},
		}
		if err := uc.pubsub.Publish(ctx, domain.UserChannel(withUserID), event); err != nil {
			logger.Log.Error("messages_read_by push err",
				zap.String("withUserID", withUserID), zap.Error(err))
		}
	}
	return nil
}

// Typing 轉送輸入中狀態，純轉發不落地，對方不在線直接丟棄
func (uc *MessageUseCase) Typing(ctx context.Context, userID, receiverID string, typing bool) {
	if _, ok := uc.presence.Resolve(receiverID); !ok {
		return
	}

	eventName := domain.EventUserTyping
	if !typing {
		eventName = domain.EventUserStoppedTyping
	}
	event := domain.WSEvent{
		Event:   eventName,
		Payload: map[string]interface{}{"userId": userID},
	}
	if err := uc.pubsub.Publish(ctx, domain.UserChannel(receiverID), event); err != nil {
		logger.Log.Error("typing push err", zap.String("receiverID", receiverID), zap.Error(err))
	}
}

// UnreadTotal 使用者未讀訊息總數
func (uc *MessageUseCase) UnreadTotal(ctx context.Context, userID string) (int64, error) {
	return uc.msgRepo.CountUnreadTotal(ctx, userID)
}

// Delete 硬刪除單則訊息，寄件者或收件者皆可
func (uc *MessageUseCase) Delete(ctx context.Context, messageID, userID string) error {
	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID && msg.ReceiverID != userID {
		return ErrNotParticipant
	}
	return uc.msgRepo.Delete(ctx, messageID)
}

// DeleteConversation 硬刪除兩人之間的所有訊息
func (uc *MessageUseCase) DeleteConversation(ctx context.Context, userID, otherUserID string) error {
	return uc.msgRepo.DeleteConversation(ctx, userID, otherUserID)
}
