package handlers

import (
	"errors"

	"perfume_shop_service/internal/chat/app"
	"perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/chat/repository"
	"perfume_shop_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler REST 私訊端點，與 websocket 讀寫同一個 durable store
type MessageHandler struct {
	uc       *app.MessageUseCase
	userRepo repository.UserRepository
}

// NewMessageHandler create MessageHandler
func NewMessageHandler(uc *app.MessageUseCase, userRepo repository.UserRepository) *MessageHandler {
	return &MessageHandler{uc: uc, userRepo: userRepo}
}

type sendMessageBody struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// Send 傳送私訊
// @Summary Send a direct message
// @Tags Messages
// @Accept json
// @Param payload body sendMessageBody true "receiver and content"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var body sendMessageBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}

	sender, err := h.userRepo.FindByID(c.Context(), userID)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "user not found")
	}

	msg, err := h.uc.Send(c.Context(), &domain.SocketUser{
		UserID:   sender.ID,
		Username: sender.Username,
		Email:    sender.Email,
		Role:     sender.Role,
		Avatar:   sender.Avatar,
	}, body.ReceiverID, body.Content)
	if err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusCreated, "Message sent", msg)
}

// GetConversations 對話列表
// @Summary List conversations with last message and unread count
// @Tags Messages
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/conversations [get]
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	conversations, err := h.uc.GetConversations(c.Context(), userID)
	if err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "", conversations)
}

// GetUnreadCount 未讀訊息總數
// @Summary Total unread message count
// @Tags Messages
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/unread-count [get]
func (h *MessageHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	count, err := h.uc.UnreadTotal(c.Context(), userID)
	if err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"count": count})
}

// GetHistory 歷史訊息分頁，結果與 websocket messages_history 一致
// @Summary Paginated message history with another user
// @Tags Messages
// @Param otherUserId path string true "other user id"
// @Param page query int false "page (default 1)"
// @Param limit query int false "limit (default 50)"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/{otherUserId} [get]
func (h *MessageHandler) GetHistory(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	otherUserID := c.Params("otherUserId")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	messages, hasMore, err := h.uc.GetHistory(c.Context(), userID, otherUserID, page, limit)
	if err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"messages": messages,
		"pagination": fiber.Map{
			"page":    page,
			"limit":   limit,
			"hasMore": hasMore,
		},
	})
}

// MarkRead 單則已讀
// @Summary Mark one message as read
// @Tags Messages
// @Param messageId path string true "message id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/messages/{messageId}/read [put]
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	messageID := c.Params("messageId")

	if err := h.uc.MarkRead(c.Context(), messageID, userID); err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "message marked as read", nil)
}

// MarkConversationRead 整個對話已讀
// @Summary Mark every unread message from another user as read
// @Tags Messages
// @Param otherUserId path string true "other user id"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/{otherUserId}/read-all [put]
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	otherUserID := c.Params("otherUserId")

	if err := h.uc.MarkConversationRead(c.Context(), userID, otherUserID); err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "conversation marked as read", nil)
}

// Delete 硬刪除單則訊息
// @Summary Delete one message
// @Tags Messages
// @Param messageId path string true "message id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/messages/{messageId} [delete]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	messageID := c.Params("messageId")

	if err := h.uc.Delete(c.Context(), messageID, userID); err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "message deleted", nil)
}

// DeleteConversation 硬刪除與某人之間的所有訊息
// @Summary Delete the whole conversation with another user
// @Tags Messages
// @Param otherUserId path string true "other user id"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/conversation/{otherUserId} [delete]
func (h *MessageHandler) DeleteConversation(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	otherUserID := c.Params("otherUserId")

	if err := h.uc.DeleteConversation(c.Context(), userID, otherUserID); err != nil {
		return messageError(c, err)
	}

	return success(c, fiber.StatusOK, "conversation deleted", nil)
}

// messageError usecase 錯誤對應到 REST 狀態碼
func messageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, app.ErrEmptyContent):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrMessageNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNotReceiver), errors.Is(err, app.ErrNotParticipant):
		return fail(c, fiber.StatusForbidden, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
}
