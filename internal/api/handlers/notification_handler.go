package handlers

import (
	"errors"

	"perfume_shop_service/internal/notification/app"
	"perfume_shop_service/internal/notification/repository"
	"perfume_shop_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler REST 通知端點
type NotificationHandler struct {
	uc *app.NotificationUseCase
}

// NewNotificationHandler create NotificationHandler
func NewNotificationHandler(uc *app.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List 分頁取通知
// @Summary Paginated notification list with unread count
// @Tags Notifications
// @Param page query int false "page (default 1)"
// @Param limit query int false "limit (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	ns, unreadCount, total, hasMore, err := h.uc.List(c.Context(), userID, page, limit)
	if err != nil {
		return notificationError(c, err)
	}

	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"notifications": ns,
		"unreadCount":   unreadCount,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
			"hasMore":    hasMore,
		},
	})
}

// Unread 取所有未讀
// @Summary List unread notifications
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/unread [get]
func (h *NotificationHandler) Unread(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	ns, err := h.uc.Unread(c.Context(), userID)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "", ns)
}

// UnreadCount 未讀數
// @Summary Unread notification count
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	count, err := h.uc.UnreadCount(c.Context(), userID)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "", fiber.Map{"count": count})
}

// ByType 依類型分頁
// @Summary List notifications of one type
// @Tags Notifications
// @Param type path string true "notification type"
// @Param page query int false "page (default 1)"
// @Param limit query int false "limit (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/type/{type} [get]
func (h *NotificationHandler) ByType(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	notifType := c.Params("type")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	ns, total, err := h.uc.ListByType(c.Context(), userID, notifType, page, limit)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "", fiber.Map{
		"notifications": ns,
		"total":         total,
	})
}

// GetByID 取單則通知
// @Summary Get one notification
// @Tags Notifications
// @Param id path string true "notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/notifications/{id} [get]
func (h *NotificationHandler) GetByID(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	n, err := h.uc.GetByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "", n)
}

// MarkRead 單則已讀
// @Summary Mark one notification as read
// @Tags Notifications
// @Param id path string true "notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.uc.MarkRead(c.Context(), c.Params("id"), userID); err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "notification marked as read", nil)
}

// MarkAllRead 全部已讀
// @Summary Mark every notification as read
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.uc.MarkAllRead(c.Context(), userID); err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "all notifications marked as read", nil)
}

// Delete 刪除單則通知
// @Summary Delete one notification
// @Tags Notifications
// @Param id path string true "notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.uc.Delete(c.Context(), c.Params("id"), userID); err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "notification deleted", nil)
}

// DeleteAllRead 刪除已讀通知
// @Summary Delete every read notification
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/read/all [delete]
func (h *NotificationHandler) DeleteAllRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	deleted, err := h.uc.DeleteAllRead(c.Context(), userID)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "read notifications deleted", fiber.Map{"deleted": deleted})
}

// DeleteAll 刪除所有通知
// @Summary Delete every notification
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/all [delete]
func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	deleted, err := h.uc.DeleteAll(c.Context(), userID)
	if err != nil {
		return notificationError(c, err)
	}

	return success(c, fiber.StatusOK, "all notifications deleted", fiber.Map{"deleted": deleted})
}

func notificationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotificationNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNotOwner):
		return fail(c, fiber.StatusForbidden, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "internal error")
	}
}
