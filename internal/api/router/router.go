package router

import (
	"perfume_shop_service/internal/api/handlers"
	"perfume_shop_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 註冊 REST 路由
// @title Perfume Shop Chat Service API
// @version 1.0
// @description API documentation for Perfume Shop Chat Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(app *fiber.App, messageHandler *handlers.MessageHandler, notificationHandler *handlers.NotificationHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	api := app.Group("/api", middlewares.JWTMiddleware())

	// 固定路徑要先註冊，避免被 :otherUserId 之類的參數路由吃掉
	messageRoutes := api.Group("/messages")
	messageRoutes.Post("/", messageHandler.Send)
	messageRoutes.Get("/conversations", messageHandler.GetConversations)
	messageRoutes.Get("/unread-count", messageHandler.GetUnreadCount)
	messageRoutes.Delete("/conversation/:otherUserId", messageHandler.DeleteConversation)
	messageRoutes.Get("/:otherUserId", messageHandler.GetHistory)
	messageRoutes.Put("/:messageId/read", messageHandler.MarkRead)
	messageRoutes.Put("/:otherUserId/read-all", messageHandler.MarkConversationRead)
	messageRoutes.Delete("/:messageId", messageHandler.Delete)

	notificationRoutes := api.Group("/notifications")
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Get("/unread", notificationHandler.Unread)
	notificationRoutes.Get("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.Get("/type/:type", notificationHandler.ByType)
	notificationRoutes.Put("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.Delete("/read/all", notificationHandler.DeleteAllRead)
	notificationRoutes.Delete("/all", notificationHandler.DeleteAll)
	notificationRoutes.Get("/:id", notificationHandler.GetByID)
	notificationRoutes.Put("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.Delete("/:id", notificationHandler.Delete)
}
