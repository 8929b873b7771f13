package router

import (
	"context"

	"perfume_shop_service/internal/chat/app"
	"perfume_shop_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 註冊 websocket 路由
// 握手必須帶 token，JWT 驗證失敗時 upgrade 直接被拒 (401)
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler) {
	r.Use("/ws", middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
