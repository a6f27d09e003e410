package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
	"solgigs/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.GetUserChats)                 // GET /v1/chats - list my chats
	chatGroup.GET("/:id", chatHandler.GetChatByID)              // GET /v1/chats/:id
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages) // GET /v1/chats/:id/messages - history
	chatGroup.PUT("/:id/read", chatHandler.MarkChatAsRead)      // PUT /v1/chats/:id/read
}
