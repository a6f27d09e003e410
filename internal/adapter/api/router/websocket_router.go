package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the realtime endpoint. Auth happens
// inside the handler (token query param on the handshake).
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
