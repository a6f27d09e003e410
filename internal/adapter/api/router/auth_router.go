package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler) {
	authGroup := e.Group("/v1/auth")

	authGroup.POST("/register", authHandler.Register)
}
