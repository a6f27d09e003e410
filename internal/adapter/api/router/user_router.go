package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
	"solgigs/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	userGroup := e.Group("/v1/users")
	userGroup.Use(authMiddleware.Authenticate)

	userGroup.GET("/me", userHandler.GetMe)
	userGroup.PUT("/me", userHandler.UpdateProfile)
}
