package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
	"solgigs/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	orderGroup := e.Group("/v1/orders")
	orderGroup.Use(authMiddleware.Authenticate)

	orderGroup.POST("", orderHandler.CreateOrder)
	orderGroup.GET("", orderHandler.ListOrders)
	orderGroup.GET("/:id", orderHandler.GetOrder)
}
