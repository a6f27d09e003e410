package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
	"solgigs/internal/adapter/api/middleware"
)

func SetupGigRouter(e *echo.Echo, gigHandler *handler.GigHandler, authMiddleware *middleware.AuthMiddleware) {
	gigGroup := e.Group("/v1/gigs")

	gigGroup.GET("", gigHandler.ListGigs)
	gigGroup.GET("/:id", gigHandler.GetGig)
	gigGroup.POST("", gigHandler.CreateGig, authMiddleware.Authenticate)
}
