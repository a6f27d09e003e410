package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
	"solgigs/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	fileGroup := e.Group("/v1/files")
	fileGroup.Use(authMiddleware.Authenticate)

	fileGroup.POST("", fileHandler.UploadAttachment)
}
