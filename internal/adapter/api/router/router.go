package router

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/adapter/api/handler"
)

// Setup wires the routes that need no dedicated router file.
func Setup(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
}
