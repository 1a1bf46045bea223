package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "expedientes_backend/internals/middlewares/logger"
)

// SetupMiddlewares registra los middlewares base de la aplicación
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
