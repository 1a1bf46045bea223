// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	"expedientes_backend/internals/features/users/auth/service"
	"expedientes_backend/internals/middlewares"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	auth := app.Group("/auth")

	// Públicas
	auth.Post("/login", middlewares.LoginRateLimiter(), func(c *fiber.Ctx) error {
		return service.Login(db, c)
	})
	auth.Post("/register", middlewares.RegisterRateLimiter(), func(c *fiber.Ctx) error {
		return service.Register(db, c)
	})

	// Protegidas
	protected := auth.Group("", authMiddleware.AuthMiddleware(db))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return service.GetProfile(db, c)
	})
	protected.Get("/verify", func(c *fiber.Ctx) error {
		return service.VerifyToken(db, c)
	})
	protected.Post("/logout", func(c *fiber.Ctx) error {
		return service.Logout(db, c)
	})

	// Solo admin
	protected.Get("/users",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("usuarios"), constants.RoleAdmin),
		func(c *fiber.Ctx) error {
			return service.GetAllUsers(db, c)
		})
}
