package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	disposicionRoute "expedientes_backend/internals/features/disposiciones/route"
	docenteRoute "expedientes_backend/internals/features/docentes/route"
	escuelaRoute "expedientes_backend/internals/features/escuelas/route"
	expedienteRoute "expedientes_backend/internals/features/expedientes/route"
	authRoute "expedientes_backend/internals/features/users/auth/route"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

// SetupRoutes registra todas las rutas de la aplicación.
// /auth maneja su propia protección; todo /api exige token válido.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	authRoute.AuthRoutes(app, db)

	api := app.Group("/api", authMiddleware.AuthMiddleware(db))
	docenteRoute.DocenteRoutes(api, db)
	escuelaRoute.EscuelaRoutes(api, db)
	expedienteRoute.ExpedienteRoutes(api, db)
	disposicionRoute.DisposicionRoutes(api, db)
}
