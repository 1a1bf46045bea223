package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	"expedientes_backend/internals/features/expedientes/controller"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

func ExpedienteRoutes(api fiber.Router, db *gorm.DB) {
	expCtrl := controller.NewExpedienteController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("expedientes"), constants.RoleAdmin)

	expedientes := api.Group("/expedientes")
	expedientes.Get("/", expCtrl.GetAllExpedientes)
	expedientes.Get("/:id", expCtrl.GetExpedienteByID)
	expedientes.Post("/", adminOnly, expCtrl.CreateExpediente)
	expedientes.Put("/:id", adminOnly, expCtrl.UpdateExpediente)
	expedientes.Delete("/:id", adminOnly, expCtrl.DeleteExpediente)

	// Sub-recursos de asociación
	expedientes.Get("/:id/docentes", expCtrl.GetDocentesDeExpediente)
	expedientes.Post("/:id/docentes", adminOnly, expCtrl.AddDocenteToExpediente)
	expedientes.Delete("/:id/docentes/:docenteId", adminOnly, expCtrl.RemoveDocenteFromExpediente)
	expedientes.Get("/:id/escuelas", expCtrl.GetEscuelasDeExpediente)
	expedientes.Post("/:id/escuelas", adminOnly, expCtrl.AddEscuelaToExpediente)
	expedientes.Delete("/:id/escuelas/:escuelaId", adminOnly, expCtrl.RemoveEscuelaFromExpediente)
}
