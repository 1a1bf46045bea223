package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	"expedientes_backend/internals/features/disposiciones/controller"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

func DisposicionRoutes(api fiber.Router, db *gorm.DB) {
	dispoCtrl := controller.NewDisposicionController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("disposiciones"), constants.RoleAdmin)

	disposiciones := api.Group("/disposiciones")
	disposiciones.Get("/", dispoCtrl.GetAllDisposiciones)
	disposiciones.Get("/docente/:docenteId", dispoCtrl.GetDisposicionesByDocente)
	disposiciones.Get("/:id", dispoCtrl.GetDisposicionByID)
	disposiciones.Post("/", adminOnly, dispoCtrl.CreateDisposicion)
	disposiciones.Put("/:id", adminOnly, dispoCtrl.UpdateDisposicion)
	disposiciones.Delete("/:id", adminOnly, dispoCtrl.DeleteDisposicion)
}
