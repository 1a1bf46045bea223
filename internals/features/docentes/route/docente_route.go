package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	"expedientes_backend/internals/features/docentes/controller"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

func DocenteRoutes(api fiber.Router, db *gorm.DB) {
	docenteCtrl := controller.NewDocenteController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("docentes"), constants.RoleAdmin)

	docentes := api.Group("/docentes")
	docentes.Get("/", docenteCtrl.GetAllDocentes)
	docentes.Get("/:id", docenteCtrl.GetDocenteByID)
	docentes.Post("/", adminOnly, docenteCtrl.CreateDocente)
	docentes.Put("/:id", adminOnly, docenteCtrl.UpdateDocente)
	docentes.Delete("/:id", adminOnly, docenteCtrl.DeleteDocente)
}
