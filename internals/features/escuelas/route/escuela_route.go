package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/constants"
	"expedientes_backend/internals/features/escuelas/controller"
	authMiddleware "expedientes_backend/internals/middlewares/auth"
)

func EscuelaRoutes(api fiber.Router, db *gorm.DB) {
	escuelaCtrl := controller.NewEscuelaController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("escuelas"), constants.RoleAdmin)

	escuelas := api.Group("/escuelas")
	escuelas.Get("/", escuelaCtrl.GetAllEscuelas)
	escuelas.Get("/:id", escuelaCtrl.GetEscuelaByID)
	escuelas.Post("/", adminOnly, escuelaCtrl.CreateEscuela)
	escuelas.Put("/:id", adminOnly, escuelaCtrl.UpdateEscuela)
	escuelas.Delete("/:id", adminOnly, escuelaCtrl.DeleteEscuela)
}
