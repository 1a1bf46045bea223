package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	disposicionModel "expedientes_backend/internals/features/disposiciones/model"
	"expedientes_backend/internals/features/escuelas/dto"
	"expedientes_backend/internals/features/escuelas/model"
	expedienteModel "expedientes_backend/internals/features/expedientes/model"
	helper "expedientes_backend/internals/helpers"
)

var validateEscuela = validator.New()

type EscuelaController struct {
	DB *gorm.DB
}

func NewEscuelaController(db *gorm.DB) *EscuelaController {
	return &EscuelaController{DB: db}
}

// =============================
// GET /api/escuelas
// =============================
// Devuelve el listado completo ordenado por nombre. El padrón de
// escuelas es acotado, no se pagina.
func (ctrl *EscuelaController) GetAllEscuelas(c *fiber.Ctx) error {
	var escuelas []model.EscuelaModel
	if err := ctrl.DB.Order("nombre").Find(&escuelas).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener las escuelas")
	}
	return c.JSON(dto.ToEscuelaDTOs(escuelas))
}

// =============================
// GET /api/escuelas/:id
// =============================
func (ctrl *EscuelaController) GetEscuelaByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var escuela model.EscuelaModel
	if err := ctrl.DB.First(&escuela, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Escuela no encontrada")
	}
	return c.JSON(dto.ToEscuelaDTO(escuela))
}

// =============================
// POST /api/escuelas
// =============================
func (ctrl *EscuelaController) CreateEscuela(c *fiber.Ctx) error {
	var body dto.CreateEscuelaRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Nombre == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "El nombre es obligatorio")
	}
	if err := validateEscuela.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	escuela := model.EscuelaModel{
		Nombre:    body.Nombre,
		Direccion: dto.StrPtr(body.Direccion),
		Telefono:  dto.StrPtr(body.Telefono),
		Email:     dto.StrPtr(body.Email),
		Director:  dto.StrPtr(body.Director),
		Nivel:     dto.StrPtr(body.Nivel),
		Tipo:      dto.StrPtr(body.Tipo),
		Codigo:    dto.StrPtr(body.Codigo),
	}
	if err := ctrl.DB.Create(&escuela).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al crear la escuela", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToEscuelaDTO(escuela))
}

// =============================
// PUT /api/escuelas/:id
// =============================
func (ctrl *EscuelaController) UpdateEscuela(c *fiber.Ctx) error {
	id := c.Params("id")

	var body dto.UpdateEscuelaRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Nombre == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "El nombre es obligatorio")
	}
	if err := validateEscuela.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var escuela model.EscuelaModel
	if err := ctrl.DB.First(&escuela, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Escuela no encontrada")
	}

	escuela.Nombre = body.Nombre
	escuela.Direccion = dto.StrPtr(body.Direccion)
	escuela.Telefono = dto.StrPtr(body.Telefono)
	escuela.Email = dto.StrPtr(body.Email)
	escuela.Director = dto.StrPtr(body.Director)
	escuela.Nivel = dto.StrPtr(body.Nivel)
	escuela.Tipo = dto.StrPtr(body.Tipo)
	escuela.Codigo = dto.StrPtr(body.Codigo)

	if err := ctrl.DB.Save(&escuela).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al actualizar la escuela", err.Error())
	}
	return c.JSON(dto.ToEscuelaDTO(escuela))
}

// =============================
// DELETE /api/escuelas/:id
// =============================
// Borra la escuela, elimina sus filas de vínculo con expedientes y
// desasocia (SET NULL) sus disposiciones, todo en una transacción.
func (ctrl *EscuelaController) DeleteEscuela(c *fiber.Ctx) error {
	id := c.Params("id")

	var escuela model.EscuelaModel
	if err := ctrl.DB.First(&escuela, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Escuela no encontrada")
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("escuela_id = ?", escuela.ID).
			Delete(&expedienteModel.ExpedienteEscuela{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&disposicionModel.DisposicionModel{}).
			Where("escuela_id = ?", escuela.ID).
			Update("escuela_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&expedienteModel.ExpedienteModel{}).
			Where("escuela_id = ?", escuela.ID).
			Update("escuela_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&escuela).Error
	})
	if err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al eliminar la escuela", err.Error())
	}

	return helper.JsonMessage(c, "Escuela eliminada correctamente")
}
