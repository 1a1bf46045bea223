package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"expedientes_backend/internals/features/docentes/dto"
	"expedientes_backend/internals/features/docentes/model"
	disposicionModel "expedientes_backend/internals/features/disposiciones/model"
	expedienteModel "expedientes_backend/internals/features/expedientes/model"
	helper "expedientes_backend/internals/helpers"
)

var validateDocente = validator.New()

type DocenteController struct {
	DB *gorm.DB
}

func NewDocenteController(db *gorm.DB) *DocenteController {
	return &DocenteController{DB: db}
}

// =============================
// GET /api/docentes (paginado + búsqueda)
// =============================
func (ctrl *DocenteController) GetAllDocentes(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)

	query := ctrl.DB.Model(&model.DocenteModel{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		query = query.Where(
			"LOWER(nombre) LIKE LOWER(?) OR LOWER(apellido) LIKE LOWER(?) OR LOWER(dni) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los docentes")
	}

	var docentes []model.DocenteModel
	if err := query.Order("apellido, nombre").
		Limit(p.Limit).Offset(p.Offset).
		Find(&docentes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los docentes")
	}

	return helper.JsonList(c, dto.ToDocenteDTOs(docentes), helper.BuildPagination(total, p))
}

// =============================
// GET /api/docentes/:id
// =============================
func (ctrl *DocenteController) GetDocenteByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var docente model.DocenteModel
	if err := ctrl.DB.First(&docente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
	}
	return c.JSON(dto.ToDocenteDTO(docente))
}

// =============================
// POST /api/docentes
// =============================
func (ctrl *DocenteController) CreateDocente(c *fiber.Ctx) error {
	var body dto.CreateDocenteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Nombre == "" || body.Apellido == "" || body.DNI == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nombre, apellido y DNI son obligatorios")
	}
	if err := validateDocente.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	docente := model.DocenteModel{
		Nombre:   body.Nombre,
		Apellido: body.Apellido,
		DNI:      body.DNI,
		Email:    dto.StrPtr(body.Email),
		Telefono: dto.StrPtr(body.Telefono),
	}
	if err := ctrl.DB.Create(&docente).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al crear el docente", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToDocenteDTO(docente))
}

// =============================
// PUT /api/docentes/:id
// =============================
func (ctrl *DocenteController) UpdateDocente(c *fiber.Ctx) error {
	id := c.Params("id")

	var body dto.UpdateDocenteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Nombre == "" || body.Apellido == "" || body.DNI == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nombre, apellido y DNI son obligatorios")
	}
	if err := validateDocente.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var docente model.DocenteModel
	if err := ctrl.DB.First(&docente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
	}

	docente.Nombre = body.Nombre
	docente.Apellido = body.Apellido
	docente.DNI = body.DNI
	docente.Email = dto.StrPtr(body.Email)
	docente.Telefono = dto.StrPtr(body.Telefono)

	if err := ctrl.DB.Save(&docente).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al actualizar el docente", err.Error())
	}
	return c.JSON(dto.ToDocenteDTO(docente))
}

// =============================
// DELETE /api/docentes/:id
// =============================
// Borra el docente, elimina sus filas de vínculo con expedientes y
// desasocia (SET NULL) sus disposiciones, todo en una transacción.
func (ctrl *DocenteController) DeleteDocente(c *fiber.Ctx) error {
	id := c.Params("id")

	var docente model.DocenteModel
	if err := ctrl.DB.First(&docente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("docente_id = ?", docente.ID).
			Delete(&expedienteModel.ExpedienteDocente{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&disposicionModel.DisposicionModel{}).
			Where("docente_id = ?", docente.ID).
			Update("docente_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&expedienteModel.ExpedienteModel{}).
			Where("docente_id = ?", docente.ID).
			Update("docente_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&docente).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
		}
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al eliminar el docente", err.Error())
	}

	return helper.JsonMessage(c, "Docente eliminado correctamente")
}
