package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"expedientes_backend/internals/features/disposiciones/dto"
	"expedientes_backend/internals/features/disposiciones/model"
	docenteModel "expedientes_backend/internals/features/docentes/model"
	escuelaModel "expedientes_backend/internals/features/escuelas/model"
	helper "expedientes_backend/internals/helpers"
)

var validateDisposicion = validator.New()

type DisposicionController struct {
	DB *gorm.DB
}

func NewDisposicionController(db *gorm.DB) *DisposicionController {
	return &DisposicionController{DB: db}
}

// disposicionRow es la fila del listado con los nombres ya resueltos
type disposicionRow struct {
	ID            uint
	Numero        string
	FechaDispo    datatypes.Date
	Dispo         string
	DocenteID     *uint
	EscuelaID     *uint
	DocenteNombre *string
	EscuelaNombre *string
	Cargo         *string
	Motivo        *string
	Enlace        *string
	FechaCreacion time.Time
}

func rowToDTO(r disposicionRow) dto.DisposicionDTO {
	return dto.DisposicionDTO{
		ID:            r.ID,
		Numero:        r.Numero,
		FechaDispo:    dto.FormatFecha(r.FechaDispo),
		Dispo:         r.Dispo,
		DocenteID:     r.DocenteID,
		EscuelaID:     r.EscuelaID,
		DocenteNombre: r.DocenteNombre,
		EscuelaNombre: r.EscuelaNombre,
		Cargo:         r.Cargo,
		Motivo:        r.Motivo,
		Enlace:        r.Enlace,
		FechaCreacion: r.FechaCreacion,
	}
}

// baseQuery arma el SELECT con LEFT JOIN a docentes y escuelas.
// El nombre del docente se denormaliza como "Apellido, Nombre".
func (ctrl *DisposicionController) baseQuery() *gorm.DB {
	return ctrl.DB.Table("disposiciones").
		Select(`disposiciones.id, disposiciones.numero, disposiciones.fecha_dispo,
			disposiciones.dispo, disposiciones.docente_id, disposiciones.escuela_id,
			doc.apellido || ', ' || doc.nombre AS docente_nombre,
			esc.nombre AS escuela_nombre,
			disposiciones.cargo, disposiciones.motivo, disposiciones.enlace,
			disposiciones.fecha_creacion`).
		Joins("LEFT JOIN docentes doc ON doc.id = disposiciones.docente_id").
		Joins("LEFT JOIN escuelas esc ON esc.id = disposiciones.escuela_id")
}

// =============================
// GET /api/disposiciones (paginado + búsqueda)
// =============================
func (ctrl *DisposicionController) GetAllDisposiciones(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)

	query := ctrl.baseQuery()
	if p.Search != "" {
		like := "%" + p.Search + "%"
		query = query.Where(`
			LOWER(disposiciones.numero) LIKE LOWER(?)
			OR LOWER(disposiciones.dispo) LIKE LOWER(?)
			OR LOWER(disposiciones.cargo) LIKE LOWER(?)
			OR LOWER(disposiciones.motivo) LIKE LOWER(?)
			OR LOWER(doc.nombre) LIKE LOWER(?)
			OR LOWER(doc.apellido) LIKE LOWER(?)
			OR LOWER(esc.nombre) LIKE LOWER(?)`,
			like, like, like, like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener las disposiciones")
	}

	var rows []disposicionRow
	if err := query.Order("disposiciones.fecha_dispo DESC, disposiciones.id DESC").
		Limit(p.Limit).Offset(p.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener las disposiciones")
	}

	out := make([]dto.DisposicionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToDTO(r))
	}
	return helper.JsonList(c, out, helper.BuildPagination(total, p))
}

// =============================
// GET /api/disposiciones/:id
// =============================
func (ctrl *DisposicionController) GetDisposicionByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var row disposicionRow
	res := ctrl.baseQuery().Where("disposiciones.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Disposición no encontrada")
	}
	return c.JSON(rowToDTO(row))
}

// =============================
// GET /api/disposiciones/docente/:docenteId
// =============================
// Historial de disposiciones de un docente, más reciente primero.
func (ctrl *DisposicionController) GetDisposicionesByDocente(c *fiber.Ctx) error {
	docenteID := c.Params("docenteId")

	var docente docenteModel.DocenteModel
	if err := ctrl.DB.First(&docente, "id = ?", docenteID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
	}

	var rows []disposicionRow
	if err := ctrl.baseQuery().
		Where("disposiciones.docente_id = ?", docente.ID).
		Order("disposiciones.fecha_dispo DESC, disposiciones.id DESC").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener las disposiciones")
	}

	out := make([]dto.DisposicionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToDTO(r))
	}
	return c.JSON(out)
}

// =============================
// POST /api/disposiciones
// =============================
func (ctrl *DisposicionController) CreateDisposicion(c *fiber.Ctx) error {
	var body dto.CreateDisposicionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Numero == "" || body.Dispo == "" || body.FechaDispo == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Número, fecha y disposición son obligatorios")
	}
	if err := validateDisposicion.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fecha, err := dto.ParseFecha(body.FechaDispo)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	docenteID := body.ResolveDocenteID()
	escuelaID := body.ResolveEscuelaID()
	if err := ctrl.checkRefsExist(docenteID, escuelaID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al validar las referencias", err.Error())
	}

	disposicion := model.DisposicionModel{
		Numero:     body.Numero,
		FechaDispo: fecha,
		Dispo:      body.Dispo,
		DocenteID:  docenteID,
		EscuelaID:  escuelaID,
		Cargo:      dto.StrPtr(body.Cargo),
		Motivo:     dto.StrPtr(body.Motivo),
		Enlace:     dto.StrPtr(body.Enlace),
	}
	if err := ctrl.DB.Create(&disposicion).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al crear la disposición", err.Error())
	}

	return ctrl.respondWithDisposicion(c, fiber.StatusCreated, disposicion.ID)
}

// =============================
// PUT /api/disposiciones/:id
// =============================
func (ctrl *DisposicionController) UpdateDisposicion(c *fiber.Ctx) error {
	id := c.Params("id")

	var body dto.UpdateDisposicionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Numero == "" || body.Dispo == "" || body.FechaDispo == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Número, fecha y disposición son obligatorios")
	}
	if err := validateDisposicion.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fecha, err := dto.ParseFecha(body.FechaDispo)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var disposicion model.DisposicionModel
	if err := ctrl.DB.First(&disposicion, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Disposición no encontrada")
	}

	docenteID := body.ResolveDocenteID()
	escuelaID := body.ResolveEscuelaID()
	if err := ctrl.checkRefsExist(docenteID, escuelaID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al validar las referencias", err.Error())
	}

	disposicion.Numero = body.Numero
	disposicion.FechaDispo = fecha
	disposicion.Dispo = body.Dispo
	disposicion.DocenteID = docenteID
	disposicion.EscuelaID = escuelaID
	disposicion.Cargo = dto.StrPtr(body.Cargo)
	disposicion.Motivo = dto.StrPtr(body.Motivo)
	disposicion.Enlace = dto.StrPtr(body.Enlace)

	if err := ctrl.DB.Save(&disposicion).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al actualizar la disposición", err.Error())
	}
	return ctrl.respondWithDisposicion(c, fiber.StatusOK, disposicion.ID)
}

// =============================
// DELETE /api/disposiciones/:id
// =============================
func (ctrl *DisposicionController) DeleteDisposicion(c *fiber.Ctx) error {
	id := c.Params("id")

	var disposicion model.DisposicionModel
	if err := ctrl.DB.First(&disposicion, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Disposición no encontrada")
	}
	if err := ctrl.DB.Delete(&disposicion).Error; err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al eliminar la disposición", err.Error())
	}
	return helper.JsonMessage(c, "Disposición eliminada correctamente")
}

// =============================
// Internos
// =============================

func (ctrl *DisposicionController) respondWithDisposicion(c *fiber.Ctx, status int, id uint) error {
	var row disposicionRow
	res := ctrl.baseQuery().Where("disposiciones.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener la disposición")
	}
	return c.Status(status).JSON(rowToDTO(row))
}

func (ctrl *DisposicionController) checkRefsExist(docenteID, escuelaID *uint) error {
	if docenteID != nil {
		var count int64
		if err := ctrl.DB.Model(&docenteModel.DocenteModel{}).
			Where("id = ?", *docenteID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El docente indicado no existe")
		}
	}
	if escuelaID != nil {
		var count int64
		if err := ctrl.DB.Model(&escuelaModel.EscuelaModel{}).
			Where("id = ?", *escuelaID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La escuela indicada no existe")
		}
	}
	return nil
}
