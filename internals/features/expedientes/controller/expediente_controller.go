package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	docenteModel "expedientes_backend/internals/features/docentes/model"
	escuelaModel "expedientes_backend/internals/features/escuelas/model"
	"expedientes_backend/internals/features/expedientes/dto"
	"expedientes_backend/internals/features/expedientes/model"
	helper "expedientes_backend/internals/helpers"
)

var validateExpediente = validator.New()

type ExpedienteController struct {
	DB *gorm.DB
}

func NewExpedienteController(db *gorm.DB) *ExpedienteController {
	return &ExpedienteController{DB: db}
}

// =============================
// GET /api/expedientes (paginado + búsqueda)
// =============================
// La búsqueda cubre numero, asunto, estado y también los nombres de los
// docentes y escuelas vinculados vía subconsultas EXISTS.
func (ctrl *ExpedienteController) GetAllExpedientes(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c)

	query := ctrl.DB.Model(&model.ExpedienteModel{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		query = query.Where(`
			LOWER(numero) LIKE LOWER(?)
			OR LOWER(asunto) LIKE LOWER(?)
			OR LOWER(estado) LIKE LOWER(?)
			OR EXISTS (
				SELECT 1 FROM expedientes_docentes ed
				JOIN docentes d ON d.id = ed.docente_id
				WHERE ed.expediente_id = expedientes.id
				AND (LOWER(d.nombre) LIKE LOWER(?) OR LOWER(d.apellido) LIKE LOWER(?))
			)
			OR EXISTS (
				SELECT 1 FROM expedientes_escuelas ee
				JOIN escuelas e ON e.id = ee.escuela_id
				WHERE ee.expediente_id = expedientes.id
				AND LOWER(e.nombre) LIKE LOWER(?)
			)`,
			like, like, like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los expedientes")
	}

	var expedientes []model.ExpedienteModel
	if err := query.Order("fecha_recibido DESC, id DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&expedientes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los expedientes")
	}

	ids := make([]uint, 0, len(expedientes))
	for _, e := range expedientes {
		ids = append(ids, e.ID)
	}
	docentesPorExp, err := ctrl.loadDocenteRefs(ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los expedientes")
	}
	escuelasPorExp, err := ctrl.loadEscuelaRefs(ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los expedientes")
	}

	out := make([]dto.ExpedienteDTO, 0, len(expedientes))
	for _, e := range expedientes {
		out = append(out, dto.ToExpedienteDTO(e, docentesPorExp[e.ID], escuelasPorExp[e.ID]))
	}
	return helper.JsonList(c, out, helper.BuildPagination(total, p))
}

// =============================
// GET /api/expedientes/:id
// =============================
func (ctrl *ExpedienteController) GetExpedienteByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}

	docentesPorExp, err := ctrl.loadDocenteRefs([]uint{expediente.ID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener el expediente")
	}
	escuelasPorExp, err := ctrl.loadEscuelaRefs([]uint{expediente.ID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener el expediente")
	}

	return c.JSON(dto.ToExpedienteDTO(expediente, docentesPorExp[expediente.ID], escuelasPorExp[expediente.ID]))
}

// =============================
// POST /api/expedientes
// =============================
func (ctrl *ExpedienteController) CreateExpediente(c *fiber.Ctx) error {
	var body dto.CreateExpedienteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Numero == "" || body.Asunto == "" || body.FechaRecibido == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Número, asunto y fecha de recepción son obligatorios")
	}
	if err := validateExpediente.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fecha, err := dto.ParseFecha(body.FechaRecibido)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	docenteIDs := body.ResolveDocentes()
	escuelaIDs := body.ResolveEscuelas()
	if err := ctrl.checkDocentesExist(docenteIDs); err != nil {
		return refCheckError(c, err)
	}
	if err := ctrl.checkEscuelasExist(escuelaIDs); err != nil {
		return refCheckError(c, err)
	}

	estado := body.Estado
	if estado == "" {
		estado = "pendiente"
	}

	expediente := model.ExpedienteModel{
		Numero:        body.Numero,
		Asunto:        body.Asunto,
		FechaRecibido: fecha,
		Notificacion:  dto.StrPtr(body.Notificacion),
		Resolucion:    dto.StrPtr(body.Resolucion),
		Pase:          dto.StrPtr(body.Pase),
		Observaciones: dto.StrPtr(body.Observaciones),
		Estado:        estado,
		DocenteID:     firstID(docenteIDs),
		EscuelaID:     firstID(escuelaIDs),
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expediente).Error; err != nil {
			return err
		}
		if err := insertDocenteLinks(tx, expediente.ID, docenteIDs); err != nil {
			return err
		}
		return insertEscuelaLinks(tx, expediente.ID, escuelaIDs)
	})
	if err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al crear el expediente", err.Error())
	}

	return ctrl.respondWithExpediente(c, fiber.StatusCreated, expediente.ID)
}

// =============================
// PUT /api/expedientes/:id
// =============================
// Las asociaciones se reconcilian reemplazando el conjunto completo:
// se borran las filas de vínculo y se insertan las nuevas dentro de la
// misma transacción que actualiza el expediente.
func (ctrl *ExpedienteController) UpdateExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var body dto.UpdateExpedienteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de petición inválido")
	}
	body.Trim()
	if body.Numero == "" || body.Asunto == "" || body.FechaRecibido == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Número, asunto y fecha de recepción son obligatorios")
	}
	if err := validateExpediente.Struct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fecha, err := dto.ParseFecha(body.FechaRecibido)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}

	docenteIDs, replaceDocentes := body.ResolveDocentes()
	escuelaIDs, replaceEscuelas := body.ResolveEscuelas()
	if replaceDocentes {
		if err := ctrl.checkDocentesExist(docenteIDs); err != nil {
			return refCheckError(c, err)
		}
	}
	if replaceEscuelas {
		if err := ctrl.checkEscuelasExist(escuelaIDs); err != nil {
			return refCheckError(c, err)
		}
	}

	expediente.Numero = body.Numero
	expediente.Asunto = body.Asunto
	expediente.FechaRecibido = fecha
	expediente.Notificacion = dto.StrPtr(body.Notificacion)
	expediente.Resolucion = dto.StrPtr(body.Resolucion)
	expediente.Pase = dto.StrPtr(body.Pase)
	expediente.Observaciones = dto.StrPtr(body.Observaciones)
	if body.Estado != "" {
		expediente.Estado = body.Estado
	}
	if replaceDocentes {
		expediente.DocenteID = firstID(docenteIDs)
	}
	if replaceEscuelas {
		expediente.EscuelaID = firstID(escuelaIDs)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&expediente).Error; err != nil {
			return err
		}
		if replaceDocentes {
			if err := tx.Where("expediente_id = ?", expediente.ID).
				Delete(&model.ExpedienteDocente{}).Error; err != nil {
				return err
			}
			if err := insertDocenteLinks(tx, expediente.ID, docenteIDs); err != nil {
				return err
			}
		}
		if replaceEscuelas {
			if err := tx.Where("expediente_id = ?", expediente.ID).
				Delete(&model.ExpedienteEscuela{}).Error; err != nil {
				return err
			}
			if err := insertEscuelaLinks(tx, expediente.ID, escuelaIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al actualizar el expediente", err.Error())
	}

	return ctrl.respondWithExpediente(c, fiber.StatusOK, expediente.ID)
}

// =============================
// DELETE /api/expedientes/:id
// =============================
func (ctrl *ExpedienteController) DeleteExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expediente_id = ?", expediente.ID).
			Delete(&model.ExpedienteDocente{}).Error; err != nil {
			return err
		}
		if err := tx.Where("expediente_id = ?", expediente.ID).
			Delete(&model.ExpedienteEscuela{}).Error; err != nil {
			return err
		}
		return tx.Delete(&expediente).Error
	})
	if err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al eliminar el expediente", err.Error())
	}

	return helper.JsonMessage(c, "Expediente eliminado correctamente")
}

// =============================
// Sub-recursos de asociación
// =============================

// GET /api/expedientes/:id/docentes
func (ctrl *ExpedienteController) GetDocentesDeExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}

	refs, err := ctrl.loadDocenteRefs([]uint{expediente.ID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener los docentes del expediente")
	}
	out := refs[expediente.ID]
	if out == nil {
		out = []dto.DocenteRefDTO{}
	}
	return c.JSON(out)
}

// POST /api/expedientes/:id/docentes  body: {"docenteId": N}
func (ctrl *ExpedienteController) AddDocenteToExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		DocenteID uint `json:"docenteId"`
	}
	if err := c.BodyParser(&body); err != nil || body.DocenteID == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "docenteId es obligatorio")
	}

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}
	if err := ctrl.checkDocentesExist([]uint{body.DocenteID}); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fiber.StatusNotFound, "Docente no encontrado")
		}
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al vincular el docente", err.Error())
	}

	if err := insertDocenteLinks(ctrl.DB, expediente.ID, []uint{body.DocenteID}); err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al vincular el docente", err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// DELETE /api/expedientes/:id/docentes/:docenteId
func (ctrl *ExpedienteController) RemoveDocenteFromExpediente(c *fiber.Ctx) error {
	id := c.Params("id")
	docenteID := c.Params("docenteId")

	res := ctrl.DB.Where("expediente_id = ? AND docente_id = ?", id, docenteID).
		Delete(&model.ExpedienteDocente{})
	if res.Error != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al desvincular el docente", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Vínculo no encontrado")
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/expedientes/:id/escuelas
func (ctrl *ExpedienteController) GetEscuelasDeExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}

	refs, err := ctrl.loadEscuelaRefs([]uint{expediente.ID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener las escuelas del expediente")
	}
	out := refs[expediente.ID]
	if out == nil {
		out = []dto.EscuelaRefDTO{}
	}
	return c.JSON(out)
}

// POST /api/expedientes/:id/escuelas  body: {"escuelaId": N}
func (ctrl *ExpedienteController) AddEscuelaToExpediente(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		EscuelaID uint `json:"escuelaId"`
	}
	if err := c.BodyParser(&body); err != nil || body.EscuelaID == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "escuelaId es obligatorio")
	}

	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Expediente no encontrado")
	}
	if err := ctrl.checkEscuelasExist([]uint{body.EscuelaID}); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fiber.StatusNotFound, "Escuela no encontrada")
		}
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al vincular la escuela", err.Error())
	}

	if err := insertEscuelaLinks(ctrl.DB, expediente.ID, []uint{body.EscuelaID}); err != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al vincular la escuela", err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// DELETE /api/expedientes/:id/escuelas/:escuelaId
func (ctrl *ExpedienteController) RemoveEscuelaFromExpediente(c *fiber.Ctx) error {
	id := c.Params("id")
	escuelaID := c.Params("escuelaId")

	res := ctrl.DB.Where("expediente_id = ? AND escuela_id = ?", id, escuelaID).
		Delete(&model.ExpedienteEscuela{})
	if res.Error != nil {
		return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al desvincular la escuela", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Vínculo no encontrado")
	}
	return c.JSON(fiber.Map{"success": true})
}

// =============================
// Internos
// =============================

func (ctrl *ExpedienteController) respondWithExpediente(c *fiber.Ctx, status int, id uint) error {
	var expediente model.ExpedienteModel
	if err := ctrl.DB.First(&expediente, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener el expediente")
	}
	docentesPorExp, err := ctrl.loadDocenteRefs([]uint{id})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener el expediente")
	}
	escuelasPorExp, err := ctrl.loadEscuelaRefs([]uint{id})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al obtener el expediente")
	}
	return c.Status(status).JSON(dto.ToExpedienteDTO(expediente, docentesPorExp[id], escuelasPorExp[id]))
}

type docenteRefRow struct {
	ExpedienteID uint
	ID           uint
	Nombre       string
	Apellido     string
}

func (ctrl *ExpedienteController) loadDocenteRefs(expedienteIDs []uint) (map[uint][]dto.DocenteRefDTO, error) {
	out := make(map[uint][]dto.DocenteRefDTO, len(expedienteIDs))
	if len(expedienteIDs) == 0 {
		return out, nil
	}
	var rows []docenteRefRow
	err := ctrl.DB.Table("expedientes_docentes").
		Select("expedientes_docentes.expediente_id, docentes.id, docentes.nombre, docentes.apellido").
		Joins("JOIN docentes ON docentes.id = expedientes_docentes.docente_id").
		Where("expedientes_docentes.expediente_id IN ?", expedienteIDs).
		Order("docentes.apellido, docentes.nombre").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ExpedienteID] = append(out[r.ExpedienteID], dto.DocenteRefDTO{
			ID:       r.ID,
			Nombre:   r.Nombre,
			Apellido: r.Apellido,
		})
	}
	return out, nil
}

type escuelaRefRow struct {
	ExpedienteID uint
	ID           uint
	Nombre       string
}

func (ctrl *ExpedienteController) loadEscuelaRefs(expedienteIDs []uint) (map[uint][]dto.EscuelaRefDTO, error) {
	out := make(map[uint][]dto.EscuelaRefDTO, len(expedienteIDs))
	if len(expedienteIDs) == 0 {
		return out, nil
	}
	var rows []escuelaRefRow
	err := ctrl.DB.Table("expedientes_escuelas").
		Select("expedientes_escuelas.expediente_id, escuelas.id, escuelas.nombre").
		Joins("JOIN escuelas ON escuelas.id = expedientes_escuelas.escuela_id").
		Where("expedientes_escuelas.expediente_id IN ?", expedienteIDs).
		Order("escuelas.nombre").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ExpedienteID] = append(out[r.ExpedienteID], dto.EscuelaRefDTO{
			ID:     r.ID,
			Nombre: r.Nombre,
		})
	}
	return out, nil
}

// refCheckError separa el rechazo de validación (IDs desconocidos) de
// una falla real de persistencia durante la verificación.
func refCheckError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonErrorDetail(c, fiber.StatusInternalServerError, "Error al validar las referencias", err.Error())
}

func (ctrl *ExpedienteController) checkDocentesExist(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := ctrl.DB.Model(&docenteModel.DocenteModel{}).
		Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fiber.NewError(fiber.StatusBadRequest, "Uno o más docentes no existen")
	}
	return nil
}

func (ctrl *ExpedienteController) checkEscuelasExist(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := ctrl.DB.Model(&escuelaModel.EscuelaModel{}).
		Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fiber.NewError(fiber.StatusBadRequest, "Una o más escuelas no existen")
	}
	return nil
}

// insertDocenteLinks inserta las filas de vínculo ignorando duplicados
func insertDocenteLinks(db *gorm.DB, expedienteID uint, docenteIDs []uint) error {
	if len(docenteIDs) == 0 {
		return nil
	}
	links := make([]model.ExpedienteDocente, 0, len(docenteIDs))
	for _, did := range docenteIDs {
		links = append(links, model.ExpedienteDocente{ExpedienteID: expedienteID, DocenteID: did})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func insertEscuelaLinks(db *gorm.DB, expedienteID uint, escuelaIDs []uint) error {
	if len(escuelaIDs) == 0 {
		return nil
	}
	links := make([]model.ExpedienteEscuela, 0, len(escuelaIDs))
	for _, eid := range escuelaIDs {
		links = append(links, model.ExpedienteEscuela{ExpedienteID: expedienteID, EscuelaID: eid})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func firstID(ids []uint) *uint {
	if len(ids) == 0 {
		return nil
	}
	id := ids[0]
	return &id
}
