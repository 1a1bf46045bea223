package dto

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"expedientes_backend/internals/features/expedientes/model"
)

const dateLayout = "2006-01-02"

// ============================
// Request DTO
// ============================

// CreateExpedienteRequest acepta las asociaciones como arreglos de IDs
// (docentes, escuelas) y también los campos singulares heredados
// (docente_id, escuela_id) que usan los clientes viejos.
type CreateExpedienteRequest struct {
	Numero        string `json:"numero" validate:"required,max=50"`
	Asunto        string `json:"asunto" validate:"required,max=255"`
	FechaRecibido string `json:"fecha_recibido" validate:"required"`
	Notificacion  string `json:"notificacion" validate:"omitempty,max=255"`
	Resolucion    string `json:"resolucion" validate:"omitempty,max=255"`
	Pase          string `json:"pase" validate:"omitempty,max=255"`
	Observaciones string `json:"observaciones"`
	Estado        string `json:"estado" validate:"omitempty,oneof=pendiente en_tramite resuelto archivado"`
	Docentes      []uint `json:"docentes"`
	Escuelas      []uint `json:"escuelas"`
	DocenteID     *uint  `json:"docente_id"`
	EscuelaID     *uint  `json:"escuela_id"`
}

// UpdateExpedienteRequest distingue arreglo ausente (conservar
// asociaciones) de arreglo vacío (quitarlas todas) con punteros.
type UpdateExpedienteRequest struct {
	Numero        string  `json:"numero" validate:"required,max=50"`
	Asunto        string  `json:"asunto" validate:"required,max=255"`
	FechaRecibido string  `json:"fecha_recibido" validate:"required"`
	Notificacion  string  `json:"notificacion" validate:"omitempty,max=255"`
	Resolucion    string  `json:"resolucion" validate:"omitempty,max=255"`
	Pase          string  `json:"pase" validate:"omitempty,max=255"`
	Observaciones string  `json:"observaciones"`
	Estado        string  `json:"estado" validate:"omitempty,oneof=pendiente en_tramite resuelto archivado"`
	Docentes      *[]uint `json:"docentes"`
	Escuelas      *[]uint `json:"escuelas"`
	DocenteID     *uint   `json:"docente_id"`
	EscuelaID     *uint   `json:"escuela_id"`
}

func (r *CreateExpedienteRequest) Trim() {
	r.Numero = strings.TrimSpace(r.Numero)
	r.Asunto = strings.TrimSpace(r.Asunto)
	r.FechaRecibido = strings.TrimSpace(r.FechaRecibido)
	r.Notificacion = strings.TrimSpace(r.Notificacion)
	r.Resolucion = strings.TrimSpace(r.Resolucion)
	r.Pase = strings.TrimSpace(r.Pase)
	r.Observaciones = strings.TrimSpace(r.Observaciones)
	r.Estado = strings.TrimSpace(r.Estado)
}

func (r *UpdateExpedienteRequest) Trim() {
	r.Numero = strings.TrimSpace(r.Numero)
	r.Asunto = strings.TrimSpace(r.Asunto)
	r.FechaRecibido = strings.TrimSpace(r.FechaRecibido)
	r.Notificacion = strings.TrimSpace(r.Notificacion)
	r.Resolucion = strings.TrimSpace(r.Resolucion)
	r.Pase = strings.TrimSpace(r.Pase)
	r.Observaciones = strings.TrimSpace(r.Observaciones)
	r.Estado = strings.TrimSpace(r.Estado)
}

// ResolveDocentes colapsa arreglo + singular heredado en una lista
// normalizada. El arreglo manda; el singular solo cuenta si no vino
// arreglo.
func (r *CreateExpedienteRequest) ResolveDocentes() []uint {
	if len(r.Docentes) > 0 {
		return NormalizeIDs(r.Docentes)
	}
	if r.DocenteID != nil && *r.DocenteID != 0 {
		return []uint{*r.DocenteID}
	}
	return nil
}

func (r *CreateExpedienteRequest) ResolveEscuelas() []uint {
	if len(r.Escuelas) > 0 {
		return NormalizeIDs(r.Escuelas)
	}
	if r.EscuelaID != nil && *r.EscuelaID != 0 {
		return []uint{*r.EscuelaID}
	}
	return nil
}

// ResolveDocentes devuelve (ids, true) si la petición trae intención de
// reemplazar las asociaciones, o (nil, false) si hay que conservarlas.
func (r *UpdateExpedienteRequest) ResolveDocentes() ([]uint, bool) {
	if r.Docentes != nil {
		return NormalizeIDs(*r.Docentes), true
	}
	if r.DocenteID != nil {
		if *r.DocenteID == 0 {
			return nil, true
		}
		return []uint{*r.DocenteID}, true
	}
	return nil, false
}

func (r *UpdateExpedienteRequest) ResolveEscuelas() ([]uint, bool) {
	if r.Escuelas != nil {
		return NormalizeIDs(*r.Escuelas), true
	}
	if r.EscuelaID != nil {
		if *r.EscuelaID == 0 {
			return nil, true
		}
		return []uint{*r.EscuelaID}, true
	}
	return nil, false
}

// NormalizeIDs descarta ceros y duplicados preservando el orden
func NormalizeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ParseFecha valida el formato AAAA-MM-DD
func ParseFecha(s string) (datatypes.Date, error) {
	if s == "" {
		return datatypes.Date(time.Time{}), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date(time.Time{}), fmt.Errorf("fecha inválida %q, se espera AAAA-MM-DD", s)
	}
	return datatypes.Date(t), nil
}

// FormatFecha devuelve "" para la fecha cero
func FormatFecha(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// ============================
// Response DTO
// ============================

type DocenteRefDTO struct {
	ID       uint   `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

type EscuelaRefDTO struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
}

type ExpedienteDTO struct {
	ID            uint            `json:"id"`
	Numero        string          `json:"numero"`
	Asunto        string          `json:"asunto"`
	FechaRecibido string          `json:"fecha_recibido"`
	Notificacion  *string         `json:"notificacion"`
	Resolucion    *string         `json:"resolucion"`
	Pase          *string         `json:"pase"`
	Observaciones *string         `json:"observaciones"`
	Estado        string          `json:"estado"`
	DocenteID     *uint           `json:"docente_id"`
	EscuelaID     *uint           `json:"escuela_id"`
	Docentes      []DocenteRefDTO `json:"docentes"`
	Escuelas      []EscuelaRefDTO `json:"escuelas"`
	FechaCreacion time.Time       `json:"fecha_creacion"`
}

func ToExpedienteDTO(m model.ExpedienteModel, docentes []DocenteRefDTO, escuelas []EscuelaRefDTO) ExpedienteDTO {
	if docentes == nil {
		docentes = []DocenteRefDTO{}
	}
	if escuelas == nil {
		escuelas = []EscuelaRefDTO{}
	}
	return ExpedienteDTO{
		ID:            m.ID,
		Numero:        m.Numero,
		Asunto:        m.Asunto,
		FechaRecibido: FormatFecha(m.FechaRecibido),
		Notificacion:  m.Notificacion,
		Resolucion:    m.Resolucion,
		Pase:          m.Pase,
		Observaciones: m.Observaciones,
		Estado:        m.Estado,
		DocenteID:     m.DocenteID,
		EscuelaID:     m.EscuelaID,
		Docentes:      docentes,
		Escuelas:      escuelas,
		FechaCreacion: m.FechaCreacion,
	}
}

// StrPtr devuelve nil para cadenas vacías (columnas opcionales)
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
