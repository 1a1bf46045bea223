package dto

import (
	"strings"
	"time"

	"expedientes_backend/internals/features/docentes/model"
)

// ============================
// Request DTO
// ============================

type CreateDocenteRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=30"`
	Apellido string `json:"apellido" validate:"required,max=30"`
	DNI      string `json:"dni" validate:"required,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Telefono string `json:"telefono" validate:"omitempty,max=15"`
}

type UpdateDocenteRequest = CreateDocenteRequest

// Trim normaliza los campos de texto antes de validar/persistir
func (r *CreateDocenteRequest) Trim() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Apellido = strings.TrimSpace(r.Apellido)
	r.DNI = strings.TrimSpace(r.DNI)
	r.Email = strings.TrimSpace(r.Email)
	r.Telefono = strings.TrimSpace(r.Telefono)
}

// ============================
// Response DTO
// ============================

type DocenteDTO struct {
	ID            uint      `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	DNI           string    `json:"dni"`
	Email         *string   `json:"email"`
	Telefono      *string   `json:"telefono"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// ============================
// Converter
// ============================

func ToDocenteDTO(m model.DocenteModel) DocenteDTO {
	return DocenteDTO{
		ID:            m.ID,
		Nombre:        m.Nombre,
		Apellido:      m.Apellido,
		DNI:           m.DNI,
		Email:         m.Email,
		Telefono:      m.Telefono,
		FechaCreacion: m.FechaCreacion,
	}
}

func ToDocenteDTOs(ms []model.DocenteModel) []DocenteDTO {
	out := make([]DocenteDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToDocenteDTO(m))
	}
	return out
}

// StrPtr devuelve nil para cadenas vacías (columnas opcionales)
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
