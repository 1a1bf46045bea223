package dto

import (
	"strings"
	"time"

	"expedientes_backend/internals/features/escuelas/model"
)

// ============================
// Request DTO
// ============================

type CreateEscuelaRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=40"`
	Direccion string `json:"direccion" validate:"omitempty,max=100"`
	Telefono  string `json:"telefono" validate:"omitempty,max=15"`
	Email     string `json:"email" validate:"omitempty,email"`
	Director  string `json:"director" validate:"omitempty,max=60"`
	Nivel     string `json:"nivel" validate:"omitempty,max=30"`
	Tipo      string `json:"tipo" validate:"omitempty,max=30"`
	Codigo    string `json:"codigo" validate:"omitempty,max=20"`
}

type UpdateEscuelaRequest = CreateEscuelaRequest

func (r *CreateEscuelaRequest) Trim() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Direccion = strings.TrimSpace(r.Direccion)
	r.Telefono = strings.TrimSpace(r.Telefono)
	r.Email = strings.TrimSpace(r.Email)
	r.Director = strings.TrimSpace(r.Director)
	r.Nivel = strings.TrimSpace(r.Nivel)
	r.Tipo = strings.TrimSpace(r.Tipo)
	r.Codigo = strings.TrimSpace(r.Codigo)
}

// ============================
// Response DTO
// ============================

type EscuelaDTO struct {
	ID            uint      `json:"id"`
	Nombre        string    `json:"nombre"`
	Direccion     *string   `json:"direccion"`
	Telefono      *string   `json:"telefono"`
	Email         *string   `json:"email"`
	Director      *string   `json:"director"`
	Nivel         *string   `json:"nivel"`
	Tipo          *string   `json:"tipo"`
	Codigo        *string   `json:"codigo"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// ============================
// Converter
// ============================

func ToEscuelaDTO(m model.EscuelaModel) EscuelaDTO {
	return EscuelaDTO{
		ID:            m.ID,
		Nombre:        m.Nombre,
		Direccion:     m.Direccion,
		Telefono:      m.Telefono,
		Email:         m.Email,
		Director:      m.Director,
		Nivel:         m.Nivel,
		Tipo:          m.Tipo,
		Codigo:        m.Codigo,
		FechaCreacion: m.FechaCreacion,
	}
}

func ToEscuelaDTOs(ms []model.EscuelaModel) []EscuelaDTO {
	out := make([]EscuelaDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToEscuelaDTO(m))
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
