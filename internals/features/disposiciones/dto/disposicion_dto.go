package dto

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// ============================
// Request DTO
// ============================

// CreateDisposicionRequest acepta docentes/escuelas como arreglos por
// simetría con expedientes, pero la disposición guarda solo el primero
// de cada uno.
type CreateDisposicionRequest struct {
	Numero     string `json:"numero" validate:"required,max=50"`
	FechaDispo string `json:"fecha_dispo" validate:"required"`
	Dispo      string `json:"dispo" validate:"required,max=255"`
	Cargo      string `json:"cargo" validate:"omitempty,max=100"`
	Motivo     string `json:"motivo" validate:"omitempty,max=255"`
	Enlace     string `json:"enlace" validate:"omitempty,max=255"`
	Docentes   []uint `json:"docentes"`
	Escuelas   []uint `json:"escuelas"`
	DocenteID  *uint  `json:"docente_id"`
	EscuelaID  *uint  `json:"escuela_id"`
}

type UpdateDisposicionRequest = CreateDisposicionRequest

func (r *CreateDisposicionRequest) Trim() {
	r.Numero = strings.TrimSpace(r.Numero)
	r.FechaDispo = strings.TrimSpace(r.FechaDispo)
	r.Dispo = strings.TrimSpace(r.Dispo)
	r.Cargo = strings.TrimSpace(r.Cargo)
	r.Motivo = strings.TrimSpace(r.Motivo)
	r.Enlace = strings.TrimSpace(r.Enlace)
}

// ResolveDocenteID colapsa arreglo + singular heredado en un único ID
func (r *CreateDisposicionRequest) ResolveDocenteID() *uint {
	for _, id := range r.Docentes {
		if id != 0 {
			v := id
			return &v
		}
	}
	if r.DocenteID != nil && *r.DocenteID != 0 {
		return r.DocenteID
	}
	return nil
}

func (r *CreateDisposicionRequest) ResolveEscuelaID() *uint {
	for _, id := range r.Escuelas {
		if id != 0 {
			v := id
			return &v
		}
	}
	if r.EscuelaID != nil && *r.EscuelaID != 0 {
		return r.EscuelaID
	}
	return nil
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

// DisposicionDTO incluye los nombres denormalizados del docente
// ("Apellido, Nombre") y de la escuela para que el listado no tenga
// que resolverlos del lado del cliente.
type DisposicionDTO struct {
	ID            uint      `json:"id"`
	Numero        string    `json:"numero"`
	FechaDispo    string    `json:"fecha_dispo"`
	Dispo         string    `json:"dispo"`
	DocenteID     *uint     `json:"docente_id"`
	EscuelaID     *uint     `json:"escuela_id"`
	DocenteNombre *string   `json:"docente_nombre"`
	EscuelaNombre *string   `json:"escuela_nombre"`
	Cargo         *string   `json:"cargo"`
	Motivo        *string   `json:"motivo"`
	Enlace        *string   `json:"enlace"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// StrPtr devuelve nil para cadenas vacías (columnas opcionales)
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
