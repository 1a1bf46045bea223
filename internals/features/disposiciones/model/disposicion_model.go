package model

import (
	"time"

	"gorm.io/datatypes"
)

// DisposicionModel representa la tabla disposiciones. A diferencia de
// los expedientes, una disposición referencia a lo sumo un docente y
// una escuela (columnas nullables con SET NULL al borrar el padre).
type DisposicionModel struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Numero             string         `gorm:"size:50;not null;index" json:"numero"`
	FechaDispo         datatypes.Date `gorm:"column:fecha_dispo" json:"fecha_dispo"`
	Dispo              string         `gorm:"size:255;not null" json:"dispo"`
	DocenteID          *uint          `gorm:"column:docente_id" json:"docente_id"`
	EscuelaID          *uint          `gorm:"column:escuela_id" json:"escuela_id"`
	Cargo              *string        `gorm:"size:100" json:"cargo"`
	Motivo             *string        `gorm:"size:255" json:"motivo"`
	Enlace             *string        `gorm:"size:255" json:"enlace"`
	FechaCreacion      time.Time      `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	FechaActualizacion time.Time      `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"fecha_actualizacion"`
}

func (DisposicionModel) TableName() string {
	return "disposiciones"
}
