package model

import "time"

// DocenteModel representa la tabla docentes
type DocenteModel struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Nombre             string    `gorm:"size:30;not null" json:"nombre"`
	Apellido           string    `gorm:"size:30;not null" json:"apellido"`
	DNI                string    `gorm:"column:dni;size:20;not null;index" json:"dni"`
	Email              *string   `gorm:"size:100" json:"email"`
	Telefono           *string   `gorm:"size:15" json:"telefono"`
	FechaCreacion      time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"fecha_actualizacion"`
}

func (DocenteModel) TableName() string {
	return "docentes"
}
