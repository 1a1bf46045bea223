package model

import "time"

// EscuelaModel representa la tabla escuelas
type EscuelaModel struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Nombre             string    `gorm:"size:40;not null" json:"nombre"`
	Direccion          *string   `gorm:"size:100" json:"direccion"`
	Telefono           *string   `gorm:"size:15" json:"telefono"`
	Email              *string   `gorm:"size:100" json:"email"`
	Director           *string   `gorm:"size:60" json:"director"`
	Nivel              *string   `gorm:"size:30" json:"nivel"`
	Tipo               *string   `gorm:"size:30" json:"tipo"`
	Codigo             *string   `gorm:"size:20" json:"codigo"`
	FechaCreacion      time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"fecha_actualizacion"`
}

func (EscuelaModel) TableName() string {
	return "escuelas"
}
