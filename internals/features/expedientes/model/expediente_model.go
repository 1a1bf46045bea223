package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExpedienteModel representa la tabla expedientes.
// DocenteID y EscuelaID son columnas heredadas del esquema viejo de
// asociación 1-a-1; se mantienen sincronizadas con el primer elemento
// de las tablas de vínculo para no romper clientes antiguos.
type ExpedienteModel struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Numero             string         `gorm:"size:50;not null;index" json:"numero"`
	Asunto             string         `gorm:"size:255;not null" json:"asunto"`
	FechaRecibido      datatypes.Date `gorm:"column:fecha_recibido" json:"fecha_recibido"`
	Notificacion       *string        `gorm:"size:255" json:"notificacion"`
	Resolucion         *string        `gorm:"size:255" json:"resolucion"`
	Pase               *string        `gorm:"size:255" json:"pase"`
	Observaciones      *string        `gorm:"type:text" json:"observaciones"`
	Estado             string         `gorm:"size:20;not null;default:'pendiente'" json:"estado"`
	DocenteID          *uint          `gorm:"column:docente_id" json:"docente_id"`
	EscuelaID          *uint          `gorm:"column:escuela_id" json:"escuela_id"`
	FechaCreacion      time.Time      `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	FechaActualizacion time.Time      `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"fecha_actualizacion"`
}

func (ExpedienteModel) TableName() string {
	return "expedientes"
}

// ExpedienteDocente es la tabla de vínculo expediente <-> docente
type ExpedienteDocente struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ExpedienteID uint `gorm:"column:expediente_id;not null;uniqueIndex:uq_exp_doc" json:"expediente_id"`
	DocenteID    uint `gorm:"column:docente_id;not null;uniqueIndex:uq_exp_doc" json:"docente_id"`
}

func (ExpedienteDocente) TableName() string {
	return "expedientes_docentes"
}

// ExpedienteEscuela es la tabla de vínculo expediente <-> escuela
type ExpedienteEscuela struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ExpedienteID uint `gorm:"column:expediente_id;not null;uniqueIndex:uq_exp_esc" json:"expediente_id"`
	EscuelaID    uint `gorm:"column:escuela_id;not null;uniqueIndex:uq_exp_esc" json:"escuela_id"`
}

func (ExpedienteEscuela) TableName() string {
	return "expedientes_escuelas"
}
