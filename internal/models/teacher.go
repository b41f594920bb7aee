package models

import (
	"time"

	"github.com/lib/pq"
)

// TeacherStatus is the lifecycle state of a teacher.
type TeacherStatus string

const (
	TeacherActive    TeacherStatus = "Activo"
	TeacherInactive  TeacherStatus = "Inactivo"
	TeacherPending   TeacherStatus = "Pendiente"
	TeacherSuspended TeacherStatus = "Suspendido"
)

// Valid reports whether s is a known status.
func (s TeacherStatus) Valid() bool {
	switch s {
	case TeacherActive, TeacherInactive, TeacherPending, TeacherSuspended:
		return true
	}
	return false
}

// Teacher represents an instructor record, optionally linked to a user account.
type Teacher struct {
	ID             string         `db:"id" json:"id"`
	UserID         *string        `db:"user_id" json:"usuarioId"`
	Names          string         `db:"names" json:"nombres"`
	Surnames       string         `db:"surnames" json:"apellidos"`
	DocumentType   DocumentType   `db:"document_type" json:"tipoDocumento"`
	DocumentNumber string         `db:"document_number" json:"identificacion"`
	Phone          string         `db:"phone" json:"telefono"`
	Address        *string        `db:"address" json:"direccion,omitempty"`
	Email          string         `db:"email" json:"correo"`
	Specialties    pq.StringArray `db:"specialties" json:"especialidades"`
	Status         TeacherStatus  `db:"status" json:"estado"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	UserID    string
	Specialty string
	Status    *TeacherStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateTeacherRequest is the payload of POST /profesores. It creates the teacher
// together with its user account.
type CreateTeacherRequest struct {
	Names          string   `json:"nombres" validate:"required,min=2,max=100"`
	Surnames       string   `json:"apellidos" validate:"required,min=2,max=100"`
	DocumentType   string   `json:"tipoDocumento" validate:"required,doctype"`
	DocumentNumber string   `json:"identificacion" validate:"required,documento"`
	Phone          string   `json:"telefono" validate:"required,max=20"`
	Address        string   `json:"direccion" validate:"omitempty,max=200"`
	Email          string   `json:"correo" validate:"required,email"`
	Password       string   `json:"contrasena" validate:"required,min=6"`
	Specialties    []string `json:"especialidades" validate:"required"`
	Status         string   `json:"estado"`
}

// UpdateTeacherRequest carries the supplied fields of PUT /profesores/:id.
type UpdateTeacherRequest struct {
	Names          *string  `json:"nombres" validate:"omitempty,min=2,max=100"`
	Surnames       *string  `json:"apellidos" validate:"omitempty,min=2,max=100"`
	DocumentType   *string  `json:"tipoDocumento" validate:"omitempty,doctype"`
	DocumentNumber *string  `json:"identificacion" validate:"omitempty,documento"`
	Phone          *string  `json:"telefono" validate:"omitempty,max=20"`
	Address        *string  `json:"direccion" validate:"omitempty,max=200"`
	Email          *string  `json:"correo" validate:"omitempty,email"`
	Specialties    []string `json:"especialidades"`
	Status         *string  `json:"estado"`
	UserID         *string  `json:"usuarioId"`
}

// UpdateTeacherStatusRequest is the payload of PATCH /profesores/:id/estado.
type UpdateTeacherStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}
