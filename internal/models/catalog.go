package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classroom ("aula") where lessons take place.
type Classroom struct {
	ID         string    `db:"id" json:"id"`
	RoomNumber string    `db:"room_number" json:"numeroAula"`
	Capacity   int       `db:"capacity" json:"capacidad"`
	Active     bool      `db:"active" json:"estado"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type ClassroomRequest struct {
	RoomNumber string `json:"numeroAula" validate:"required,max=20"`
	Capacity   int    `json:"capacidad" validate:"required,gt=0,lte=500"`
	Active     *bool  `json:"estado"`
}

// Course ("curso") sold per class hour.
type Course struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"nombre"`
	Description  *string         `db:"description" json:"descripcion,omitempty"`
	PricePerHour decimal.Decimal `db:"price_per_hour" json:"valor_por_hora"`
	Active       bool            `db:"active" json:"estado"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

type CourseRequest struct {
	Name         string          `json:"nombre" validate:"required,min=2,max=100"`
	Description  string          `json:"descripcion" validate:"omitempty,max=500"`
	PricePerHour decimal.Decimal `json:"valor_por_hora"`
	Active       *bool           `json:"estado"`
}

// EnrollmentType ("matrícula") is a priced enrollment plan.
type EnrollmentType struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"nombre"`
	Value     decimal.Decimal `db:"value" json:"valorMatricula"`
	Active    bool            `db:"active" json:"estado"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type EnrollmentTypeRequest struct {
	Name   string          `json:"nombre" validate:"required,min=2,max=100"`
	Value  decimal.Decimal `json:"valorMatricula"`
	Active *bool           `json:"estado"`
}

// CatalogFilter lists classrooms, courses and enrollment types.
type CatalogFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
