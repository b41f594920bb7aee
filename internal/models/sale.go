package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType distinguishes course sales from enrollment sales. It doubles as the
// counter tag used for the sale code.
type SaleType string

const (
	SaleTypeCourse     SaleType = "curso"
	SaleTypeEnrollment SaleType = "matricula"
)

// Valid reports whether t is a known sale type.
func (t SaleType) Valid() bool {
	return t == SaleTypeCourse || t == SaleTypeEnrollment
}

// SaleStatus is the sale lifecycle. A sale moves from vigente to anulada once.
type SaleStatus string

const (
	SaleActive    SaleStatus = "vigente"
	SaleCancelled SaleStatus = "anulada"
)

// Sale ("venta") of a course or an enrollment to a beneficiary.
type Sale struct {
	ID                 string          `db:"id" json:"id"`
	Type               SaleType        `db:"type" json:"tipo"`
	BeneficiaryID      string          `db:"beneficiary_id" json:"beneficiarioId"`
	CourseID           *string         `db:"course_id" json:"cursoId"`
	EnrollmentTypeID   *string         `db:"enrollment_type_id" json:"matriculaId"`
	StartDate          Date            `db:"start_date" json:"fechaInicio"`
	EndDate            Date            `db:"end_date" json:"fechaFin"`
	ClassCount         *int            `db:"class_count" json:"numero_de_clases"`
	Cycle              *int            `db:"cycle" json:"ciclo"`
	TotalValue         decimal.Decimal `db:"total_value" json:"valor_total"`
	Discount           decimal.Decimal `db:"discount" json:"descuento"`
	Notes              *string         `db:"notes" json:"observaciones"`
	Status             SaleStatus      `db:"status" json:"estado"`
	CancellationReason *string         `db:"cancellation_reason" json:"motivoAnulacion,omitempty"`
	CancelledAt        *time.Time      `db:"cancelled_at" json:"fechaAnulacion,omitempty"`
	SaleCode           string          `db:"sale_code" json:"codigoVenta"`
	SequenceNumber     int64           `db:"sequence_number" json:"consecutivo"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// SaleDetail is a sale joined with its display names.
type SaleDetail struct {
	Sale
	BeneficiaryName    string    `db:"beneficiary_name" json:"beneficiarioNombre"`
	CourseName         *string   `db:"course_name" json:"cursoNombre,omitempty"`
	EnrollmentTypeName *string   `db:"enrollment_type_name" json:"matriculaNombre,omitempty"`
	Payments           []Payment `db:"-" json:"pagos,omitempty"`
}

// SaleFilter captures list options.
type SaleFilter struct {
	Type          *SaleType
	Status        *SaleStatus
	BeneficiaryID string
	Search        string
	From          *Date
	To            *Date
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// CreateSaleRequest is the payload of POST /ventas. An empty SaleCode asks the
// server to reserve the next code for the sale type.
type CreateSaleRequest struct {
	Type              string           `json:"tipo" validate:"required,oneof=curso matricula"`
	BeneficiaryID     string           `json:"beneficiarioId" validate:"required,uuid"`
	CourseID          string           `json:"cursoId" validate:"omitempty,uuid"`
	EnrollmentTypeID  string           `json:"matriculaId" validate:"omitempty,uuid"`
	StartDate         Date             `json:"fechaInicio"`
	EndDate           Date             `json:"fechaFin"`
	ClassCount        *int             `json:"numero_de_clases" validate:"omitempty,min=1"`
	Cycle             *int             `json:"ciclo" validate:"omitempty,min=1"`
	TotalValue        *decimal.Decimal `json:"valor_total" validate:"required"`
	Discount          *decimal.Decimal `json:"descuento"`
	Notes             string           `json:"observaciones" validate:"omitempty,max=500"`
	SequenceNumber    *int64           `json:"consecutivo" validate:"omitempty,min=1"`
	SaleCode          string           `json:"codigoVenta" validate:"omitempty,max=20"`
	PaymentMethod     string           `json:"metodoPago" validate:"omitempty,max=50"`
	TransactionNumber string           `json:"numeroTransaccion" validate:"omitempty,max=100"`
}

// UpdateSaleRequest merges supplied fields into an active sale.
type UpdateSaleRequest struct {
	StartDate  *Date            `json:"fechaInicio"`
	EndDate    *Date            `json:"fechaFin"`
	ClassCount *int             `json:"numero_de_clases" validate:"omitempty,min=1"`
	Cycle      *int             `json:"ciclo" validate:"omitempty,min=1"`
	TotalValue *decimal.Decimal `json:"valor_total"`
	Discount   *decimal.Decimal `json:"descuento"`
	Notes      *string          `json:"observaciones" validate:"omitempty,max=500"`
	Status     *string          `json:"estado"`
}

// CancelSaleRequest is the payload of PATCH /ventas/:id/anular.
type CancelSaleRequest struct {
	Reason string `json:"motivoAnulacion"`
}

// NextSequenceResponse previews the next consecutive number for a tag.
type NextSequenceResponse struct {
	NextSequence int64  `json:"nextConsecutivo"`
	SaleCode     string `json:"codigoVenta"`
}
