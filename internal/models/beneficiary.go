package models

import "time"

// Beneficiary is the person receiving lessons. ClientID equals ID when the
// beneficiary pays for itself, otherwise it names the paying beneficiary.
type Beneficiary struct {
	ID             string       `db:"id" json:"id"`
	UserID         *string      `db:"user_id" json:"usuarioId"`
	Names          string       `db:"names" json:"nombre"`
	Surnames       string       `db:"surnames" json:"apellido"`
	DocumentType   DocumentType `db:"document_type" json:"tipo_de_documento"`
	DocumentNumber string       `db:"document_number" json:"numero_de_documento"`
	Phone          string       `db:"phone" json:"telefono"`
	Address        string       `db:"address" json:"direccion"`
	BirthDate      Date         `db:"birth_date" json:"fechaDeNacimiento"`
	Email          string       `db:"email" json:"correo"`
	ClientID       string       `db:"client_id" json:"clienteId"`
	Active         bool         `db:"active" json:"estado"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// IsOwnClient reports whether the beneficiary is its own paying client.
func (b Beneficiary) IsOwnClient() bool {
	return b.ClientID == b.ID
}

// BeneficiaryFilter captures list options.
type BeneficiaryFilter struct {
	Search    string
	ClientID  string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AccountRequest asks the beneficiary workflow to also create a login.
type AccountRequest struct {
	Email    string `json:"correo" validate:"omitempty,email"`
	Password string `json:"contrasena" validate:"required,min=6"`
}

// CreateBeneficiaryRequest is the payload of POST /beneficiarios.
type CreateBeneficiaryRequest struct {
	Names          string          `json:"nombre" validate:"required,min=2,max=100"`
	Surnames       string          `json:"apellido" validate:"required,min=2,max=100"`
	DocumentType   string          `json:"tipo_de_documento" validate:"required,doctype"`
	DocumentNumber string          `json:"numero_de_documento" validate:"required,documento"`
	Phone          string          `json:"telefono" validate:"required,max=20"`
	Address        string          `json:"direccion" validate:"required,max=200"`
	BirthDate      Date            `json:"fechaDeNacimiento"`
	Email          string          `json:"correo" validate:"required,email"`
	ClientID       string          `json:"clienteId" validate:"omitempty,uuid"`
	IsClient       bool            `json:"esCliente"`
	Active         *bool           `json:"estado"`
	Account        *AccountRequest `json:"cuenta" validate:"omitempty"`
}

// UpdateBeneficiaryRequest merges supplied fields.
type UpdateBeneficiaryRequest struct {
	Names          *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Surnames       *string `json:"apellido" validate:"omitempty,min=2,max=100"`
	DocumentType   *string `json:"tipo_de_documento" validate:"omitempty,doctype"`
	DocumentNumber *string `json:"numero_de_documento" validate:"omitempty,documento"`
	Phone          *string `json:"telefono" validate:"omitempty,max=20"`
	Address        *string `json:"direccion" validate:"omitempty,max=200"`
	BirthDate      *Date   `json:"fechaDeNacimiento"`
	Email          *string `json:"correo" validate:"omitempty,email"`
	ClientID       *string `json:"clienteId" validate:"omitempty,uuid"`
	Active         *bool   `json:"estado"`
}
