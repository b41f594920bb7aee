package models

import "time"

// User represents an application account stored in the users table.
type User struct {
	ID             string       `db:"id" json:"id"`
	Name           string       `db:"name" json:"nombre"`
	Surname        string       `db:"surname" json:"apellido"`
	Email          string       `db:"email" json:"correo"`
	PasswordHash   string       `db:"password_hash" json:"-"`
	DocumentType   DocumentType `db:"document_type" json:"tipo_de_documento"`
	DocumentNumber string       `db:"document_number" json:"documento"`
	Role           RoleTag      `db:"role" json:"rol"`
	Active         bool         `db:"active" json:"estado"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// FullName joins name and surname.
func (u User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}

// UserDetail is a user with its active roles.
type UserDetail struct {
	User
	Roles []Role `json:"roles"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *RoleTag
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CreateUserRequest is the payload of POST /usuarios. When the role is
// "profesor" or EsProfesor is set, the teacher fields seed the linked Teacher.
type CreateUserRequest struct {
	Name           string   `json:"nombre" validate:"required,min=2,max=100"`
	Surname        string   `json:"apellido" validate:"required,min=2,max=100"`
	Email          string   `json:"correo" validate:"required,email"`
	Password       string   `json:"contrasena" validate:"required,min=6"`
	DocumentType   string   `json:"tipo_de_documento" validate:"required,doctype"`
	DocumentNumber string   `json:"documento" validate:"required,documento"`
	Role           string   `json:"rol"`
	Active         *bool    `json:"estado"`
	IsTeacher      bool     `json:"esProfesor"`
	Phone          string   `json:"telefono" validate:"omitempty,max=20"`
	Address        string   `json:"direccion" validate:"omitempty,max=200"`
	Specialties    []string `json:"especialidades" validate:"omitempty,max=10,dive,min=2,max=100"`
}

// UpdateUserRequest carries the fields to merge into an existing user.
type UpdateUserRequest struct {
	Name           *string  `json:"nombre" validate:"omitempty,min=2,max=100"`
	Surname        *string  `json:"apellido" validate:"omitempty,min=2,max=100"`
	Email          *string  `json:"correo" validate:"omitempty,email"`
	Password       *string  `json:"contrasena" validate:"omitempty,min=6"`
	DocumentType   *string  `json:"tipo_de_documento" validate:"omitempty,doctype"`
	DocumentNumber *string  `json:"documento" validate:"omitempty,documento"`
	Role           *string  `json:"rol"`
	Active         *bool    `json:"estado"`
	IsTeacher      bool     `json:"esProfesor"`
	Phone          *string  `json:"telefono" validate:"omitempty,max=20"`
	Address        *string  `json:"direccion" validate:"omitempty,max=200"`
	Specialties    []string `json:"especialidades" validate:"omitempty,max=10,dive,min=2,max=100"`
}
