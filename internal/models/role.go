package models

import (
	"fmt"
	"strings"
	"time"
)

// RoleTag is the coarse role carried on a user record and used for capability
// checks. Assignments to Role rows map onto tags through RoleTagForName.
type RoleTag string

const (
	TagAdmin       RoleTag = "administrador"
	TagTeacher     RoleTag = "profesor"
	TagClient      RoleTag = "cliente"
	TagBeneficiary RoleTag = "beneficiario"
	TagUser        RoleTag = "usuario"
)

// Canonical Role names seeded in the roles table.
const (
	RoleNameAdmin       = "Administrador"
	RoleNameTeacher     = "Profesor"
	RoleNameClient      = "Cliente"
	RoleNameBeneficiary = "Beneficiario"
)

var roleTagNames = map[RoleTag]string{
	TagAdmin:       RoleNameAdmin,
	TagTeacher:     RoleNameTeacher,
	TagClient:      RoleNameClient,
	TagBeneficiary: RoleNameBeneficiary,
}

// ParseRoleTag normalises a tag; the empty string maps to TagUser.
func ParseRoleTag(raw string) (RoleTag, error) {
	tag := RoleTag(strings.ToLower(strings.TrimSpace(raw)))
	switch tag {
	case "":
		return TagUser, nil
	case TagAdmin, TagTeacher, TagClient, TagBeneficiary, TagUser:
		return tag, nil
	default:
		return "", fmt.Errorf("rol desconocido %q", raw)
	}
}

// RoleName returns the Role row name for the tag, or "" when the tag has no Role.
func (t RoleTag) RoleName() string {
	return roleTagNames[t]
}

// RoleTagForName maps a Role row name to its tag.
func RoleTagForName(name string) (RoleTag, bool) {
	for tag, roleName := range roleTagNames {
		if strings.EqualFold(roleName, strings.TrimSpace(name)) {
			return tag, true
		}
	}
	return "", false
}

// RoleSet is the set of capabilities a user holds.
type RoleSet map[RoleTag]struct{}

// NewRoleSet builds a set ignoring empty tags.
func NewRoleSet(tags ...RoleTag) RoleSet {
	set := make(RoleSet, len(tags))
	for _, tag := range tags {
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(tag RoleTag) bool {
	_, ok := s[tag]
	return ok
}

// Role is static reference data.
type Role struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"nombre"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// RoleAssignment links a user to a role.
type RoleAssignment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"usuarioId"`
	RoleID    string    `db:"role_id" json:"rolId"`
	Active    bool      `db:"active" json:"estado"`
	IsPrimary bool      `db:"is_primary" json:"esPrincipal"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RoleAssignmentDetail is an assignment joined with its role and user names.
type RoleAssignmentDetail struct {
	RoleAssignment
	RoleName  string `db:"role_name" json:"rolNombre"`
	UserName  string `db:"user_name" json:"usuarioNombre"`
	UserEmail string `db:"user_email" json:"usuarioCorreo"`
}

// CreateRoleAssignmentRequest is the payload of POST /usuarios_has_rol.
type CreateRoleAssignmentRequest struct {
	UserID    string `json:"usuarioId" validate:"required,uuid"`
	RoleID    string `json:"rolId" validate:"required,uuid"`
	IsPrimary bool   `json:"esPrincipal"`
}
