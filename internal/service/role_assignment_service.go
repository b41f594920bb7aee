package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

type roleAssignmentRepository interface {
	List(ctx context.Context) ([]models.RoleAssignmentDetail, error)
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.RoleAssignmentDetail, error)
	FindActive(ctx context.Context, exec sqlx.ExtContext, userID, roleID string) (*models.RoleAssignment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, ra *models.RoleAssignment) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) (int64, error)
}

type userLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
}

type roleByID interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Role, error)
}

// RoleAssignmentService manages the usuarios_has_rol links.
type RoleAssignmentService struct {
	repo      roleAssignmentRepository
	users     userLookup
	roles     roleByID
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleAssignmentService constructs a RoleAssignmentService.
func NewRoleAssignmentService(repo roleAssignmentRepository, users userLookup, roles roleByID, validate *validator.Validate, logger *zap.Logger) *RoleAssignmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleAssignmentService{repo: repo, users: users, roles: roles, validator: validate, logger: logger}
}

// List returns every assignment with role and user names.
func (s *RoleAssignmentService) List(ctx context.Context) ([]models.RoleAssignmentDetail, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list role assignments")
	}
	return items, nil
}

// ListByUser returns the assignments of one user.
func (s *RoleAssignmentService) ListByUser(ctx context.Context, userID string) ([]models.RoleAssignmentDetail, error) {
	if !validID(userID) {
		return nil, notFound("Usuario no encontrado")
	}
	items, err := s.repo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, internalError(err, "failed to list role assignments")
	}
	return items, nil
}

// Create assigns a role to a user. A second active assignment of the same role
// is rejected.
func (s *RoleAssignmentService) Create(ctx context.Context, req models.CreateRoleAssignmentRequest) (*models.RoleAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos de asignación inválidos")
	}
	if _, err := s.users.FindByID(ctx, nil, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Usuario no encontrado")
		}
		return nil, internalError(err, "failed to load user")
	}
	role, err := s.roles.FindByID(ctx, nil, req.RoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Rol no encontrado")
		}
		return nil, internalError(err, "failed to load role")
	}
	if _, err := s.repo.FindActive(ctx, nil, req.UserID, req.RoleID); err == nil {
		return nil, duplicateError("El usuario ya tiene asignado este rol", "rol %s", role.Name)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to check role assignment")
	}

	assignment := &models.RoleAssignment{UserID: req.UserID, RoleID: req.RoleID, Active: true, IsPrimary: req.IsPrimary}
	if err := s.repo.Create(ctx, nil, assignment); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create role assignment")
	}
	return assignment, nil
}

// Delete removes one assignment.
func (s *RoleAssignmentService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("Asignación de rol no encontrada")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Asignación de rol no encontrada")
		}
		return internalError(err, "failed to delete role assignment")
	}
	return nil
}

// DeleteByUser removes every assignment of a user and reports how many went.
func (s *RoleAssignmentService) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if !validID(userID) {
		return 0, notFound("Usuario no encontrado")
	}
	removed, err := s.repo.DeleteByUser(ctx, nil, userID)
	if err != nil {
		return 0, internalError(err, "failed to delete role assignments")
	}
	return removed, nil
}
