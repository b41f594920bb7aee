package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

const rolesCacheKey = "roles:all"

type roleRepository interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Role, error)
	FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Role, error)
	EnsureSeeded(ctx context.Context, names []string) error
}

// RoleService serves the static role catalogue, optionally from the cache.
type RoleService struct {
	repo   roleRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewRoleService constructs a RoleService. A nil cache disables caching.
func NewRoleService(repo roleRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Seed makes sure every canonical role exists.
func (s *RoleService) Seed(ctx context.Context) error {
	names := []string{models.RoleNameAdmin, models.RoleNameTeacher, models.RoleNameClient, models.RoleNameBeneficiary}
	if err := s.repo.EnsureSeeded(ctx, names); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	_ = s.cache.Invalidate(ctx, rolesCacheKey)
	return nil
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	var cached []models.Role
	if hit, _ := s.cache.Get(ctx, rolesCacheKey, &cached); hit {
		return cached, nil
	}
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list roles")
	}
	_ = s.cache.Set(ctx, rolesCacheKey, roles, s.ttl)
	return roles, nil
}

// Get returns one role.
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	if !validID(id) {
		return nil, notFound("Rol no encontrado")
	}
	role, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Rol no encontrado")
		}
		return nil, internalError(err, "failed to load role")
	}
	return role, nil
}

type roleFinder interface {
	FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Role, error)
}

type assignmentWriter interface {
	FindActive(ctx context.Context, exec sqlx.ExtContext, userID, roleID string) (*models.RoleAssignment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, ra *models.RoleAssignment) error
}

// roleGranter ensures a user holds an active assignment to a named role. It is
// shared by the teacher, user and beneficiary workflows.
type roleGranter struct {
	roles       roleFinder
	assignments assignmentWriter
}

func (g roleGranter) grant(ctx context.Context, exec sqlx.ExtContext, userID, roleName string, primary bool) error {
	role, err := g.roles.FindByName(ctx, exec, roleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("role %q is not seeded", roleName)
		}
		return fmt.Errorf("find role %s: %w", roleName, err)
	}
	if _, err := g.assignments.FindActive(ctx, exec, userID, role.ID); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("find assignment: %w", err)
	}
	return g.assignments.Create(ctx, exec, &models.RoleAssignment{
		UserID:    userID,
		RoleID:    role.ID,
		Active:    true,
		IsPrimary: primary,
	})
}
