package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

// RoleRepository reads the roles reference table.
type RoleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns all roles ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, `SELECT id, name, created_at FROM roles ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// FindByID fetches a role by ID.
func (r *RoleRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Role, error) {
	var role models.Role
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &role, `SELECT id, name, created_at FROM roles WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName fetches a role by case-insensitive name.
func (r *RoleRepository) FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Role, error) {
	var role models.Role
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &role, `SELECT id, name, created_at FROM roles WHERE LOWER(name) = LOWER($1)`, name); err != nil {
		return nil, err
	}
	return &role, nil
}

// EnsureSeeded inserts the canonical roles that are missing.
func (r *RoleRepository) EnsureSeeded(ctx context.Context, names []string) error {
	const query = `INSERT INTO roles (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`
	now := time.Now().UTC()
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), name, now); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
