package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

const assignmentDetailSelect = `SELECT ura.id, ura.user_id, ura.role_id, ura.active, ura.is_primary, ura.created_at, ura.updated_at,
	r.name AS role_name, (u.name || ' ' || u.surname) AS user_name, u.email AS user_email
FROM user_roles ura
JOIN roles r ON r.id = ura.role_id
JOIN users u ON u.id = ura.user_id`

// RoleAssignmentRepository persists user-role links.
type RoleAssignmentRepository struct {
	db *sqlx.DB
}

func NewRoleAssignmentRepository(db *sqlx.DB) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{db: db}
}

// List returns every assignment with role and user names.
func (r *RoleAssignmentRepository) List(ctx context.Context) ([]models.RoleAssignmentDetail, error) {
	var list []models.RoleAssignmentDetail
	if err := r.db.SelectContext(ctx, &list, assignmentDetailSelect+" ORDER BY ura.created_at DESC"); err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	return list, nil
}

// ListByUser returns the assignments of one user, active ones first.
func (r *RoleAssignmentRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.RoleAssignmentDetail, error) {
	var list []models.RoleAssignmentDetail
	query := assignmentDetailSelect + " WHERE ura.user_id = $1 ORDER BY ura.active DESC, ura.is_primary DESC, ura.created_at"
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query, userID); err != nil {
		return nil, fmt.Errorf("list user role assignments: %w", err)
	}
	return list, nil
}

// FindActive returns the active assignment of (userID, roleID) or sql.ErrNoRows.
func (r *RoleAssignmentRepository) FindActive(ctx context.Context, exec sqlx.ExtContext, userID, roleID string) (*models.RoleAssignment, error) {
	const query = `SELECT id, user_id, role_id, active, is_primary, created_at, updated_at FROM user_roles
		WHERE user_id = $1 AND role_id = $2 AND active = TRUE LIMIT 1`
	var ra models.RoleAssignment
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &ra, query, userID, roleID); err != nil {
		return nil, err
	}
	return &ra, nil
}

// FindByID fetches one assignment.
func (r *RoleAssignmentRepository) FindByID(ctx context.Context, id string) (*models.RoleAssignment, error) {
	const query = `SELECT id, user_id, role_id, active, is_primary, created_at, updated_at FROM user_roles WHERE id = $1`
	var ra models.RoleAssignment
	if err := r.db.GetContext(ctx, &ra, query, id); err != nil {
		return nil, err
	}
	return &ra, nil
}

// Create inserts a new assignment.
func (r *RoleAssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, ra *models.RoleAssignment) error {
	if ra.ID == "" {
		ra.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ra.CreatedAt.IsZero() {
		ra.CreatedAt = now
	}
	ra.UpdatedAt = now

	const query = `INSERT INTO user_roles (id, user_id, role_id, active, is_primary, created_at, updated_at)
		VALUES (:id, :user_id, :role_id, :active, :is_primary, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, ra); err != nil {
		return fmt.Errorf("create role assignment: %w", err)
	}
	return nil
}

// Delete removes one assignment.
func (r *RoleAssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role assignment: %w", err)
	}
	return requireAffected(result, "delete role assignment")
}

// DeleteByUser removes every assignment of a user and reports how many went.
func (r *RoleAssignmentRepository) DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) (int64, error) {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user role assignments: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user role assignments rows affected: %w", err)
	}
	return affected, nil
}
