package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

// EnrollmentTypeRepository manages persistence for enrollment plans.
type EnrollmentTypeRepository struct {
	db *sqlx.DB
}

func NewEnrollmentTypeRepository(db *sqlx.DB) *EnrollmentTypeRepository {
	return &EnrollmentTypeRepository{db: db}
}

// List returns enrollment types matching filters along with total count.
func (r *EnrollmentTypeRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.EnrollmentType, int, error) {
	var fb filterBuilder
	if filter.Active != nil {
		fb.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("LOWER(name) LIKE ?", searchPattern(filter.Search))
	}
	base := fb.where("FROM enrollment_types WHERE 1=1")
	allowedSorts := map[string]string{"nombre": "name", "valorMatricula": "value", "created_at": "created_at"}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "nombre", filter.Page, filter.PageSize)

	var list []models.EnrollmentType
	query := fmt.Sprintf("SELECT id, name, value, active, created_at, updated_at %s %s", base, page)
	if err := r.db.SelectContext(ctx, &list, query, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollment types: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollment types: %w", err)
	}
	return list, total, nil
}

// FindByID fetches an enrollment type by ID.
func (r *EnrollmentTypeRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentType, error) {
	var et models.EnrollmentType
	query := `SELECT id, name, value, active, created_at, updated_at FROM enrollment_types WHERE id = $1`
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &et, query, id); err != nil {
		return nil, err
	}
	return &et, nil
}

// ExistsByName checks whether another enrollment type has the same name.
func (r *EnrollmentTypeRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM enrollment_types WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{strings.TrimSpace(name)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := r.db.GetContext(ctx, &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment type name: %w", err)
	}
	return true, nil
}

// Create inserts an enrollment type.
func (r *EnrollmentTypeRepository) Create(ctx context.Context, et *models.EnrollmentType) error {
	if et.ID == "" {
		et.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	et.CreatedAt, et.UpdatedAt = now, now
	const query = `INSERT INTO enrollment_types (id, name, value, active, created_at, updated_at)
		VALUES (:id, :name, :value, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, et); err != nil {
		return fmt.Errorf("create enrollment type: %w", err)
	}
	return nil
}

// Update persists every mutable column.
func (r *EnrollmentTypeRepository) Update(ctx context.Context, et *models.EnrollmentType) error {
	et.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollment_types SET name = :name, value = :value, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, et)
	if err != nil {
		return fmt.Errorf("update enrollment type: %w", err)
	}
	return requireAffected(result, "update enrollment type")
}

// Delete removes an enrollment type.
func (r *EnrollmentTypeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollment_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment type: %w", err)
	}
	return requireAffected(result, "delete enrollment type")
}
