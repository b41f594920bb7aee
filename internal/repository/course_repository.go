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

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching filters along with total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.Course, int, error) {
	var fb filterBuilder
	if filter.Active != nil {
		fb.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("LOWER(name) LIKE ?", searchPattern(filter.Search))
	}
	base := fb.where("FROM courses WHERE 1=1")
	allowedSorts := map[string]string{"nombre": "name", "valor_por_hora": "price_per_hour", "created_at": "created_at"}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "nombre", filter.Page, filter.PageSize)

	var list []models.Course
	query := fmt.Sprintf("SELECT id, name, description, price_per_hour, active, created_at, updated_at %s %s", base, page)
	if err := r.db.SelectContext(ctx, &list, query, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return list, total, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Course, error) {
	var c models.Course
	query := `SELECT id, name, description, price_per_hour, active, created_at, updated_at FROM courses WHERE id = $1`
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsByName checks whether another course has the same name.
func (r *CourseRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE LOWER(name) = LOWER($1)"
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
		return false, fmt.Errorf("check course name: %w", err)
	}
	return true, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	const query = `INSERT INTO courses (id, name, description, price_per_hour, active, created_at, updated_at)
		VALUES (:id, :name, :description, :price_per_hour, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update persists every mutable column.
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	c.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, description = :description, price_per_hour = :price_per_hour, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(result, "update course")
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(result, "delete course")
}
