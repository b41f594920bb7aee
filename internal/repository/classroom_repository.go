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

// ClassroomRepository manages persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms matching filters along with total count.
func (r *ClassroomRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.Classroom, int, error) {
	var fb filterBuilder
	if filter.Active != nil {
		fb.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("LOWER(room_number) LIKE ?", searchPattern(filter.Search))
	}
	base := fb.where("FROM classrooms WHERE 1=1")
	allowedSorts := map[string]string{"numeroAula": "room_number", "capacidad": "capacity", "created_at": "created_at"}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "numeroAula", filter.Page, filter.PageSize)

	var list []models.Classroom
	query := fmt.Sprintf("SELECT id, room_number, capacity, active, created_at, updated_at %s %s", base, page)
	if err := r.db.SelectContext(ctx, &list, query, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list classrooms: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count classrooms: %w", err)
	}
	return list, total, nil
}

// FindByID fetches a classroom by ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	var c models.Classroom
	if err := r.db.GetContext(ctx, &c, `SELECT id, room_number, capacity, active, created_at, updated_at FROM classrooms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsByRoomNumber checks whether another classroom uses the room number.
func (r *ClassroomRepository) ExistsByRoomNumber(ctx context.Context, roomNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM classrooms WHERE LOWER(room_number) = LOWER($1)"
	args := []interface{}{strings.TrimSpace(roomNumber)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := r.db.GetContext(ctx, &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check classroom number: %w", err)
	}
	return true, nil
}

// Create inserts a classroom.
func (r *ClassroomRepository) Create(ctx context.Context, c *models.Classroom) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	const query = `INSERT INTO classrooms (id, room_number, capacity, active, created_at, updated_at)
		VALUES (:id, :room_number, :capacity, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Update persists every mutable column.
func (r *ClassroomRepository) Update(ctx context.Context, c *models.Classroom) error {
	c.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classrooms SET room_number = :room_number, capacity = :capacity, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	return requireAffected(result, "update classroom")
}

// Delete removes a classroom.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}
	return requireAffected(result, "delete classroom")
}
