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

const teacherColumns = "id, user_id, names, surnames, document_type, document_number, phone, address, email, specialties, status, created_at, updated_at"

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var fb filterBuilder
	if filter.Status != nil {
		fb.add("status = ?", *filter.Status)
	}
	if filter.UserID != "" {
		fb.add("user_id = ?", filter.UserID)
	}
	if filter.Specialty != "" {
		fb.add("EXISTS (SELECT 1 FROM unnest(specialties) s WHERE LOWER(s) = LOWER(?))", strings.TrimSpace(filter.Specialty))
	}
	if filter.Search != "" {
		fb.add("(LOWER(names || ' ' || surnames) LIKE ? OR LOWER(email) LIKE ? OR document_number LIKE ?)", searchPattern(filter.Search))
	}
	base := fb.where("FROM teachers WHERE 1=1")

	allowedSorts := map[string]string{
		"nombres":    "names",
		"apellidos":  "surnames",
		"correo":     "email",
		"estado":     "status",
		"created_at": "created_at",
	}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "created_at", filter.Page, filter.PageSize)

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, fmt.Sprintf("SELECT %s %s %s", teacherColumns, base, page), fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error) {
	return r.findOne(ctx, exec, "id = $1", id)
}

// LockByID loads a teacher holding a row lock for the rest of exec's transaction.
func (r *TeacherRepository) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error) {
	return r.findOne(ctx, exec, "id = $1 FOR UPDATE", id)
}

// FindByUserID fetches the teacher linked to a user account.
func (r *TeacherRepository) FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Teacher, error) {
	return r.findOne(ctx, exec, "user_id = $1", userID)
}

func (r *TeacherRepository) findOne(ctx context.Context, exec sqlx.ExtContext, cond string, arg interface{}) (*models.Teacher, error) {
	var teacher models.Teacher
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE %s", teacherColumns, cond)
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &teacher, query, arg); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByEmailOrDocument returns teachers holding either natural key.
func (r *TeacherRepository) FindByEmailOrDocument(ctx context.Context, exec sqlx.ExtContext, email, document string) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE LOWER(email) = LOWER($1) OR document_number = $2", teacherColumns)
	var teachers []models.Teacher
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &teachers, query, strings.TrimSpace(email), strings.TrimSpace(document)); err != nil {
		return nil, fmt.Errorf("find teachers by natural key: %w", err)
	}
	return teachers, nil
}

// ExistsByEmail checks if another teacher uses the same email.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error) {
	return r.exists(ctx, exec, "LOWER(email) = LOWER($1)", email, excludeID)
}

// ExistsByDocument checks if another teacher uses the same document number.
func (r *TeacherRepository) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	return r.exists(ctx, exec, "document_number = $1", document, excludeID)
}

// ExistsByUserID checks if another teacher is linked to userID.
func (r *TeacherRepository) ExistsByUserID(ctx context.Context, exec sqlx.ExtContext, userID, excludeID string) (bool, error) {
	return r.exists(ctx, exec, "user_id = $1", userID, excludeID)
}

func (r *TeacherRepository) exists(ctx context.Context, exec sqlx.ExtContext, cond, value, excludeID string) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE " + cond
	args := []interface{}{strings.TrimSpace(value)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, user_id, names, surnames, document_type, document_number, phone, address, email, specialties, status, created_at, updated_at)
		VALUES (:id, :user_id, :names, :surnames, :document_type, :document_number, :phone, :address, :email, :specialties, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update persists every mutable column of teacher.
func (r *TeacherRepository) Update(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET user_id = :user_id, names = :names, surnames = :surnames, document_type = :document_type,
		document_number = :document_number, phone = :phone, address = :address, email = :email, specialties = :specialties,
		status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, teacher)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return requireAffected(result, "update teacher")
}

// UpdateStatus changes only the status column.
func (r *TeacherRepository) UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error {
	const query = `UPDATE teachers SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update teacher status: %w", err)
	}
	return requireAffected(result, "update teacher status")
}

// Delete removes a teacher row.
func (r *TeacherRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return requireAffected(result, "delete teacher")
}
