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

const userColumns = "id, name, surname, email, password_hash, document_type, document_number, role, active, created_at, updated_at"

// UserRepository manages persistence for user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns users matching filters along with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var fb filterBuilder
	if filter.Role != nil {
		fb.add("role = ?", *filter.Role)
	}
	if filter.Active != nil {
		fb.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("(LOWER(name || ' ' || surname) LIKE ? OR LOWER(email) LIKE ? OR document_number LIKE ?)", searchPattern(filter.Search))
	}
	base := fb.where("FROM users WHERE 1=1")

	allowedSorts := map[string]string{
		"nombre":     "name",
		"apellido":   "surname",
		"correo":     "email",
		"created_at": "created_at",
	}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "created_at", filter.Page, filter.PageSize)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, fmt.Sprintf("SELECT %s %s %s", userColumns, base, page), fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// LockByID loads a user with a row lock held until exec's transaction ends.
func (r *UserRepository) LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 FOR UPDATE", userColumns)
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by case-insensitive email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = LOWER($1)", userColumns)
	if err := r.db.GetContext(ctx, &user, query, strings.TrimSpace(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether another user holds email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error) {
	return r.exists(ctx, exec, "email = LOWER($1)", strings.TrimSpace(email), excludeID)
}

// ExistsByDocument checks whether another user holds the document number.
func (r *UserRepository) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	return r.exists(ctx, exec, "document_number = $1", strings.TrimSpace(document), excludeID)
}

func (r *UserRepository) exists(ctx context.Context, exec sqlx.ExtContext, cond string, value, excludeID string) (bool, error) {
	query := "SELECT 1 FROM users WHERE " + cond
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new user. Email is stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	const query = `INSERT INTO users (id, name, surname, email, password_hash, document_type, document_number, role, active, created_at, updated_at)
		VALUES (:id, :name, :surname, :email, :password_hash, :document_type, :document_number, :role, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update persists every mutable column of user.
func (r *UserRepository) Update(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `UPDATE users SET name = :name, surname = :surname, email = :email, password_hash = :password_hash,
		document_type = :document_type, document_number = :document_number, role = :role, active = :active, updated_at = :updated_at
		WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(result, "update user")
}

// Delete removes a user row.
func (r *UserRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(result, "delete user")
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
