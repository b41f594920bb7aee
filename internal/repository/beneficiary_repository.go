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

const beneficiaryColumns = "id, user_id, names, surnames, document_type, document_number, phone, address, birth_date, email, client_id, active, created_at, updated_at"

// BeneficiaryRepository manages persistence for beneficiaries and clients.
type BeneficiaryRepository struct {
	db *sqlx.DB
}

func NewBeneficiaryRepository(db *sqlx.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{db: db}
}

// List returns beneficiaries matching filters along with total count.
func (r *BeneficiaryRepository) List(ctx context.Context, filter models.BeneficiaryFilter) ([]models.Beneficiary, int, error) {
	var fb filterBuilder
	if filter.ClientID != "" {
		fb.add("client_id = ?", filter.ClientID)
	}
	if filter.Active != nil {
		fb.add("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		fb.add("(LOWER(names || ' ' || surnames) LIKE ? OR LOWER(email) LIKE ? OR document_number LIKE ?)", searchPattern(filter.Search))
	}
	base := fb.where("FROM beneficiaries WHERE 1=1")

	allowedSorts := map[string]string{
		"nombre":     "names",
		"apellido":   "surnames",
		"created_at": "created_at",
	}
	page := pageClause(filter.SortBy, filter.SortOrder, allowedSorts, "created_at", filter.Page, filter.PageSize)

	var list []models.Beneficiary
	if err := r.db.SelectContext(ctx, &list, fmt.Sprintf("SELECT %s %s %s", beneficiaryColumns, base, page), fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list beneficiaries: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count beneficiaries: %w", err)
	}
	return list, total, nil
}

// FindByID fetches a beneficiary by ID.
func (r *BeneficiaryRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Beneficiary, error) {
	var b models.Beneficiary
	query := fmt.Sprintf("SELECT %s FROM beneficiaries WHERE id = $1", beneficiaryColumns)
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns beneficiaries owned by a user account.
func (r *BeneficiaryRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.Beneficiary, error) {
	var list []models.Beneficiary
	query := fmt.Sprintf("SELECT %s FROM beneficiaries WHERE user_id = $1", beneficiaryColumns)
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query, userID); err != nil {
		return nil, fmt.Errorf("list beneficiaries by user: %w", err)
	}
	return list, nil
}

// ListDependents returns beneficiaries paid for by clientID, excluding the client itself.
func (r *BeneficiaryRepository) ListDependents(ctx context.Context, exec sqlx.ExtContext, clientID string) ([]models.Beneficiary, error) {
	var list []models.Beneficiary
	query := fmt.Sprintf("SELECT %s FROM beneficiaries WHERE client_id = $1 AND id <> $1 ORDER BY names", beneficiaryColumns)
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &list, query, clientID); err != nil {
		return nil, fmt.Errorf("list dependent beneficiaries: %w", err)
	}
	return list, nil
}

// ExistsByDocument checks whether another beneficiary holds the document number.
func (r *BeneficiaryRepository) ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error) {
	query := "SELECT 1 FROM beneficiaries WHERE document_number = $1"
	args := []interface{}{strings.TrimSpace(document)}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var found int
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &found, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check beneficiary document: %w", err)
	}
	return true, nil
}

// Create inserts a beneficiary. An empty ClientID makes it its own client.
func (r *BeneficiaryRepository) Create(ctx context.Context, exec sqlx.ExtContext, b *models.Beneficiary) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.ClientID == "" {
		b.ClientID = b.ID
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	const query = `INSERT INTO beneficiaries (id, user_id, names, surnames, document_type, document_number, phone, address, birth_date, email, client_id, active, created_at, updated_at)
		VALUES (:id, :user_id, :names, :surnames, :document_type, :document_number, :phone, :address, :birth_date, :email, :client_id, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, b); err != nil {
		return fmt.Errorf("create beneficiary: %w", err)
	}
	return nil
}

// Update persists every mutable column.
func (r *BeneficiaryRepository) Update(ctx context.Context, b *models.Beneficiary) error {
	b.UpdatedAt = time.Now().UTC()
	const query = `UPDATE beneficiaries SET names = :names, surnames = :surnames, document_type = :document_type, document_number = :document_number,
		phone = :phone, address = :address, birth_date = :birth_date, email = :email, client_id = :client_id, active = :active, updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	return requireAffected(result, "update beneficiary")
}

// Delete removes a beneficiary row.
func (r *BeneficiaryRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM beneficiaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	return requireAffected(result, "delete beneficiary")
}
