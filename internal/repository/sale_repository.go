package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

const saleColumns = "id, type, beneficiary_id, course_id, enrollment_type_id, start_date, end_date, class_count, cycle, total_value, discount, notes, status, cancellation_reason, cancelled_at, sale_code, sequence_number, created_at, updated_at"

const saleDetailSelect = `SELECT s.id, s.type, s.beneficiary_id, s.course_id, s.enrollment_type_id, s.start_date, s.end_date, s.class_count, s.cycle,
	s.total_value, s.discount, s.notes, s.status, s.cancellation_reason, s.cancelled_at, s.sale_code, s.sequence_number, s.created_at, s.updated_at,
	(b.names || ' ' || b.surnames) AS beneficiary_name, c.name AS course_name, et.name AS enrollment_type_name`

const saleDetailFrom = `FROM sales s
JOIN beneficiaries b ON b.id = s.beneficiary_id
LEFT JOIN courses c ON c.id = s.course_id
LEFT JOIN enrollment_types et ON et.id = s.enrollment_type_id
WHERE 1=1`

// SaleRepository manages persistence for sales.
type SaleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func saleFilters(filter models.SaleFilter) filterBuilder {
	var fb filterBuilder
	if filter.Type != nil {
		fb.add("s.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		fb.add("s.status = ?", *filter.Status)
	}
	if filter.BeneficiaryID != "" {
		fb.add("s.beneficiary_id = ?", filter.BeneficiaryID)
	}
	if filter.From != nil {
		fb.add("s.start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		fb.add("s.start_date <= ?", *filter.To)
	}
	if filter.Search != "" {
		fb.add("(LOWER(s.sale_code) LIKE ? OR LOWER(b.names || ' ' || b.surnames) LIKE ?)", searchPattern(filter.Search))
	}
	return fb
}

var saleSorts = map[string]string{
	"codigoVenta": "s.sale_code",
	"fechaInicio": "s.start_date",
	"valor_total": "s.total_value",
	"created_at":  "s.created_at",
}

// List returns sale details matching filters along with total count.
func (r *SaleRepository) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error) {
	fb := saleFilters(filter)
	base := fb.where(saleDetailFrom)
	page := pageClause(filter.SortBy, filter.SortOrder, saleSorts, "created_at", filter.Page, filter.PageSize)

	var sales []models.SaleDetail
	if err := r.db.SelectContext(ctx, &sales, fmt.Sprintf("%s %s %s", saleDetailSelect, base, page), fb.args...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, fb.args...); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	return sales, total, nil
}

// ListAll returns every sale matching filters ordered by code, for exports.
func (r *SaleRepository) ListAll(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, error) {
	fb := saleFilters(filter)
	var sales []models.SaleDetail
	query := fmt.Sprintf("%s %s ORDER BY s.sale_code", saleDetailSelect, fb.where(saleDetailFrom))
	if err := r.db.SelectContext(ctx, &sales, query, fb.args...); err != nil {
		return nil, fmt.Errorf("list sales for export: %w", err)
	}
	return sales, nil
}

// GetDetail fetches a sale with its display names.
func (r *SaleRepository) GetDetail(ctx context.Context, id string) (*models.SaleDetail, error) {
	var sale models.SaleDetail
	if err := r.db.GetContext(ctx, &sale, fmt.Sprintf("%s %s AND s.id = $1", saleDetailSelect, saleDetailFrom), id); err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindByID fetches a bare sale row.
func (r *SaleRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Sale, error) {
	var sale models.Sale
	if err := sqlx.GetContext(ctx, pick(exec, r.db), &sale, fmt.Sprintf("SELECT %s FROM sales WHERE id = $1", saleColumns), id); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ExistsByCode checks whether a sale code is already taken.
func (r *SaleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var found int
	if err := r.db.GetContext(ctx, &found, `SELECT 1 FROM sales WHERE sale_code = $1 LIMIT 1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check sale code: %w", err)
	}
	return true, nil
}

// ListByBeneficiaries returns the sales of any of the given beneficiaries.
func (r *SaleRepository) ListByBeneficiaries(ctx context.Context, exec sqlx.ExtContext, beneficiaryIDs []string) ([]models.Sale, error) {
	if len(beneficiaryIDs) == 0 {
		return nil, nil
	}
	var sales []models.Sale
	query := fmt.Sprintf("SELECT %s FROM sales WHERE beneficiary_id = ANY($1) ORDER BY sale_code", saleColumns)
	if err := sqlx.SelectContext(ctx, pick(exec, r.db), &sales, query, pq.Array(beneficiaryIDs)); err != nil {
		return nil, fmt.Errorf("list sales by beneficiaries: %w", err)
	}
	return sales, nil
}

// ListByCourse returns sales of a course.
func (r *SaleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Sale, error) {
	return r.listBy(ctx, "course_id", courseID)
}

// ListByEnrollmentType returns sales of an enrollment type.
func (r *SaleRepository) ListByEnrollmentType(ctx context.Context, enrollmentTypeID string) ([]models.Sale, error) {
	return r.listBy(ctx, "enrollment_type_id", enrollmentTypeID)
}

func (r *SaleRepository) listBy(ctx context.Context, column, id string) ([]models.Sale, error) {
	var sales []models.Sale
	query := fmt.Sprintf("SELECT %s FROM sales WHERE %s = $1 ORDER BY sale_code", saleColumns, column)
	if err := r.db.SelectContext(ctx, &sales, query, id); err != nil {
		return nil, fmt.Errorf("list sales by %s: %w", column, err)
	}
	return sales, nil
}

// Create inserts a sale. A duplicate sale_code surfaces as a unique violation.
func (r *SaleRepository) Create(ctx context.Context, exec sqlx.ExtContext, sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now
	}
	sale.UpdatedAt = now

	const query = `INSERT INTO sales (id, type, beneficiary_id, course_id, enrollment_type_id, start_date, end_date, class_count, cycle, total_value,
		discount, notes, status, cancellation_reason, cancelled_at, sale_code, sequence_number, created_at, updated_at)
		VALUES (:id, :type, :beneficiary_id, :course_id, :enrollment_type_id, :start_date, :end_date, :class_count, :cycle, :total_value,
		:discount, :notes, :status, :cancellation_reason, :cancelled_at, :sale_code, :sequence_number, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(exec, r.db), query, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// Update persists the editable columns of an active sale.
func (r *SaleRepository) Update(ctx context.Context, sale *models.Sale) error {
	sale.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sales SET start_date = :start_date, end_date = :end_date, class_count = :class_count, cycle = :cycle,
		total_value = :total_value, discount = :discount, notes = :notes, updated_at = :updated_at
		WHERE id = :id AND status = 'vigente'`
	result, err := r.db.NamedExecContext(ctx, query, sale)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return requireAffected(result, "update sale")
}

// Cancel moves an active sale to anulada. sql.ErrNoRows means the sale was
// missing or already cancelled.
func (r *SaleRepository) Cancel(ctx context.Context, id, reason string, at time.Time) error {
	const query = `UPDATE sales SET status = 'anulada', cancellation_reason = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'vigente'`
	result, err := r.db.ExecContext(ctx, query, id, reason, at)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	return requireAffected(result, "cancel sale")
}

// Delete removes a sale row.
func (r *SaleRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	result, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return requireAffected(result, "delete sale")
}
