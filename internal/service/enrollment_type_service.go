package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

type enrollmentTypeRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.EnrollmentType, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentType, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, et *models.EnrollmentType) error
	Update(ctx context.Context, et *models.EnrollmentType) error
	Delete(ctx context.Context, id string) error
}

type enrollmentTypeSales interface {
	ListByEnrollmentType(ctx context.Context, enrollmentTypeID string) ([]models.Sale, error)
}

// EnrollmentTypeService manages enrollment plans ("matrículas").
type EnrollmentTypeService struct {
	repo      enrollmentTypeRepository
	sales     enrollmentTypeSales
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEnrollmentTypeService constructs an EnrollmentTypeService.
func NewEnrollmentTypeService(repo enrollmentTypeRepository, sales enrollmentTypeSales, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *EnrollmentTypeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentTypeService{repo: repo, sales: sales, validator: validate, metrics: metrics, logger: logger}
}

func (s *EnrollmentTypeService) List(ctx context.Context, filter models.CatalogFilter) ([]models.EnrollmentType, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list enrollment types")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *EnrollmentTypeService) Get(ctx context.Context, id string) (*models.EnrollmentType, error) {
	if !validID(id) {
		return nil, notFound("Matrícula no encontrada")
	}
	et, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Matrícula no encontrada")
		}
		return nil, internalError(err, "failed to load enrollment type")
	}
	return et, nil
}

func (s *EnrollmentTypeService) Create(ctx context.Context, req models.EnrollmentTypeRequest) (*models.EnrollmentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos de la matrícula inválidos")
	}
	if req.Value.IsNegative() {
		return nil, fieldError("Datos de la matrícula inválidos", "valorMatricula no puede ser negativo")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}
	et := &models.EnrollmentType{Name: name, Value: req.Value, Active: true}
	if req.Active != nil {
		et.Active = *req.Active
	}
	if err := s.repo.Create(ctx, et); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create enrollment type")
	}
	return et, nil
}

func (s *EnrollmentTypeService) Update(ctx context.Context, id string, req models.EnrollmentTypeRequest) (*models.EnrollmentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos de la matrícula inválidos")
	}
	if req.Value.IsNegative() {
		return nil, fieldError("Datos de la matrícula inválidos", "valorMatricula no puede ser negativo")
	}
	et, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, et.ID); err != nil {
		return nil, err
	}
	et.Name = name
	et.Value = req.Value
	if req.Active != nil {
		et.Active = *req.Active
	}
	if err := s.repo.Update(ctx, et); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to update enrollment type")
	}
	return et, nil
}

// Delete removes an enrollment type that no sale references.
func (s *EnrollmentTypeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	sales, err := s.sales.ListByEnrollmentType(ctx, id)
	if err != nil {
		return internalError(err, "failed to check enrollment sales")
	}
	if len(sales) > 0 {
		s.metrics.RecordDeleteBlocked("enrollment_type")
		return blockedError("No se puede eliminar la matrícula porque tiene ventas asociadas", saleRecords(sales))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Matrícula no encontrada")
		}
		return internalError(err, "failed to delete enrollment type")
	}
	return nil
}

func (s *EnrollmentTypeService) ensureUnique(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internalError(err, "failed to check enrollment type name")
	}
	if exists {
		return duplicateError("Ya existe una matrícula con ese nombre", "nombre %s ya registrado", name)
	}
	return nil
}
