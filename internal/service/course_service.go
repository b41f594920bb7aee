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

type courseRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Course, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseSales interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Sale, error)
}

// CourseService manages the course catalogue.
type CourseService struct {
	repo      courseRepository
	sales     courseSales
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, sales courseSales, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, sales: sales, validator: validate, metrics: metrics, logger: logger}
}

func (s *CourseService) List(ctx context.Context, filter models.CatalogFilter) ([]models.Course, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list courses")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	if !validID(id) {
		return nil, notFound("Curso no encontrado")
	}
	c, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Curso no encontrado")
		}
		return nil, internalError(err, "failed to load course")
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del curso inválidos")
	}
	if req.PricePerHour.IsNegative() {
		return nil, fieldError("Datos del curso inválidos", "valor_por_hora no puede ser negativo")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}
	c := &models.Course{Name: name, Description: optionalString(req.Description), PricePerHour: req.PricePerHour, Active: true}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create course")
	}
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id string, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del curso inválidos")
	}
	if req.PricePerHour.IsNegative() {
		return nil, fieldError("Datos del curso inválidos", "valor_por_hora no puede ser negativo")
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, name, c.ID); err != nil {
		return nil, err
	}
	c.Name = name
	c.Description = optionalString(req.Description)
	c.PricePerHour = req.PricePerHour
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to update course")
	}
	return c, nil
}

// Delete removes a course that no sale references.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	sales, err := s.sales.ListByCourse(ctx, id)
	if err != nil {
		return internalError(err, "failed to check course sales")
	}
	if len(sales) > 0 {
		s.metrics.RecordDeleteBlocked("course")
		return blockedError("No se puede eliminar el curso porque tiene ventas asociadas", saleRecords(sales))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Curso no encontrado")
		}
		return internalError(err, "failed to delete course")
	}
	return nil
}

func (s *CourseService) ensureUnique(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internalError(err, "failed to check course name")
	}
	if exists {
		return duplicateError("Ya existe un curso con ese nombre", "nombre %s ya registrado", name)
	}
	return nil
}
