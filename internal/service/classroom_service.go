package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/internal/repository"
)

type classroomRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	ExistsByRoomNumber(ctx context.Context, roomNumber, excludeID string) (bool, error)
	Create(ctx context.Context, c *models.Classroom) error
	Update(ctx context.Context, c *models.Classroom) error
	Delete(ctx context.Context, id string) error
}

// ClassroomService manages classrooms.
type ClassroomService struct {
	repo      classroomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(repo classroomRepository, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, validator: validate, logger: logger}
}

func (s *ClassroomService) List(ctx context.Context, filter models.CatalogFilter) ([]models.Classroom, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list classrooms")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	if !validID(id) {
		return nil, notFound("Aula no encontrada")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Aula no encontrada")
		}
		return nil, internalError(err, "failed to load classroom")
	}
	return c, nil
}

func (s *ClassroomService) Create(ctx context.Context, req models.ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del aula inválidos")
	}
	room := strings.TrimSpace(req.RoomNumber)
	if err := s.ensureUnique(ctx, room, ""); err != nil {
		return nil, err
	}
	c := &models.Classroom{RoomNumber: room, Capacity: req.Capacity, Active: true}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to create classroom")
	}
	return c, nil
}

func (s *ClassroomService) Update(ctx context.Context, id string, req models.ClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del aula inválidos")
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	room := strings.TrimSpace(req.RoomNumber)
	if err := s.ensureUnique(ctx, room, c.ID); err != nil {
		return nil, err
	}
	c.RoomNumber = room
	c.Capacity = req.Capacity
	if req.Active != nil {
		c.Active = *req.Active
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to update classroom")
	}
	return c, nil
}

// Delete removes a classroom. Class schedules still pointing at it block the
// delete through the store's foreign key.
func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("Aula no encontrada")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return notFound("Aula no encontrada")
		case repository.IsForeignKeyViolation(err):
			return blockedError("No se puede eliminar el aula porque tiene clases programadas", nil)
		}
		return internalError(err, "failed to delete classroom")
	}
	return nil
}

func (s *ClassroomService) ensureUnique(ctx context.Context, room, excludeID string) error {
	exists, err := s.repo.ExistsByRoomNumber(ctx, room, excludeID)
	if err != nil {
		return internalError(err, "failed to check classroom number")
	}
	if exists {
		return duplicateError("Ya existe un aula con ese número", "numeroAula %s ya registrado", room)
	}
	return nil
}
