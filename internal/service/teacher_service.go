package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/database"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error)
	LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Teacher, error)
	FindByEmailOrDocument(ctx context.Context, exec sqlx.ExtContext, email, document string) ([]models.Teacher, error)
	ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error)
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error)
	ExistsByUserID(ctx context.Context, exec sqlx.ExtContext, userID, excludeID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error
	Update(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error
	UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type teacherUserRepository interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error)
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
}

type scheduleRepository interface {
	ClassSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string) ([]models.ClassSchedule, error)
	ClassSchedulesBySales(ctx context.Context, exec sqlx.ExtContext, saleIDs []string) ([]models.ClassSchedule, error)
	TeacherSchedulesByTeacher(ctx context.Context, exec sqlx.ExtContext, teacherID string, statuses ...string) ([]models.TeacherSchedule, error)
}

// TeacherDefaults are the placeholders used when a workflow creates a teacher
// from a user account that did not carry teacher data.
type TeacherDefaults struct {
	Specialty        string
	PlaceholderPhone string
}

// TeacherService orchestrates teacher operations and the teacher side of the
// account workflows.
type TeacherService struct {
	repo      teacherRepository
	users     teacherUserRepository
	schedules scheduleRepository
	granter   roleGranter
	tx        database.TxBeginner
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(tx database.TxBeginner, repo teacherRepository, users teacherUserRepository, roles roleFinder, assignments assignmentWriter, schedules scheduleRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{
		repo:      repo,
		users:     users,
		schedules: schedules,
		granter:   roleGranter{roles: roles, assignments: assignments},
		tx:        tx,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// ParseTeacherStatus matches a status case-insensitively.
func ParseTeacherStatus(raw string) (models.TeacherStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for _, status := range []models.TeacherStatus{models.TeacherActive, models.TeacherInactive, models.TeacherPending, models.TeacherSuspended} {
		if strings.EqualFold(trimmed, string(status)) {
			return status, nil
		}
	}
	return "", fieldError("Estado inválido", "estado debe ser Activo, Inactivo, Pendiente o Suspendido")
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	if filter.UserID != "" && !validID(filter.UserID) {
		return []models.Teacher{}, pagination(filter.Page, filter.PageSize, 0), nil
	}
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list teachers")
	}
	return teachers, pagination(filter.Page, filter.PageSize, total), nil
}

// ListBySpecialty returns teachers holding the specialty.
func (s *TeacherService) ListBySpecialty(ctx context.Context, specialty string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, nil, fieldError("Especialidad requerida", "especialidad es obligatorio")
	}
	filter.Specialty = specialty
	return s.List(ctx, filter)
}

// ListByStatus returns teachers in the given status.
func (s *TeacherService) ListByStatus(ctx context.Context, rawStatus string, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	status, err := ParseTeacherStatus(rawStatus)
	if err != nil {
		return nil, nil, err
	}
	filter.Status = &status
	return s.List(ctx, filter)
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	if !validID(id) {
		return nil, notFound("Profesor no encontrado")
	}
	teacher, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Profesor no encontrado")
		}
		return nil, internalError(err, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a teacher together with its user account and the Profesor
// role assignment. The three writes commit or roll back together.
func (s *TeacherService) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del profesor inválidos")
	}
	specialties, verr := normalizeSpecialties(req.Specialties)
	if verr != nil {
		return nil, verr
	}
	status := models.TeacherActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := ParseTeacherStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	document := strings.TrimSpace(req.DocumentNumber)
	if err := s.ensureUnique(ctx, nil, email, document, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	teacher := &models.Teacher{
		Names:          strings.TrimSpace(req.Names),
		Surnames:       strings.TrimSpace(req.Surnames),
		DocumentType:   parseDocumentType(req.DocumentType),
		DocumentNumber: document,
		Phone:          strings.TrimSpace(req.Phone),
		Address:        optionalString(req.Address),
		Email:          email,
		Specialties:    specialties,
		Status:         status,
	}

	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.ensureUserFree(ctx, tx, email, document); err != nil {
			return err
		}
		user := &models.User{
			Name:           teacher.Names,
			Surname:        teacher.Surnames,
			Email:          email,
			PasswordHash:   string(hash),
			DocumentType:   teacher.DocumentType,
			DocumentNumber: document,
			Role:           models.TagTeacher,
			Active:         true,
		}
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		teacher.UserID = &user.ID
		if err := s.repo.Create(ctx, tx, teacher); err != nil {
			return err
		}
		return s.granter.grant(ctx, tx, user.ID, models.RoleNameTeacher, true)
	})
	if err != nil {
		return nil, abortError(s.metrics, s.logger, "create_teacher", err)
	}
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID), zap.String("user_id", *teacher.UserID))
	return teacher, nil
}

// Update merges the supplied fields into a teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del profesor inválidos")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Names != nil {
		teacher.Names = strings.TrimSpace(*req.Names)
	}
	if req.Surnames != nil {
		teacher.Surnames = strings.TrimSpace(*req.Surnames)
	}
	if req.DocumentType != nil {
		teacher.DocumentType = parseDocumentType(*req.DocumentType)
	}
	if req.Phone != nil {
		teacher.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		teacher.Address = normalizeOptional(req.Address)
	}
	if req.Specialties != nil {
		specialties, verr := normalizeSpecialties(req.Specialties)
		if verr != nil {
			return nil, verr
		}
		teacher.Specialties = specialties
	}
	if req.Status != nil {
		status, err := ParseTeacherStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		teacher.Status = status
	}

	var email, document string
	if req.Email != nil {
		if normalized := strings.ToLower(strings.TrimSpace(*req.Email)); normalized != teacher.Email {
			email = normalized
			teacher.Email = normalized
		}
	}
	if req.DocumentNumber != nil {
		if normalized := strings.TrimSpace(*req.DocumentNumber); normalized != teacher.DocumentNumber {
			document = normalized
			teacher.DocumentNumber = normalized
		}
	}
	if err := s.ensureUnique(ctx, nil, email, document, teacher.ID); err != nil {
		return nil, err
	}

	if req.UserID != nil {
		userID, err := s.resolveUserLink(ctx, *req.UserID, teacher.ID)
		if err != nil {
			return nil, err
		}
		teacher.UserID = userID
	}

	if err := s.repo.Update(ctx, nil, teacher); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		return nil, internalError(err, "failed to update teacher")
	}
	return teacher, nil
}

// UpdateStatus changes only the lifecycle status.
func (s *TeacherService) UpdateStatus(ctx context.Context, id string, req models.UpdateTeacherStatusRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Estado inválido")
	}
	status, err := ParseTeacherStatus(req.Status)
	if err != nil {
		return nil, err
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, teacher.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Profesor no encontrado")
		}
		return nil, internalError(err, "failed to update teacher status")
	}
	teacher.Status = status
	return teacher, nil
}

// Delete removes a teacher that no schedule references. The schedule reads
// run in parallel and are not isolated from concurrent schedule creation.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var (
		classes []models.ClassSchedule
		blocks  []models.TeacherSchedule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		classes, err = s.schedules.ClassSchedulesByTeacher(gctx, nil, id)
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = s.schedules.TeacherSchedulesByTeacher(gctx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return internalError(err, "failed to check teacher schedules")
	}

	if len(classes) > 0 || len(blocks) > 0 {
		s.metrics.RecordDeleteBlocked("teacher")
		records := append(classScheduleRecords(classes), teacherScheduleRecords(blocks)...)
		return blockedError("No se puede eliminar el profesor porque tiene programaciones asociadas", records)
	}

	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if _, err := s.repo.LockByID(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Profesor no encontrado")
		}
		return abortError(s.metrics, s.logger, "delete_teacher", err)
	}
	return nil
}

// EnsureForUser makes sure the user has a linked teacher and the Profesor
// assignment, inside the caller's transaction. An existing teacher linked to
// the user is merged; an unlinked teacher with the user's email or document is
// adopted; a teacher with those keys linked to another user is a duplicate.
func (s *TeacherService) EnsureForUser(ctx context.Context, exec sqlx.ExtContext, user *models.User, seed TeacherSeed, defaults TeacherDefaults) (*models.Teacher, error) {
	teacher, err := s.repo.FindByUserID(ctx, exec, user.ID)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		teacher = nil
	default:
		return nil, fmt.Errorf("find teacher for user: %w", err)
	}

	if teacher == nil {
		matches, err := s.repo.FindByEmailOrDocument(ctx, exec, user.Email, user.DocumentNumber)
		if err != nil {
			return nil, fmt.Errorf("find teacher by keys: %w", err)
		}
		for i := range matches {
			if matches[i].UserID != nil && *matches[i].UserID != user.ID {
				return nil, duplicateError("Ya existe un profesor con ese correo o identificación vinculado a otro usuario",
					"profesor %s", matches[i].ID)
			}
		}
		if len(matches) > 0 {
			teacher = &matches[0]
			teacher.UserID = &user.ID
		}
	}

	if teacher != nil {
		seed.applyTo(teacher, user, defaults, false)
		if err := s.repo.Update(ctx, exec, teacher); err != nil {
			return nil, err
		}
	} else {
		teacher = &models.Teacher{UserID: &user.ID, Status: models.TeacherActive}
		seed.applyTo(teacher, user, defaults, true)
		if err := s.repo.Create(ctx, exec, teacher); err != nil {
			return nil, err
		}
	}

	if err := s.granter.grant(ctx, exec, user.ID, models.RoleNameTeacher, false); err != nil {
		return nil, err
	}
	return teacher, nil
}

// TeacherSeed carries the optional teacher fields sent with a user write.
type TeacherSeed struct {
	Phone       *string
	Address     *string
	Specialties []string
}

// applyTo copies identity from the user and merges the supplied optional
// fields. Empty specialties and phone fall back to the configured defaults.
func (seed TeacherSeed) applyTo(teacher *models.Teacher, user *models.User, defaults TeacherDefaults, creating bool) {
	teacher.Names = user.Name
	teacher.Surnames = user.Surname
	teacher.Email = user.Email
	teacher.DocumentType = user.DocumentType
	teacher.DocumentNumber = user.DocumentNumber

	if seed.Phone != nil {
		teacher.Phone = strings.TrimSpace(*seed.Phone)
	}
	if seed.Address != nil {
		teacher.Address = normalizeOptional(seed.Address)
	}
	if len(seed.Specialties) > 0 {
		teacher.Specialties = seed.Specialties
	}
	if len(teacher.Specialties) == 0 {
		teacher.Specialties = []string{defaults.Specialty}
	}
	if teacher.Phone == "" {
		teacher.Phone = defaults.PlaceholderPhone
	}
	if creating && teacher.Status == "" {
		teacher.Status = models.TeacherActive
	}
}

func (s *TeacherService) ensureUnique(ctx context.Context, exec sqlx.ExtContext, email, document, excludeID string) error {
	if email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, exec, email, excludeID)
		if err != nil {
			return internalError(err, "failed to check email uniqueness")
		}
		if exists {
			return duplicateError("Ya existe un profesor con ese correo", "correo %s ya registrado", email)
		}
	}
	if document != "" {
		exists, err := s.repo.ExistsByDocument(ctx, exec, document, excludeID)
		if err != nil {
			return internalError(err, "failed to check document uniqueness")
		}
		if exists {
			return duplicateError("Ya existe un profesor con esa identificación", "identificación %s ya registrada", document)
		}
	}
	return nil
}

func (s *TeacherService) ensureUserFree(ctx context.Context, exec sqlx.ExtContext, email, document string) error {
	exists, err := s.users.ExistsByEmail(ctx, exec, email, "")
	if err != nil {
		return err
	}
	if exists {
		return duplicateError("Ya existe un usuario con ese correo", "correo %s ya registrado", email)
	}
	exists, err = s.users.ExistsByDocument(ctx, exec, document, "")
	if err != nil {
		return err
	}
	if exists {
		return duplicateError("Ya existe un usuario con ese documento", "documento %s ya registrado", document)
	}
	return nil
}

// resolveUserLink validates a usuarioId sent on update. An empty value unlinks.
func (s *TeacherService) resolveUserLink(ctx context.Context, raw, teacherID string) (*string, error) {
	userID := strings.TrimSpace(raw)
	if userID == "" {
		return nil, nil
	}
	if !validID(userID) {
		return nil, fieldError("Identificador de usuario inválido", "usuarioId no es un identificador válido")
	}
	if _, err := s.users.FindByID(ctx, nil, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Usuario no encontrado")
		}
		return nil, internalError(err, "failed to load user")
	}
	linked, err := s.repo.ExistsByUserID(ctx, nil, userID, teacherID)
	if err != nil {
		return nil, internalError(err, "failed to check user link")
	}
	if linked {
		return nil, duplicateError("El usuario ya está vinculado a otro profesor", "usuarioId %s", userID)
	}
	return &userID, nil
}
