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

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/database"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	LockByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error)
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	Update(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type userAssignmentRepository interface {
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.RoleAssignmentDetail, error)
	DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) (int64, error)
}

type teacherEnsurer interface {
	EnsureForUser(ctx context.Context, exec sqlx.ExtContext, user *models.User, seed TeacherSeed, defaults TeacherDefaults) (*models.Teacher, error)
}

type userTeacherLookup interface {
	FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Teacher, error)
}

type userBeneficiaryLookup interface {
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.Beneficiary, error)
	ListDependents(ctx context.Context, exec sqlx.ExtContext, clientID string) ([]models.Beneficiary, error)
}

type userSaleLookup interface {
	ListByBeneficiaries(ctx context.Context, exec sqlx.ExtContext, beneficiaryIDs []string) ([]models.Sale, error)
}

// UserDependencies groups the collaborators of UserService.
type UserDependencies struct {
	Users         userRepository
	Assignments   userAssignmentRepository
	Roles         roleFinder
	Grants        assignmentWriter
	Teachers      teacherEnsurer
	TeacherLookup userTeacherLookup
	Beneficiaries userBeneficiaryLookup
	Sales         userSaleLookup
	Schedules     scheduleRepository
}

// UserService manages accounts and keeps the linked teacher and role
// assignments consistent with them.
type UserService struct {
	deps      UserDependencies
	granter   roleGranter
	tx        database.TxBeginner
	defaults  TeacherDefaults
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(tx database.TxBeginner, deps UserDependencies, defaults TeacherDefaults, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		deps:      deps,
		granter:   roleGranter{roles: deps.Roles, assignments: deps.Grants},
		tx:        tx,
		defaults:  defaults,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns users plus pagination data.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.deps.Users.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list users")
	}
	return users, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a user with its active roles.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserDetail, error) {
	if !validID(id) {
		return nil, notFound("Usuario no encontrado")
	}
	user, err := s.deps.Users.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Usuario no encontrado")
		}
		return nil, internalError(err, "failed to load user")
	}
	assignments, err := s.deps.Assignments.ListByUser(ctx, nil, id)
	if err != nil {
		return nil, internalError(err, "failed to load user roles")
	}
	detail := &models.UserDetail{User: *user, Roles: []models.Role{}}
	for _, a := range assignments {
		if a.Active {
			detail.Roles = append(detail.Roles, models.Role{ID: a.RoleID, Name: a.RoleName, CreatedAt: a.CreatedAt})
		}
	}
	return detail, nil
}

// Create registers a user. When the role is profesor or esProfesor is set the
// linked teacher and the Profesor assignment are written in the same
// transaction; any failure leaves nothing behind.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del usuario inválidos")
	}
	tag, err := models.ParseRoleTag(req.Role)
	if err != nil {
		return nil, fieldError("Rol inválido", err.Error())
	}
	seed, verr := teacherSeed(&req.Phone, &req.Address, req.Specialties)
	if verr != nil {
		return nil, verr
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	user := &models.User{
		Name:           strings.TrimSpace(req.Name),
		Surname:        strings.TrimSpace(req.Surname),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   string(hash),
		DocumentType:   parseDocumentType(req.DocumentType),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		Role:           tag,
		Active:         true,
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	wantsTeacher := tag == models.TagTeacher || req.IsTeacher

	err = database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.ensureUnique(ctx, tx, user.Email, user.DocumentNumber, ""); err != nil {
			return err
		}
		if err := s.deps.Users.Create(ctx, tx, user); err != nil {
			return err
		}
		if name := tag.RoleName(); name != "" {
			if err := s.granter.grant(ctx, tx, user.ID, name, true); err != nil {
				return err
			}
		}
		if wantsTeacher {
			if _, err := s.deps.Teachers.EnsureForUser(ctx, tx, user, seed, s.defaults); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, abortError(s.metrics, s.logger, "create_user", err)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.Bool("teacher", wantsTeacher))
	return user, nil
}

// Update merges the supplied fields. The teacher step runs in the same
// transaction as the user write.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if !validID(id) {
		return nil, notFound("Usuario no encontrado")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del usuario inválidos")
	}
	var tag *models.RoleTag
	if req.Role != nil {
		parsed, err := models.ParseRoleTag(*req.Role)
		if err != nil {
			return nil, fieldError("Rol inválido", err.Error())
		}
		tag = &parsed
	}
	seed, verr := teacherSeed(req.Phone, req.Address, req.Specialties)
	if verr != nil {
		return nil, verr
	}
	var hash []byte
	if req.Password != nil && *req.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost); err != nil {
			return nil, internalError(err, "failed to hash password")
		}
	}

	var user *models.User
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.deps.Users.LockByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("Usuario no encontrado")
			}
			return err
		}

		var email, document string
		if req.Email != nil {
			if normalized := strings.ToLower(strings.TrimSpace(*req.Email)); normalized != user.Email {
				email, user.Email = normalized, normalized
			}
		}
		if req.DocumentNumber != nil {
			if normalized := strings.TrimSpace(*req.DocumentNumber); normalized != user.DocumentNumber {
				document, user.DocumentNumber = normalized, normalized
			}
		}
		if err := s.ensureUnique(ctx, tx, email, document, user.ID); err != nil {
			return err
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Surname != nil {
			user.Surname = strings.TrimSpace(*req.Surname)
		}
		if req.DocumentType != nil {
			user.DocumentType = parseDocumentType(*req.DocumentType)
		}
		if req.Active != nil {
			user.Active = *req.Active
		}
		if hash != nil {
			user.PasswordHash = string(hash)
		}
		if tag != nil {
			user.Role = *tag
		}
		if err := s.deps.Users.Update(ctx, tx, user); err != nil {
			return err
		}
		if name := user.Role.RoleName(); tag != nil && name != "" {
			if err := s.granter.grant(ctx, tx, user.ID, name, false); err != nil {
				return err
			}
		}
		if user.Role == models.TagTeacher || req.IsTeacher {
			if _, err := s.deps.Teachers.EnsureForUser(ctx, tx, user, seed, s.defaults); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, abortError(s.metrics, s.logger, "update_user", err)
	}
	return user, nil
}

// Delete removes a user once no dependent record blocks it. The checks depend
// on the user's role tags:
//   - cliente: beneficiaries paid by the user's beneficiary records
//   - beneficiario: sales of the user's beneficiary records
//   - profesor: active or completed teacher schedules and class schedules
//
// The checks, the assignment cascade and the delete share one transaction.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("Usuario no encontrado")
	}
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		user, err := s.deps.Users.LockByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("Usuario no encontrado")
			}
			return err
		}
		tags, err := s.roleTags(ctx, tx, user)
		if err != nil {
			return err
		}

		records, err := s.dependents(ctx, tx, user, tags)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			s.metrics.RecordDeleteBlocked("user")
			return blockedError("No se puede eliminar el usuario porque tiene registros asociados", records)
		}

		removed, err := s.deps.Assignments.DeleteByUser(ctx, tx, user.ID)
		if err != nil {
			return fmt.Errorf("delete role assignments: %w", err)
		}
		if err := s.deps.Users.Delete(ctx, tx, user.ID); err != nil {
			return err
		}
		s.logger.Info("user deleted", zap.String("user_id", user.ID), zap.Int64("assignments_removed", removed))
		return nil
	})
	if err != nil {
		return abortError(s.metrics, s.logger, "delete_user", err)
	}
	return nil
}

func (s *UserService) roleTags(ctx context.Context, exec sqlx.ExtContext, user *models.User) (models.RoleSet, error) {
	assignments, err := s.deps.Assignments.ListByUser(ctx, exec, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	tags := models.NewRoleSet(user.Role)
	for _, a := range assignments {
		if !a.Active {
			continue
		}
		if tag, ok := models.RoleTagForName(a.RoleName); ok {
			tags[tag] = struct{}{}
		}
	}
	return tags, nil
}

func (s *UserService) dependents(ctx context.Context, exec sqlx.ExtContext, user *models.User, tags models.RoleSet) ([]appErrors.AssociatedRecord, error) {
	var records []appErrors.AssociatedRecord

	if tags.Has(models.TagClient) || tags.Has(models.TagBeneficiary) {
		owned, err := s.deps.Beneficiaries.ListByUser(ctx, exec, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list beneficiaries: %w", err)
		}
		if tags.Has(models.TagClient) {
			for _, b := range owned {
				deps, err := s.deps.Beneficiaries.ListDependents(ctx, exec, b.ID)
				if err != nil {
					return nil, fmt.Errorf("list dependents: %w", err)
				}
				records = append(records, beneficiaryRecords(deps)...)
			}
		}
		if tags.Has(models.TagBeneficiary) && len(owned) > 0 {
			ids := make([]string, 0, len(owned))
			for _, b := range owned {
				ids = append(ids, b.ID)
			}
			sales, err := s.deps.Sales.ListByBeneficiaries(ctx, exec, ids)
			if err != nil {
				return nil, fmt.Errorf("list sales: %w", err)
			}
			records = append(records, saleRecords(sales)...)
		}
	}

	if tags.Has(models.TagTeacher) {
		teacher, err := s.deps.TeacherLookup.FindByUserID(ctx, exec, user.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, fmt.Errorf("find teacher: %w", err)
		default:
			blocks, err := s.deps.Schedules.TeacherSchedulesByTeacher(ctx, exec, teacher.ID, models.TeacherScheduleActive, models.TeacherScheduleCompleted)
			if err != nil {
				return nil, fmt.Errorf("list teacher schedules: %w", err)
			}
			classes, err := s.deps.Schedules.ClassSchedulesByTeacher(ctx, exec, teacher.ID)
			if err != nil {
				return nil, fmt.Errorf("list class schedules: %w", err)
			}
			records = append(records, teacherScheduleRecords(blocks)...)
			records = append(records, classScheduleRecords(classes)...)
		}
	}
	return records, nil
}

func (s *UserService) ensureUnique(ctx context.Context, exec sqlx.ExtContext, email, document, excludeID string) error {
	if email != "" {
		exists, err := s.deps.Users.ExistsByEmail(ctx, exec, email, excludeID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return duplicateError("Ya existe un usuario con ese correo", "correo %s ya registrado", email)
		}
	}
	if document != "" {
		exists, err := s.deps.Users.ExistsByDocument(ctx, exec, document, excludeID)
		if err != nil {
			return fmt.Errorf("check document: %w", err)
		}
		if exists {
			return duplicateError("Ya existe un usuario con ese documento", "documento %s ya registrado", document)
		}
	}
	return nil
}

func teacherSeed(phone, address *string, specialties []string) (TeacherSeed, *appErrors.Error) {
	seed := TeacherSeed{Phone: normalizeOptional(phone), Address: normalizeOptional(address)}
	if len(specialties) > 0 {
		normalized, verr := normalizeSpecialties(specialties)
		if verr != nil {
			return TeacherSeed{}, verr
		}
		seed.Specialties = normalized
	}
	return seed, nil
}
