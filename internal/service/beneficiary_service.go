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
)

type beneficiaryRepository interface {
	List(ctx context.Context, filter models.BeneficiaryFilter) ([]models.Beneficiary, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Beneficiary, error)
	ListDependents(ctx context.Context, exec sqlx.ExtContext, clientID string) ([]models.Beneficiary, error)
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, b *models.Beneficiary) error
	Update(ctx context.Context, b *models.Beneficiary) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type accountUserRepository interface {
	ExistsByEmail(ctx context.Context, exec sqlx.ExtContext, email, excludeID string) (bool, error)
	ExistsByDocument(ctx context.Context, exec sqlx.ExtContext, document, excludeID string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
}

// BeneficiaryService manages beneficiaries and their optional login accounts.
type BeneficiaryService struct {
	repo      beneficiaryRepository
	users     accountUserRepository
	sales     userSaleLookup
	granter   roleGranter
	tx        database.TxBeginner
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewBeneficiaryService constructs a BeneficiaryService.
func NewBeneficiaryService(tx database.TxBeginner, repo beneficiaryRepository, users accountUserRepository, sales userSaleLookup, roles roleFinder, assignments assignmentWriter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *BeneficiaryService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BeneficiaryService{
		repo:      repo,
		users:     users,
		sales:     sales,
		granter:   roleGranter{roles: roles, assignments: assignments},
		tx:        tx,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns beneficiaries plus pagination data.
func (s *BeneficiaryService) List(ctx context.Context, filter models.BeneficiaryFilter) ([]models.Beneficiary, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list beneficiaries")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one beneficiary.
func (s *BeneficiaryService) Get(ctx context.Context, id string) (*models.Beneficiary, error) {
	if !validID(id) {
		return nil, notFound("Beneficiario no encontrado")
	}
	b, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Beneficiario no encontrado")
		}
		return nil, internalError(err, "failed to load beneficiary")
	}
	return b, nil
}

// Create registers a beneficiary. With a cuenta block it also creates the user
// account and its role assignments; all writes share one transaction.
func (s *BeneficiaryService) Create(ctx context.Context, req models.CreateBeneficiaryRequest) (*models.Beneficiary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del beneficiario inválidos")
	}
	if req.BirthDate.IsZero() {
		return nil, fieldError("Datos del beneficiario inválidos", "fechaDeNacimiento es obligatorio")
	}

	b := &models.Beneficiary{
		Names:          strings.TrimSpace(req.Names),
		Surnames:       strings.TrimSpace(req.Surnames),
		DocumentType:   parseDocumentType(req.DocumentType),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
		BirthDate:      req.BirthDate,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Active:         true,
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	if !req.IsClient && req.ClientID != "" {
		if err := s.ensureClientExists(ctx, req.ClientID); err != nil {
			return nil, err
		}
		b.ClientID = req.ClientID
	}
	ownClient := b.ClientID == ""

	var hash []byte
	if req.Account != nil {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(req.Account.Password), bcrypt.DefaultCost); err != nil {
			return nil, internalError(err, "failed to hash password")
		}
	}

	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		exists, err := s.repo.ExistsByDocument(ctx, tx, b.DocumentNumber, "")
		if err != nil {
			return err
		}
		if exists {
			return duplicateError("Ya existe un beneficiario con ese documento", "documento %s ya registrado", b.DocumentNumber)
		}
		if req.Account != nil {
			userID, err := s.createAccount(ctx, tx, b, req.Account, string(hash), ownClient)
			if err != nil {
				return err
			}
			b.UserID = &userID
		}
		return s.repo.Create(ctx, tx, b)
	})
	if err != nil {
		return nil, abortError(s.metrics, s.logger, "create_beneficiary", err)
	}
	return b, nil
}

func (s *BeneficiaryService) createAccount(ctx context.Context, exec sqlx.ExtContext, b *models.Beneficiary, account *models.AccountRequest, hash string, ownClient bool) (string, error) {
	email := strings.ToLower(strings.TrimSpace(account.Email))
	if email == "" {
		email = b.Email
	}
	exists, err := s.users.ExistsByEmail(ctx, exec, email, "")
	if err != nil {
		return "", err
	}
	if exists {
		return "", duplicateError("Ya existe un usuario con ese correo", "correo %s ya registrado", email)
	}
	exists, err = s.users.ExistsByDocument(ctx, exec, b.DocumentNumber, "")
	if err != nil {
		return "", err
	}
	if exists {
		return "", duplicateError("Ya existe un usuario con ese documento", "documento %s ya registrado", b.DocumentNumber)
	}

	tag := models.TagBeneficiary
	if ownClient {
		tag = models.TagClient
	}
	user := &models.User{
		Name:           b.Names,
		Surname:        b.Surnames,
		Email:          email,
		PasswordHash:   hash,
		DocumentType:   b.DocumentType,
		DocumentNumber: b.DocumentNumber,
		Role:           tag,
		Active:         true,
	}
	if err := s.users.Create(ctx, exec, user); err != nil {
		return "", err
	}
	if err := s.granter.grant(ctx, exec, user.ID, tag.RoleName(), true); err != nil {
		return "", err
	}
	if ownClient {
		if err := s.granter.grant(ctx, exec, user.ID, models.RoleNameBeneficiary, false); err != nil {
			return "", err
		}
	}
	return user.ID, nil
}

// Update merges the supplied fields.
func (s *BeneficiaryService) Update(ctx context.Context, id string, req models.UpdateBeneficiaryRequest) (*models.Beneficiary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos del beneficiario inválidos")
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Names != nil {
		b.Names = strings.TrimSpace(*req.Names)
	}
	if req.Surnames != nil {
		b.Surnames = strings.TrimSpace(*req.Surnames)
	}
	if req.DocumentType != nil {
		b.DocumentType = parseDocumentType(*req.DocumentType)
	}
	if req.DocumentNumber != nil {
		if normalized := strings.TrimSpace(*req.DocumentNumber); normalized != b.DocumentNumber {
			exists, err := s.repo.ExistsByDocument(ctx, nil, normalized, b.ID)
			if err != nil {
				return nil, internalError(err, "failed to check document uniqueness")
			}
			if exists {
				return nil, duplicateError("Ya existe un beneficiario con ese documento", "documento %s ya registrado", normalized)
			}
			b.DocumentNumber = normalized
		}
	}
	if req.Phone != nil {
		b.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		b.Address = strings.TrimSpace(*req.Address)
	}
	if req.BirthDate != nil && !req.BirthDate.IsZero() {
		b.BirthDate = *req.BirthDate
	}
	if req.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	if req.ClientID != nil {
		clientID := strings.TrimSpace(*req.ClientID)
		switch {
		case clientID == "" || clientID == b.ID:
			b.ClientID = b.ID
		default:
			if err := s.ensureClientExists(ctx, clientID); err != nil {
				return nil, err
			}
			b.ClientID = clientID
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Beneficiario no encontrado")
		}
		return nil, internalError(err, "failed to update beneficiary")
	}
	return b, nil
}

// Delete removes a beneficiary that pays for nobody else and has no sales.
func (s *BeneficiaryService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("Beneficiario no encontrado")
	}
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("Beneficiario no encontrado")
			}
			return err
		}
		dependents, err := s.repo.ListDependents(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("list dependents: %w", err)
		}
		sales, err := s.sales.ListByBeneficiaries(ctx, tx, []string{id})
		if err != nil {
			return fmt.Errorf("list sales: %w", err)
		}
		if len(dependents) > 0 || len(sales) > 0 {
			s.metrics.RecordDeleteBlocked("beneficiary")
			records := append(beneficiaryRecords(dependents), saleRecords(sales)...)
			return blockedError("No se puede eliminar el beneficiario porque tiene registros asociados", records)
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return abortError(s.metrics, s.logger, "delete_beneficiary", err)
	}
	return nil
}

func (s *BeneficiaryService) ensureClientExists(ctx context.Context, clientID string) error {
	if _, err := s.repo.FindByID(ctx, nil, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fieldError("Cliente inválido", "clienteId no corresponde a un beneficiario existente")
		}
		return internalError(err, "failed to load client")
	}
	return nil
}
