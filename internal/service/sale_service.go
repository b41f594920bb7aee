package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/database"
	appErrors "github.com/noah-isme/escuela-musica-api/pkg/errors"
)

var (
	errSaleCancelled = appErrors.New("SALE_CANCELLED", http.StatusBadRequest, "La venta ya está anulada")
	saleCodeDigits   = regexp.MustCompile(`(\d+)$`)
)

type saleRepository interface {
	List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error)
	GetDetail(ctx context.Context, id string) (*models.SaleDetail, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Sale, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
	Cancel(ctx context.Context, id, reason string, at time.Time) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type salePayments interface {
	ListBySale(ctx context.Context, saleID string) ([]models.Payment, error)
	DeleteBySale(ctx context.Context, exec sqlx.ExtContext, saleID string) error
}

type sequencer interface {
	Next(ctx context.Context, exec sqlx.ExtContext, tag models.SaleType) (int64, error)
	Peek(ctx context.Context, tag models.SaleType) (*models.NextSequenceResponse, error)
}

type beneficiaryLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Beneficiary, error)
}

type courseLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Course, error)
}

type enrollmentTypeLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.EnrollmentType, error)
}

type paymentRecorder interface {
	Record(ctx context.Context, payment *models.Payment) bool
}

// PaymentDefaults fill the payment written with every new sale.
type PaymentDefaults struct {
	Method string
	Status string
}

// SaleDependencies groups the collaborators of SaleService.
type SaleDependencies struct {
	Sales           saleRepository
	Payments        salePayments
	Counters        sequencer
	Beneficiaries   beneficiaryLookup
	Courses         courseLookup
	EnrollmentTypes enrollmentTypeLookup
	Schedules       scheduleRepository
	Recorder        paymentRecorder
}

// SaleService handles course and enrollment sales.
type SaleService struct {
	deps      SaleDependencies
	tx        database.TxBeginner
	defaults  PaymentDefaults
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewSaleService constructs a SaleService.
func NewSaleService(tx database.TxBeginner, deps SaleDependencies, defaults PaymentDefaults, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *SaleService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		deps:      deps,
		tx:        tx,
		defaults:  defaults,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns sales with display names.
func (s *SaleService) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, *models.Pagination, error) {
	items, total, err := s.deps.Sales.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list sales")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a sale with display names.
func (s *SaleService) Get(ctx context.Context, id string) (*models.SaleDetail, error) {
	if !validID(id) {
		return nil, notFound("Venta no encontrada")
	}
	detail, err := s.deps.Sales.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Venta no encontrada")
		}
		return nil, internalError(err, "failed to load sale")
	}
	payments, err := s.deps.Payments.ListBySale(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to load sale payments")
	}
	detail.Payments = payments
	return detail, nil
}

// NextSequence previews the next consecutive number for a sale type.
func (s *SaleService) NextSequence(ctx context.Context, rawTag string) (*models.NextSequenceResponse, error) {
	tag, err := ParseTag(rawTag)
	if err != nil {
		return nil, err
	}
	return s.deps.Counters.Peek(ctx, tag)
}

// Create records a sale. A supplied codigoVenta is checked and inserted as is
// and the matching counter is then advanced best effort. Without a code the
// next sequence is reserved first and the code derived from it. The payment is
// always best effort.
func (s *SaleService) Create(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos de la venta inválidos")
	}
	sale, verr := s.buildSale(ctx, req)
	if verr != nil {
		return nil, verr
	}

	code := strings.ToUpper(strings.TrimSpace(req.SaleCode))
	if code != "" {
		exists, err := s.deps.Sales.ExistsByCode(ctx, code)
		if err != nil {
			return nil, internalError(err, "failed to check sale code")
		}
		if exists {
			return nil, duplicateError("Ya existe una venta con ese código", "codigoVenta %s ya registrado", code)
		}
		sale.SaleCode = code
		sale.SequenceNumber = sequenceFromCode(code, req.SequenceNumber)
	} else {
		seq, err := s.deps.Counters.Next(ctx, nil, sale.Type)
		if err != nil {
			return nil, internalError(err, "failed to reserve sale code")
		}
		sale.SequenceNumber = seq
		sale.SaleCode = models.FormatSaleCode(sale.Type, seq)
	}

	if err := s.deps.Sales.Create(ctx, nil, sale); err != nil {
		if dup := duplicateFromStore(err); dup != nil {
			return nil, dup.WithDetails("codigoVenta %s ya registrado", sale.SaleCode)
		}
		return nil, internalError(err, "failed to create sale")
	}
	s.metrics.RecordSaleCreated(string(sale.Type))

	if code != "" {
		if _, err := s.deps.Counters.Next(ctx, nil, sale.Type); err != nil {
			s.metrics.RecordBestEffortFailure(StepCounterIncrement)
			s.logger.Warn("counter increment failed after sale commit",
				zap.String("sale_id", sale.ID), zap.String("step", StepCounterIncrement), zap.Error(err))
		}
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = s.defaults.Method
	}
	transaction := optionalString(req.TransactionNumber)
	if models.IsCash(method) {
		transaction = nil
	}
	s.deps.Recorder.Record(ctx, &models.Payment{
		SaleID:            sale.ID,
		Method:            method,
		PaymentDate:       s.now(),
		Status:            s.defaults.Status,
		Amount:            sale.TotalValue,
		Description:       optionalString(fmt.Sprintf("Pago venta %s", sale.SaleCode)),
		TransactionNumber: transaction,
	})

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("code", sale.SaleCode))
	return sale, nil
}

func (s *SaleService) buildSale(ctx context.Context, req models.CreateSaleRequest) (*models.Sale, *appErrors.Error) {
	saleType := models.SaleType(req.Type)
	if req.StartDate.IsZero() {
		return nil, fieldError("Datos de la venta inválidos", "fechaInicio es obligatorio")
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		return nil, fieldError("Datos de la venta inválidos", "fechaFin no puede ser anterior a fechaInicio")
	}
	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	if verr := checkAmounts(*req.TotalValue, discount); verr != nil {
		return nil, verr
	}

	sale := &models.Sale{
		Type:          saleType,
		BeneficiaryID: req.BeneficiaryID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ClassCount:    req.ClassCount,
		Cycle:         req.Cycle,
		TotalValue:    *req.TotalValue,
		Discount:      discount,
		Notes:         optionalString(req.Notes),
		Status:        models.SaleActive,
	}

	if _, err := s.deps.Beneficiaries.FindByID(ctx, nil, req.BeneficiaryID); err != nil {
		return nil, referenceError(err, "beneficiarioId no corresponde a un beneficiario existente")
	}
	switch saleType {
	case models.SaleTypeCourse:
		if req.CourseID == "" {
			return nil, fieldError("Datos de la venta inválidos", "cursoId es obligatorio para ventas de curso")
		}
		if _, err := s.deps.Courses.FindByID(ctx, nil, req.CourseID); err != nil {
			return nil, referenceError(err, "cursoId no corresponde a un curso existente")
		}
		sale.CourseID = &req.CourseID
	case models.SaleTypeEnrollment:
		if req.EnrollmentTypeID == "" {
			return nil, fieldError("Datos de la venta inválidos", "matriculaId es obligatorio para ventas de matrícula")
		}
		if _, err := s.deps.EnrollmentTypes.FindByID(ctx, nil, req.EnrollmentTypeID); err != nil {
			return nil, referenceError(err, "matriculaId no corresponde a una matrícula existente")
		}
		sale.EnrollmentTypeID = &req.EnrollmentTypeID
	}
	return sale, nil
}

// Update merges editable fields into an active sale. Cancellation goes
// through Cancel only.
func (s *SaleService) Update(ctx context.Context, id string, req models.UpdateSaleRequest) (*models.Sale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Datos de la venta inválidos")
	}
	if req.Status != nil && models.SaleStatus(strings.ToLower(strings.TrimSpace(*req.Status))) == models.SaleCancelled {
		return nil, fieldError("Datos de la venta inválidos", "use la operación de anulación para anular una venta")
	}
	if !validID(id) {
		return nil, notFound("Venta no encontrada")
	}
	sale, err := s.deps.Sales.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Venta no encontrada")
		}
		return nil, internalError(err, "failed to load sale")
	}
	if sale.Status == models.SaleCancelled {
		return nil, errSaleCancelled.WithDetails("las ventas anuladas no se pueden modificar")
	}

	if req.StartDate != nil && !req.StartDate.IsZero() {
		sale.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		sale.EndDate = *req.EndDate
	}
	if !sale.EndDate.IsZero() && sale.EndDate.Before(sale.StartDate.Time) {
		return nil, fieldError("Datos de la venta inválidos", "fechaFin no puede ser anterior a fechaInicio")
	}
	if req.ClassCount != nil {
		sale.ClassCount = req.ClassCount
	}
	if req.Cycle != nil {
		sale.Cycle = req.Cycle
	}
	if req.TotalValue != nil {
		sale.TotalValue = *req.TotalValue
	}
	if req.Discount != nil {
		sale.Discount = *req.Discount
	}
	if verr := checkAmounts(sale.TotalValue, sale.Discount); verr != nil {
		return nil, verr
	}
	if req.Notes != nil {
		sale.Notes = normalizeOptional(req.Notes)
	}

	if err := s.deps.Sales.Update(ctx, sale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errSaleCancelled.WithDetails("la venta fue anulada durante la edición")
		}
		return nil, internalError(err, "failed to update sale")
	}
	return sale, nil
}

// Cancel moves a sale to anulada with the given reason. Cancelling twice is
// rejected and the first reason is kept.
func (s *SaleService) Cancel(ctx context.Context, id string, req models.CancelSaleRequest) (*models.SaleDetail, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fieldError("Motivo de anulación requerido", "motivoAnulacion es obligatorio")
	}
	if !validID(id) {
		return nil, notFound("Venta no encontrada")
	}
	sale, err := s.deps.Sales.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Venta no encontrada")
		}
		return nil, internalError(err, "failed to load sale")
	}
	if sale.Status == models.SaleCancelled {
		return nil, alreadyCancelled(sale)
	}
	if err := s.deps.Sales.Cancel(ctx, id, req.Reason, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(errSaleCancelled, "")
		}
		return nil, internalError(err, "failed to cancel sale")
	}
	s.logger.Info("sale cancelled", zap.String("sale_id", id))
	return s.Get(ctx, id)
}

// Delete removes a sale and its payments when no class schedule references it.
func (s *SaleService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("Venta no encontrada")
	}
	err := database.WithTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if _, err := s.deps.Sales.FindByID(ctx, tx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("Venta no encontrada")
			}
			return err
		}
		classes, err := s.deps.Schedules.ClassSchedulesBySales(ctx, tx, []string{id})
		if err != nil {
			return fmt.Errorf("list class schedules: %w", err)
		}
		if len(classes) > 0 {
			s.metrics.RecordDeleteBlocked("sale")
			return blockedError("No se puede eliminar la venta porque tiene clases programadas", classScheduleRecords(classes))
		}
		if err := s.deps.Payments.DeleteBySale(ctx, tx, id); err != nil {
			return err
		}
		return s.deps.Sales.Delete(ctx, tx, id)
	})
	if err != nil {
		return abortError(s.metrics, s.logger, "delete_sale", err)
	}
	return nil
}

func alreadyCancelled(sale *models.Sale) *appErrors.Error {
	if sale.CancellationReason != nil {
		return errSaleCancelled.WithDetails("motivo registrado: %s", *sale.CancellationReason)
	}
	return appErrors.Clone(errSaleCancelled, "")
}

func checkAmounts(total, discount decimal.Decimal) *appErrors.Error {
	if total.IsNegative() {
		return fieldError("Datos de la venta inválidos", "valor_total no puede ser negativo")
	}
	if discount.IsNegative() || discount.GreaterThan(total) {
		return fieldError("Datos de la venta inválidos", "descuento debe estar entre 0 y valor_total")
	}
	return nil
}

func referenceError(err error, message string) *appErrors.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return fieldError("Referencia inválida", message)
	}
	return internalError(err, "failed to load sale reference")
}

// sequenceFromCode prefers an explicit consecutivo and otherwise reads the
// trailing digits of the code.
func sequenceFromCode(code string, explicit *int64) int64 {
	if explicit != nil {
		return *explicit
	}
	match := saleCodeDigits.FindString(code)
	if match == "" {
		return 0
	}
	seq, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
