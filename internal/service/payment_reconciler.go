package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/pkg/jobs"
)

// JobTypePaymentCreate identifies payment retries on the jobs queue.
const JobTypePaymentCreate = "payment.create"

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ExistsForSale(ctx context.Context, saleID string) (bool, error)
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// PaymentReconciler writes the payment that accompanies a new sale. The write
// is best effort: a failure never fails the sale and, when a queue is
// attached, is retried in the background.
type PaymentReconciler struct {
	repo    paymentRepository
	queue   jobQueue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPaymentReconciler constructs a PaymentReconciler without a retry queue.
func NewPaymentReconciler(repo paymentRepository, metrics *MetricsService, logger *zap.Logger) *PaymentReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentReconciler{repo: repo, metrics: metrics, logger: logger}
}

// Attach enables background retries through queue.
func (r *PaymentReconciler) Attach(queue jobQueue) {
	r.queue = queue
}

// Record writes the payment once. On failure it logs, counts and schedules a
// retry, then returns false.
func (r *PaymentReconciler) Record(ctx context.Context, payment *models.Payment) bool {
	err := r.repo.Create(ctx, payment)
	if err == nil {
		return true
	}
	r.metrics.RecordBestEffortFailure(StepPaymentCreate)
	r.logger.Warn("payment creation failed after sale commit",
		zap.String("sale_id", payment.SaleID), zap.String("step", StepPaymentCreate), zap.Error(err))

	if r.queue != nil {
		job := jobs.Job{ID: payment.SaleID, Type: JobTypePaymentCreate, Payload: *payment}
		if qerr := r.queue.Enqueue(job); qerr != nil {
			r.logger.Warn("payment retry not scheduled", zap.String("sale_id", payment.SaleID), zap.Error(qerr))
		}
	}
	return false
}

// Handle processes a queued retry. A payment that already exists for the sale
// counts as done.
func (r *PaymentReconciler) Handle(ctx context.Context, job jobs.Job) error {
	payment, ok := job.Payload.(models.Payment)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	exists, err := r.repo.ExistsForSale(ctx, payment.SaleID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := r.repo.Create(ctx, &payment); err != nil {
		return err
	}
	r.logger.Info("payment reconciled", zap.String("sale_id", payment.SaleID), zap.Int("attempt", job.Attempt))
	return nil
}

// Exhausted is the queue's give-up hook.
func (r *PaymentReconciler) Exhausted(job jobs.Job, err error) {
	r.metrics.RecordBestEffortFailure(StepPaymentRetry)
	r.logger.Error("payment reconciliation abandoned", zap.String("sale_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
}
