package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

type counterRepository interface {
	Next(ctx context.Context, exec sqlx.ExtContext, tag models.SaleType) (int64, error)
	Current(ctx context.Context, tag models.SaleType) (int64, error)
}

// CounterService hands out sale sequence numbers. Numbers are never reused and
// gaps are allowed when a sale fails after reserving one.
type CounterService struct {
	repo   counterRepository
	logger *zap.Logger
}

// NewCounterService constructs a CounterService.
func NewCounterService(repo counterRepository, logger *zap.Logger) *CounterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CounterService{repo: repo, logger: logger}
}

// ParseTag validates a counter tag. An empty tag means curso.
func ParseTag(raw string) (models.SaleType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return models.SaleTypeCourse, nil
	}
	tag := models.SaleType(raw)
	if !tag.Valid() {
		return "", fieldError("Tipo inválido", "tipo debe ser curso o matricula")
	}
	return tag, nil
}

// Next atomically increments the counter and returns the new value.
func (s *CounterService) Next(ctx context.Context, exec sqlx.ExtContext, tag models.SaleType) (int64, error) {
	seq, err := s.repo.Next(ctx, exec, tag)
	if err != nil {
		return 0, internalError(err, "failed to increment counter")
	}
	return seq, nil
}

// Peek previews the next value without consuming it.
func (s *CounterService) Peek(ctx context.Context, tag models.SaleType) (*models.NextSequenceResponse, error) {
	current, err := s.repo.Current(ctx, tag)
	if err != nil {
		return nil, internalError(err, "failed to read counter")
	}
	next := current + 1
	return &models.NextSequenceResponse{NextSequence: next, SaleCode: models.FormatSaleCode(tag, next)}, nil
}

// Increment consumes the next value and returns it with its sale code.
func (s *CounterService) Increment(ctx context.Context, rawTag string) (*models.IncrementCounterResponse, error) {
	tag, err := ParseTag(rawTag)
	if err != nil {
		return nil, err
	}
	seq, err := s.Next(ctx, nil, tag)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("counter incremented", zap.String("tag", string(tag)), zap.Int64("seq", seq))
	return &models.IncrementCounterResponse{
		Counter: models.Counter{ID: tag, Sequence: seq},
		Code:    models.FormatSaleCode(tag, seq),
	}, nil
}
