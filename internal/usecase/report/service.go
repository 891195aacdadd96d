package report

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Service строит отчеты по оформленным нарушениям
type Service struct {
	repo   repository.ViolationRepository
	logger logger.Logger
}

// NewService создает новый экземпляр ReportService
func NewService(repo repository.ViolationRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Summary - сводка за период [from, to): сумма штрафов, изъятия и частота нарушений
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidDateRange
	}

	var (
		summary *domain.PeriodSummary
		byType  []domain.TypeCount
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary, err = s.repo.SummarizePeriod(gctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to summarize period: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		byType, err = s.repo.CountByType(gctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to count violation types: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build report", map[string]interface{}{
			"from":  from,
			"to":    to,
			"error": err.Error(),
		})
		return nil, err
	}

	summary.From = from
	summary.To = to
	summary.ByType = byType
	if summary.ByType == nil {
		summary.ByType = []domain.TypeCount{}
	}

	return summary, nil
}
