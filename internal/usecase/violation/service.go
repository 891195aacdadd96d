package violation

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CatalogProvider выдает снимок справочника нарушений
type CatalogProvider interface {
	Snapshot(ctx context.Context, includeInactive bool) (domain.Catalog, error)
}

// QuoteRequest - предварительный расчет штрафа без сохранения
type QuoteRequest struct {
	VehicleType          string              `json:"vehicle_type" validate:"required,max=64"`
	SelectedViolationIDs domain.RawSelection `json:"selected_violation_ids"`
}

// Quote - результат предварительного расчета
type Quote struct {
	domain.FineResult
	MalformedIDs int `json:"malformed_ids"` // Элементы выбора, которые не являются ID
}

// SubmitRequest - оформление нарушения инспектором
type SubmitRequest struct {
	LicensePlate         string              `json:"license_plate" validate:"required,min=3,max=20"`
	VehicleBrand         string              `json:"vehicle_brand" validate:"max=64"`
	VehicleColor         string              `json:"vehicle_color" validate:"max=32"`
	VehicleType          string              `json:"vehicle_type" validate:"required,max=64"`
	OccurredAt           *time.Time          `json:"occurred_at,omitempty"` // nil = сейчас
	StreetName           string              `json:"street_name" validate:"max=255"`
	StreetNumber         string              `json:"street_number" validate:"max=16"`
	DriverLastName       string              `json:"driver_last_name" validate:"max=128"`
	DriverFirstName      string              `json:"driver_first_name" validate:"max=128"`
	DriverFatherName     string              `json:"driver_father_name" validate:"max=128"`
	DriverTaxNumber      string              `json:"driver_tax_number" validate:"omitempty,numeric,max=9"`
	PlatesRemoved        bool                `json:"plates_removed"`
	LicenseRemoved       bool                `json:"license_removed"`
	RegistrationRemoved  bool                `json:"registration_removed"`
	SelectedViolationIDs domain.RawSelection `json:"selected_violation_ids"`
	Notes                string              `json:"notes" validate:"max=2000"`
}

// SubmitResult - сохраненное нарушение и сведения о пропущенных элементах выбора
type SubmitResult struct {
	Violation    *domain.Violation `json:"violation"`
	Sanctions    domain.Sanctions  `json:"sanctions"`
	SkippedIDs   int               `json:"skipped_ids"`
	MalformedIDs int               `json:"malformed_ids"`
}

// RecomputeStats - итоги пересчета сохраненных нарушений
type RecomputeStats struct {
	Scanned   int64 `json:"scanned"`
	Updated   int64 `json:"updated"`
	Unchanged int64 `json:"unchanged"`
	Failed    int64 `json:"failed"`
}

// Config - параметры сервиса нарушений
type Config struct {
	RecomputeWorkers int
	RecomputeBatch   int
}

// Service оформляет нарушения и считает по ним штрафы
type Service struct {
	repo       repository.ViolationRepository
	catalog    CatalogProvider
	calculator *domain.FineCalculator
	cfg        Config
	logger     logger.Logger
	now        func() time.Time
}

// NewService создает новый экземпляр ViolationService
func NewService(
	repo repository.ViolationRepository,
	catalog CatalogProvider,
	calculator *domain.FineCalculator,
	cfg Config,
	logger logger.Logger,
) *Service {
	if calculator == nil {
		calculator = domain.NewFineCalculator(nil)
	}
	if cfg.RecomputeWorkers < 1 {
		cfg.RecomputeWorkers = 1
	}
	if cfg.RecomputeBatch < 1 {
		cfg.RecomputeBatch = 100
	}
	return &Service{
		repo:       repo,
		catalog:    catalog,
		calculator: calculator,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Quote считает штраф по активному справочнику, ничего не сохраняя
func (s *Service) Quote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	catalog, err := s.catalog.Snapshot(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	ids, malformed := domain.ParseSelection(req.SelectedViolationIDs)

	return &Quote{
		FineResult:   s.calculator.Compute(req.VehicleType, ids, catalog),
		MalformedIDs: malformed,
	}, nil
}

// Submit оформляет нарушение: считает штраф по активному справочнику и сохраняет запись
func (s *Service) Submit(ctx context.Context, officerID uuid.UUID, req *SubmitRequest) (*SubmitResult, error) {
	ids, malformed := domain.ParseSelection(req.SelectedViolationIDs)
	if len(ids) == 0 {
		return nil, domain.ErrEmptySelection
	}

	v := &domain.Violation{
		OfficerID:           officerID,
		LicensePlate:        req.LicensePlate,
		VehicleBrand:        strings.TrimSpace(req.VehicleBrand),
		VehicleColor:        strings.TrimSpace(req.VehicleColor),
		VehicleType:         req.VehicleType,
		StreetName:          strings.TrimSpace(req.StreetName),
		StreetNumber:        strings.TrimSpace(req.StreetNumber),
		DriverLastName:      strings.TrimSpace(req.DriverLastName),
		DriverFirstName:     strings.TrimSpace(req.DriverFirstName),
		DriverFatherName:    strings.TrimSpace(req.DriverFatherName),
		DriverTaxNumber:     strings.TrimSpace(req.DriverTaxNumber),
		PlatesRemoved:       req.PlatesRemoved,
		LicenseRemoved:      req.LicenseRemoved,
		RegistrationRemoved: req.RegistrationRemoved,
		Notes:               strings.TrimSpace(req.Notes),
	}
	if req.OccurredAt != nil {
		v.OccurredAt = *req.OccurredAt
	} else {
		v.OccurredAt = s.now()
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	catalog, err := s.catalog.Snapshot(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	// Сохраняются только ID из активного справочника: пересчет по полному
	// справочнику должен дать ту же сумму
	v.SelectedViolationIDs = resolvedIDs(ids, catalog)
	if len(v.SelectedViolationIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	result := s.calculator.Compute(v.VehicleType, v.SelectedViolationIDs, catalog)
	v.ApplyFine(result)

	skipped := len(ids) - len(v.SelectedViolationIDs)
	if skipped > 0 || malformed > 0 {
		s.logger.Warn("Violation selection contained unusable IDs", map[string]interface{}{
			"officer_id":    officerID,
			"skipped_ids":   skipped,
			"malformed_ids": malformed,
		})
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error("Failed to save violation", map[string]interface{}{
			"officer_id": officerID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to save violation: %w", err)
	}

	s.logger.Info("Violation submitted", map[string]interface{}{
		"violation_id":  v.ID,
		"officer_id":    officerID,
		"license_plate": v.LicensePlate,
		"vehicle_class": result.VehicleClass,
		"total":         v.TotalFineAmount.StringFixed(domain.MoneyPlaces),
	})

	return &SubmitResult{
		Violation:    v,
		Sanctions:    result.Sanctions,
		SkippedIDs:   skipped,
		MalformedIDs: malformed,
	}, nil
}

// GetByID возвращает нарушение
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Violation, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает нарушения по фильтру
func (s *Service) List(ctx context.Context, filter domain.ViolationFilter, limit, offset int) ([]*domain.Violation, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, domain.ErrInvalidDateRange
	}

	violations, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return violations, nil
}

// Recompute пересчитывает кэш штрафа сохраненных нарушений по полному справочнику
// (включая неактивные записи: на них ссылаются старые нарушения).
// onlyMissing = только записи без суммы. Ошибка отдельной записи не прерывает проход.
func (s *Service) Recompute(ctx context.Context, onlyMissing bool) (*RecomputeStats, error) {
	catalog, err := s.catalog.Snapshot(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.logger.Info("Fine recompute started", map[string]interface{}{
		"only_missing": onlyMissing,
		"workers":      s.cfg.RecomputeWorkers,
		"catalog_size": len(catalog),
	})

	var (
		stats   RecomputeStats
		updated atomic.Int64
		failed  atomic.Int64
		afterID = uuid.Nil
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := s.repo.ListForRecompute(ctx, afterID, s.cfg.RecomputeBatch, onlyMissing)
		if err != nil {
			return nil, fmt.Errorf("failed to load violations: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.RecomputeWorkers)

		for _, v := range batch {
			v := v
			g.Go(func() error {
				changed, err := s.recomputeOne(gctx, v, catalog)
				if err != nil {
					failed.Add(1)
					s.logger.Error("Failed to recompute violation", map[string]interface{}{
						"violation_id": v.ID,
						"error":        err.Error(),
					})
					return nil
				}
				if changed {
					updated.Add(1)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		stats.Scanned += int64(len(batch))
		afterID = batch[len(batch)-1].ID

		if len(batch) < s.cfg.RecomputeBatch {
			break
		}
	}

	stats.Updated = updated.Load()
	stats.Failed = failed.Load()
	stats.Unchanged = stats.Scanned - stats.Updated - stats.Failed

	s.logger.Info("Fine recompute finished", map[string]interface{}{
		"scanned":   stats.Scanned,
		"updated":   stats.Updated,
		"unchanged": stats.Unchanged,
		"failed":    stats.Failed,
	})

	return &stats, nil
}

func (s *Service) recomputeOne(ctx context.Context, v *domain.Violation, catalog domain.Catalog) (bool, error) {
	result := s.calculator.Compute(v.VehicleType, v.SelectedViolationIDs, catalog)

	plates, license, registration := v.PlatesRemoved, v.LicenseRemoved, v.RegistrationRemoved
	changed := v.FineChanged(result)

	v.ApplyFine(result)
	if !changed && plates == v.PlatesRemoved && license == v.LicenseRemoved && registration == v.RegistrationRemoved {
		return false, nil
	}

	if err := s.repo.UpdateFine(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

func resolvedIDs(ids []int64, catalog domain.Catalog) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := catalog.Lookup(id); ok {
			out = append(out, id)
		}
	}
	return out
}
