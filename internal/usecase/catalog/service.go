package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/shopspring/decimal"
)

// ViolationTypeRequest - данные записи справочника для создания и замены
type ViolationTypeRequest struct {
	Code                      string              `json:"code" validate:"max=32"`
	Description               string              `json:"description" validate:"required"`
	Article                   string              `json:"article" validate:"max=64"`
	ArticleParagraph          string              `json:"article_paragraph" validate:"max=64"`
	FineCars                  decimal.Decimal     `json:"fine_cars"`
	FineMotorcycles           decimal.NullDecimal `json:"fine_motorcycles"`
	FineTrucks                decimal.NullDecimal `json:"fine_trucks"`
	HalfFineMotorcycles       bool                `json:"half_fine_motorcycles"`
	RemovePlates              bool                `json:"remove_plates"`
	PlatesRemovalDays         int                 `json:"plates_removal_days" validate:"gte=0"`
	RemoveRegistration        bool                `json:"remove_registration"`
	RegistrationRemovalDays   int                 `json:"registration_removal_days" validate:"gte=0"`
	RemoveDrivingLicense      bool                `json:"remove_driving_license"`
	DrivingLicenseRemovalDays int                 `json:"driving_license_removal_days" validate:"gte=0"`
	ParkingSpecialProvision   bool                `json:"parking_special_provision"`
	IsActive                  *bool               `json:"is_active,omitempty"` // nil = активна
}

func (r *ViolationTypeRequest) apply(vt *domain.ViolationType) {
	vt.Code = r.Code
	vt.Description = r.Description
	vt.Article = r.Article
	vt.ArticleParagraph = r.ArticleParagraph
	vt.FineCars = r.FineCars
	vt.FineMotorcycles = r.FineMotorcycles
	vt.FineTrucks = r.FineTrucks
	vt.HalfFineMotorcycles = r.HalfFineMotorcycles
	vt.RemovePlates = r.RemovePlates
	vt.PlatesRemovalDays = r.PlatesRemovalDays
	vt.RemoveRegistration = r.RemoveRegistration
	vt.RegistrationRemovalDays = r.RegistrationRemovalDays
	vt.RemoveDrivingLicense = r.RemoveDrivingLicense
	vt.DrivingLicenseRemovalDays = r.DrivingLicenseRemovalDays
	vt.ParkingSpecialProvision = r.ParkingSpecialProvision
	vt.IsActive = r.IsActive == nil || *r.IsActive
}

// Service ведет справочник нарушений и выдает его снимки калькулятору
type Service struct {
	repo   repository.ViolationTypeRepository
	logger logger.Logger
}

// NewService создает новый экземпляр CatalogService
func NewService(repo repository.ViolationTypeRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateType добавляет запись в справочник
func (s *Service) CreateType(ctx context.Context, req *ViolationTypeRequest) (*domain.ViolationType, error) {
	vt := &domain.ViolationType{}
	req.apply(vt)

	if err := vt.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, vt); err != nil {
		s.logger.Error("Failed to create violation type", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create violation type: %w", err)
	}

	s.logger.Info("Violation type created", map[string]interface{}{
		"violation_type_id": vt.ID,
		"article":           vt.Article,
	})

	return vt, nil
}

// UpdateType заменяет данные записи справочника
// Уже сохраненные нарушения не пересчитываются автоматически
func (s *Service) UpdateType(ctx context.Context, id int64, req *ViolationTypeRequest) (*domain.ViolationType, error) {
	vt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.apply(vt)

	if err := vt.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, vt); err != nil {
		if errors.Is(err, domain.ErrViolationTypeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update violation type: %w", err)
	}

	s.logger.Info("Violation type updated", map[string]interface{}{
		"violation_type_id": vt.ID,
	})

	return vt, nil
}

// DeactivateType выводит запись из справочника
// Запись остается в БД: на нее ссылаются сохраненные нарушения
func (s *Service) DeactivateType(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrViolationTypeNotFound) {
			return err
		}
		return fmt.Errorf("failed to deactivate violation type: %w", err)
	}

	s.logger.Info("Violation type deactivated", map[string]interface{}{
		"violation_type_id": id,
	})

	return nil
}

// GetType возвращает запись справочника
func (s *Service) GetType(ctx context.Context, id int64) (*domain.ViolationType, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTypes возвращает справочник
func (s *Service) ListTypes(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error) {
	types, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list violation types: %w", err)
	}
	return types, nil
}

// Snapshot загружает снимок справочника для калькулятора
// Для новых нарушений нужен только активный справочник; пересчет истории берет полный
func (s *Service) Snapshot(ctx context.Context, includeInactive bool) (domain.Catalog, error) {
	types, err := s.ListTypes(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(types), nil
}
