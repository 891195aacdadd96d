package domain

import (
	"github.com/shopspring/decimal"
)

// FineItem - строка расшифровки штрафа
type FineItem struct {
	ViolationTypeID int64           `json:"violation_type_id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// Sanctions - изъятия по выбранным нарушениям
// Флаг выставлен, если его требует хотя бы одно нарушение; срок - максимальный
type Sanctions struct {
	RemovePlates              bool `json:"remove_plates"`
	PlatesRemovalDays         int  `json:"plates_removal_days"`
	RemoveRegistration        bool `json:"remove_registration"`
	RegistrationRemovalDays   int  `json:"registration_removal_days"`
	RemoveDrivingLicense      bool `json:"remove_driving_license"`
	DrivingLicenseRemovalDays int  `json:"driving_license_removal_days"`
}

func (s *Sanctions) merge(vt *ViolationType) {
	if vt.RemovePlates {
		s.RemovePlates = true
		s.PlatesRemovalDays = max(s.PlatesRemovalDays, vt.PlatesRemovalDays)
	}
	if vt.RemoveRegistration {
		s.RemoveRegistration = true
		s.RegistrationRemovalDays = max(s.RegistrationRemovalDays, vt.RegistrationRemovalDays)
	}
	if vt.RemoveDrivingLicense {
		s.RemoveDrivingLicense = true
		s.DrivingLicenseRemovalDays = max(s.DrivingLicenseRemovalDays, vt.DrivingLicenseRemovalDays)
	}
}

// FineResult - результат расчета штрафа
type FineResult struct {
	VehicleClass VehicleClass    `json:"vehicle_class"`
	Total        decimal.Decimal `json:"total"`
	Breakdown    []FineItem      `json:"breakdown"`
	Articles     []string        `json:"articles"`
	SkippedIDs   int             `json:"skipped_ids"` // ID, которых нет в справочнике
	Sanctions    Sanctions       `json:"sanctions"`
}

// ComputeFine считает штраф по снимку справочника
// Чистая функция: неизвестные ID пропускаются (и считаются), ошибок не бывает.
// Порядок расшифровки и статей совпадает с порядком выбора, статьи не дедуплицируются.
func ComputeFine(class VehicleClass, selectedIDs []int64, catalog Catalog) FineResult {
	result := FineResult{
		VehicleClass: class,
		Total:        decimal.Zero,
		Breakdown:    make([]FineItem, 0, len(selectedIDs)),
		Articles:     make([]string, 0, len(selectedIDs)),
	}

	for _, id := range selectedIDs {
		vt, ok := catalog.Lookup(id)
		if !ok {
			result.SkippedIDs++
			continue
		}

		result.Sanctions.merge(vt)

		amount := vt.ApplicableFine(class)
		if !amount.IsPositive() {
			continue
		}

		result.Total = result.Total.Add(amount)
		result.Breakdown = append(result.Breakdown, FineItem{
			ViolationTypeID: vt.ID,
			Description:     vt.Description,
			Amount:          amount,
		})
		if vt.Article != "" {
			result.Articles = append(result.Articles, vt.Article)
		}
	}

	result.Total = result.Total.Round(MoneyPlaces)

	return result
}

// FineCalculator связывает классификатор типов ТС с расчетом штрафа
type FineCalculator struct {
	classifier *VehicleClassifier
}

// NewFineCalculator создает калькулятор; nil classifier = стандартные маркеры
func NewFineCalculator(classifier *VehicleClassifier) *FineCalculator {
	if classifier == nil {
		classifier = DefaultVehicleClassifier()
	}
	return &FineCalculator{classifier: classifier}
}

// Classify определяет категорию ТС по свободному тексту
func (c *FineCalculator) Classify(vehicleType string) VehicleClass {
	return c.classifier.Classify(vehicleType)
}

// Compute классифицирует ТС и считает штраф
func (c *FineCalculator) Compute(vehicleType string, selectedIDs []int64, catalog Catalog) FineResult {
	return ComputeFine(c.Classify(vehicleType), selectedIDs, catalog)
}
