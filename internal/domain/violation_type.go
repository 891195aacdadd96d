package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces - точность денежных сумм (центы)
const MoneyPlaces = 2

var two = decimal.NewFromInt(2)

// ViolationType - запись справочника нарушений (ведется администратором)
// Записи никогда не удаляются физически: исторические нарушения ссылаются на них по ID
type ViolationType struct {
	ID               int64  `json:"id"`
	Code             string `json:"code,omitempty"`
	Description      string `json:"description"`
	Article          string `json:"article,omitempty"`           // Статья КОК
	ArticleParagraph string `json:"article_paragraph,omitempty"` // Пункт статьи

	// Штрафы по категориям ТС
	FineCars            decimal.Decimal     `json:"fine_cars"`        // Базовый штраф, обязателен
	FineMotorcycles     decimal.NullDecimal `json:"fine_motorcycles"` // NULL или 0 = как для легковых
	FineTrucks          decimal.NullDecimal `json:"fine_trucks"`      // NULL или 0 = как для легковых
	HalfFineMotorcycles bool                `json:"half_fine_motorcycles"`

	// Изъятие документов и номеров
	RemovePlates              bool `json:"remove_plates"`
	PlatesRemovalDays         int  `json:"plates_removal_days"`
	RemoveRegistration        bool `json:"remove_registration"`
	RegistrationRemovalDays   int  `json:"registration_removal_days"`
	RemoveDrivingLicense      bool `json:"remove_driving_license"`
	DrivingLicenseRemovalDays int  `json:"driving_license_removal_days"`

	ParkingSpecialProvision bool `json:"parking_special_provision"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicableFine возвращает сумму штрафа для категории ТС
func (vt *ViolationType) ApplicableFine(class VehicleClass) decimal.Decimal {
	switch class {
	case VehicleClassMotorcycle:
		if fine, ok := overrideFine(vt.FineMotorcycles); ok {
			if vt.HalfFineMotorcycles {
				return HalveFine(fine)
			}
			return fine
		}
		return vt.FineCars
	case VehicleClassTruckBus:
		if fine, ok := overrideFine(vt.FineTrucks); ok {
			return fine
		}
		return vt.FineCars
	default:
		return vt.FineCars
	}
}

// overrideFine - переопределение считается заданным, только если оно есть и больше нуля
func overrideFine(fine decimal.NullDecimal) (decimal.Decimal, bool) {
	if !fine.Valid || !fine.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return fine.Decimal, true
}

// HalveFine делит сумму пополам с округлением half-up до центов
func HalveFine(fine decimal.Decimal) decimal.Decimal {
	return fine.DivRound(two, MoneyPlaces)
}

// Validate проверяет корректность записи справочника и нормализует суммы до центов
func (vt *ViolationType) Validate() error {
	vt.Description = strings.TrimSpace(vt.Description)
	vt.Code = strings.TrimSpace(vt.Code)
	vt.Article = strings.TrimSpace(vt.Article)
	vt.ArticleParagraph = strings.TrimSpace(vt.ArticleParagraph)

	if vt.Description == "" {
		return ErrInvalidViolationTypeData
	}

	if vt.FineCars.IsNegative() {
		return ErrInvalidFineAmount
	}
	vt.FineCars = vt.FineCars.Round(MoneyPlaces)

	for _, fine := range []*decimal.NullDecimal{&vt.FineMotorcycles, &vt.FineTrucks} {
		if !fine.Valid {
			continue
		}
		if fine.Decimal.IsNegative() {
			return ErrInvalidFineAmount
		}
		fine.Decimal = fine.Decimal.Round(MoneyPlaces)
	}

	if vt.PlatesRemovalDays < 0 || vt.RegistrationRemovalDays < 0 || vt.DrivingLicenseRemovalDays < 0 {
		return ErrInvalidRemovalDays
	}

	return nil
}

// Catalog - снимок справочника нарушений, ключ - ID записи
// Снимок только для чтения: калькулятор его не изменяет
type Catalog map[int64]*ViolationType

// NewCatalog строит снимок справочника из списка записей
func NewCatalog(types []*ViolationType) Catalog {
	catalog := make(Catalog, len(types))
	for _, vt := range types {
		if vt == nil {
			continue
		}
		catalog[vt.ID] = vt
	}
	return catalog
}

// Lookup возвращает запись справочника по ID
func (c Catalog) Lookup(id int64) (*ViolationType, bool) {
	vt, ok := c[id]
	return vt, ok && vt != nil
}
