package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Violation - запись об остановке ТС
// Поля штрафа (TotalFineAmount, FineBreakdown, ViolationArticles) - кэш:
// они всегда пересчитываются из SelectedViolationIDs и снимка справочника
type Violation struct {
	ID        uuid.UUID `json:"id"`
	OfficerID uuid.UUID `json:"officer_id"` // Кто оформил

	// ТС
	LicensePlate string `json:"license_plate"`
	VehicleBrand string `json:"vehicle_brand,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`
	VehicleType  string `json:"vehicle_type"` // Свободный текст: ΙΧΕ, ΜΟΤΟ, ΦΟΡΤΗΓΟ...

	// Место и время
	OccurredAt   time.Time `json:"occurred_at"`
	StreetName   string    `json:"street_name,omitempty"`
	StreetNumber string    `json:"street_number,omitempty"`

	// Водитель (необязательно - ТС может быть без водителя)
	DriverLastName   string `json:"driver_last_name,omitempty"`
	DriverFirstName  string `json:"driver_first_name,omitempty"`
	DriverFatherName string `json:"driver_father_name,omitempty"`
	DriverTaxNumber  string `json:"driver_tax_number,omitempty"` // ΑΦΜ

	// Изъятия
	PlatesRemoved       bool `json:"plates_removed"`
	LicenseRemoved      bool `json:"license_removed"`
	RegistrationRemoved bool `json:"registration_removed"`

	SelectedViolationIDs []int64 `json:"selected_violation_ids"`

	// Кэш расчета
	TotalFineAmount   decimal.Decimal `json:"total_fine_amount"`
	FineBreakdown     []FineItem      `json:"fine_breakdown"`
	ViolationArticles []string        `json:"violation_articles"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeLicensePlate нормализует номер (убирает пробелы и дефисы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(replacer.Replace(plate))
}

// Validate проверяет корректность данных нарушения
func (v *Violation) Validate() error {
	if v.OfficerID == uuid.Nil {
		return ErrInvalidViolationData
	}

	v.LicensePlate = NormalizeLicensePlate(v.LicensePlate)
	if len([]rune(v.LicensePlate)) < 3 || len([]rune(v.LicensePlate)) > 20 {
		return ErrInvalidLicensePlate
	}

	v.VehicleType = strings.TrimSpace(v.VehicleType)
	if v.VehicleType == "" {
		return ErrInvalidVehicleType
	}

	if v.OccurredAt.IsZero() {
		return ErrInvalidViolationData
	}

	if v.DriverTaxNumber != "" && len(v.DriverTaxNumber) > 9 {
		return ErrInvalidViolationData
	}

	return nil
}

// ApplyFine записывает результат расчета в кэш-поля
// Изъятия, которых требует справочник, добавляются к отмеченным инспектором
func (v *Violation) ApplyFine(result FineResult) {
	v.TotalFineAmount = result.Total
	v.FineBreakdown = result.Breakdown
	v.ViolationArticles = result.Articles

	v.PlatesRemoved = v.PlatesRemoved || result.Sanctions.RemovePlates
	v.RegistrationRemoved = v.RegistrationRemoved || result.Sanctions.RemoveRegistration
	v.LicenseRemoved = v.LicenseRemoved || result.Sanctions.RemoveDrivingLicense
}

// FineChanged проверяет, отличается ли новый расчет от сохраненного кэша
func (v *Violation) FineChanged(result FineResult) bool {
	if !v.TotalFineAmount.Equal(result.Total) {
		return true
	}
	if len(v.FineBreakdown) != len(result.Breakdown) || len(v.ViolationArticles) != len(result.Articles) {
		return true
	}
	for i, item := range v.FineBreakdown {
		other := result.Breakdown[i]
		if item.Description != other.Description || !item.Amount.Equal(other.Amount) {
			return true
		}
	}
	for i, article := range v.ViolationArticles {
		if article != result.Articles[i] {
			return true
		}
	}
	return false
}

// ViolationFilter - фильтр списка нарушений
type ViolationFilter struct {
	From         *time.Time
	To           *time.Time
	LicensePlate string
	OfficerID    *uuid.UUID
}

// TypeCount - сколько раз тип нарушения выбран за период
type TypeCount struct {
	ViolationTypeID int64  `json:"violation_type_id"`
	Description     string `json:"description"`
	Count           int64  `json:"count"`
}

// PeriodSummary - сводка за период для отчетов
type PeriodSummary struct {
	From                     time.Time       `json:"from"`
	To                       time.Time       `json:"to"`
	ViolationCount           int64           `json:"violation_count"`
	TotalFineAmount          decimal.Decimal `json:"total_fine_amount"`
	PlatesRemovedCount       int64           `json:"plates_removed_count"`
	LicenseRemovedCount      int64           `json:"license_removed_count"`
	RegistrationRemovedCount int64           `json:"registration_removed_count"`
	ByType                   []TypeCount     `json:"by_type"`
}
