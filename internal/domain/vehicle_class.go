package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// VehicleClass - категория транспортного средства, определяющая колонку штрафа
type VehicleClass string

const (
	VehicleClassCar        VehicleClass = "car"        // Легковые (по умолчанию)
	VehicleClassMotorcycle VehicleClass = "motorcycle" // Мотоциклы и мопеды
	VehicleClassTruckBus   VehicleClass = "truck_bus"  // Грузовики и автобусы
)

// DefaultMotorcycleTokens - маркеры мотоциклов в свободном тексте типа ТС
// ΜΟΤΟ покрывает ΜΟΤΟΣΥΚΛΕΤΑ и ΜΟΤΟΠΟΔΗΛΑΤΟ
var DefaultMotorcycleTokens = []string{
	"ΜΟΤΟ",
	"ΜΟΤΑ",
	"ΔΙΚΥΚΛ",
	"ΠΑΠΑΚΙ",
	"MOTO",
	"MOPED",
	"SCOOTER",
}

// DefaultTruckTokens - маркеры грузовиков и автобусов
var DefaultTruckTokens = []string{
	"ΦΟΡΤΗΓ",
	"ΛΕΩΦΟΡ",
	"ΦΙΧ",
	"ΦΔΧ",
	"TRUCK",
	"LORRY",
	"BUS",
}

// VehicleClassifier сопоставляет свободный текст типа ТС с VehicleClass
// Сравнение регистронезависимое и не учитывает греческие диакритики (Φορτηγό == ΦΟΡΤΗΓΟ)
type VehicleClassifier struct {
	motorcycleTokens []string
	truckTokens      []string
}

// NewVehicleClassifier создает классификатор с заданными наборами маркеров
func NewVehicleClassifier(motorcycleTokens, truckTokens []string) *VehicleClassifier {
	return &VehicleClassifier{
		motorcycleTokens: foldTokens(motorcycleTokens),
		truckTokens:      foldTokens(truckTokens),
	}
}

// ConfiguredVehicleClassifier создает классификатор из настроек
// Пустой список заменяется стандартными маркерами своей категории
func ConfiguredVehicleClassifier(motorcycleTokens, truckTokens []string) *VehicleClassifier {
	if len(motorcycleTokens) == 0 {
		motorcycleTokens = DefaultMotorcycleTokens
	}
	if len(truckTokens) == 0 {
		truckTokens = DefaultTruckTokens
	}
	return NewVehicleClassifier(motorcycleTokens, truckTokens)
}

// DefaultVehicleClassifier создает классификатор со стандартными маркерами
func DefaultVehicleClassifier() *VehicleClassifier {
	return NewVehicleClassifier(DefaultMotorcycleTokens, DefaultTruckTokens)
}

// Classify определяет категорию ТС
// Мотоциклы проверяются первыми, затем грузовики/автобусы, все остальное - легковые
func (c *VehicleClassifier) Classify(vehicleType string) VehicleClass {
	folded := foldVehicleText(vehicleType)
	if folded == "" {
		return VehicleClassCar
	}

	if containsAny(folded, c.motorcycleTokens) {
		return VehicleClassMotorcycle
	}
	if containsAny(folded, c.truckTokens) {
		return VehicleClassTruckBus
	}
	return VehicleClassCar
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

func foldTokens(tokens []string) []string {
	folded := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if f := foldVehicleText(token); f != "" {
			folded = append(folded, f)
		}
	}
	return folded
}

// foldVehicleText убирает диакритики и приводит текст к верхнему регистру
func foldVehicleText(s string) string {
	// transform.Chain хранит состояние, поэтому создается на каждый вызов
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
