package http

import (
	"testing"

	"github.com/frontandrew/patrol/internal/usecase/violation"
	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		expectedErr string
	}{
		{
			name:  "корректный запрос",
			input: &violation.QuoteRequest{VehicleType: "ΙΧΕ"},
		},
		{
			name:        "обязательное поле",
			input:       &violation.QuoteRequest{},
			expectedErr: "vehicle_type is required",
		},
		{
			name:        "ΑΦΜ только цифры",
			input:       &violation.SubmitRequest{LicensePlate: "ABC1234", VehicleType: "ΙΧΕ", DriverTaxNumber: "12a"},
			expectedErr: "driver_tax_number must contain only digits",
		},
		{
			name:        "слишком короткий номер",
			input:       &violation.SubmitRequest{LicensePlate: "AB", VehicleType: "ΙΧΕ"},
			expectedErr: "license_plate must be at least 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(tt.input)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.expectedErr)
			}
		})
	}
}
