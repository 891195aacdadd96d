package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/frontandrew/patrol/internal/usecase/violation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockViolationService - мок для violation service
type MockViolationService struct {
	mock.Mock
}

func (m *MockViolationService) Quote(ctx context.Context, req *violation.QuoteRequest) (*violation.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*violation.Quote), args.Error(1)
}

func (m *MockViolationService) Submit(ctx context.Context, officerID uuid.UUID, req *violation.SubmitRequest) (*violation.SubmitResult, error) {
	args := m.Called(ctx, officerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*violation.SubmitResult), args.Error(1)
}

func (m *MockViolationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Violation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Violation), args.Error(1)
}

func (m *MockViolationService) List(ctx context.Context, filter domain.ViolationFilter, limit, offset int) ([]*domain.Violation, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Violation), args.Error(1)
}

func (m *MockViolationService) Recompute(ctx context.Context, onlyMissing bool) (*violation.RecomputeStats, error) {
	args := m.Called(ctx, onlyMissing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*violation.RecomputeStats), args.Error(1)
}

func motorcycleQuote() *violation.Quote {
	return &violation.Quote{
		FineResult: domain.FineResult{
			VehicleClass: domain.VehicleClassMotorcycle,
			Total:        decimal.RequireFromString("20.00"),
			Breakdown: []domain.FineItem{
				{ViolationTypeID: 1, Description: "Illegal parking", Amount: decimal.RequireFromString("20.00")},
			},
			Articles: []string{"34"},
		},
	}
}

// TestViolationHandler_Quote тестирует расчет штрафа из JSON
func TestViolationHandler_Quote(t *testing.T) {
	officerID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockViolationService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:        "ID числами",
			requestBody: `{"vehicle_type":"ΜΟΤΟ","selected_violation_ids":[1]}`,
			mockSetup: func(m *MockViolationService) {
				m.On("Quote", mock.Anything, &violation.QuoteRequest{
					VehicleType:          "ΜΟΤΟ",
					SelectedViolationIDs: domain.RawSelection{"1"},
				}).Return(motorcycleQuote(), nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, "20", data["total"])
					assert.Equal(t, "motorcycle", data["vehicle_class"])
					assert.Equal(t, []interface{}{"34"}, data["articles"])
				}
			},
		},
		{
			name:        "ID строкой через запятую",
			requestBody: `{"vehicle_type":"ΜΟΤΟ","selected_violation_ids":"1, 2"}`,
			mockSetup: func(m *MockViolationService) {
				m.On("Quote", mock.Anything, &violation.QuoteRequest{
					VehicleType:          "ΜΟΤΟ",
					SelectedViolationIDs: domain.RawSelection{"1", " 2"},
				}).Return(motorcycleQuote(), nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
			},
		},
		{
			name:           "без типа ТС",
			requestBody:    `{"selected_violation_ids":[1]}`,
			mockSetup:      func(m *MockViolationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Contains(t, resp["error"], "vehicle_type is required")
			},
		},
		{
			name:        "справочник недоступен",
			requestBody: `{"vehicle_type":"ΙΧΕ","selected_violation_ids":[1]}`,
			mockSetup: func(m *MockViolationService) {
				m.On("Quote", mock.Anything, mock.Anything).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "Failed to calculate fine", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockViolationService)
			tt.mockSetup(mockService)

			handler := NewViolationHandler(mockService, logger.NewDevelopment())

			req := doJSONRequest(http.MethodPost, "/api/v1/fines/quote", tt.requestBody)
			req = req.WithContext(CreateAuthContext(t, officerID, "officer1", domain.RoleOfficer))
			w := httptest.NewRecorder()
			handler.Quote(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decodeResponse(w))

			mockService.AssertExpectations(t)
		})
	}
}

// TestViolationHandler_QuoteQuery тестирует расчет штрафа из query
func TestViolationHandler_QuoteQuery(t *testing.T) {
	mockService := new(MockViolationService)
	mockService.On("Quote", mock.Anything, &violation.QuoteRequest{
		VehicleType:          "ΜΟΤΟ",
		SelectedViolationIDs: domain.RawSelection{"1", "2", "5"},
	}).Return(motorcycleQuote(), nil)

	handler := NewViolationHandler(mockService, logger.NewDevelopment())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fines/quote?vehicle_type=%CE%9C%CE%9F%CE%A4%CE%9F&ids=1,2&ids=5", nil)
	w := httptest.NewRecorder()
	handler.QuoteQuery(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestViolationHandler_Submit тестирует оформление нарушения
func TestViolationHandler_Submit(t *testing.T) {
	officerID := uuid.New()
	violationID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		withAuth       bool
		mockSetup      func(*MockViolationService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:        "успешное оформление",
			requestBody: `{"license_plate":"ΙΚΗ 1234","vehicle_type":"ΙΧΕ","selected_violation_ids":["1","3"]}`,
			withAuth:    true,
			mockSetup: func(m *MockViolationService) {
				v := CreateTestViolation(violationID, officerID, "ΙΚΗ1234")
				v.TotalFineAmount = decimal.RequireFromString("180.00")
				m.On("Submit", mock.Anything, officerID, mock.MatchedBy(func(req *violation.SubmitRequest) bool {
					return req.LicensePlate == "ΙΚΗ 1234" && len(req.SelectedViolationIDs) == 2
				})).Return(&violation.SubmitResult{
					Violation:  v,
					Sanctions:  domain.Sanctions{RemovePlates: true, PlatesRemovalDays: 10},
					SkippedIDs: 0,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data, ok := resp["data"].(map[string]interface{})
				require.True(t, ok)
				saved, ok := data["violation"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "180", saved["total_fine_amount"])
				assert.Equal(t, officerID.String(), saved["officer_id"])
			},
		},
		{
			name:        "ничего не выбрано",
			requestBody: `{"license_plate":"ΙΚΗ1234","vehicle_type":"ΙΧΕ","selected_violation_ids":[]}`,
			withAuth:    true,
			mockSetup: func(m *MockViolationService) {
				m.On("Submit", mock.Anything, officerID, mock.Anything).Return(nil, domain.ErrEmptySelection)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, domain.ErrEmptySelection.Error(), resp["error"])
			},
		},
		{
			name:           "ΑΦΜ с буквами",
			requestBody:    `{"license_plate":"ΙΚΗ1234","vehicle_type":"ΙΧΕ","driver_tax_number":"12A","selected_violation_ids":[1]}`,
			withAuth:       true,
			mockSetup:      func(m *MockViolationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:           "без аутентификации",
			requestBody:    `{}`,
			mockSetup:      func(m *MockViolationService) {},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockViolationService)
			tt.mockSetup(mockService)

			handler := NewViolationHandler(mockService, logger.NewDevelopment())

			req := doJSONRequest(http.MethodPost, "/api/v1/violations", tt.requestBody)
			if tt.withAuth {
				req = req.WithContext(CreateAuthContext(t, officerID, "officer1", domain.RoleOfficer))
			}
			w := httptest.NewRecorder()
			handler.Submit(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decodeResponse(w))

			mockService.AssertExpectations(t)
		})
	}
}

// TestViolationHandler_GetViolation тестирует получение нарушения по ID
func TestViolationHandler_GetViolation(t *testing.T) {
	officerID := uuid.New()
	otherOfficerID := uuid.New()
	adminID := uuid.New()
	violationID := uuid.New()

	tests := []struct {
		name           string
		violationID    string
		userID         uuid.UUID
		role           domain.UserRole
		mockSetup      func(*MockViolationService)
		expectedStatus int
	}{
		{
			name:        "своя запись",
			violationID: violationID.String(),
			userID:      officerID,
			role:        domain.RoleOfficer,
			mockSetup: func(m *MockViolationService) {
				m.On("GetByID", mock.Anything, violationID).
					Return(CreateTestViolation(violationID, officerID, "ΙΚΗ1234"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "чужая запись скрыта от инспектора",
			violationID: violationID.String(),
			userID:      otherOfficerID,
			role:        domain.RoleOfficer,
			mockSetup: func(m *MockViolationService) {
				m.On("GetByID", mock.Anything, violationID).
					Return(CreateTestViolation(violationID, officerID, "ΙΚΗ1234"), nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "администратор видит любую запись",
			violationID: violationID.String(),
			userID:      adminID,
			role:        domain.RoleAdmin,
			mockSetup: func(m *MockViolationService) {
				m.On("GetByID", mock.Anything, violationID).
					Return(CreateTestViolation(violationID, officerID, "ΙΚΗ1234"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "не найдена",
			violationID: violationID.String(),
			userID:      officerID,
			role:        domain.RoleOfficer,
			mockSetup: func(m *MockViolationService) {
				m.On("GetByID", mock.Anything, violationID).Return(nil, domain.ErrViolationNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "невалидный UUID",
			violationID:    "invalid-uuid",
			userID:         officerID,
			role:           domain.RoleOfficer,
			mockSetup:      func(m *MockViolationService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockViolationService)
			tt.mockSetup(mockService)

			handler := NewViolationHandler(mockService, logger.NewDevelopment())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/violations/"+tt.violationID, nil)
			ctx := CreateAuthContext(t, tt.userID, "user", tt.role)
			req = req.WithContext(WithURLParam(ctx, "id", tt.violationID))

			w := httptest.NewRecorder()
			handler.GetViolation(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestViolationHandler_ListViolations тестирует список нарушений
func TestViolationHandler_ListViolations(t *testing.T) {
	officerID := uuid.New()
	adminID := uuid.New()
	otherOfficerID := uuid.New()

	t.Run("инспектор видит только свои", func(t *testing.T) {
		mockService := new(MockViolationService)
		mockService.On("List", mock.Anything, mock.MatchedBy(func(f domain.ViolationFilter) bool {
			return f.OfficerID != nil && *f.OfficerID == officerID && f.LicensePlate == "ΙΚΗ"
		}), 50, 0).Return([]*domain.Violation{CreateTestViolation(uuid.New(), officerID, "ΙΚΗ1234")}, nil)

		handler := NewViolationHandler(mockService, logger.NewDevelopment())

		// officer_id другого инспектора игнорируется
		req := httptest.NewRequest(http.MethodGet, "/api/v1/violations?plate=%CE%99%CE%9A%CE%97&officer_id="+otherOfficerID.String(), nil)
		req = req.WithContext(CreateAuthContext(t, officerID, "officer1", domain.RoleOfficer))
		w := httptest.NewRecorder()
		handler.ListViolations(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(w)
		if data, ok := resp["data"].([]interface{}); ok {
			assert.Len(t, data, 1)
		}
		if pagination, ok := resp["pagination"].(map[string]interface{}); ok {
			assert.Equal(t, float64(50), pagination["limit"])
		}
		mockService.AssertExpectations(t)
	})

	t.Run("администратор фильтрует по инспектору и периоду", func(t *testing.T) {
		mockService := new(MockViolationService)
		mockService.On("List", mock.Anything, mock.MatchedBy(func(f domain.ViolationFilter) bool {
			return f.OfficerID != nil && *f.OfficerID == otherOfficerID &&
				f.From != nil && f.From.Format("2006-01-02") == "2024-01-01" &&
				f.To != nil && f.To.Format("2006-01-02") == "2024-02-01"
		}), 10, 20).Return([]*domain.Violation{}, nil)

		handler := NewViolationHandler(mockService, logger.NewDevelopment())

		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/violations?from=2024-01-01&to=2024-02-01&limit=10&offset=20&officer_id="+otherOfficerID.String(), nil)
		req = req.WithContext(CreateAuthContext(t, adminID, "admin", domain.RoleAdmin))
		w := httptest.NewRecorder()
		handler.ListViolations(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("перевернутый период", func(t *testing.T) {
		mockService := new(MockViolationService)
		mockService.On("List", mock.Anything, mock.Anything, 50, 0).Return(nil, domain.ErrInvalidDateRange)

		handler := NewViolationHandler(mockService, logger.NewDevelopment())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/violations?from=2024-02-01&to=2024-01-01", nil)
		req = req.WithContext(CreateAuthContext(t, adminID, "admin", domain.RoleAdmin))
		w := httptest.NewRecorder()
		handler.ListViolations(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("невалидная дата", func(t *testing.T) {
		mockService := new(MockViolationService)
		handler := NewViolationHandler(mockService, logger.NewDevelopment())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/violations?from=yesterday", nil)
		req = req.WithContext(CreateAuthContext(t, adminID, "admin", domain.RoleAdmin))
		w := httptest.NewRecorder()
		handler.ListViolations(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestViolationHandler_Recompute тестирует пересчет сохраненных штрафов
func TestViolationHandler_Recompute(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		onlyMissing bool
	}{
		{name: "по умолчанию только без суммы", query: "", onlyMissing: true},
		{name: "все записи", query: "?all=true", onlyMissing: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockViolationService)
			mockService.On("Recompute", mock.Anything, tt.onlyMissing).
				Return(&violation.RecomputeStats{Scanned: 3, Updated: 1, Unchanged: 2}, nil)

			handler := NewViolationHandler(mockService, logger.NewDevelopment())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/violations/recompute"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.Recompute(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := decodeResponse(w)
			if data, ok := resp["data"].(map[string]interface{}); ok {
				assert.Equal(t, float64(3), data["scanned"])
				assert.Equal(t, float64(1), data["updated"])
			}
			mockService.AssertExpectations(t)
		})
	}
}
