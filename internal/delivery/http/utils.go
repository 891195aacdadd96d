package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
	maxBodyBytes     = 1 << 20
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondSuccess отправляет ответ в стандартной обертке {"success":true,"data":...}
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatuses сопоставляет доменные ошибки с HTTP статусами
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrViolationTypeNotFound, http.StatusNotFound},
	{domain.ErrViolationNotFound, http.StatusNotFound},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized},
	{domain.ErrRefreshTokenRevoked, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrUserInactive, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidUsername, http.StatusBadRequest},
	{domain.ErrInvalidPassword, http.StatusBadRequest},
	{domain.ErrInvalidUserData, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrInvalidViolationTypeData, http.StatusBadRequest},
	{domain.ErrInvalidFineAmount, http.StatusBadRequest},
	{domain.ErrInvalidRemovalDays, http.StatusBadRequest},
	{domain.ErrInvalidViolationData, http.StatusBadRequest},
	{domain.ErrInvalidLicensePlate, http.StatusBadRequest},
	{domain.ErrInvalidVehicleType, http.StatusBadRequest},
	{domain.ErrEmptySelection, http.StatusBadRequest},
	{domain.ErrInvalidDateRange, http.StatusBadRequest},
	{domain.ErrBadRequest, http.StatusBadRequest},
}

// respondServiceError переводит ошибку сервиса в HTTP ответ
// Неизвестные ошибки логируются и отдаются как 500 с сообщением fallback
func respondServiceError(w http.ResponseWriter, log logger.Logger, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			respondError(w, e.status, e.err.Error())
			return
		}
	}

	log.Error(fallback, map[string]interface{}{
		"error": err.Error(),
	})
	respondError(w, http.StatusInternalServerError, fallback)
}

// decodeJSON читает тело запроса и валидирует его
// При ошибке ответ уже отправлен, возвращается false
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := validateStruct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// getPathParam извлекает параметр из пути URL
func getPathParam(r *http.Request, param string) string {
	return chi.URLParam(r, param)
}

// getPaginationParams читает limit/offset из query
func getPaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = min(parsedLimit, maxPageLimit)
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	return limit, offset
}

// parseTimeParam разбирает дату (2006-01-02) или RFC3339 из query
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
