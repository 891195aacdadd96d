package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ViolationType errors
var (
	ErrViolationTypeNotFound    = errors.New("violation type not found")
	ErrInvalidViolationTypeData = errors.New("invalid violation type data")
	ErrInvalidFineAmount        = errors.New("invalid fine amount")
	ErrInvalidRemovalDays       = errors.New("invalid removal days")
)

// Violation errors
var (
	ErrViolationNotFound    = errors.New("violation not found")
	ErrInvalidViolationData = errors.New("invalid violation data")
	ErrInvalidLicensePlate  = errors.New("invalid license plate")
	ErrInvalidVehicleType   = errors.New("invalid vehicle type")
	ErrEmptySelection       = errors.New("no violation types selected")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

// RefreshToken errors
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
