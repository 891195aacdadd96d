package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // Администратор: справочник, пользователи, отчеты
	RoleOfficer UserRole = "officer" // Инспектор: оформляет нарушения
)

// User - сотрудник муниципальной полиции
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	FullName     string     `json:"full_name"`
	BadgeNumber  string     `json:"badge_number,omitempty"`
	Role         UserRole   `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole проверяет, известна ли роль
func ValidRole(role UserRole) bool {
	return role == RoleAdmin || role == RoleOfficer
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" {
		return ErrInvalidUsername
	}
	if strings.TrimSpace(u.FullName) == "" {
		return ErrInvalidUserData
	}
	if !ValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}
