package middleware

import (
	"context"
	"net/http"

	"github.com/frontandrew/patrol/internal/pkg/jwt"
)

func contextWithClaims(r *http.Request, claims *jwt.Claims) context.Context {
	return context.WithValue(r.Context(), UserClaimsKey, claims)
}
