// Package middleware provides the HTTP middleware stack for the
// coordinator API: gateway authentication, request logging, and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/titilda/supersanta/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// GatewayIDKey is the context key for storing the authenticated gateway ID.
const GatewayIDKey contextKey = "gateway_id"

// GetGatewayID extracts the gateway ID from the context.
// Returns empty string if not found.
func GetGatewayID(ctx context.Context) string {
	gatewayID, _ := ctx.Value(GatewayIDKey).(string)
	return gatewayID
}

// RequireAuth validates the Bearer token on every request and stores the
// gateway ID in the request context. Requests without a valid token get
// a 401 with a JSON error body.
func RequireAuth(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, auth.ErrMissingToken)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, auth.ErrInvalidToken)
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			unauthorized(w, auth.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), GatewayIDKey, claims.GatewayID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "unauthenticated",
			"message": err.Error(),
		},
	})
}
