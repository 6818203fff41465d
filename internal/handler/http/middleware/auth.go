package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens that carry a user_id.
// It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if userID, ok := claims["user_id"].(string); !ok || userID == "" {
			response.Unauthorized(w, "Token has no user_id")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext extracts user_id from the verified JWT
func UserIDFromContext(ctx context.Context) string {
	_, claims, _ := jwtauth.FromContext(ctx)
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// RoleFromContext extracts role from the verified JWT
func RoleFromContext(ctx context.Context) jwt.Role {
	_, claims, _ := jwtauth.FromContext(ctx)
	if role, ok := claims["role"].(string); ok {
		return jwt.Role(role)
	}
	return ""
}
