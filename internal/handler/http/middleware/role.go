package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
)

// RequireRole allows the request through when the token role is one of roles
func RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' cannot access this resource", role))
		})
	}
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleManager, jwt.RoleAdmin)(next)
}
