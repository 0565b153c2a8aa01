package middleware

import (
	"net/http"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/pkg/logger"
)

// UserContext tags the request's log context with the authenticated user.
// Mount it after the auth middleware so the identity is already resolved.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := internal.UserIDFromContext(r.Context())
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
