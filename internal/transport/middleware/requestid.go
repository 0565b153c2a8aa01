package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/omp-platform/learning-backend/pkg/logger"
)

// RequestID tags the context logger with the request id and echoes it in
// the response so support tickets can quote it. Runs after chi's
// RequestID middleware; generates its own id when that one is absent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := chimw.GetReqID(r.Context())
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", reqID)
		w.Header().Set("X-Request-ID", reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
