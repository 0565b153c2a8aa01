package certificate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/internal/transport"
)

type ServiceAPI interface {
	DownloadCertificate(ctx context.Context, userID, courseID string) (string, error)
	CertificateBytes(userID, courseID string) ([]byte, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// GetCertificate handles GET /student/courses/{courseId}/certificate and
// returns the write-once certificate URL, issuing it on first call.
func (h *Handler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	url, err := h.Service.DownloadCertificate(r.Context(), userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"certificate_url": url})
}

// DownloadCertificate handles GET /student/courses/{courseId}/certificate/download
// and streams freshly rendered PNG bytes.
func (h *Handler) DownloadCertificate(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseID := chi.URLParam(r, "courseId")
	data, err := h.Service.CertificateBytes(userID, courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "certificate_"+courseID+".png"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write certificate bytes", "error", err)
	}
}
