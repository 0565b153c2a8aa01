package enrollment

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	"github.com/omp-platform/learning-backend/internal/transport"
)

type ServiceAPI interface {
	Enroll(ctx context.Context, userID, courseID string) (*enrollmentdm.Enrollment, error)
	GetMyCourses(userID string) ([]*coursedm.Course, error)
	GetModules(userID, courseID string) ([]*ModuleDTO, error)
	GetModulesWithStatus(userID, courseID string) (*ModulesWithStatusDTO, error)
	MarkModuleComplete(ctx context.Context, userID, courseID, moduleID string) (*EnrollmentDTO, error)
	GetProgress(userID, courseID string) (float64, error)
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

// Enroll handles POST /student/enroll/{courseId}
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseID := chi.URLParam(r, "courseId")
	e, err := h.Service.Enroll(r.Context(), userID, courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToDTO(e, nil))
}

// GetMyCourses handles GET /student/my-courses
func (h *Handler) GetMyCourses(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courses, err := h.Service.GetMyCourses(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToCourseDTOs(courses))
}

// GetModules handles GET /student/courses/{courseId}/modules
func (h *Handler) GetModules(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	modules, err := h.Service.GetModules(userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, modules)
}

// GetModulesWithStatus handles GET /student/courses/{courseId}/modules-with-status
func (h *Handler) GetModulesWithStatus(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.GetModulesWithStatus(userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// MarkModuleComplete handles POST /student/courses/{courseId}/modules/{moduleId}/complete
func (h *Handler) MarkModuleComplete(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto, err := h.Service.MarkModuleComplete(r.Context(), userID,
		chi.URLParam(r, "courseId"), chi.URLParam(r, "moduleId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto)
}

// GetProgress handles GET /student/courses/{courseId}/progress
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	progress, err := h.Service.GetProgress(userID, chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]float64{"progress": progress})
}
