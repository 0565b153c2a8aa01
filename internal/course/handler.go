package course

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	"github.com/omp-platform/learning-backend/internal/transport"
)

type ServiceAPI interface {
	GetAllCourses() ([]*coursedm.Course, error)
	GetByID(id string) (*coursedm.Course, error)
	CreateCourse(dto *CreateCourseDTO) (*coursedm.Course, error)
	UpdateCourse(id string, dto *UpdateCourseDTO) (*coursedm.Course, error)
	DeleteCourse(id string) error
	ListModules(courseID string) ([]*coursedm.Module, error)
	AddModule(courseID string, dto *ModuleDTO) (*coursedm.Module, error)
	UpdateModule(moduleID string, dto *ModuleDTO) (*coursedm.Module, error)
	DeleteModule(moduleID string) error
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

func (h *Handler) GetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Service.GetAllCourses()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetByID(chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var dto CreateCourseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCourse(&dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var dto UpdateCourseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateCourse(chi.URLParam(r, "courseId"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCourse(chi.URLParam(r, "courseId")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GetModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Service.ListModules(chi.URLParam(r, "courseId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"modules": modules})
}

func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	var dto ModuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.AddModule(chi.URLParam(r, "courseId"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	var dto ModuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.UpdateModule(chi.URLParam(r, "moduleId"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteModule(chi.URLParam(r, "moduleId")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
