package mentor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	mentordm "github.com/omp-platform/learning-backend/internal/core/datamodel/mentor"
	"github.com/omp-platform/learning-backend/internal/transport"
)

type ServiceAPI interface {
	GetAllMentors() ([]*mentordm.Mentor, error)
	GetByID(id string) (*mentordm.Mentor, error)
	CreateMentor(dto *MentorDTO) (*mentordm.Mentor, error)
	UpdateMentor(id string, dto *MentorDTO) (*mentordm.Mentor, error)
	DeleteMentor(id string) error
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

func (h *Handler) GetMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := h.Service.GetAllMentors()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"mentors": mentors})
}

func (h *Handler) GetMentor(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.GetByID(chi.URLParam(r, "mentorId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) CreateMentor(w http.ResponseWriter, r *http.Request) {
	var dto MentorDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.CreateMentor(&dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMentor(w http.ResponseWriter, r *http.Request) {
	var dto MentorDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.UpdateMentor(chi.URLParam(r, "mentorId"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMentor(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteMentor(chi.URLParam(r, "mentorId")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
