package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/omp-platform/learning-backend/internal"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	"github.com/omp-platform/learning-backend/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*userdm.User, error)
	UpdateProfile(id string, dto *UpdateProfileDTO) (*userdm.User, error)
	ListUsers() ([]*userdm.User, error)
	GetUser(id string) (*userdm.User, error)
	AdminUpdateUser(id string, dto *AdminUpdateUserDTO) (*userdm.User, error)
	SetUserActive(id string, active bool) (*userdm.User, error)
	Stats() (*UserStatsDTO, error)
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToProfileDTO(u))
}

// UpdateCurrentUser handles PATCH /users/me
func (h *Handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateProfile(userID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToProfileDTO(u))
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": ToAdminDTOs(users),
		"total": len(users),
	})
}

// GetUserStats handles GET /admin/users/stats
func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// GetUser handles GET /admin/users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(chi.URLParam(r, "userId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToAdminDTO(u))
}

// UpdateUser handles PATCH /admin/users/{userId}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto AdminUpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.AdminUpdateUser(chi.URLParam(r, "userId"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToAdminDTO(u))
}

// DeactivateUser handles POST /admin/users/{userId}/deactivate
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.SetUserActive(chi.URLParam(r, "userId"), false)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToAdminDTO(u))
}

// ReactivateUser handles POST /admin/users/{userId}/reactivate
func (h *Handler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.SetUserActive(chi.URLParam(r, "userId"), true)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToAdminDTO(u))
}
