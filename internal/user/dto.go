package user

import (
	"time"

	"github.com/omp-platform/learning-backend/internal"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
)

// ProfileDTO is the public view of a user. Password hashes never leave
// the datamodel.
type ProfileDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToProfileDTO(u *userdm.User) *ProfileDTO {
	return &ProfileDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateProfileDTO struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"image_url"`
}

func (d *UpdateProfileDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// AdminUserDTO extends the profile view with the fields only the admin
// console sees.
type AdminUserDTO struct {
	ProfileDTO
	IsActive bool `json:"is_active"`
}

func ToAdminDTO(u *userdm.User) *AdminUserDTO {
	return &AdminUserDTO{
		ProfileDTO: *ToProfileDTO(u),
		IsActive:   u.IsActive,
	}
}

func ToAdminDTOs(users []*userdm.User) []*AdminUserDTO {
	dtos := make([]*AdminUserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, ToAdminDTO(u))
	}
	return dtos
}

// AdminUpdateUserDTO carries the fields an administrator may change on
// any account.
type AdminUpdateUserDTO struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	ImageURL *string `json:"image_url"`
}

func (d *AdminUpdateUserDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name must not be empty", internal.ErrCodeValidationFailed)
	}
	if d.Role != nil {
		switch *d.Role {
		case userdm.RoleStudent, userdm.RoleMentor, userdm.RoleAdmin:
		default:
			return internal.NewValidationError("unknown role", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// UserStatsDTO is the account summary shown on the admin dashboard.
type UserStatsDTO struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Students int64 `json:"students"`
	Mentors  int64 `json:"mentors"`
	Admins   int64 `json:"admins"`
}
