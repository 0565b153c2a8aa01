package user

import (
	"log/slog"

	"github.com/omp-platform/learning-backend/internal"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(id string) (*userdm.User, error)
	GetByEmail(email string) (*userdm.User, error)
	Update(u *userdm.User) error
	List() ([]*userdm.User, error)
	GetAnyByID(id string) (*userdm.User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(id string) (*userdm.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateProfile(id string, dto *UpdateProfileDTO) (*userdm.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.ImageURL != nil {
		u.ImageURL = dto.ImageURL
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update profile", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	s.logger.Info("profile updated", "user_id", id)
	return u, nil
}

// ListUsers returns every account, deactivated ones included, for the
// admin console.
func (s *Service) ListUsers() ([]*userdm.User, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// GetUser looks an account up regardless of its active flag, so admins
// can inspect deactivated users too.
func (s *Service) GetUser(id string) (*userdm.User, error) {
	u, err := s.repo.GetAnyByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// AdminUpdateUser applies name, role, and image changes on behalf of an
// administrator.
func (s *Service) AdminUpdateUser(id string, dto *AdminUpdateUserDTO) (*userdm.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.ImageURL != nil {
		u.ImageURL = dto.ImageURL
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated by admin", "user_id", id)
	return u, nil
}

// SetUserActive flips the account's active flag. Deactivation is the
// delete operation here; rows are never removed so payment and
// enrollment history stays attributable.
func (s *Service) SetUserActive(id string, active bool) (*userdm.User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if u.IsActive == active {
		return u, nil
	}

	u.IsActive = active
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to change user active flag", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user active flag changed", "user_id", id, "active", active)
	return u, nil
}

// Stats aggregates account counts for the admin dashboard.
func (s *Service) Stats() (*UserStatsDTO, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, internal.NewInternalError("failed to count users", err)
	}

	stats := &UserStatsDTO{Total: int64(len(users))}
	for _, u := range users {
		if u.IsActive {
			stats.Active++
		}
		switch u.Role {
		case userdm.RoleStudent:
			stats.Students++
		case userdm.RoleMentor:
			stats.Mentors++
		case userdm.RoleAdmin:
			stats.Admins++
		}
	}
	return stats, nil
}
