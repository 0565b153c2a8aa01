package mentor

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/omp-platform/learning-backend/internal"
	mentordm "github.com/omp-platform/learning-backend/internal/core/datamodel/mentor"
)

type RepositoryAPI interface {
	GetAll() ([]*mentordm.Mentor, error)
	GetByID(id string) (*mentordm.Mentor, error)
	Create(m *mentordm.Mentor) error
	Update(m *mentordm.Mentor) error
	Delete(id string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllMentors() ([]*mentordm.Mentor, error) {
	mentors, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list mentors", "error", err)
		return nil, internal.NewInternalError("failed to list mentors", err)
	}
	return mentors, nil
}

func (s *Service) GetByID(id string) (*mentordm.Mentor, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get mentor", err)
	}
	if m == nil {
		return nil, internal.ErrMentorNotFound
	}
	return m, nil
}

// Exists lets the course service validate mentor references without
// importing this package's error mapping.
func (s *Service) Exists(id string) (bool, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (s *Service) CreateMentor(dto *MentorDTO) (*mentordm.Mentor, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &mentordm.Mentor{
		ID:        uuid.NewString(),
		Name:      dto.Name,
		Bio:       dto.Bio,
		Expertise: dto.Expertise,
		ImageURL:  dto.ImageURL,
	}
	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create mentor", "error", err)
		return nil, internal.NewInternalError("failed to create mentor", err)
	}

	s.logger.Info("mentor created", "mentor_id", m.ID, "name", m.Name)
	return m, nil
}

func (s *Service) UpdateMentor(id string, dto *MentorDTO) (*mentordm.Mentor, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	m.Name = dto.Name
	m.Bio = dto.Bio
	m.Expertise = dto.Expertise
	if dto.ImageURL != nil {
		m.ImageURL = dto.ImageURL
	}

	if err := s.repo.Update(m); err != nil {
		s.logger.Error("failed to update mentor", "mentor_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update mentor", err)
	}
	return m, nil
}

func (s *Service) DeleteMentor(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete mentor", "mentor_id", id, "error", err)
		return internal.NewInternalError("failed to delete mentor", err)
	}
	return nil
}
