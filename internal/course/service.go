package course

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
)

type RepositoryAPI interface {
	GetAll() ([]*coursedm.Course, error)
	GetByID(id string) (*coursedm.Course, error)
	Create(c *coursedm.Course) error
	Update(c *coursedm.Course) error
	Delete(id string) error
	GetModule(id string) (*coursedm.Module, error)
	ListModules(courseID string) ([]*coursedm.Module, error)
	CountModules(courseID string) (int64, error)
	CreateModule(m *coursedm.Module) error
	UpdateModule(m *coursedm.Module) error
	DeleteModule(id string) error
}

// Purger removes a domain's rows for a course. Payment and enrollment
// repositories implement it so course deletion cascades.
type Purger interface {
	DeleteByCourseID(courseID string) error
}

// ModulePurger removes a domain's rows for a single module. The
// enrollment repository implements it so deleting a module also drops
// its completion rows.
type ModulePurger interface {
	DeleteByModuleID(moduleID string) error
}

type MentorReader interface {
	Exists(id string) (bool, error)
}

type Service struct {
	repo    RepositoryAPI
	mentors MentorReader
	purgers []Purger
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, mentors MentorReader, logger *slog.Logger, purgers ...Purger) *Service {
	return &Service{
		repo:    repo,
		mentors: mentors,
		purgers: purgers,
		logger:  logger,
	}
}

func (s *Service) GetAllCourses() ([]*coursedm.Course, error) {
	courses, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list courses", "error", err)
		return nil, internal.NewInternalError("failed to list courses", err)
	}
	return courses, nil
}

// GetByID returns CourseNotFound for unknown ids, so callers across the
// payment and enrollment flows share one error shape.
func (s *Service) GetByID(id string) (*coursedm.Course, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get course", err)
	}
	if c == nil {
		return nil, internal.ErrCourseNotFound
	}
	return c, nil
}

func (s *Service) CreateCourse(dto *CreateCourseDTO) (*coursedm.Course, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.MentorID != nil {
		ok, err := s.mentors.Exists(*dto.MentorID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check mentor", err)
		}
		if !ok {
			return nil, internal.ErrMentorNotFound
		}
	}

	c := &coursedm.Course{
		ID:          uuid.NewString(),
		Title:       dto.Title,
		Description: dto.Description,
		PriceMinor:  dto.PriceMinor,
		Currency:    dto.Currency,
		ImageURL:    dto.ImageURL,
		MentorID:    dto.MentorID,
	}
	if c.Currency == "" {
		c.Currency = "INR"
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create course", "error", err)
		return nil, internal.NewInternalError("failed to create course", err)
	}

	s.logger.Info("course created", "course_id", c.ID, "title", c.Title)
	return c, nil
}

func (s *Service) UpdateCourse(id string, dto *UpdateCourseDTO) (*coursedm.Course, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.PriceMinor != nil {
		if *dto.PriceMinor < 0 {
			return nil, internal.NewValidationError("price must not be negative", internal.ErrCodeInvalidAmount)
		}
		c.PriceMinor = *dto.PriceMinor
	}
	if dto.Currency != nil {
		c.Currency = *dto.Currency
	}
	if dto.ImageURL != nil {
		c.ImageURL = dto.ImageURL
	}
	if dto.MentorID != nil {
		ok, err := s.mentors.Exists(*dto.MentorID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check mentor", err)
		}
		if !ok {
			return nil, internal.ErrMentorNotFound
		}
		c.MentorID = dto.MentorID
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update course", "course_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update course", err)
	}
	return c, nil
}

// DeleteCourse removes the course, its modules, and every dependent
// payment and enrollment row.
func (s *Service) DeleteCourse(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	for _, p := range s.purgers {
		if err := p.DeleteByCourseID(id); err != nil {
			s.logger.Error("failed to purge course rows", "course_id", id, "error", err)
			return internal.NewInternalError("failed to delete course", err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete course", "course_id", id, "error", err)
		return internal.NewInternalError("failed to delete course", err)
	}

	s.logger.Info("course deleted", "course_id", id)
	return nil
}

func (s *Service) GetModule(id string) (*coursedm.Module, error) {
	m, err := s.repo.GetModule(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get module", err)
	}
	if m == nil {
		return nil, internal.ErrModuleNotFound
	}
	return m, nil
}

func (s *Service) ListModules(courseID string) ([]*coursedm.Module, error) {
	modules, err := s.repo.ListModules(courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list modules", err)
	}
	return modules, nil
}

func (s *Service) CountModules(courseID string) (int64, error) {
	return s.repo.CountModules(courseID)
}

func (s *Service) AddModule(courseID string, dto *ModuleDTO) (*coursedm.Module, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(courseID); err != nil {
		return nil, err
	}

	m := &coursedm.Module{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       dto.Title,
		VideoURL:    dto.VideoURL,
		Summary:     dto.Summary,
		ResourceURL: dto.ResourceURL,
	}
	if err := s.repo.CreateModule(m); err != nil {
		s.logger.Error("failed to create module", "course_id", courseID, "error", err)
		return nil, internal.NewInternalError("failed to create module", err)
	}
	return m, nil
}

func (s *Service) UpdateModule(moduleID string, dto *ModuleDTO) (*coursedm.Module, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	m.Title = dto.Title
	m.VideoURL = dto.VideoURL
	m.Summary = dto.Summary
	m.ResourceURL = dto.ResourceURL

	if err := s.repo.UpdateModule(m); err != nil {
		s.logger.Error("failed to update module", "module_id", moduleID, "error", err)
		return nil, internal.NewInternalError("failed to update module", err)
	}
	return m, nil
}

// DeleteModule removes the module and every completion row that
// references it, so progress counts stay consistent with the catalog.
func (s *Service) DeleteModule(moduleID string) error {
	if _, err := s.GetModule(moduleID); err != nil {
		return err
	}

	for _, p := range s.purgers {
		mp, ok := p.(ModulePurger)
		if !ok {
			continue
		}
		if err := mp.DeleteByModuleID(moduleID); err != nil {
			s.logger.Error("failed to purge module rows", "module_id", moduleID, "error", err)
			return internal.NewInternalError("failed to delete module", err)
		}
	}

	if err := s.repo.DeleteModule(moduleID); err != nil {
		s.logger.Error("failed to delete module", "module_id", moduleID, "error", err)
		return internal.NewInternalError("failed to delete module", err)
	}
	return nil
}
