package enrollment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	"github.com/omp-platform/learning-backend/internal/core/events"
)

// Repository is the enrollment persistence contract. AddCompletedModule
// must be an atomic set-insert; SetCertificateURL must be a compare-and-set
// that only writes when the column is still null.
type Repository interface {
	Create(e *enrollmentdm.Enrollment) error
	FindByUserAndCourse(userID, courseID string) (*enrollmentdm.Enrollment, error)
	ListByUser(userID string) ([]*enrollmentdm.Enrollment, error)
	AddCompletedModule(enrollmentID, moduleID string) error
	ListCompletedModules(enrollmentID string) ([]string, error)
	CountCompletedModules(enrollmentID string) (int64, error)
	SetCertificateURL(enrollmentID, url string) (bool, error)
	DeleteByCourseID(courseID string) error
}

// PaymentChecker gates enrollment on a completed payment for the pair.
type PaymentChecker interface {
	HasCompletedPayment(userID, courseID string) (bool, error)
}

type CourseReader interface {
	GetByID(id string) (*coursedm.Course, error)
	GetModule(id string) (*coursedm.Module, error)
	ListModules(courseID string) ([]*coursedm.Module, error)
	CountModules(courseID string) (int64, error)
}

type Service struct {
	repo     Repository
	payments PaymentChecker
	courses  CourseReader
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, payments PaymentChecker, courses CourseReader, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		payments: payments,
		courses:  courses,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Enroll materializes the enrollment for a pair with a completed payment.
// Calling it again returns the existing enrollment untouched, so payment
// verification retries and double-clicks are harmless.
func (s *Service) Enroll(ctx context.Context, userID, courseID string) (*enrollmentdm.Enrollment, error) {
	existing, err := s.repo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up enrollment", err)
	}
	if existing != nil {
		return existing, nil
	}

	if _, err := s.courses.GetByID(courseID); err != nil {
		return nil, err
	}

	paid, err := s.payments.HasCompletedPayment(userID, courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check payment", err)
	}
	if !paid {
		s.logger.Warn("enrollment rejected: no completed payment",
			"user_id", userID, "course_id", courseID)
		return nil, internal.ErrPaymentRequired
	}

	e := &enrollmentdm.Enrollment{
		ID:       uuid.New().String(),
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.repo.Create(e); err != nil {
		// A concurrent enroll may have won the unique index race.
		if again, lookupErr := s.repo.FindByUserAndCourse(userID, courseID); lookupErr == nil && again != nil {
			return again, nil
		}
		s.logger.Error("failed to create enrollment", "error", err, "user_id", userID, "course_id", courseID)
		return nil, internal.NewInternalError("failed to create enrollment", err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, events.NewEnrollmentCreatedEvent(e.ID, userID, courseID))
	}

	s.logger.Info("enrollment created",
		"enrollment_id", e.ID, "user_id", userID, "course_id", courseID)
	return e, nil
}

// GetMyCourses projects the user's enrollments onto their courses.
func (s *Service) GetMyCourses(userID string) ([]*coursedm.Course, error) {
	enrollments, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list enrollments", err)
	}

	courses := make([]*coursedm.Course, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.courses.GetByID(e.CourseID)
		if err != nil {
			// Course deleted from under the enrollment; skip it.
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// MarkModuleComplete adds a module to the enrollment's completed set.
// Completing the same module twice is a no-op.
func (s *Service) MarkModuleComplete(ctx context.Context, userID, courseID, moduleID string) (*EnrollmentDTO, error) {
	e, err := s.requireEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}

	module, err := s.courses.GetModule(moduleID)
	if err != nil {
		return nil, err
	}
	if module.CourseID != courseID {
		s.logger.Warn("module/course mismatch",
			"module_id", moduleID, "module_course", module.CourseID, "course_id", courseID)
		return nil, internal.ErrModuleMismatch
	}

	if err := s.repo.AddCompletedModule(e.ID, moduleID); err != nil {
		s.logger.Error("failed to record module completion",
			"error", err, "enrollment_id", e.ID, "module_id", moduleID)
		return nil, internal.NewInternalError("failed to record module completion", err)
	}

	completed, err := s.repo.ListCompletedModules(e.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list completed modules", err)
	}

	s.logger.Info("module marked complete",
		"enrollment_id", e.ID, "module_id", moduleID, "completed_count", len(completed))

	return ToDTO(e, completed), nil
}

// GetProgress returns the completed fraction in [0, 1]. A course with no
// modules reports 0 rather than dividing by zero.
func (s *Service) GetProgress(userID, courseID string) (float64, error) {
	e, err := s.requireEnrollment(userID, courseID)
	if err != nil {
		return 0, err
	}

	total, err := s.courses.CountModules(courseID)
	if err != nil {
		return 0, internal.NewInternalError("failed to count modules", err)
	}
	if total == 0 {
		return 0.0, nil
	}

	completed, err := s.repo.CountCompletedModules(e.ID)
	if err != nil {
		return 0, internal.NewInternalError("failed to count completed modules", err)
	}

	// Completion rows can outlive their module, so completed may exceed
	// the current total.
	progress := float64(completed) / float64(total)
	if progress > 1 {
		progress = 1
	}
	return progress, nil
}

// GetModulesWithStatus is the read-only composite the course player uses.
func (s *Service) GetModulesWithStatus(userID, courseID string) (*ModulesWithStatusDTO, error) {
	e, err := s.requireEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}

	modules, err := s.courses.ListModules(courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list modules", err)
	}

	completed, err := s.repo.ListCompletedModules(e.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list completed modules", err)
	}

	return &ModulesWithStatusDTO{
		Modules:          ToModuleDTOs(modules),
		CompletedModules: completed,
		CertificateURL:   e.CertificateURL,
	}, nil
}

// GetModules lists a course's modules for an enrolled student.
func (s *Service) GetModules(userID, courseID string) ([]*ModuleDTO, error) {
	if _, err := s.requireEnrollment(userID, courseID); err != nil {
		return nil, err
	}

	modules, err := s.courses.ListModules(courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list modules", err)
	}
	return ToModuleDTOs(modules), nil
}

func (s *Service) requireEnrollment(userID, courseID string) (*enrollmentdm.Enrollment, error) {
	e, err := s.repo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up enrollment", err)
	}
	if e == nil {
		return nil, internal.ErrNotEnrolled
	}
	return e, nil
}
