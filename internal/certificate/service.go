package certificate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	"github.com/omp-platform/learning-backend/internal/core/events"
)

// EnrollmentStore is the slice of enrollment persistence the gate needs.
// SetCertificateURL is a compare-and-set on a null column, so concurrent
// downloads render at most once per enrollment.
type EnrollmentStore interface {
	FindByUserAndCourse(userID, courseID string) (*enrollmentdm.Enrollment, error)
	CountCompletedModules(enrollmentID string) (int64, error)
	SetCertificateURL(enrollmentID, url string) (bool, error)
}

type CourseReader interface {
	GetByID(id string) (*coursedm.Course, error)
	CountModules(courseID string) (int64, error)
}

type UserReader interface {
	GetByID(id string) (*userdm.User, error)
}

// FileStore persists certificate bytes and yields a public URL.
type FileStore interface {
	Store(subdir, filename string, r io.Reader) (string, error)
}

type Service struct {
	enrollments EnrollmentStore
	courses     CourseReader
	users       UserReader
	renderer    Renderer
	files       FileStore
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(
	enrollments EnrollmentStore,
	courses CourseReader,
	users UserReader,
	renderer Renderer,
	files FileStore,
	eventBus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		renderer:    renderer,
		files:       files,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// DownloadCertificate returns the certificate URL for a completed course,
// issuing the certificate on first call. The URL is write-once: a cached
// value is returned unchanged, and under concurrent first calls the CAS
// decides the winner while losers return the stored URL.
func (s *Service) DownloadCertificate(ctx context.Context, userID, courseID string) (string, error) {
	e, course, err := s.requireCompleted(userID, courseID)
	if err != nil {
		return "", err
	}

	if e.CertificateURL != nil && *e.CertificateURL != "" {
		return *e.CertificateURL, nil
	}

	data, err := s.render(userID, course)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("certificate_%s.png", e.ID)
	url, err := s.files.Store("certificates", filename, bytes.NewReader(data))
	if err != nil {
		return "", internal.NewInternalError("failed to store certificate", err)
	}

	won, err := s.enrollments.SetCertificateURL(e.ID, url)
	if err != nil {
		return "", internal.NewInternalError("failed to persist certificate url", err)
	}
	if !won {
		// A concurrent call got there first. Its URL is the enrollment's
		// certificate from now on.
		current, err := s.enrollments.FindByUserAndCourse(userID, courseID)
		if err != nil || current == nil || current.CertificateURL == nil {
			return "", internal.NewInternalError("failed to re-read certificate url", err)
		}
		return *current.CertificateURL, nil
	}

	s.logger.Info("certificate issued",
		"enrollment_id", e.ID,
		"course_id", courseID,
		"user_id", userID)
	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, events.NewCertificateIssuedEvent(e.ID, userID, courseID, url))
	}
	return url, nil
}

// CertificateBytes re-renders the certificate for inline viewing. It never
// persists anything, so the stored URL stays the canonical artifact.
func (s *Service) CertificateBytes(userID, courseID string) ([]byte, error) {
	_, course, err := s.requireCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}

	return s.render(userID, course)
}

// requireCompleted gates on enrollment plus full module completion against
// the course's current module set. Modules added after earlier completions
// raise the bar; removed modules lower it.
func (s *Service) requireCompleted(userID, courseID string) (*enrollmentdm.Enrollment, *coursedm.Course, error) {
	e, err := s.enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to look up enrollment", err)
	}
	if e == nil {
		return nil, nil, internal.ErrNotEnrolled
	}

	course, err := s.courses.GetByID(courseID)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.courses.CountModules(courseID)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to count modules", err)
	}
	completed, err := s.enrollments.CountCompletedModules(e.ID)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to count completed modules", err)
	}
	if completed < total {
		return nil, nil, internal.ErrCourseNotCompleted
	}
	return e, course, nil
}

func (s *Service) render(userID string, course *coursedm.Course) ([]byte, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(u.Name, course.Title, time.Now())
	if err != nil {
		return nil, internal.NewInternalError("failed to render certificate", err)
	}
	return data, nil
}
