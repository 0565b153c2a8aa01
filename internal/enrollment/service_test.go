package enrollment_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	"github.com/omp-platform/learning-backend/internal/enrollment"
)

func TestEnrollmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Enrollment Service Suite")
}

// MockRepository implements enrollment.Repository backed by maps.
type MockRepository struct {
	enrollments map[string]*enrollmentdm.Enrollment
	completed   map[string]map[string]bool
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		enrollments: make(map[string]*enrollmentdm.Enrollment),
		completed:   make(map[string]map[string]bool),
	}
}

func (m *MockRepository) Create(e *enrollmentdm.Enrollment) error {
	if m.shouldFail {
		return m.failError
	}
	for _, existing := range m.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	cp := *e
	m.enrollments[e.ID] = &cp
	return nil
}

func (m *MockRepository) FindByUserAndCourse(userID, courseID string) (*enrollmentdm.Enrollment, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListByUser(userID string) ([]*enrollmentdm.Enrollment, error) {
	var out []*enrollmentdm.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockRepository) AddCompletedModule(enrollmentID, moduleID string) error {
	if m.shouldFail {
		return m.failError
	}
	set, ok := m.completed[enrollmentID]
	if !ok {
		set = make(map[string]bool)
		m.completed[enrollmentID] = set
	}
	set[moduleID] = true
	return nil
}

func (m *MockRepository) ListCompletedModules(enrollmentID string) ([]string, error) {
	var out []string
	for id := range m.completed[enrollmentID] {
		out = append(out, id)
	}
	return out, nil
}

func (m *MockRepository) CountCompletedModules(enrollmentID string) (int64, error) {
	return int64(len(m.completed[enrollmentID])), nil
}

func (m *MockRepository) SetCertificateURL(enrollmentID, url string) (bool, error) {
	e, ok := m.enrollments[enrollmentID]
	if !ok {
		return false, internal.ErrNotEnrolled
	}
	if e.CertificateURL != nil {
		return false, nil
	}
	e.CertificateURL = &url
	return true, nil
}

func (m *MockRepository) DeleteByCourseID(courseID string) error {
	for id, e := range m.enrollments {
		if e.CourseID == courseID {
			delete(m.completed, id)
			delete(m.enrollments, id)
		}
	}
	return nil
}

type MockPaymentChecker struct {
	paid map[string]bool
}

func (m *MockPaymentChecker) HasCompletedPayment(userID, courseID string) (bool, error) {
	return m.paid[userID+"|"+courseID], nil
}

type MockCourseReader struct {
	courses map[string]*coursedm.Course
	modules map[string]*coursedm.Module
}

func (m *MockCourseReader) GetByID(id string) (*coursedm.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, internal.ErrCourseNotFound
	}
	return c, nil
}

func (m *MockCourseReader) GetModule(id string) (*coursedm.Module, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, internal.ErrModuleNotFound
	}
	return mod, nil
}

func (m *MockCourseReader) ListModules(courseID string) ([]*coursedm.Module, error) {
	var out []*coursedm.Module
	for _, mod := range m.modules {
		if mod.CourseID == courseID {
			out = append(out, mod)
		}
	}
	return out, nil
}

func (m *MockCourseReader) CountModules(courseID string) (int64, error) {
	mods, _ := m.ListModules(courseID)
	return int64(len(mods)), nil
}

var _ = Describe("Enrollment Service", func() {
	const (
		userID   = "11111111-1111-1111-1111-111111111111"
		courseID = "22222222-2222-2222-2222-222222222222"
	)

	var (
		repo     *MockRepository
		payments *MockPaymentChecker
		courses  *MockCourseReader
		service  *enrollment.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		payments = &MockPaymentChecker{paid: make(map[string]bool)}
		courses = &MockCourseReader{
			courses: map[string]*coursedm.Course{
				courseID: {ID: courseID, Title: "Go Backend", PriceMinor: 49900, Currency: "INR"},
			},
			modules: map[string]*coursedm.Module{
				"m1": {ID: "m1", CourseID: courseID, Title: "Intro"},
				"m2": {ID: "m2", CourseID: courseID, Title: "HTTP"},
				"m3": {ID: "m3", CourseID: "other-course", Title: "Stray"},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = enrollment.NewService(repo, payments, courses, nil, logger)
	})

	markPaid := func() {
		payments.paid[userID+"|"+courseID] = true
	}

	Describe("Enroll", func() {
		It("rejects enrollment without a completed payment", func() {
			_, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).To(MatchError(internal.ErrPaymentRequired))
		})

		It("rejects enrollment in an unknown course", func() {
			_, err := service.Enroll(context.Background(), userID, "missing")
			Expect(err).To(MatchError(internal.ErrCourseNotFound))
		})

		It("creates the enrollment once the payment is completed", func() {
			markPaid()
			e, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.UserID).To(Equal(userID))
			Expect(e.CourseID).To(Equal(courseID))
			Expect(e.ID).NotTo(BeEmpty())
		})

		It("returns the existing enrollment on repeat calls", func() {
			markPaid()
			first, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())

			second, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(repo.enrollments).To(HaveLen(1))
		})
	})

	Describe("MarkModuleComplete", func() {
		BeforeEach(func() {
			markPaid()
			_, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the completion", func() {
			dto, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())
			Expect(dto.CompletedModules).To(ConsistOf("m1"))
		})

		It("treats repeat completions as no-ops", func() {
			_, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())

			dto, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())
			Expect(dto.CompletedModules).To(ConsistOf("m1"))
		})

		It("rejects modules from another course", func() {
			_, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m3")
			Expect(err).To(MatchError(internal.ErrModuleMismatch))
		})

		It("rejects unknown modules", func() {
			_, err := service.MarkModuleComplete(context.Background(), userID, courseID, "missing")
			Expect(err).To(MatchError(internal.ErrModuleNotFound))
		})

		It("requires an enrollment", func() {
			_, err := service.MarkModuleComplete(context.Background(), "stranger", courseID, "m1")
			Expect(err).To(MatchError(internal.ErrNotEnrolled))
		})
	})

	Describe("GetProgress", func() {
		BeforeEach(func() {
			markPaid()
			_, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts at zero", func() {
			progress, err := service.GetProgress(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(BeZero())
		})

		It("advances monotonically with completions", func() {
			_, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())

			progress, err := service.GetProgress(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(BeNumerically("~", 0.5, 1e-9))

			_, err = service.MarkModuleComplete(context.Background(), userID, courseID, "m2")
			Expect(err).NotTo(HaveOccurred())

			progress, err = service.GetProgress(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("caps at one when a completed module was removed from the course", func() {
			_, err := service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.MarkModuleComplete(context.Background(), userID, courseID, "m2")
			Expect(err).NotTo(HaveOccurred())

			// The completion row for m2 survives the catalog change.
			delete(courses.modules, "m2")

			progress, err := service.GetProgress(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("reports zero for a course without modules", func() {
			empty := "33333333-3333-3333-3333-333333333333"
			courses.courses[empty] = &coursedm.Course{ID: empty, Title: "Empty"}
			payments.paid[userID+"|"+empty] = true
			_, err := service.Enroll(context.Background(), userID, empty)
			Expect(err).NotTo(HaveOccurred())

			progress, err := service.GetProgress(userID, empty)
			Expect(err).NotTo(HaveOccurred())
			Expect(progress).To(BeZero())
		})
	})

	Describe("GetModulesWithStatus", func() {
		It("requires an enrollment", func() {
			_, err := service.GetModulesWithStatus(userID, courseID)
			Expect(err).To(MatchError(internal.ErrNotEnrolled))
		})

		It("bundles modules with the completed set", func() {
			markPaid()
			_, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.MarkModuleComplete(context.Background(), userID, courseID, "m1")
			Expect(err).NotTo(HaveOccurred())

			dto, err := service.GetModulesWithStatus(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(dto.Modules).To(HaveLen(2))
			Expect(dto.CompletedModules).To(ConsistOf("m1"))
			Expect(dto.CertificateURL).To(BeNil())
		})
	})

	Describe("GetMyCourses", func() {
		It("lists only the user's enrolled courses", func() {
			markPaid()
			_, err := service.Enroll(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())

			list, err := service.GetMyCourses(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(courseID))

			other, err := service.GetMyCourses("someone-else")
			Expect(err).NotTo(HaveOccurred())
			Expect(other).To(BeEmpty())
		})
	})
})
