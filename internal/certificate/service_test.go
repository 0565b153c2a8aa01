package certificate_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/internal/certificate"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
)

func TestCertificateService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Certificate Service Suite")
}

type MockEnrollmentStore struct {
	enrollments    map[string]*enrollmentdm.Enrollment
	completedCount map[string]int64
	casCalls       int
	forceLoseCAS   bool
	loserURL       string
}

func NewMockEnrollmentStore() *MockEnrollmentStore {
	return &MockEnrollmentStore{
		enrollments:    make(map[string]*enrollmentdm.Enrollment),
		completedCount: make(map[string]int64),
	}
}

func (m *MockEnrollmentStore) FindByUserAndCourse(userID, courseID string) (*enrollmentdm.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockEnrollmentStore) CountCompletedModules(enrollmentID string) (int64, error) {
	return m.completedCount[enrollmentID], nil
}

func (m *MockEnrollmentStore) SetCertificateURL(enrollmentID, url string) (bool, error) {
	m.casCalls++
	e, ok := m.enrollments[enrollmentID]
	if !ok {
		return false, internal.ErrNotEnrolled
	}
	if m.forceLoseCAS {
		// Simulate a concurrent writer landing between the read and the CAS.
		e.CertificateURL = &m.loserURL
		return false, nil
	}
	if e.CertificateURL != nil {
		return false, nil
	}
	e.CertificateURL = &url
	return true, nil
}

type MockCourseReader struct {
	courses     map[string]*coursedm.Course
	moduleCount map[string]int64
}

func (m *MockCourseReader) GetByID(id string) (*coursedm.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, internal.ErrCourseNotFound
	}
	return c, nil
}

func (m *MockCourseReader) CountModules(courseID string) (int64, error) {
	return m.moduleCount[courseID], nil
}

type MockUserReader struct {
	users map[string]*userdm.User
}

func (m *MockUserReader) GetByID(id string) (*userdm.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

type MockRenderer struct {
	renderCalls int
}

func (m *MockRenderer) Render(studentName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	m.renderCalls++
	return []byte("png:" + studentName + ":" + courseTitle), nil
}

type MockFileStore struct {
	stored map[string][]byte
}

func (m *MockFileStore) Store(subdir, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.stored == nil {
		m.stored = make(map[string][]byte)
	}
	key := subdir + "/" + filename
	m.stored[key] = data
	return "http://localhost:8080/uploads/" + key, nil
}

var _ = Describe("Certificate Service", func() {
	const (
		userID       = "11111111-1111-1111-1111-111111111111"
		courseID     = "22222222-2222-2222-2222-222222222222"
		enrollmentID = "33333333-3333-3333-3333-333333333333"
	)

	var (
		enrollments *MockEnrollmentStore
		courses     *MockCourseReader
		users       *MockUserReader
		renderer    *MockRenderer
		files       *MockFileStore
		service     *certificate.Service
	)

	BeforeEach(func() {
		enrollments = NewMockEnrollmentStore()
		enrollments.enrollments[enrollmentID] = &enrollmentdm.Enrollment{
			ID:       enrollmentID,
			UserID:   userID,
			CourseID: courseID,
		}
		courses = &MockCourseReader{
			courses: map[string]*coursedm.Course{
				courseID: {ID: courseID, Title: "Go Backend"},
			},
			moduleCount: map[string]int64{courseID: 2},
		}
		users = &MockUserReader{users: map[string]*userdm.User{
			userID: {ID: userID, Name: "Demo Student"},
		}}
		renderer = &MockRenderer{}
		files = &MockFileStore{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = certificate.NewService(enrollments, courses, users, renderer, files, nil, logger)
	})

	complete := func() {
		enrollments.completedCount[enrollmentID] = 2
	}

	Describe("DownloadCertificate", func() {
		It("rejects users without an enrollment", func() {
			_, err := service.DownloadCertificate(context.Background(), "stranger", courseID)
			Expect(err).To(MatchError(internal.ErrNotEnrolled))
		})

		It("rejects incomplete courses", func() {
			enrollments.completedCount[enrollmentID] = 1
			_, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).To(MatchError(internal.ErrCourseNotCompleted))
		})

		It("issues and persists the certificate on first call", func() {
			complete()
			url, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(ContainSubstring("certificates/certificate_" + enrollmentID + ".png"))
			Expect(files.stored).To(HaveLen(1))
			Expect(renderer.renderCalls).To(Equal(1))
		})

		It("returns the cached url without re-rendering", func() {
			complete()
			first, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())

			second, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(renderer.renderCalls).To(Equal(1))
			Expect(enrollments.casCalls).To(Equal(1))
		})

		It("returns the winner's url when it loses the write race", func() {
			complete()
			enrollments.forceLoseCAS = true
			enrollments.loserURL = "http://localhost:8080/uploads/certificates/winner.png"

			url, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(Equal(enrollments.loserURL))
		})

		It("raises the bar when modules are added after completion", func() {
			complete()
			courses.moduleCount[courseID] = 3
			_, err := service.DownloadCertificate(context.Background(), userID, courseID)
			Expect(err).To(MatchError(internal.ErrCourseNotCompleted))
		})
	})

	Describe("CertificateBytes", func() {
		It("renders without persisting anything", func() {
			complete()
			data, err := service.CertificateBytes(userID, courseID)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("png:Demo Student:Go Backend"))
			Expect(files.stored).To(BeEmpty())
			Expect(enrollments.casCalls).To(BeZero())
		})

		It("applies the same completion gate", func() {
			_, err := service.CertificateBytes(userID, courseID)
			Expect(err).To(MatchError(internal.ErrCourseNotCompleted))
		})
	})
})
