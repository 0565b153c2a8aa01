package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	enrollmentpkg "github.com/omp-platform/learning-backend/internal/enrollment"
	enrollmentPostgres "github.com/omp-platform/learning-backend/internal/enrollment/postgres"
)

func TestEnrollmentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Enrollment Postgres Suite")
}

// SQLiteEnrollment mirrors the enrollments table without postgres defaults.
type SQLiteEnrollment struct {
	ID             string    `gorm:"primaryKey"`
	UserID         string    `gorm:"column:user_id;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID       string    `gorm:"column:course_id;not null;uniqueIndex:idx_enrollments_user_course"`
	CertificateURL *string   `gorm:"column:certificate_url"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteEnrollment) TableName() string {
	return "enrollments"
}

type SQLiteCompletedModule struct {
	EnrollmentID string    `gorm:"column:enrollment_id;primaryKey"`
	ModuleID     string    `gorm:"column:module_id;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (SQLiteCompletedModule) TableName() string {
	return "completed_modules"
}

var _ = Describe("Enrollment Repository", func() {
	var (
		db   *gorm.DB
		repo enrollmentpkg.Repository
	)

	newEnrollment := func(userID, courseID string) *enrollmentdm.Enrollment {
		return &enrollmentdm.Enrollment{
			ID:       uuid.NewString(),
			UserID:   userID,
			CourseID: courseID,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteEnrollment{}, &SQLiteCompletedModule{})
		Expect(err).NotTo(HaveOccurred())

		repo = enrollmentPostgres.NewEnrollmentRepository(db)
	})

	Describe("Create", func() {
		It("persists an enrollment", func() {
			e := newEnrollment("user-1", "course-1")
			Expect(repo.Create(e)).To(Succeed())

			found, err := repo.FindByUserAndCourse("user-1", "course-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())
			Expect(found.ID).To(Equal(e.ID))
		})

		It("rejects a second enrollment for the same pair", func() {
			Expect(repo.Create(newEnrollment("user-1", "course-1"))).To(Succeed())
			Expect(repo.Create(newEnrollment("user-1", "course-1"))).NotTo(Succeed())
		})

		It("allows the same user in different courses", func() {
			Expect(repo.Create(newEnrollment("user-1", "course-1"))).To(Succeed())
			Expect(repo.Create(newEnrollment("user-1", "course-2"))).To(Succeed())
		})
	})

	Describe("FindByUserAndCourse", func() {
		It("returns nil without error when absent", func() {
			found, err := repo.FindByUserAndCourse("nobody", "nothing")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
		})
	})

	Describe("AddCompletedModule", func() {
		var e *enrollmentdm.Enrollment

		BeforeEach(func() {
			e = newEnrollment("user-1", "course-1")
			Expect(repo.Create(e)).To(Succeed())
		})

		It("records a completion", func() {
			Expect(repo.AddCompletedModule(e.ID, "module-1")).To(Succeed())

			ids, err := repo.ListCompletedModules(e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf("module-1"))
		})

		It("keeps set semantics on repeat inserts", func() {
			Expect(repo.AddCompletedModule(e.ID, "module-1")).To(Succeed())
			Expect(repo.AddCompletedModule(e.ID, "module-1")).To(Succeed())
			Expect(repo.AddCompletedModule(e.ID, "module-2")).To(Succeed())

			count, err := repo.CountCompletedModules(e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("DeleteByModuleID", func() {
		It("drops the module's completion rows across enrollments", func() {
			e1 := newEnrollment("user-1", "course-1")
			Expect(repo.Create(e1)).To(Succeed())
			e2 := newEnrollment("user-2", "course-1")
			Expect(repo.Create(e2)).To(Succeed())

			Expect(repo.AddCompletedModule(e1.ID, "module-1")).To(Succeed())
			Expect(repo.AddCompletedModule(e1.ID, "module-2")).To(Succeed())
			Expect(repo.AddCompletedModule(e2.ID, "module-1")).To(Succeed())

			purger, ok := repo.(interface{ DeleteByModuleID(moduleID string) error })
			Expect(ok).To(BeTrue())
			Expect(purger.DeleteByModuleID("module-1")).To(Succeed())

			ids, err := repo.ListCompletedModules(e1.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf("module-2"))

			count, err := repo.CountCompletedModules(e2.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("SetCertificateURL", func() {
		var e *enrollmentdm.Enrollment

		BeforeEach(func() {
			e = newEnrollment("user-1", "course-1")
			Expect(repo.Create(e)).To(Succeed())
		})

		It("writes the url when the column is null", func() {
			won, err := repo.SetCertificateURL(e.ID, "http://localhost/certs/a.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeTrue())

			found, err := repo.FindByUserAndCourse("user-1", "course-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.CertificateURL).NotTo(BeNil())
			Expect(*found.CertificateURL).To(Equal("http://localhost/certs/a.png"))
		})

		It("refuses to overwrite an existing url", func() {
			won, err := repo.SetCertificateURL(e.ID, "http://localhost/certs/first.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeTrue())

			won, err = repo.SetCertificateURL(e.ID, "http://localhost/certs/second.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeFalse())

			found, err := repo.FindByUserAndCourse("user-1", "course-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(*found.CertificateURL).To(Equal("http://localhost/certs/first.png"))
		})

		It("reports a loss for unknown enrollments", func() {
			won, err := repo.SetCertificateURL("missing", "http://localhost/certs/a.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(won).To(BeFalse())
		})
	})

	Describe("DeleteByCourseID", func() {
		It("removes enrollments and their completed modules", func() {
			e1 := newEnrollment("user-1", "course-1")
			e2 := newEnrollment("user-2", "course-1")
			keep := newEnrollment("user-1", "course-2")
			Expect(repo.Create(e1)).To(Succeed())
			Expect(repo.Create(e2)).To(Succeed())
			Expect(repo.Create(keep)).To(Succeed())
			Expect(repo.AddCompletedModule(e1.ID, "module-1")).To(Succeed())
			Expect(repo.AddCompletedModule(keep.ID, "module-9")).To(Succeed())

			Expect(repo.DeleteByCourseID("course-1")).To(Succeed())

			found, err := repo.FindByUserAndCourse("user-1", "course-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())

			count, err := repo.CountCompletedModules(e1.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			remaining, err := repo.FindByUserAndCourse("user-1", "course-2")
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).NotTo(BeNil())

			count, err = repo.CountCompletedModules(keep.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("ListByUser", func() {
		It("returns only that user's enrollments", func() {
			Expect(repo.Create(newEnrollment("user-1", "course-1"))).To(Succeed())
			Expect(repo.Create(newEnrollment("user-1", "course-2"))).To(Succeed())
			Expect(repo.Create(newEnrollment("user-2", "course-1"))).To(Succeed())

			list, err := repo.ListByUser("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})
	})
})
