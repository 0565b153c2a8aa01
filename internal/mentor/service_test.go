package mentor_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal"
	mentordm "github.com/omp-platform/learning-backend/internal/core/datamodel/mentor"
	"github.com/omp-platform/learning-backend/internal/mentor"
)

func TestMentorService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mentor Service Suite")
}

// MockRepository implements mentor.RepositoryAPI backed by a map.
type MockRepository struct {
	mentors    map[string]*mentordm.Mentor
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{mentors: make(map[string]*mentordm.Mentor)}
}

func (m *MockRepository) GetAll() ([]*mentordm.Mentor, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*mentordm.Mentor, 0, len(m.mentors))
	for _, v := range m.mentors {
		out = append(out, v)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id string) (*mentordm.Mentor, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.mentors[id], nil
}

func (m *MockRepository) Create(mt *mentordm.Mentor) error {
	if m.shouldFail {
		return m.failError
	}
	m.mentors[mt.ID] = mt
	return nil
}

func (m *MockRepository) Update(mt *mentordm.Mentor) error {
	if m.shouldFail {
		return m.failError
	}
	m.mentors[mt.ID] = mt
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.mentors, id)
	return nil
}

var _ = Describe("Mentor Service", func() {
	var (
		repo    *MockRepository
		service *mentor.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = mentor.NewService(repo, logger)
	})

	Describe("CreateMentor", func() {
		It("should create a mentor with a generated id", func() {
			m, err := service.CreateMentor(&mentor.MentorDTO{
				Name:      "Asha Verma",
				Bio:       "Backend engineer",
				Expertise: "Distributed systems",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(m.ID).NotTo(BeEmpty())
			Expect(m.Name).To(Equal("Asha Verma"))
			Expect(repo.mentors).To(HaveKey(m.ID))
		})

		It("should reject a mentor without a name", func() {
			_, err := service.CreateMentor(&mentor.MentorDTO{Bio: "no name"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should wrap repository failures", func() {
			repo.shouldFail = true
			repo.failError = errors.New("connection refused")

			_, err := service.CreateMentor(&mentor.MentorDTO{Name: "Asha Verma"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("GetByID", func() {
		It("should return a not found error for an unknown mentor", func() {
			_, err := service.GetByID("nope")
			Expect(err).To(Equal(internal.ErrMentorNotFound))
		})

		It("should return the stored mentor", func() {
			created, err := service.CreateMentor(&mentor.MentorDTO{Name: "Asha Verma"})
			Expect(err).NotTo(HaveOccurred())

			got, err := service.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Asha Verma"))
		})
	})

	Describe("Exists", func() {
		It("should report presence without mapping errors", func() {
			created, err := service.CreateMentor(&mentor.MentorDTO{Name: "Asha Verma"})
			Expect(err).NotTo(HaveOccurred())

			ok, err := service.Exists(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = service.Exists("nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("UpdateMentor", func() {
		It("should replace the mutable fields", func() {
			created, err := service.CreateMentor(&mentor.MentorDTO{
				Name:      "Asha Verma",
				Expertise: "Distributed systems",
			})
			Expect(err).NotTo(HaveOccurred())

			img := "https://cdn.example.com/asha.png"
			updated, err := service.UpdateMentor(created.ID, &mentor.MentorDTO{
				Name:      "Asha V.",
				Bio:       "Instructor",
				Expertise: "Payments",
				ImageURL:  &img,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Asha V."))
			Expect(updated.Expertise).To(Equal("Payments"))
			Expect(updated.ImageURL).To(HaveValue(Equal(img)))
		})

		It("should fail for an unknown mentor", func() {
			_, err := service.UpdateMentor("nope", &mentor.MentorDTO{Name: "Ghost"})
			Expect(err).To(Equal(internal.ErrMentorNotFound))
		})
	})

	Describe("DeleteMentor", func() {
		It("should remove an existing mentor", func() {
			created, err := service.CreateMentor(&mentor.MentorDTO{Name: "Asha Verma"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteMentor(created.ID)).To(Succeed())
			Expect(repo.mentors).NotTo(HaveKey(created.ID))
		})

		It("should fail for an unknown mentor", func() {
			err := service.DeleteMentor("nope")
			Expect(err).To(Equal(internal.ErrMentorNotFound))
		})
	})

	Describe("GetAllMentors", func() {
		It("should list every stored mentor", func() {
			_, err := service.CreateMentor(&mentor.MentorDTO{Name: "Asha Verma"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateMentor(&mentor.MentorDTO{Name: "Ravi Nair"})
			Expect(err).NotTo(HaveOccurred())

			mentors, err := service.GetAllMentors()
			Expect(err).NotTo(HaveOccurred())
			Expect(mentors).To(HaveLen(2))
		})
	})
})
