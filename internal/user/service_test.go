package user_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	"github.com/omp-platform/learning-backend/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository backed by a map. GetByID and
// GetByEmail honor the active flag the way the real repository does.
type MockRepository struct {
	users map[string]*userdm.User
}

func NewMockRepository() *MockRepository {
	return &MockRepository{users: make(map[string]*userdm.User)}
}

func (m *MockRepository) GetByID(id string) (*userdm.User, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, nil
	}
	return u, nil
}

func (m *MockRepository) GetByEmail(email string) (*userdm.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAnyByID(id string) (*userdm.User, error) {
	return m.users[id], nil
}

func (m *MockRepository) List() ([]*userdm.User, error) {
	out := make([]*userdm.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MockRepository) Update(u *userdm.User) error {
	m.users[u.ID] = u
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *MockRepository
		service *user.Service
	)

	addUser := func(id, name, role string, active bool) *userdm.User {
		u := &userdm.User{
			ID:        id,
			Name:      name,
			Email:     name + "@omp.dev",
			Role:      role,
			IsActive:  active,
			CreatedAt: time.Now(),
		}
		repo.users[id] = u
		return u
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, logger)
	})

	Describe("GetByID", func() {
		It("returns the active user", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			u, err := service.GetByID("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("alice"))
		})

		It("treats a deactivated user as not found", func() {
			addUser("u1", "alice", userdm.RoleStudent, false)

			_, err := service.GetByID("u1")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("UpdateProfile", func() {
		It("changes the name and image", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			name := "Alice V."
			img := "https://cdn.example.com/alice.png"
			u, err := service.UpdateProfile("u1", &user.UpdateProfileDTO{Name: &name, ImageURL: &img})

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Alice V."))
			Expect(u.ImageURL).To(HaveValue(Equal(img)))
		})

		It("rejects an empty name", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			empty := ""
			_, err := service.UpdateProfile("u1", &user.UpdateProfileDTO{Name: &empty})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListUsers", func() {
		It("includes deactivated accounts", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)
			addUser("u2", "bob", userdm.RoleStudent, false)

			users, err := service.ListUsers()
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})
	})

	Describe("GetUser", func() {
		It("finds a deactivated account", func() {
			addUser("u1", "alice", userdm.RoleStudent, false)

			u, err := service.GetUser("u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
		})

		It("returns not found for an unknown id", func() {
			_, err := service.GetUser("nope")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("AdminUpdateUser", func() {
		It("promotes a student to mentor", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			role := userdm.RoleMentor
			u, err := service.AdminUpdateUser("u1", &user.AdminUpdateUserDTO{Role: &role})

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(userdm.RoleMentor))
		})

		It("rejects an unknown role", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			role := "SUPERUSER"
			_, err := service.AdminUpdateUser("u1", &user.AdminUpdateUserDTO{Role: &role})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("SetUserActive", func() {
		It("deactivates and reactivates an account", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			u, err := service.SetUserActive("u1", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())

			_, err = service.GetByID("u1")
			Expect(err).To(MatchError(internal.ErrUserNotFound))

			u, err = service.SetUserActive("u1", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeTrue())
		})

		It("is a no-op when the flag already matches", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)

			u, err := service.SetUserActive("u1", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeTrue())
		})

		It("fails for an unknown account", func() {
			_, err := service.SetUserActive("nope", false)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Stats", func() {
		It("aggregates totals by role and active flag", func() {
			addUser("u1", "alice", userdm.RoleStudent, true)
			addUser("u2", "bob", userdm.RoleStudent, false)
			addUser("u3", "carol", userdm.RoleMentor, true)
			addUser("u4", "dave", userdm.RoleAdmin, true)

			stats, err := service.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(4)))
			Expect(stats.Active).To(Equal(int64(3)))
			Expect(stats.Students).To(Equal(int64(2)))
			Expect(stats.Mentors).To(Equal(int64(1)))
			Expect(stats.Admins).To(Equal(int64(1)))
		})
	})
})
