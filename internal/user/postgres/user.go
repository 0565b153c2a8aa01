package postgres

import (
	"errors"

	"gorm.io/gorm"

	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	userpkg "github.com/omp-platform/learning-backend/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the concrete repository; it satisfies both
// user.Repository and auth.UserStore.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ userpkg.Repository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(id string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("id = ? AND is_active = true", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("email = ? AND is_active = true", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetAnyByID fetches the row without the active filter; the admin
// console manages deactivated accounts through this path.
func (r *UserRepository) GetAnyByID(id string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List() ([]*userdm.User, error) {
	var users []*userdm.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *userdm.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Create(u *userdm.User) error {
	return r.db.Create(u).Error
}
