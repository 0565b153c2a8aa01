package postgres

import (
	"errors"

	"gorm.io/gorm"

	mentordm "github.com/omp-platform/learning-backend/internal/core/datamodel/mentor"
	mentorpkg "github.com/omp-platform/learning-backend/internal/mentor"
)

type MentorRepository struct {
	db *gorm.DB
}

func NewMentorRepository(db *gorm.DB) mentorpkg.RepositoryAPI {
	return &MentorRepository{db: db}
}

func (r *MentorRepository) GetAll() ([]*mentordm.Mentor, error) {
	var mentors []*mentordm.Mentor
	err := r.db.Order("name ASC").Find(&mentors).Error
	return mentors, err
}

func (r *MentorRepository) GetByID(id string) (*mentordm.Mentor, error) {
	var m mentordm.Mentor
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MentorRepository) Create(m *mentordm.Mentor) error {
	return r.db.Create(m).Error
}

func (r *MentorRepository) Update(m *mentordm.Mentor) error {
	return r.db.Save(m).Error
}

func (r *MentorRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&mentordm.Mentor{}).Error
}
