package postgres

import (
	"errors"

	"gorm.io/gorm"

	coursepkg "github.com/omp-platform/learning-backend/internal/course"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) coursepkg.RepositoryAPI {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) GetAll() ([]*coursedm.Course, error) {
	var courses []*coursedm.Course
	err := r.db.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetByID(id string) (*coursedm.Course, error) {
	var c coursedm.Course
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) Create(c *coursedm.Course) error {
	return r.db.Create(c).Error
}

func (r *CourseRepository) Update(c *coursedm.Course) error {
	return r.db.Save(c).Error
}

// Delete removes the course and its modules in one transaction. Dependent
// payments and enrollments are purged by the service before this runs.
func (r *CourseRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&coursedm.Module{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&coursedm.Course{}).Error
	})
}

func (r *CourseRepository) GetModule(id string) (*coursedm.Module, error) {
	var m coursedm.Module
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *CourseRepository) ListModules(courseID string) ([]*coursedm.Module, error) {
	var modules []*coursedm.Module
	err := r.db.Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *CourseRepository) CountModules(courseID string) (int64, error) {
	var count int64
	err := r.db.Model(&coursedm.Module{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateModule(m *coursedm.Module) error {
	return r.db.Create(m).Error
}

func (r *CourseRepository) UpdateModule(m *coursedm.Module) error {
	return r.db.Save(m).Error
}

func (r *CourseRepository) DeleteModule(id string) error {
	return r.db.Where("id = ?", id).Delete(&coursedm.Module{}).Error
}
