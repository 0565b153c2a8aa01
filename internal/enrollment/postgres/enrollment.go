package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	enrollmentpkg "github.com/omp-platform/learning-backend/internal/enrollment"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) enrollmentpkg.Repository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(e *enrollmentdm.Enrollment) error {
	return r.db.Create(e).Error
}

// FindByUserAndCourse returns nil when the pair has no enrollment.
func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID string) (*enrollmentdm.Enrollment, error) {
	var e enrollmentdm.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByUser(userID string) ([]*enrollmentdm.Enrollment, error) {
	var list []*enrollmentdm.Enrollment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// AddCompletedModule inserts the (enrollment, module) row if absent. The
// composite primary key plus ON CONFLICT DO NOTHING makes repeats no-ops.
func (r *EnrollmentRepository) AddCompletedModule(enrollmentID, moduleID string) error {
	row := enrollmentdm.CompletedModule{
		EnrollmentID: enrollmentID,
		ModuleID:     moduleID,
		CreatedAt:    time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *EnrollmentRepository) ListCompletedModules(enrollmentID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&enrollmentdm.CompletedModule{}).
		Where("enrollment_id = ?", enrollmentID).
		Order("created_at ASC").
		Pluck("module_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *EnrollmentRepository) CountCompletedModules(enrollmentID string) (int64, error) {
	var count int64
	err := r.db.Model(&enrollmentdm.CompletedModule{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error
	return count, err
}

// DeleteByModuleID drops every completion row for a removed module.
func (r *EnrollmentRepository) DeleteByModuleID(moduleID string) error {
	return r.db.Where("module_id = ?", moduleID).
		Delete(&enrollmentdm.CompletedModule{}).Error
}

// SetCertificateURL writes the URL only when the column is still null and
// reports whether this call won. Losing racers must re-read the stored value.
func (r *EnrollmentRepository) SetCertificateURL(enrollmentID, url string) (bool, error) {
	res := r.db.Model(&enrollmentdm.Enrollment{}).
		Where("id = ? AND certificate_url IS NULL", enrollmentID).
		Updates(map[string]interface{}{
			"certificate_url": url,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) DeleteByCourseID(courseID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("enrollment_id IN (?)",
			tx.Model(&enrollmentdm.Enrollment{}).Select("id").Where("course_id = ?", courseID),
		).Delete(&enrollmentdm.CompletedModule{}).Error
		if err != nil {
			return err
		}
		return tx.Where("course_id = ?", courseID).Delete(&enrollmentdm.Enrollment{}).Error
	})
}
