package enrollment

import "time"

type Enrollment struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID       string    `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_enrollments_user_course"`
	CertificateURL *string   `gorm:"column:certificate_url"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CompletedModule is one row of an enrollment's completed-module set. The
// composite primary key gives inserts set semantics.
type CompletedModule struct {
	EnrollmentID string    `gorm:"column:enrollment_id;type:uuid;primaryKey"`
	ModuleID     string    `gorm:"column:module_id;type:uuid;primaryKey"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (CompletedModule) TableName() string {
	return "completed_modules"
}
