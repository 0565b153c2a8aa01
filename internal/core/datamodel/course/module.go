package course

import "time"

type Module struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	CourseID    string    `gorm:"column:course_id;type:uuid;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	VideoURL    string    `gorm:"column:video_url"`
	Summary     string    `gorm:"column:summary"`
	ResourceURL *string   `gorm:"column:resource_url"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Module) TableName() string {
	return "modules"
}
