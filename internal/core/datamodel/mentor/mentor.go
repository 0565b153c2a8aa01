package mentor

import "time"

type Mentor struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;not null"`
	Bio       string    `gorm:"column:bio"`
	Expertise string    `gorm:"column:expertise"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Mentor) TableName() string {
	return "mentors"
}
