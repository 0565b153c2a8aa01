package course

import "time"

// Course prices are stored in minor units (paise for INR) so gateway
// amounts never go through floating point.
type Course struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	PriceMinor  int64     `gorm:"column:price_minor;not null;default:0"`
	Currency    string    `gorm:"column:currency;not null;default:INR"`
	ImageURL    *string   `gorm:"column:image_url"`
	MentorID    *string   `gorm:"column:mentor_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) IsFree() bool {
	return c.PriceMinor == 0
}
