package payment

import "time"

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// MethodFree tags the synthetic completed payment created for zero-price
// courses; enrollment always requires a completed payment row, even free.
const MethodFree = "FREE"

type Payment struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	UserID        string    `gorm:"column:user_id;type:uuid;not null;index:idx_payments_user_course"`
	CourseID      string    `gorm:"column:course_id;type:uuid;not null;index:idx_payments_user_course"`
	AmountMinor   int64     `gorm:"column:amount_minor;not null"`
	Currency      string    `gorm:"column:currency;not null;default:INR"`
	Status        string    `gorm:"column:status;not null;default:PENDING"`
	PaymentMethod string    `gorm:"column:payment_method"`
	TransactionID string    `gorm:"column:transaction_id;not null"`
	PaymentDate   time.Time `gorm:"column:payment_date;not null"`
	ProofURL      *string   `gorm:"column:proof_url"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether the payment reached a final state. Terminal
// payments never transition again.
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed || p.Status == StatusCancelled
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
