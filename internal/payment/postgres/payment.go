package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/internal/core/datamodel/payment"
	paymentpkg "github.com/omp-platform/learning-backend/internal/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) paymentpkg.Repository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *payment.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByUserAndCourse returns the latest payment for the pair, or nil when
// none exists.
func (r *PaymentRepository) FindByUserAndCourse(userID, courseID string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) FindByUserAndCourseAndStatus(userID, courseID, status string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, status).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ExistsByUserCourseStatus(userID, courseID, status string) (bool, error) {
	var count int64
	err := r.db.Model(&payment.Payment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, status).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) ListByUserAndStatus(userID, status string) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	err := r.db.Where("user_id = ? AND status = ?", userID, status).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

// Save rewrites the record with a guarded update: the row is overwritten
// only while its stored status is still PENDING, or already equal to the
// incoming status. A writer that lost a cross-process race therefore
// cannot clobber a terminal row, no in-memory lock required. The partial
// unique index on (user_id, course_id) WHERE status = 'COMPLETED'
// backstops the one-completed-payment invariant.
func (r *PaymentRepository) Save(p *payment.Payment) error {
	p.UpdatedAt = time.Now()

	res := r.db.Model(&payment.Payment{}).
		Where("id = ? AND (status = ? OR status = ?)", p.ID, payment.StatusPending, p.Status).
		Updates(map[string]interface{}{
			"amount_minor":   p.AmountMinor,
			"currency":       p.Currency,
			"status":         p.Status,
			"payment_method": p.PaymentMethod,
			"transaction_id": p.TransactionID,
			"payment_date":   p.PaymentDate,
			"proof_url":      p.ProofURL,
			"updated_at":     p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var current payment.Payment
	if err := r.db.Where("id = ?", p.ID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrPaymentNotFound
		}
		return err
	}
	if current.Status == payment.StatusCompleted {
		return internal.ErrPaymentCompleted
	}
	return internal.NewPaymentFinalizedError(current.Status)
}

func (r *PaymentRepository) DeleteByCourseID(courseID string) error {
	return r.db.Where("course_id = ?", courseID).Delete(&payment.Payment{}).Error
}
