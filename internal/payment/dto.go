package payment

import (
	"errors"
	"time"

	"github.com/omp-platform/learning-backend/internal/core/datamodel/payment"
)

// PaymentDTO is the client-facing shape of a payment record.
type PaymentDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CourseID      string    `json:"course_id"`
	AmountMinor   int64     `json:"amount_minor"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	PaymentDate   time.Time `json:"payment_date"`
	ProofURL      *string   `json:"proof_url,omitempty"`
}

func ToDTO(p *payment.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		CourseID:      p.CourseID,
		AmountMinor:   p.AmountMinor,
		Currency:      p.Currency,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate,
		ProofURL:      p.ProofURL,
	}
}

func ToDTOs(payments []*payment.Payment) []*PaymentDTO {
	dtos := make([]*PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}

// OrderRequestDTO asks for a gateway order. AmountMinor zero means "use
// the course's current price".
type OrderRequestDTO struct {
	CourseID    string `json:"course_id"`
	AmountMinor int64  `json:"amount_minor,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

func (dto *OrderRequestDTO) Validate() error {
	if dto.CourseID == "" {
		return errors.New("course_id is required")
	}
	if dto.AmountMinor < 0 {
		return errors.New("amount_minor cannot be negative")
	}
	return nil
}

// VerifyRequestDTO carries the gateway's post-checkout assertion.
type VerifyRequestDTO struct {
	CourseID          string `json:"course_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	PaymentMethod     string `json:"payment_method,omitempty"`
}

func (dto *VerifyRequestDTO) Validate() error {
	if dto.CourseID == "" {
		return errors.New("course_id is required")
	}
	if dto.RazorpayOrderID == "" || dto.RazorpayPaymentID == "" || dto.RazorpaySignature == "" {
		return errors.New("order id, payment id and signature are required")
	}
	return nil
}

// PaymentStatusDTO answers "has this user paid for this course".
type PaymentStatusDTO struct {
	HasPaid bool        `json:"has_paid"`
	Payment *PaymentDTO `json:"payment,omitempty"`
}
