package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCompleted  = "payment.completed"
	EventTypePaymentFailed     = "payment.failed"
	EventTypeEnrollmentCreated = "enrollment.created"
	EventTypeCertificateIssued = "certificate.issued"
)

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID     string `json:"payment_id"`
	UserID        string `json:"user_id"`
	CourseID      string `json:"course_id"`
	AmountMinor   int64  `json:"amount_minor"`
	PaymentMethod string `json:"payment_method"`
}

func NewPaymentCompletedEvent(paymentID, userID, courseID string, amountMinor int64, method string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":     paymentID,
				"user_id":        userID,
				"course_id":      courseID,
				"amount_minor":   amountMinor,
				"payment_method": method,
			},
		},
		PaymentID:     paymentID,
		UserID:        userID,
		CourseID:      courseID,
		AmountMinor:   amountMinor,
		PaymentMethod: method,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID string `json:"payment_id"`
	UserID    string `json:"user_id"`
	CourseID  string `json:"course_id"`
	Status    string `json:"status"`
}

func NewPaymentFailedEvent(paymentID, userID, courseID, status string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"user_id":    userID,
				"course_id":  courseID,
				"status":     status,
			},
		},
		PaymentID: paymentID,
		UserID:    userID,
		CourseID:  courseID,
		Status:    status,
	}
}

type EnrollmentCreatedEvent struct {
	BaseEvent
	EnrollmentID string `json:"enrollment_id"`
	UserID       string `json:"user_id"`
	CourseID     string `json:"course_id"`
}

func NewEnrollmentCreatedEvent(enrollmentID, userID, courseID string) *EnrollmentCreatedEvent {
	return &EnrollmentCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEnrollmentCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"enrollment_id": enrollmentID,
				"user_id":       userID,
				"course_id":     courseID,
			},
		},
		EnrollmentID: enrollmentID,
		UserID:       userID,
		CourseID:     courseID,
	}
}

type CertificateIssuedEvent struct {
	BaseEvent
	EnrollmentID   string `json:"enrollment_id"`
	UserID         string `json:"user_id"`
	CourseID       string `json:"course_id"`
	CertificateURL string `json:"certificate_url"`
}

func NewCertificateIssuedEvent(enrollmentID, userID, courseID, certificateURL string) *CertificateIssuedEvent {
	return &CertificateIssuedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCertificateIssued,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"enrollment_id":   enrollmentID,
				"user_id":         userID,
				"course_id":       courseID,
				"certificate_url": certificateURL,
			},
		},
		EnrollmentID:   enrollmentID,
		UserID:         userID,
		CourseID:       courseID,
		CertificateURL: certificateURL,
	}
}
