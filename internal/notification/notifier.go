package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omp-platform/learning-backend/internal/core/events"
)

// Sender delivers a notification to a user. Email delivery lives outside
// this service; the default implementation only records the intent.
type Sender interface {
	Send(ctx context.Context, userID, subject, body string) error
}

type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, userID, subject, body string) error {
	s.Logger.Info("notification queued", "user_id", userID, "subject", subject)
	return nil
}

// EventHandler turns domain events into user notifications.
type EventHandler struct {
	sender Sender
	logger *slog.Logger
}

func NewEventHandler(sender Sender, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		sender: sender,
		logger: logger,
	}
}

func (h *EventHandler) HandlePaymentCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}

	return h.sender.Send(ctx, e.UserID,
		"Payment received",
		fmt.Sprintf("Your payment for course %s was received.", e.CourseID))
}

func (h *EventHandler) HandleEnrollmentCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.EnrollmentCreatedEvent)
	if !ok {
		return fmt.Errorf("expected EnrollmentCreatedEvent, got %T", event)
	}

	return h.sender.Send(ctx, e.UserID,
		"Enrollment confirmed",
		fmt.Sprintf("You are enrolled in course %s.", e.CourseID))
}

func (h *EventHandler) HandleCertificateIssued(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CertificateIssuedEvent)
	if !ok {
		return fmt.Errorf("expected CertificateIssuedEvent, got %T", event)
	}

	return h.sender.Send(ctx, e.UserID,
		"Certificate ready",
		fmt.Sprintf("Your certificate for course %s is ready: %s", e.CourseID, e.CertificateURL))
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)
	eventBus.Subscribe(events.EventTypeEnrollmentCreated, h.HandleEnrollmentCreated)
	eventBus.Subscribe(events.EventTypeCertificateIssued, h.HandleCertificateIssued)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypePaymentCompleted,
			events.EventTypeEnrollmentCreated,
			events.EventTypeCertificateIssued,
		})
}
