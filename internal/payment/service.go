package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/omp-platform/learning-backend/internal"
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	"github.com/omp-platform/learning-backend/internal/core/datamodel/payment"
	userdm "github.com/omp-platform/learning-backend/internal/core/datamodel/user"
	"github.com/omp-platform/learning-backend/internal/core/events"
	"github.com/omp-platform/learning-backend/internal/core/locks"
)

// Repository is the payment persistence contract.
type Repository interface {
	Create(p *payment.Payment) error
	GetByID(id string) (*payment.Payment, error)
	FindByUserAndCourse(userID, courseID string) (*payment.Payment, error)
	FindByUserAndCourseAndStatus(userID, courseID, status string) (*payment.Payment, error)
	ExistsByUserCourseStatus(userID, courseID, status string) (bool, error)
	ListByUserAndStatus(userID, status string) ([]*payment.Payment, error)
	Save(p *payment.Payment) error
	DeleteByCourseID(courseID string) error
}

type UserReader interface {
	GetByID(id string) (*userdm.User, error)
}

type CourseReader interface {
	GetByID(id string) (*coursedm.Course, error)
}

// Service owns the payment lifecycle: PENDING is the only non-terminal
// state, and a (user, course) pair holds at most one COMPLETED payment.
type Service struct {
	repo     Repository
	users    UserReader
	courses  CourseReader
	eventBus *events.EventBus
	pairLock *locks.KeyedMutex
	logger   *slog.Logger
}

func NewService(repo Repository, users UserReader, courses CourseReader, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		courses:  courses,
		eventBus: eventBus,
		pairLock: locks.NewKeyedMutex(),
		logger:   logger,
	}
}

func pairKey(userID, courseID string) string {
	return userID + "|" + courseID
}

// InitiatePayment creates a PENDING payment draft priced at the course's
// current price. Later price changes do not touch existing payments.
func (s *Service) InitiatePayment(ctx context.Context, userID, courseID, method string) (*payment.Payment, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.ExistsByUserCourseStatus(userID, courseID, payment.StatusCompleted)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing payments", err)
	}
	if completed {
		s.logger.Warn("payment already completed", "user_id", userID, "course_id", courseID)
		return nil, internal.ErrPaymentCompleted
	}

	p := &payment.Payment{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		CourseID:      course.ID,
		AmountMinor:   course.PriceMinor,
		Currency:      course.Currency,
		Status:        payment.StatusPending,
		PaymentMethod: method,
		TransactionID: uuid.New().String(),
		PaymentDate:   time.Now(),
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create payment", "error", err, "user_id", userID, "course_id", courseID)
		return nil, internal.NewInternalError("failed to create payment", err)
	}

	s.logger.Info("payment initiated",
		"payment_id", p.ID,
		"user_id", userID,
		"course_id", courseID,
		"amount_minor", p.AmountMinor,
		"method", method)

	return p, nil
}

// CompletePaymentByCourse finds or creates the pair's payment and applies
// the target transition. The whole sequence is serialized per (user,
// course) so a client call racing a gateway callback cannot create two
// rows or clobber a terminal status. Repeating a terminal transition is a
// no-op returning the record unchanged.
func (s *Service) CompletePaymentByCourse(ctx context.Context, userID, courseID, method, targetStatus string) (*payment.Payment, error) {
	if !payment.ValidStatus(targetStatus) {
		return nil, internal.NewValidationError("invalid payment status", internal.ErrCodeValidationFailed)
	}

	key := pairKey(userID, courseID)
	s.pairLock.Lock(key)
	defer s.pairLock.Unlock(key)

	p, err := s.repo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up payment", err)
	}

	if p == nil {
		user, err := s.users.GetByID(userID)
		if err != nil {
			return nil, err
		}
		course, err := s.courses.GetByID(courseID)
		if err != nil {
			return nil, err
		}

		p = &payment.Payment{
			ID:            uuid.New().String(),
			UserID:        user.ID,
			CourseID:      course.ID,
			AmountMinor:   course.PriceMinor,
			Currency:      course.Currency,
			Status:        payment.StatusPending,
			PaymentMethod: method,
			TransactionID: uuid.New().String(),
			PaymentDate:   time.Now(),
		}
		if err := s.repo.Create(p); err != nil {
			return nil, internal.NewInternalError("failed to create payment", err)
		}
	}

	if p.IsTerminal() {
		if p.Status == targetStatus {
			s.logger.Info("payment already in target status",
				"payment_id", p.ID, "status", p.Status)
			return p, nil
		}
		s.logger.Warn("rejected transition out of terminal payment status",
			"payment_id", p.ID, "status", p.Status, "target", targetStatus)
		if p.Status == payment.StatusCompleted {
			return nil, internal.ErrPaymentCompleted
		}
		return nil, internal.NewPaymentFinalizedError(p.Status)
	}

	if targetStatus == payment.StatusPending {
		return p, nil
	}

	p.Status = targetStatus
	if method != "" {
		p.PaymentMethod = method
	}
	p.PaymentDate = time.Now()

	if err := s.repo.Save(p); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to save payment transition", "error", err, "payment_id", p.ID)
		return nil, internal.NewInternalError("failed to save payment", err)
	}

	s.publishTransition(ctx, p)

	s.logger.Info("payment transitioned",
		"payment_id", p.ID,
		"user_id", userID,
		"course_id", courseID,
		"status", p.Status)

	return p, nil
}

// CompletePayment finishes a known payment through the manual proof flow.
func (s *Service) CompletePayment(ctx context.Context, paymentID, proofURL string) (*payment.Payment, error) {
	existing, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, internal.ErrPaymentNotFound
	}

	key := pairKey(existing.UserID, existing.CourseID)
	s.pairLock.Lock(key)
	defer s.pairLock.Unlock(key)

	// Re-read under the lock; a concurrent transition may have landed.
	p, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, internal.ErrPaymentNotFound
	}

	if p.IsTerminal() {
		if p.Status == payment.StatusCompleted {
			return p, nil
		}
		return nil, internal.NewPaymentFinalizedError(p.Status)
	}

	p.Status = payment.StatusCompleted
	if proofURL != "" {
		p.ProofURL = &proofURL
	}
	p.PaymentDate = time.Now()

	if err := s.repo.Save(p); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to complete payment", "error", err, "payment_id", paymentID)
		return nil, internal.NewInternalError("failed to save payment", err)
	}

	s.publishTransition(ctx, p)

	s.logger.Info("payment completed with proof", "payment_id", p.ID, "user_id", p.UserID)
	return p, nil
}

func (s *Service) HasCompletedPayment(userID, courseID string) (bool, error) {
	return s.repo.ExistsByUserCourseStatus(userID, courseID, payment.StatusCompleted)
}

// GetCompletedPayment returns nil without error when the pair has no
// completed payment.
func (s *Service) GetCompletedPayment(userID, courseID string) (*payment.Payment, error) {
	return s.repo.FindByUserAndCourseAndStatus(userID, courseID, payment.StatusCompleted)
}

func (s *Service) GetUserPayments(userID string) ([]*payment.Payment, error) {
	return s.repo.ListByUserAndStatus(userID, payment.StatusCompleted)
}

func (s *Service) publishTransition(ctx context.Context, p *payment.Payment) {
	if s.eventBus == nil {
		return
	}
	switch p.Status {
	case payment.StatusCompleted:
		_ = s.eventBus.Publish(ctx, events.NewPaymentCompletedEvent(p.ID, p.UserID, p.CourseID, p.AmountMinor, p.PaymentMethod))
	case payment.StatusFailed, payment.StatusCancelled:
		_ = s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(p.ID, p.UserID, p.CourseID, p.Status))
	}
}
