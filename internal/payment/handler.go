package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/omp-platform/learning-backend/internal"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
	"github.com/omp-platform/learning-backend/internal/core/datamodel/payment"
	"github.com/omp-platform/learning-backend/internal/paymentgateway"
	"github.com/omp-platform/learning-backend/internal/transport"
)

const maxProofUploadBytes = 10 << 20

type ServiceAPI interface {
	InitiatePayment(ctx context.Context, userID, courseID, method string) (*payment.Payment, error)
	CompletePaymentByCourse(ctx context.Context, userID, courseID, method, targetStatus string) (*payment.Payment, error)
	CompletePayment(ctx context.Context, paymentID, proofURL string) (*payment.Payment, error)
	HasCompletedPayment(userID, courseID string) (bool, error)
	GetCompletedPayment(userID, courseID string) (*payment.Payment, error)
	GetUserPayments(userID string) ([]*payment.Payment, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, autoCapture bool) (*paymentgateway.Order, error)
	KeyID() string
}

type Verifier interface {
	Verify(orderID, paymentID, providedSignature string) bool
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID string) (*enrollmentdm.Enrollment, error)
}

type ProofStore interface {
	Store(subdir, filename string, r io.Reader) (url string, err error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Gateway  OrderCreator
	Verifier Verifier
	Enroller Enroller
	Courses  CourseReader
	Proofs   ProofStore
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, gateway OrderCreator, verifier Verifier, enroller Enroller, courses CourseReader, proofs ProofStore) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		Gateway:     gateway,
		Verifier:    verifier,
		Enroller:    enroller,
		Courses:     courses,
		Proofs:      proofs,
	}
}

// InitiatePayment handles POST /payment/initiate/{courseId}
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseID := chi.URLParam(r, "courseId")
	method := r.URL.Query().Get("paymentMethod")
	if method == "" {
		method = "RAZORPAY"
	}

	p, err := h.Service.InitiatePayment(r.Context(), userID, courseID, method)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToDTO(p))
}

// CreateOrder handles POST /payment/razorpay/order. When the caller does
// not name an amount, a payment draft is initiated and the course's price
// is used.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto OrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrder: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount := dto.AmountMinor
	currency := dto.Currency
	if amount <= 0 {
		draft, err := h.Service.InitiatePayment(r.Context(), userID, dto.CourseID, "RAZORPAY")
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		amount = draft.AmountMinor
		if currency == "" {
			currency = draft.Currency
		}
	}

	receipt := paymentgateway.BuildReceipt(userID, dto.CourseID)
	order, err := h.Gateway.CreateOrder(r.Context(), amount, currency, receipt, true)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":       order.ID,
		"amount":   order.AmountMinor,
		"currency": order.Currency,
		"receipt":  order.Receipt,
		"status":   order.Status,
		"key_id":   h.Gateway.KeyID(),
	})
}

// VerifyPayment handles POST /payment/razorpay/verify: checks the gateway
// signature, completes the payment and enrolls the student in one request.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto VerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("VerifyPayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.Verifier.Verify(dto.RazorpayOrderID, dto.RazorpayPaymentID, dto.RazorpaySignature) {
		h.Logger.Warn("VerifyPayment: signature rejected",
			"user_id", userID,
			"course_id", dto.CourseID,
			"order_id", dto.RazorpayOrderID)
		h.HandleServiceError(w, internal.ErrInvalidSignature)
		return
	}

	method := dto.PaymentMethod
	if method == "" {
		method = "RAZORPAY"
	}

	p, err := h.Service.CompletePaymentByCourse(r.Context(), userID, dto.CourseID, method, payment.StatusCompleted)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	enrollment, err := h.Enroller.Enroll(r.Context(), userID, dto.CourseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("VerifyPayment: payment verified and student enrolled",
		"user_id", userID,
		"course_id", dto.CourseID,
		"payment_id", p.ID,
		"enrollment_id", enrollment.ID)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payment":       ToDTO(p),
		"enrollment_id": enrollment.ID,
	})
}

// FreeEnroll handles POST /payment/free-enroll/{courseId}. Zero-price
// courses still get a completed payment row, tagged FREE, so enrollment
// keeps a single precondition.
func (h *Handler) FreeEnroll(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseID := chi.URLParam(r, "courseId")
	course, err := h.Courses.GetByID(courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !course.IsFree() {
		h.HandleServiceError(w, internal.ErrCourseNotFree)
		return
	}

	p, err := h.Service.CompletePaymentByCourse(r.Context(), userID, courseID, payment.MethodFree, payment.StatusCompleted)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	enrollment, err := h.Enroller.Enroll(r.Context(), userID, courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payment":       ToDTO(p),
		"enrollment_id": enrollment.ID,
	})
}

// CompletePayment handles POST /payment/complete/{paymentId} with a
// multipart "proof" file, the manual/offline flow.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	paymentID := chi.URLParam(r, "paymentId")

	if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("proof")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "proof file is required")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("proof_%s_%d_%s", paymentID, time.Now().UnixMilli(), header.Filename)
	proofURL, err := h.Proofs.Store("payments", filename, file)
	if err != nil {
		h.Logger.Error("CompletePayment: failed to store proof", "error", err, "payment_id", paymentID)
		h.HandleServiceError(w, internal.NewInternalError("failed to store payment proof", err))
		return
	}

	p, err := h.Service.CompletePayment(r.Context(), paymentID, proofURL)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToDTO(p))
}

// GetUserPayments handles GET /payment/user/payments
func (h *Handler) GetUserPayments(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payments, err := h.Service.GetUserPayments(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToDTOs(payments))
}

// CheckPaymentStatus handles GET /payment/check/{courseId}
func (h *Handler) CheckPaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseID := chi.URLParam(r, "courseId")

	hasPaid, err := h.Service.HasCompletedPayment(userID, courseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto *PaymentDTO
	if hasPaid {
		p, err := h.Service.GetCompletedPayment(userID, courseID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		dto = ToDTO(p)
	}

	h.WriteJSON(w, http.StatusOK, PaymentStatusDTO{HasPaid: hasPaid, Payment: dto})
}
