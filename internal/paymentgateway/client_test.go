package paymentgateway_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal"
	"github.com/omp-platform/learning-backend/internal/paymentgateway"
)

func TestPaymentGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Gateway Suite")
}

var _ = Describe("Gateway Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		logger  *slog.Logger
	)

	newClient := func() *paymentgateway.Client {
		return paymentgateway.NewClient(paymentgateway.Config{
			BaseURL:   server.URL,
			KeyID:     "rzp_test_key",
			KeySecret: "rzp_test_secret",
			Timeout:   2 * time.Second,
		}, logger)
	}

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("CreateOrder", func() {
		It("posts the order with basic auth and decodes the response", func() {
			var gotPath, gotUser, gotPass string
			var gotBody map[string]interface{}

			handler = func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotUser, gotPass, _ = r.BasicAuth()
				_ = json.NewDecoder(r.Body).Decode(&gotBody)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"id":       "order_Nxy123",
					"entity":   "order",
					"amount":   49900,
					"currency": "INR",
					"receipt":  "rcpt_abc",
					"status":   "created",
				})
			}

			order, err := newClient().CreateOrder(context.Background(), 49900, "INR", "rcpt_abc", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(order.ID).To(Equal("order_Nxy123"))
			Expect(order.AmountMinor).To(Equal(int64(49900)))
			Expect(order.Status).To(Equal("created"))

			Expect(gotPath).To(Equal("/v1/orders"))
			Expect(gotUser).To(Equal("rzp_test_key"))
			Expect(gotPass).To(Equal("rzp_test_secret"))
			Expect(gotBody["amount"]).To(BeEquivalentTo(49900))
			Expect(gotBody["payment_capture"]).To(BeEquivalentTo(1))
		})

		It("defaults the currency to INR", func() {
			var gotBody map[string]interface{}
			handler = func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "order_1"})
			}

			_, err := newClient().CreateOrder(context.Background(), 100, "", "r", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotBody["currency"]).To(Equal("INR"))
			Expect(gotBody["payment_capture"]).To(BeEquivalentTo(0))
		})

		It("rejects non-positive amounts without calling the gateway", func() {
			called := false
			handler = func(w http.ResponseWriter, r *http.Request) { called = true }

			_, err := newClient().CreateOrder(context.Background(), 0, "INR", "r", true)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(called).To(BeFalse())
		})

		It("maps non-2xx responses to gateway errors", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"description":"bad key"}}`))
			}

			_, err := newClient().CreateOrder(context.Background(), 100, "INR", "r", true)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeExternal))
			Expect(appErr.StatusCode).To(Equal(http.StatusBadGateway))
		})

		It("maps malformed response bodies to gateway errors", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not-json"))
			}

			_, err := newClient().CreateOrder(context.Background(), 100, "INR", "r", true)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeExternal))
		})
	})

	Describe("BuildReceipt", func() {
		It("stays within the 40 character gateway limit", func() {
			receipt := paymentgateway.BuildReceipt(
				"11111111-1111-1111-1111-111111111111",
				"22222222-2222-2222-2222-222222222222")
			Expect(len(receipt)).To(BeNumerically("<=", 40))
			Expect(receipt).To(HavePrefix("rcpt_"))
		})

		It("truncates each id independently", func() {
			a := paymentgateway.BuildReceipt("aaaaaaaaaaaaaaaaaaaaaaaa", "bbbb")
			b := paymentgateway.BuildReceipt("aaaaaaaaaaaaaaaaa", "bbbb")
			Expect(a).To(Equal(b))

			c := paymentgateway.BuildReceipt("aaaaaaaaaaaaaaaaaaaaaaaa", "cccc")
			Expect(a).NotTo(Equal(c))
		})

		It("keeps short ids intact", func() {
			Expect(paymentgateway.BuildReceipt("u1", "c1")).To(Equal("rcpt_u1_c1"))
		})
	})
})
