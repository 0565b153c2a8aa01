package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omp-platform/learning-backend/internal/payment"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ = Describe("SignatureVerifier", func() {
	const secret = "test_key_secret"

	var verifier *payment.SignatureVerifier

	BeforeEach(func() {
		verifier = payment.NewSignatureVerifier(secret)
	})

	Context("with a signature produced by the gateway", func() {
		It("verifies the lowercase hex signature", func() {
			sig := signPayload(secret, "order_123", "pay_456")
			Expect(verifier.Verify("order_123", "pay_456", sig)).To(BeTrue())
		})

		It("accepts uppercase hex", func() {
			sig := strings.ToUpper(signPayload(secret, "order_123", "pay_456"))
			Expect(verifier.Verify("order_123", "pay_456", sig)).To(BeTrue())
		})
	})

	Context("with a tampered payload", func() {
		It("rejects a signature for a different order", func() {
			sig := signPayload(secret, "order_123", "pay_456")
			Expect(verifier.Verify("order_999", "pay_456", sig)).To(BeFalse())
		})

		It("rejects a signature for a different payment", func() {
			sig := signPayload(secret, "order_123", "pay_456")
			Expect(verifier.Verify("order_123", "pay_999", sig)).To(BeFalse())
		})

		It("rejects a signature made with the wrong secret", func() {
			sig := signPayload("other_secret", "order_123", "pay_456")
			Expect(verifier.Verify("order_123", "pay_456", sig)).To(BeFalse())
		})
	})

	Context("with malformed input", func() {
		It("rejects empty order id", func() {
			sig := signPayload(secret, "order_123", "pay_456")
			Expect(verifier.Verify("", "pay_456", sig)).To(BeFalse())
		})

		It("rejects empty payment id", func() {
			sig := signPayload(secret, "order_123", "pay_456")
			Expect(verifier.Verify("order_123", "", sig)).To(BeFalse())
		})

		It("rejects empty signature", func() {
			Expect(verifier.Verify("order_123", "pay_456", "")).To(BeFalse())
		})

		It("rejects garbage that is not hex", func() {
			Expect(verifier.Verify("order_123", "pay_456", "not-a-signature")).To(BeFalse())
		})
	})
})
