package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureVerifier checks the gateway's payment assertion: an HMAC-SHA256
// over "orderID|paymentID" keyed with the shared key secret, sent by the
// gateway as lowercase hex.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(keySecret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(keySecret)}
}

// Verify never fails hard: malformed input simply verifies false. The
// comparison is constant-time so response timing leaks nothing about the
// expected signature.
func (v *SignatureVerifier) Verify(orderID, paymentID, providedSignature string) bool {
	if orderID == "" || paymentID == "" || providedSignature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	// Gateway hex is lowercase; tolerate uppercase input without giving
	// up the constant-time compare.
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(providedSignature)))
}
