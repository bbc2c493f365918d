// Package webhook verifies and parses webhook deliveries from the Zendra
// platform. Signatures are HMAC-SHA256 over "<timestamp>.<payload>" with
// the endpoint's shared secret, compared in constant time.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Headers carried on every webhook delivery.
const (
	SignatureHeader = "X-Zendra-Signature"
	TimestampHeader = "X-Zendra-Timestamp"
)

// DefaultTolerance is the maximum accepted clock skew between the delivery
// timestamp and now, bounding replay of captured deliveries.
const DefaultTolerance = 5 * time.Minute

const signaturePrefix = "v1="

var (
	// ErrInvalidSignature means the signature does not match the payload.
	ErrInvalidSignature = errors.New("webhook: signature mismatch")
	// ErrMalformedSignature means the signature header is not in the
	// expected "v1=<hex>" form.
	ErrMalformedSignature = errors.New("webhook: malformed signature header")
	// ErrStaleTimestamp means the delivery timestamp is outside the
	// configured tolerance window.
	ErrStaleTimestamp = errors.New("webhook: timestamp outside tolerance")
)

// Verifier checks webhook signatures for one endpoint secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier creates a Verifier with the default replay tolerance.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// WithTolerance overrides the replay tolerance. Zero disables the
// timestamp check entirely.
func (v *Verifier) WithTolerance(d time.Duration) *Verifier {
	v.tolerance = d
	return v
}

// Verify checks the signature and timestamp of a delivery. payload is the
// raw request body; signature and timestamp are the corresponding header
// values. A nil return means the delivery is authentic and fresh.
func (v *Verifier) Verify(payload []byte, signature, timestamp string) error {
	if err := v.checkTimestamp(timestamp); err != nil {
		return err
	}

	encoded, ok := strings.CutPrefix(signature, signaturePrefix)
	if !ok {
		return ErrMalformedSignature
	}
	got, err := hex.DecodeString(encoded)
	if err != nil {
		return ErrMalformedSignature
	}

	if !hmac.Equal(got, v.compute(payload, timestamp)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign produces the signature header value for a payload and timestamp.
// Exposed so tests and local webhook simulators can produce valid
// deliveries.
func (v *Verifier) Sign(payload []byte, timestamp string) string {
	return signaturePrefix + hex.EncodeToString(v.compute(payload, timestamp))
}

func (v *Verifier) compute(payload []byte, timestamp string) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func (v *Verifier) checkTimestamp(timestamp string) error {
	if v.tolerance <= 0 {
		return nil
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	age := v.now().Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > v.tolerance {
		return ErrStaleTimestamp
	}
	return nil
}
