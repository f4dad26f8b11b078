package downloads

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
)

// DefaultTTL is how long issued download tokens stay valid when the
// operator doesn't configure an expiry.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrMalformedToken means the token doesn't parse into the expected
	// payload.signature shape or the payload isn't well formed.
	ErrMalformedToken = errors.New("malformed download token")
	// ErrInvalidSignature means the signature doesn't match the payload.
	// Indistinguishable from tampering or a rotated secret.
	ErrInvalidSignature = errors.New("invalid download token signature")
	// ErrTokenExpired means the signature checked out but the token is
	// past its expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// Claims is the payload encoded into a download token. Timestamps are
// Unix milliseconds.
type Claims struct {
	ProductID     string `json:"product_id"`
	Email         string `json:"email"`
	TransactionID string `json:"transaction_id"`
	IssuedAt      int64  `json:"issued_at"`
	ExpiresAt     int64  `json:"expires_at"`
	Nonce         string `json:"nonce"`
}

// Result is the outcome of verifying a download token. When Valid is
// false, Err holds one of ErrMalformedToken, ErrInvalidSignature or
// ErrTokenExpired. Verification never panics and has no side effects.
type Result struct {
	Valid         bool
	ProductID     string
	Email         string
	TransactionID string
	Err           error
}

// Signer issues and verifies download tokens. It holds no state beyond
// the secret and TTL, so concurrent use is safe.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer using the wall clock. A zero ttl falls back
// to DefaultTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return NewSignerWithClock(secret, ttl, time.Now)
}

// NewSignerWithClock returns a Signer with an injectable clock, used by
// tests to cross expiry boundaries without sleeping.
func NewSignerWithClock(secret string, ttl time.Duration, now func() time.Time) *Signer {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue creates a signed token binding the product, the purchaser email
// and the originating transaction. No uniqueness check is performed:
// issuing twice for the same transaction yields two independently valid
// tokens.
func (s *Signer) Issue(productID, email, transactionID string) (string, error) {
	if productID == "" {
		return "", errors.New("cannot issue a download token without a product id")
	}
	if email == "" {
		return "", errors.New("cannot issue a download token without an email")
	}

	now := s.now().UnixNano() / int64(time.Millisecond)
	claims := &Claims{
		ProductID:     productID,
		Email:         email,
		TransactionID: transactionID,
		IssuedAt:      now,
		ExpiresAt:     now + s.ttl.Milliseconds(),
		Nonce:         uuid.NewRandom().String(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", errors.Wrap(err, "error serializing token payload")
	}

	return encodeSegment(payload) + "." + encodeSegment(s.sign(payload)), nil
}

// Verify checks a token and returns a flat result. Signature comparison
// happens before the payload is parsed, and uses a constant-time
// comparison since the secret is the sole forgery barrier.
func (s *Signer) Verify(token string) Result {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Result{Err: ErrMalformedToken}
	}

	payload, err := decodeSegment(parts[0])
	if err != nil {
		return Result{Err: ErrMalformedToken}
	}
	sig, err := decodeSegment(parts[1])
	if err != nil {
		return Result{Err: ErrMalformedToken}
	}

	if !hmac.Equal(sig, s.sign(payload)) {
		return Result{Err: ErrInvalidSignature}
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return Result{Err: ErrMalformedToken}
	}
	if claims.ProductID == "" || claims.Email == "" {
		return Result{Err: ErrMalformedToken}
	}
	if claims.ExpiresAt <= 0 || claims.ExpiresAt <= claims.IssuedAt {
		return Result{Err: ErrMalformedToken}
	}

	if s.now().UnixNano()/int64(time.Millisecond) > claims.ExpiresAt {
		return Result{Err: ErrTokenExpired}
	}

	return Result{
		Valid:         true,
		ProductID:     claims.ProductID,
		Email:         claims.Email,
		TransactionID: claims.TransactionID,
	}
}

func (s *Signer) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func encodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}

// Strict decoding rejects encodings with non-zero trailing bits, so a
// token has exactly one encoded form and flipped trailing characters
// can't alias to the signed bytes.
func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(seg)
}

// URL builds the absolute download link for a token.
func URL(siteURL, token string) string {
	return strings.TrimSuffix(siteURL, "/") + "/downloads/" + token
}
