package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// WebhookSignature bundles the signature material a gateway attaches to a
// webhook delivery.
type WebhookSignature struct {
	TransmissionID string
	Timestamp      string
	Signature      string
	Body           []byte
}

// SignatureVerifier decides whether a webhook delivery is trustworthy.
// Implementations return nil for an authentic delivery.
type SignatureVerifier interface {
	Verify(sig WebhookSignature) error
}

// NewVerifier selects a verifier by configuration.  "jws" requires a
// shared secret; anything else falls back to the accept-all stub.
func NewVerifier(mode, secret string, log *logrus.Logger) SignatureVerifier {
	if mode == "jws" && secret != "" {
		return JWSVerifier{Secret: []byte(secret)}
	}
	return AcceptAllVerifier{Log: log}
}

// AcceptAllVerifier accepts every delivery.  It exists for local
// development against sandboxes that do not sign webhooks and must not be
// deployed where gateway callbacks drive money movement.
type AcceptAllVerifier struct {
	Log *logrus.Logger
}

func (v AcceptAllVerifier) Verify(WebhookSignature) error {
	if v.Log != nil {
		v.Log.Warn("webhook signature verification skipped (accept-all verifier)")
	}
	return nil
}

// JWSVerifier validates the signature header as an HS256-signed JWS whose
// body_sha256 claim must match the digest of the delivered body.  The
// shared secret is provisioned alongside the webhook subscription.
type JWSVerifier struct {
	Secret []byte
}

func (v JWSVerifier) Verify(sig WebhookSignature) error {
	tok, err := jwt.Parse(sig.Signature, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil {
		return fmt.Errorf("webhook signature rejected: %w", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("webhook signature rejected: unexpected claims format")
	}
	want, _ := claims["body_sha256"].(string)
	sum := sha256.Sum256(sig.Body)
	if want == "" || want != hex.EncodeToString(sum[:]) {
		return fmt.Errorf("webhook signature rejected: body digest mismatch")
	}
	return nil
}
