package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signWebhook(t *testing.T, secret []byte, body []byte) string {
	t.Helper()
	sum := sha256.Sum256(body)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"body_sha256": hex.EncodeToString(sum[:]),
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestAcceptAllVerifier(t *testing.T) {
	v := AcceptAllVerifier{}
	assert.NoError(t, v.Verify(WebhookSignature{Body: []byte(`{"event": "x"}`)}))
	assert.NoError(t, v.Verify(WebhookSignature{}), "even an empty delivery passes")
}

func TestJWSVerifierAcceptsValidSignature(t *testing.T) {
	secret := []byte("webhook-secret")
	body := []byte(`{"event_type": "PAYMENT.CAPTURE.COMPLETED"}`)

	v := JWSVerifier{Secret: secret}
	err := v.Verify(WebhookSignature{
		Signature: signWebhook(t, secret, body),
		Body:      body,
	})
	assert.NoError(t, err)
}

func TestJWSVerifierRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"event_type": "PAYMENT.CAPTURE.COMPLETED"}`)

	v := JWSVerifier{Secret: []byte("webhook-secret")}
	err := v.Verify(WebhookSignature{
		Signature: signWebhook(t, []byte("some-other-secret"), body),
		Body:      body,
	})
	assert.Error(t, err)
}

func TestJWSVerifierRejectsTamperedBody(t *testing.T) {
	secret := []byte("webhook-secret")
	signed := signWebhook(t, secret, []byte(`{"amount": "300.00"}`))

	v := JWSVerifier{Secret: secret}
	err := v.Verify(WebhookSignature{
		Signature: signed,
		Body:      []byte(`{"amount": "999.00"}`),
	})
	assert.ErrorContains(t, err, "digest mismatch")
}

func TestJWSVerifierRejectsGarbage(t *testing.T) {
	v := JWSVerifier{Secret: []byte("webhook-secret")}
	assert.Error(t, v.Verify(WebhookSignature{Signature: "not-a-jws", Body: []byte("{}")}))
}

func TestNewVerifierSelection(t *testing.T) {
	assert.IsType(t, JWSVerifier{}, NewVerifier("jws", "secret", nil))
	assert.IsType(t, AcceptAllVerifier{}, NewVerifier("jws", "", nil), "jws without a secret cannot verify anything")
	assert.IsType(t, AcceptAllVerifier{}, NewVerifier("accept-all", "secret", nil))
	assert.IsType(t, AcceptAllVerifier{}, NewVerifier("", "", nil))
}
