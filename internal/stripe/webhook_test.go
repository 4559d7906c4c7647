package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

const testSecret = "whsec_test"

func signatureHex(payload []byte, ts time.Time, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func sign(t *testing.T, payload []byte, ts time.Time, secret string) string {
	t.Helper()
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), signatureHex(payload, ts, secret))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := sign(t, payload, now, testSecret)
	assert.NoError(t, verifySignature(payload, header, testSecret, 5*time.Minute, now))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := sign(t, payload, now, "whsec_other")
	err := verifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := sign(t, payload, now, testSecret)
	err := verifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := sign(t, payload, now.Add(-10*time.Minute), testSecret)
	err := verifySignature(payload, header, testSecret, 5*time.Minute, now)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignature_Malformed(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"t=abc,v1=00",
		"v1=00",
		fmt.Sprintf("t=%d", now.Unix()),
	} {
		err := verifySignature(payload, header, testSecret, 5*time.Minute, now)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, "header %q", header)
	}
}

func TestVerifySignature_SecondV1Matches(t *testing.T) {
	// During secret rotation Stripe sends one v1 per live secret.
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		now.Unix(),
		hex.EncodeToString(make([]byte, 32)),
		signatureHex(payload, now, testSecret),
	)

	assert.NoError(t, verifySignature(payload, header, testSecret, 5*time.Minute, now))
}

func TestClient_Verify(t *testing.T) {
	c := NewClient(Config{WebhookSecret: testSecret}, nil, newTestLogger(t))

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"payment_intent": "pi_1",
			"amount_total": 1500,
			"client_reference_id": "p1",
			"metadata": {"payment_id": "p1"}
		}}
	}`)

	ev, err := c.Verify(payload, sign(t, payload, time.Now(), testSecret))

	require.NoError(t, err)
	assert.Equal(t, &ports.WebhookEvent{
		ID:                "evt_1",
		Type:              ports.WebhookCheckoutCompleted,
		SessionID:         "cs_1",
		PaymentIntentID:   "pi_1",
		AmountTotal:       1500,
		ClientReferenceID: "p1",
		PaymentID:         "p1",
	}, ev)
}

func TestClient_Verify_RejectsBadSignature(t *testing.T) {
	c := NewClient(Config{WebhookSecret: testSecret}, nil, newTestLogger(t))

	_, err := c.Verify([]byte(`{"id":"evt_1"}`), "t=1,v1=00")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}
