package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

// signatureTolerance bounds how old a signed payload may be before it is
// rejected, limiting replay of captured deliveries.
const signatureTolerance = 5 * time.Minute

type webhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			PaymentIntent     string            `json:"payment_intent"`
			AmountTotal       int64             `json:"amount_total"`
			ClientReferenceID string            `json:"client_reference_id"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Verify checks the Stripe-Signature header against the shared webhook
// secret and parses the payload. Unverified payloads are never parsed into
// business data.
func (c *Client) Verify(payload []byte, signatureHeader string) (*ports.WebhookEvent, error) {
	if err := verifySignature(payload, signatureHeader, c.cfg.WebhookSecret, signatureTolerance, time.Now()); err != nil {
		return nil, err
	}

	var wp webhookPayload
	if err := json.Unmarshal(payload, &wp); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", domain.ErrInvalidSignature, err)
	}

	return &ports.WebhookEvent{
		ID:                wp.ID,
		Type:              wp.Type,
		SessionID:         wp.Data.Object.ID,
		PaymentIntentID:   wp.Data.Object.PaymentIntent,
		AmountTotal:       wp.Data.Object.AmountTotal,
		ClientReferenceID: wp.Data.Object.ClientReferenceID,
		PaymentID:         wp.Data.Object.Metadata["payment_id"],
	}, nil
}

// verifySignature implements Stripe's scheme: the header carries a unix
// timestamp and one or more v1 entries, each an HMAC-SHA256 of
// "<timestamp>.<payload>" under the endpoint secret.
func verifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return fmt.Errorf("%w: missing signature header", domain.ErrInvalidSignature)
	}

	var ts int64
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad timestamp", domain.ErrInvalidSignature)
			}
			ts = parsed
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if ts == 0 || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed signature header", domain.ErrInvalidSignature)
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > tolerance || age < -tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", domain.ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}

	return fmt.Errorf("%w: no matching signature", domain.ErrInvalidSignature)
}
