package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/logger"

	"github.com/CamMacB17/spotpay/internal/domain"
	"github.com/CamMacB17/spotpay/internal/service/ports"
)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.InitLogger("slog", "test", "test", logger.WithLevel(logger.ErrorLevel))
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test", user)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "p1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "p1", r.PostForm.Get("metadata[payment_id]"))
		assert.Equal(t, "alice@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "gbp", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Pottery night", r.PostForm.Get("line_items[0][price_data][product_data][name]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_1","url":"https://checkout.stripe.com/c/cs_1"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{
		BaseURL:   srv.URL,
		SecretKey: "sk_test",
		Currency:  "gbp",
	}, srv.Client(), newTestLogger(t))

	sess, err := c.CreateCheckoutSession(context.Background(), ports.CheckoutParams{
		PaymentID:     "p1",
		EventTitle:    "Pottery night",
		CustomerEmail: "alice@example.com",
		AmountPence:   1500,
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", sess.URL)
}

func TestClient_CreateRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pi_1", r.PostForm.Get("payment_intent"))

		w.Write([]byte(`{"id":"re_1"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test"}, srv.Client(), newTestLogger(t))

	id, err := c.CreateRefund(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, "re_1", id)
}

func TestClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test"}, srv.Client(), newTestLogger(t))

	_, err := c.CreateRefund(context.Background(), "pi_1")

	assert.ErrorIs(t, err, domain.ErrPaymentProvider)
}
