package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

const testWebhookSecret = "whsec_test"

func signedWebhookRequest(payload string) *http.Request {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func webhookPayload(eventType, object string) string {
	return fmt.Sprintf(`{"api_version":%q,"type":%q,"data":{"object":%s}}`, stripe.APIVersion, eventType, object)
}

func TestStripeWebhook(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil)

	t.Run("rejects unsigned request", func(t *testing.T) {
		payload := webhookPayload("charge.refunded", `{"id":"ch_1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
		rr := httptest.NewRecorder()
		h.HandleWebhook(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects malformed refund charge", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleWebhook(rr, signedWebhookRequest(webhookPayload("charge.refunded", `{"id":123}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("acknowledges refund charge without payment intent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleWebhook(rr, signedWebhookRequest(webhookPayload("charge.refunded", `{"id":"ch_1"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("acknowledges unhandled event types", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleWebhook(rr, signedWebhookRequest(webhookPayload("invoice.paid", `{"id":"in_1"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
