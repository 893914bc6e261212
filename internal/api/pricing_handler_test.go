package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhub/parkhub-backend/internal/pricing"
	"github.com/parkhub/parkhub-backend/internal/service"
)

type stubTierStore struct {
	tiers []pricing.Tier
}

func (s *stubTierStore) ListActive() ([]pricing.Tier, error) { return s.tiers, nil }
func (s *stubTierStore) ListAll() ([]pricing.Tier, error)    { return s.tiers, nil }
func (s *stubTierStore) GetByID(string) (*pricing.Tier, error)        { return nil, fmt.Errorf("not found") }
func (s *stubTierStore) Create(*pricing.Tier) error                   { return nil }
func (s *stubTierStore) Update(*pricing.Tier) error                   { return nil }
func (s *stubTierStore) SetActive(string, bool) error                 { return nil }
func (s *stubTierStore) Delete(string) error                          { return nil }

func quoteHandler(tiers ...pricing.Tier) *PricingHandler {
	return NewPricingHandler(service.NewPricingService(&stubTierStore{tiers: tiers}, nil))
}

func postQuote(t *testing.T, h *PricingHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/quote", bytes.NewReader(raw))
	rr := httptest.NewRecorder()
	h.Quote(rr, req)
	return rr
}

func TestQuoteHandler(t *testing.T) {
	tier := pricing.Tier{
		ID:            "t1",
		Name:          "Standard",
		VehicleType:   pricing.VehicleAll,
		BasePrice:     5,
		Currency:      "USD",
		PricingType:   pricing.TypeHourly,
		DurationRange: pricing.DurationRange{Min: 0, Max: 100},
		IsActive:      true,
		ValidFrom:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("happy path", func(t *testing.T) {
		rr := postQuote(t, quoteHandler(tier), QuoteRequest{
			VehicleType: "car",
			StartTime:   "2026-03-04T10:00:00Z",
			EndTime:     "2026-03-04T13:00:00Z",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp QuoteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.True(t, resp.Matched)
		require.NotNil(t, resp.Quote)
		assert.Equal(t, "t1", resp.Quote.TierID)
		assert.Equal(t, 15.0, resp.Quote.FinalAmount)
	})

	t.Run("no matching tier is 200 with matched=false", func(t *testing.T) {
		rr := postQuote(t, quoteHandler(), QuoteRequest{
			VehicleType: "car",
			StartTime:   "2026-03-04T10:00:00Z",
			EndTime:     "2026-03-04T13:00:00Z",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp QuoteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Matched)
		assert.Nil(t, resp.Quote)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		rr := postQuote(t, quoteHandler(tier), map[string]string{"vehicle_type": "car"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown vehicle type rejected", func(t *testing.T) {
		rr := postQuote(t, quoteHandler(tier), QuoteRequest{
			VehicleType: "spaceship",
			StartTime:   "2026-03-04T10:00:00Z",
			EndTime:     "2026-03-04T13:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		rr := postQuote(t, quoteHandler(tier), QuoteRequest{
			VehicleType: "car",
			StartTime:   "2026-03-04T13:00:00Z",
			EndTime:     "2026-03-04T10:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
