package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhub/parkhub-backend/internal/pricing"
)

// A tier whose validity window opens between two bookings' start times
// must stay visible to the later booking, no matter which request is
// quoted first from the shared catalog.
func TestQuoteEvaluatesTierValidityPerRequest(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)

	promo := testTier("promo", 5, 4)
	promo.ValidFrom = now.Add(24 * time.Hour)

	svc := NewPricingService(&fakeTierStore{tiers: []pricing.Tier{promo}}, nil)

	reqAt := func(start time.Time) pricing.Request {
		return pricing.Request{
			VehicleType: pricing.VehicleCar,
			Duration:    3,
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
		}
	}

	quote, err := svc.Quote(context.Background(), reqAt(now))
	require.NoError(t, err)
	assert.Nil(t, quote, "tier not yet in force at this start time")

	quote, err = svc.Quote(context.Background(), reqAt(now.Add(48*time.Hour)))
	require.NoError(t, err)
	require.NotNil(t, quote, "tier in force at the later start time must be offered")
	assert.Equal(t, "promo", quote.TierID)
}
