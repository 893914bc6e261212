package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func baseTier() Tier {
	return Tier{
		ID:            "tier-1",
		Name:          "Standard Car",
		VehicleType:   VehicleCar,
		BasePrice:     5,
		Currency:      "USD",
		PricingType:   TypeHourly,
		DurationRange: DurationRange{Min: 1, Max: 48},
		IsActive:      true,
		ValidFrom:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func carRequest(duration float64) Request {
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // Wednesday
	return Request{
		VehicleType: VehicleCar,
		Duration:    duration,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(duration * float64(time.Hour))),
	}
}

func TestValidAt(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("inactive tier is never valid", func(t *testing.T) {
		tier := baseTier()
		tier.IsActive = false
		assert.False(t, tier.ValidAt(now))
		assert.False(t, tier.ValidAt(now.AddDate(10, 0, 0)))
		assert.False(t, tier.ValidAt(now.AddDate(-10, 0, 0)))
	})

	t.Run("before validFrom", func(t *testing.T) {
		tier := baseTier()
		tier.ValidFrom = now.Add(time.Hour)
		assert.False(t, tier.ValidAt(now))
	})

	t.Run("after validUntil", func(t *testing.T) {
		tier := baseTier()
		until := now.Add(-time.Hour)
		tier.ValidUntil = &until
		assert.False(t, tier.ValidAt(now))
	})

	t.Run("open-ended when validUntil absent", func(t *testing.T) {
		tier := baseTier()
		assert.True(t, tier.ValidAt(now.AddDate(5, 0, 0)))
	})

	t.Run("boundary instants are inclusive", func(t *testing.T) {
		tier := baseTier()
		tier.ValidFrom = now
		until := now
		tier.ValidUntil = &until
		assert.True(t, tier.ValidAt(now))
	})
}

func TestMatches(t *testing.T) {
	t.Run("duration bounds inclusive", func(t *testing.T) {
		tier := baseTier()
		tier.DurationRange = DurationRange{Min: 2, Max: 10}

		assert.True(t, tier.Matches(carRequest(2)))
		assert.True(t, tier.Matches(carRequest(5)))
		assert.True(t, tier.Matches(carRequest(10)))
		assert.False(t, tier.Matches(carRequest(1)))
		assert.False(t, tier.Matches(carRequest(11)))
	})

	t.Run("vehicle type must match unless all", func(t *testing.T) {
		tier := baseTier()
		tier.VehicleType = VehicleTruck
		assert.False(t, tier.Matches(carRequest(3)))

		tier.VehicleType = VehicleAll
		assert.True(t, tier.Matches(carRequest(3)))
	})

	t.Run("slot allow-list", func(t *testing.T) {
		tier := baseTier()
		tier.ApplicableSlots = []string{"slot-a", "slot-b"}

		req := carRequest(3)
		req.SlotID = "slot-c"
		assert.False(t, tier.Matches(req))

		req.SlotID = "slot-b"
		assert.True(t, tier.Matches(req))
	})

	t.Run("empty allow-list matches any slot", func(t *testing.T) {
		tier := baseTier()
		req := carRequest(3)
		req.SlotID = "anything"
		assert.True(t, tier.Matches(req))
	})

	t.Run("invalid tier never matches", func(t *testing.T) {
		tier := baseTier()
		tier.IsActive = false
		assert.False(t, tier.Matches(carRequest(3)))
	})
}

func TestSelectTier(t *testing.T) {
	low := baseTier()
	low.ID = "low"
	low.Priority = 1

	high := baseTier()
	high.ID = "high"
	high.Priority = 10

	mismatched := baseTier()
	mismatched.ID = "trucks-only"
	mismatched.Priority = 100
	mismatched.VehicleType = VehicleTruck

	t.Run("highest priority among matches wins", func(t *testing.T) {
		got := SelectTier([]Tier{low, mismatched, high}, carRequest(3))
		if assert.NotNil(t, got) {
			assert.Equal(t, "high", got.ID)
		}
	})

	t.Run("no match yields nil, not an error", func(t *testing.T) {
		req := carRequest(3)
		req.VehicleType = VehicleBus
		assert.Nil(t, SelectTier([]Tier{low, high}, req))
	})

	t.Run("priority tie is deterministic", func(t *testing.T) {
		a := baseTier()
		a.ID = "a"
		a.Name = "Alpha"
		b := baseTier()
		b.ID = "b"
		b.Name = "Beta"
		got := SelectTier([]Tier{b, a}, carRequest(3))
		if assert.NotNil(t, got) {
			assert.Equal(t, "a", got.ID)
		}
	})
}
