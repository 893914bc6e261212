package pricing

import (
	"sort"
	"time"
)

// Vehicle types a tier can apply to. VehicleAll matches every vehicle.
const (
	VehicleCar        = "car"
	VehicleMotorcycle = "motorcycle"
	VehicleTruck      = "truck"
	VehicleVan        = "van"
	VehicleSUV        = "suv"
	VehicleBus        = "bus"
	VehicleAll        = "all"
)

// Pricing cadences. They control how BasePrice combines with the
// requested duration, see BaseAmount.
const (
	TypeHourly  = "hourly"
	TypeDaily   = "daily"
	TypeWeekly  = "weekly"
	TypeMonthly = "monthly"
	TypeFlat    = "flat"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

const (
	SurchargePeakHours = "peak_hours"
	SurchargeWeekend   = "weekend"
	SurchargeHoliday   = "holiday"
	SurchargeOvernight = "overnight"
)

// TimeRange is an intra-day window in "HH:mm" notation.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Discount struct {
	Type        string   `json:"type"`
	Value       float64  `json:"value"`
	MinDuration *float64 `json:"minDuration,omitempty"`
	Description string   `json:"description,omitempty"`
}

type Surcharge struct {
	Type        string      `json:"type"`
	Multiplier  float64     `json:"multiplier"`
	TimeRanges  []TimeRange `json:"timeRanges,omitempty"`
	Days        []string    `json:"days,omitempty"`
	Description string      `json:"description,omitempty"`
}

// DurationRange bounds the booking durations (in hours) a tier covers,
// inclusive on both ends.
type DurationRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Tier struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	VehicleType     string        `json:"vehicleType"`
	BasePrice       float64       `json:"basePrice"`
	Currency        string        `json:"currency"`
	PricingType     string        `json:"pricingType"`
	DurationRange   DurationRange `json:"durationRange"`
	Discounts       []Discount    `json:"discounts,omitempty"`
	Surcharges      []Surcharge   `json:"surcharges,omitempty"`
	IsActive        bool          `json:"isActive"`
	Priority        int           `json:"priority"`
	ValidFrom       time.Time     `json:"validFrom"`
	ValidUntil      *time.Time    `json:"validUntil,omitempty"`
	ApplicableSlots []string      `json:"applicableSlots,omitempty"`
}

// Request is a candidate booking to be priced.
type Request struct {
	VehicleType string
	Duration    float64 // hours
	StartTime   time.Time
	EndTime     time.Time
	SlotID      string
}

// ValidAt reports whether the tier is usable at t: it must be active,
// already in force, and not past its validity window. An absent
// ValidUntil means open-ended.
func (tr *Tier) ValidAt(t time.Time) bool {
	if !tr.IsActive {
		return false
	}
	if tr.ValidFrom.After(t) {
		return false
	}
	if tr.ValidUntil != nil && tr.ValidUntil.Before(t) {
		return false
	}
	return true
}

// Matches reports whether the tier applies to the request. A false
// result is a normal outcome, not an error.
func (tr *Tier) Matches(req Request) bool {
	if !tr.ValidAt(req.StartTime) {
		return false
	}
	if tr.VehicleType != VehicleAll && tr.VehicleType != req.VehicleType {
		return false
	}
	if len(tr.ApplicableSlots) > 0 && !containsSlot(tr.ApplicableSlots, req.SlotID) {
		return false
	}
	if req.Duration < tr.DurationRange.Min || req.Duration > tr.DurationRange.Max {
		return false
	}
	return true
}

func containsSlot(slots []string, id string) bool {
	for _, s := range slots {
		if s == id {
			return true
		}
	}
	return false
}

// SelectTier returns the matching tier with the highest priority, or
// nil when no tier matches. Ties are broken by earliest ValidFrom and
// then by name so selection stays deterministic.
func SelectTier(tiers []Tier, req Request) *Tier {
	var matched []*Tier
	for i := range tiers {
		if tiers[i].Matches(req) {
			matched = append(matched, &tiers[i])
		}
	}
	if len(matched) == 0 {
		return nil
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		if !matched[i].ValidFrom.Equal(matched[j].ValidFrom) {
			return matched[i].ValidFrom.Before(matched[j].ValidFrom)
		}
		return matched[i].Name < matched[j].Name
	})
	return matched[0]
}
