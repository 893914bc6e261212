package pricing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Quote is the result of pricing a request against a tier. The applied
// rule lists are kept for audit and display, not recomputation.
type Quote struct {
	TierID              string      `json:"tierId"`
	TierName            string      `json:"tierName"`
	PricingType         string      `json:"pricingType"`
	Currency            string      `json:"currency"`
	BaseAmount          float64     `json:"baseAmount"`
	SurchargeMultiplier float64     `json:"surchargeMultiplier"`
	FinalAmount         float64     `json:"finalAmount"`
	AppliedDiscounts    []Discount  `json:"appliedDiscounts"`
	AppliedSurcharges   []Surcharge `json:"appliedSurcharges"`
}

// Calculate prices the request against an already-matched tier.
// The pipeline is: base amount from the cadence, times the highest
// applicable surcharge multiplier, then each qualifying discount in
// list order, rounded to 2 decimals at the very end.
func Calculate(tier *Tier, req Request) Quote {
	base := BaseAmount(tier.PricingType, tier.BasePrice, req.Duration)

	multiplier := 1.0
	var appliedSurcharges []Surcharge
	for _, sc := range tier.Surcharges {
		if surchargeApplies(sc, req.StartTime, req.EndTime) {
			appliedSurcharges = append(appliedSurcharges, sc)
			if sc.Multiplier > multiplier {
				multiplier = sc.Multiplier
			}
		}
	}

	amount := base * multiplier
	var appliedDiscounts []Discount
	for _, d := range tier.Discounts {
		if d.MinDuration != nil && req.Duration < *d.MinDuration {
			continue
		}
		appliedDiscounts = append(appliedDiscounts, d)
		switch d.Type {
		case DiscountPercentage:
			amount *= 1 - d.Value/100
		case DiscountFixed:
			amount -= d.Value
			if amount < 0 {
				amount = 0
			}
		}
	}

	return Quote{
		TierID:              tier.ID,
		TierName:            tier.Name,
		PricingType:         tier.PricingType,
		Currency:            tier.Currency,
		BaseAmount:          base,
		SurchargeMultiplier: multiplier,
		FinalAmount:         round2(amount),
		AppliedDiscounts:    appliedDiscounts,
		AppliedSurcharges:   appliedSurcharges,
	}
}

// BaseAmount combines the base price with the requested duration in
// hours. Partial billing units always round up: 25 hours of daily
// pricing bills 2 days, while an exact multiple (24 hours) bills 1.
func BaseAmount(pricingType string, basePrice, duration float64) float64 {
	switch pricingType {
	case TypeHourly:
		return basePrice * duration
	case TypeDaily:
		return basePrice * math.Ceil(duration/24)
	case TypeWeekly:
		return basePrice * math.Ceil(duration/(24*7))
	case TypeMonthly:
		return basePrice * math.Ceil(duration/(24*30))
	case TypeFlat:
		return basePrice
	}
	return basePrice
}

func surchargeApplies(sc Surcharge, start, end time.Time) bool {
	switch sc.Type {
	case SurchargeWeekend:
		return isWeekend(start) || isWeekend(end)
	case SurchargePeakHours:
		return peakHoursApply(sc.TimeRanges, start, end)
	case SurchargeOvernight:
		return overnightApplies(start, end)
	case SurchargeHoliday:
		// No holiday calendar is wired in; the rule never fires.
		return false
	}
	return false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// peakHoursApply compares hour-of-day only, not full timestamps. A
// multi-day booking is judged solely on the hour components of its
// endpoints, which can match ranges the booking midsection never
// touches. Kept deliberately to match the configured behavior.
func peakHoursApply(ranges []TimeRange, start, end time.Time) bool {
	sh := hourOfDay(start)
	eh := hourOfDay(end)
	for _, r := range ranges {
		rs, ok1 := parseClock(r.Start)
		re, ok2 := parseClock(r.End)
		if !ok1 || !ok2 {
			continue
		}
		if (sh >= rs && sh <= re) || (eh >= rs && eh <= re) {
			return true
		}
		// Configured range fully inside the booking's hour span.
		if sh <= rs && re <= eh {
			return true
		}
	}
	return false
}

func overnightApplies(start, end time.Time) bool {
	sh := hourOfDay(start)
	eh := hourOfDay(end)
	if sh >= 22 || eh <= 6 {
		return true
	}
	return sh < eh && eh <= 6
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// parseClock turns "HH:mm" into fractional hours (e.g. "08:30" -> 8.5).
func parseClock(s string) (float64, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
