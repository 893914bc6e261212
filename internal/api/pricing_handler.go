package api

import (
	"net/http"

	"github.com/parkhub/parkhub-backend/internal/pricing"
	"github.com/parkhub/parkhub-backend/internal/service"
	"github.com/parkhub/parkhub-backend/internal/utils"
)

type PricingHandler struct {
	Service *service.PricingService
}

func NewPricingHandler(svc *service.PricingService) *PricingHandler {
	return &PricingHandler{Service: svc}
}

// Quote prices a candidate booking. "No tier matches" is a successful
// response with matched=false, not an error.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vehicleType := utils.NormalizeVehicleType(req.VehicleType)
	if vehicleType == "" {
		http.Error(w, "Unknown vehicle type", http.StatusBadRequest)
		return
	}

	start, end, ok := parseTimeRange(req.StartTime, req.EndTime)
	if !ok {
		http.Error(w, "start_time and end_time must be RFC 3339 with end after start", http.StatusBadRequest)
		return
	}

	duration := req.Duration
	if duration == 0 {
		duration = end.Sub(start).Hours()
	}

	quote, err := h.Service.Quote(r.Context(), pricing.Request{
		VehicleType: vehicleType,
		Duration:    duration,
		StartTime:   start,
		EndTime:     end,
		SlotID:      req.SlotID,
	})
	if err != nil {
		http.Error(w, "Error computing quote", http.StatusInternalServerError)
		return
	}

	if quote == nil {
		writeJSON(w, http.StatusOK, QuoteResponse{
			Matched: false,
			Message: "No pricing tier applies to this booking.",
		})
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{Matched: true, Quote: quote})
}
