package api

import (
	"net/http"

	"github.com/parkhub/parkhub-backend/internal/service"
)

type SlotHandler struct {
	Service *service.SlotService
}

func NewSlotHandler(svc *service.SlotService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

// ListSlots is public so the booking UI can show availability without
// a login.
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	slotType := r.URL.Query().Get("slot_type")

	slots, err := h.Service.ListSlots(status, slotType)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
