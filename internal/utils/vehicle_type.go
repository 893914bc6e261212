package utils

import (
	"strings"

	"github.com/parkhub/parkhub-backend/internal/pricing"
)

// NormalizeVehicleType lower-cases and validates a client-supplied
// vehicle type. The empty string is returned for unknown types.
func NormalizeVehicleType(raw string) string {
	vt := strings.ToLower(strings.TrimSpace(raw))
	switch vt {
	case pricing.VehicleCar, pricing.VehicleMotorcycle, pricing.VehicleTruck,
		pricing.VehicleVan, pricing.VehicleSUV, pricing.VehicleBus:
		return vt
	}
	return ""
}

// SlotFitsVehicle reports whether a slot type can hold a vehicle type.
// SUVs and vans share car-sized slots; everything else needs its own
// slot type.
func SlotFitsVehicle(slotType, vehicleType string) bool {
	if slotType == vehicleType {
		return true
	}
	if slotType == pricing.VehicleCar {
		return vehicleType == pricing.VehicleSUV || vehicleType == pricing.VehicleVan
	}
	return false
}
