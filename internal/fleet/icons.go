package fleet

import (
	"strings"

	"fleetmap.kanpurcity.org/internal/models"
)

// Marker icons served by the dikshank GPS vendor, keyed by normalized
// status. The tpapps feed carries its own icon URL per record, so this
// table only applies to dikshank vehicles.
const (
	iconRunning = "http://gps.ecocosmogps.in/gpslite/icons/yes_magic_R.png"
	iconWaiting = "http://gps.ecocosmogps.in/gpslite/icons/yes_magic_W.png"
	iconIdle    = "http://gps.ecocosmogps.in/gpslite/icons/yes_magic_S.png"
	iconDefault = "http://gps.ecocosmogps.in/gpslite/icons/yes_magic_I.png"

	// TricycleIconURL overrides the status icon for tricycles; the
	// vendor has no dedicated marker for them.
	TricycleIconURL = "https://unpkg.com/leaflet@1.9.4/dist/images/marker-icon.png"
)

// IconForStatus is total over the status vocabulary: every status maps
// to an icon, unrecognized ones to the default marker.
func IconForStatus(status models.Status) string {
	switch status {
	case models.StatusRunning:
		return iconRunning
	case models.StatusWaiting:
		return iconWaiting
	case models.StatusIdle:
		return iconIdle
	case models.StatusInactive:
		return iconDefault
	default:
		return iconDefault
	}
}

// IconForVehicle selects the marker icon for a dikshank vehicle.
// Vehicles whose type mentions a tricycle always get the fixed
// alternate icon regardless of status. The match is a case-insensitive
// substring check against "trycycle", the spelling the upstream
// actually sends.
func IconForVehicle(vehicleType string, status models.Status) string {
	if strings.Contains(strings.ToLower(vehicleType), "trycycle") {
		return TricycleIconURL
	}
	return IconForStatus(status)
}
