// Package units provides shared constants and conversion for speed units.
// Logger exports carry speeds in km/h; conversion to a caller's preferred
// unit happens at the boundary only, never inside the engine.
package units

// Unit constants
const (
	KPH = "kph"
	MPH = "mph"
	MPS = "mps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{KPH, MPH, MPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "kph, mph, mps"
}

// ConvertSpeed converts a speed from km/h to the target units. Telemetry
// exports store speeds in km/h.
func ConvertSpeed(speedKPH float64, targetUnits string) float64 {
	switch targetUnits {
	case KPH:
		return speedKPH
	case MPH:
		return speedKPH * 0.62137119223733
	case MPS:
		return speedKPH / 3.6
	default:
		return speedKPH
	}
}
