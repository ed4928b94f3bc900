package domain

const mlPerOz = 29.5735295625

// Volume units accepted by history and display endpoints.
const (
	UnitOz = "oz"
	UnitML = "ml"
)

// ConvertVolume converts a volume between "oz" and "ml".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertVolume(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitOz && to == UnitML {
		return v * mlPerOz
	}
	if from == UnitML && to == UnitOz {
		return v / mlPerOz
	}
	return v
}

// ValidVolumeUnit reports whether u is a supported volume unit.
func ValidVolumeUnit(u string) bool {
	return u == UnitOz || u == UnitML
}
