package validation

import (
	"strings"
)

// SoilTypes lists the soil classifications understood by the irrigation model
var SoilTypes = []string{
	"Lateritic",
	"Sandy Loam",
	"Cinnamon Sand",
	"Red Yellow Podzolic",
	"Alluvial",
}

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidSoilType reports whether s is one of SoilTypes
func IsValidSoilType(s string) bool {
	for _, soilType := range SoilTypes {
		if s == soilType {
			return true
		}
	}
	return false
}

// IsValidMoistureLevel checks a soil moisture percentage
func IsValidMoistureLevel(v float64) bool {
	return v >= 0 && v <= 100
}

// IsValidTemperature checks an air temperature in Celsius
func IsValidTemperature(v float64) bool {
	return v >= -10 && v <= 50
}

// IsValidHumidity checks a relative humidity percentage
func IsValidHumidity(v float64) bool {
	return v >= 0 && v <= 100
}

// IsValidRainfall checks a rainfall amount in millimeters
func IsValidRainfall(v float64) bool {
	return v >= 0 && v <= 1000
}

// IsValidPlantAge checks a plant age in years
func IsValidPlantAge(v float64) bool {
	return v >= 0 && v <= 100
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}
