package prompts

import (
	"fmt"
	"strings"

	"github.com/bookingai/bookingai-engine/pkg/jsonutil"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

var travelPurposeLabels = map[string]string{
	"leisure":   "Leisure travel",
	"business":  "Business travel",
	"family":    "Family trip",
	"adventure": "Adventure travel",
}

var locationLabels = map[string]string{
	"city-center": "City center location preferred",
	"beach":       "Beach/coastal area preferred",
	"mountains":   "Mountain/nature area preferred",
	"suburbs":     "Suburban area preferred",
}

// PreferenceText summarizes structured guest preferences as a single line,
// e.g. "Budget: $50-$200 per night | Preferred amenities: WiFi, Pool".
// Unknown keys are ignored and unknown enum values are passed through.
func PreferenceText(prefs models.Preferences) string {
	if len(prefs) == 0 {
		return ""
	}

	var parts []string

	if priceRange := jsonutil.StringSlice(prefs["priceRange"]); len(priceRange) >= 2 {
		parts = append(parts, fmt.Sprintf("Budget: $%s-$%s per night", priceRange[0], priceRange[1]))
	}

	if amenities := jsonutil.StringSlice(prefs["selectedAmenities"]); len(amenities) > 0 {
		parts = append(parts, "Preferred amenities: "+strings.Join(amenities, ", "))
	}

	if roomTypes := jsonutil.StringSlice(prefs["selectedRoomTypes"]); len(roomTypes) > 0 {
		parts = append(parts, "Preferred room types: "+strings.Join(roomTypes, ", "))
	}

	if purpose := jsonutil.StringValue(prefs["travelPurpose"]); purpose != "" {
		parts = append(parts, "Travel purpose: "+labelOr(travelPurposeLabels, purpose))
	}

	if location := jsonutil.StringValue(prefs["preferredLocation"]); location != "" {
		parts = append(parts, labelOr(locationLabels, location))
	}

	return strings.Join(parts, " | ")
}

func labelOr(labels map[string]string, key string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return key
}
