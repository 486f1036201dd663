package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

func ptr(f float64) *float64 { return &f }

func TestBuildRankingPrompt(t *testing.T) {
	prefs := models.Preferences{
		"selectedRoomTypes": []any{"Suite"},
		"travelPurpose":     "business",
	}
	rooms := []models.RoomSummary{
		{ID: "r1", RoomType: "Standard", Price: ptr(80)},
		{ID: "r2", RoomType: "Suite", Price: ptr(200), Amenities: []string{"WiFi"}},
		{ID: "r3", Rating: ptr(4.5)},
	}

	prompt := BuildRankingPrompt(prefs, rooms)

	assert.Contains(t, prompt, `"sorted_room_ids"`)
	assert.Contains(t, prompt, RankingFailureResponse)
	assert.Contains(t, prompt, "Do not invent ids")
	assert.Contains(t, prompt, "Do not omit any room")
	assert.Contains(t, prompt, "exactly once")
	assert.Contains(t, prompt, `"travelPurpose": "business"`)

	typeIdx := strings.Index(prompt, "Room type match")
	amenityIdx := strings.Index(prompt, "Amenity match")
	reasonIdx := strings.Index(prompt, "travel reason")
	priceIdx := strings.Index(prompt, "Price value")
	assert.True(t, typeIdx < amenityIdx && amenityIdx < reasonIdx && reasonIdx < priceIdx,
		"priority order must be room type, amenity, travel reason, price")

	for _, id := range []string{"r1", "r2", "r3"} {
		assert.Contains(t, prompt, fmt.Sprintf(`"id": %q`, id))
	}
}

func TestBuildRankingPrompt_DoesNotTruncateRooms(t *testing.T) {
	rooms := make([]models.RoomSummary, 250)
	for i := range rooms {
		rooms[i] = models.RoomSummary{ID: fmt.Sprintf("room-%03d", i)}
	}

	prompt := BuildRankingPrompt(nil, rooms)

	assert.Contains(t, prompt, `"id": "room-000"`)
	assert.Contains(t, prompt, `"id": "room-249"`)
	assert.Equal(t, 250, strings.Count(prompt, `"id": "room-`))
}

func TestBuildRankingPrompt_Deterministic(t *testing.T) {
	prefs := models.Preferences{"b": 1, "a": []any{"x"}, "c": "z"}
	rooms := []models.RoomSummary{{ID: "r1"}, {ID: "r2"}}

	assert.Equal(t, BuildRankingPrompt(prefs, rooms), BuildRankingPrompt(prefs, rooms))
}

func TestBuildEvaluationPrompt(t *testing.T) {
	agg := &models.EvaluationAggregate{
		Property: &models.Property{
			ID:            uuid.New(),
			Name:          "Seaside Lodge",
			Location:      "Almaty",
			Description:   "Quiet lodge near the lake",
			Amenities:     []string{"WiFi", "Parking"},
			PricePerNight: 120,
		},
		Reviews: []*models.Review{
			{Rating: 5, Comment: "newest review", AIAccuracyFeedback: "spot on"},
			{Rating: 3, Comment: "older review"},
		},
		AverageRating: 4,
		ReviewCount:   2,
	}

	prompt := BuildEvaluationPrompt(agg)

	assert.Contains(t, prompt, "Seaside Lodge")
	assert.Contains(t, prompt, "Almaty")
	assert.Contains(t, prompt, "WiFi, Parking")
	assert.Contains(t, prompt, "Quiet lodge near the lake")
	assert.Contains(t, prompt, "$120.00")
	assert.Contains(t, prompt, "average rating 4.00/5")
	assert.Contains(t, prompt, "spot on")
	assert.Less(t, strings.Index(prompt, "newest review"), strings.Index(prompt, "older review"))

	for _, item := range []string{
		"quality score from 0 to 100",
		"strengths",
		"weaknesses",
		"Amenities assessment",
		"Value for money",
		"Service quality",
		"Cleanliness",
		"Recommendations",
	} {
		assert.Contains(t, prompt, item)
	}
	assert.Contains(t, prompt, `"quality_score"`)
}

func TestBuildChatPrompt_CapsHotels(t *testing.T) {
	hotels := make([]models.HotelSummary, 15)
	for i := range hotels {
		hotels[i] = models.HotelSummary{Name: fmt.Sprintf("Hotel %02d", i), Price: float64(100 + i)}
	}

	prompt := BuildChatPrompt("Somewhere near the beach?", models.Preferences{"preferredLocation": "beach"}, hotels, 0)

	assert.Contains(t, prompt, "Somewhere near the beach?")
	assert.Contains(t, prompt, "Beach/coastal area preferred")
	assert.Contains(t, prompt, "Hotel 09: $109.00 per night")
	assert.NotContains(t, prompt, "Hotel 10")

	capped := BuildChatPrompt("hi", nil, hotels, 3)
	assert.Contains(t, capped, "Hotel 02")
	assert.NotContains(t, capped, "Hotel 03")
}

func TestBuildChatPrompt_NoHotels(t *testing.T) {
	prompt := BuildChatPrompt("hello", nil, nil, 10)
	assert.Contains(t, prompt, "No hotels are currently listed.")
	assert.Contains(t, prompt, "{}")
}

func TestPreferenceText(t *testing.T) {
	prefs := models.Preferences{
		"priceRange":        []any{float64(50), float64(200)},
		"selectedAmenities": []any{"WiFi", "Pool"},
		"selectedRoomTypes": []any{"Suite", "Deluxe"},
		"travelPurpose":     "family",
		"preferredLocation": "city-center",
		"somethingElse":     true,
	}

	assert.Equal(t,
		"Budget: $50-$200 per night | Preferred amenities: WiFi, Pool | Preferred room types: Suite, Deluxe | Travel purpose: Family trip | City center location preferred",
		PreferenceText(prefs))
}

func TestPreferenceText_UnknownValuesPassThrough(t *testing.T) {
	prefs := models.Preferences{
		"travelPurpose":     "honeymoon",
		"preferredLocation": "countryside",
		"priceRange":        []any{float64(100)},
	}

	assert.Equal(t, "Travel purpose: honeymoon | countryside", PreferenceText(prefs))
	assert.Equal(t, "", PreferenceText(nil))
}
