package prompts

import (
	"encoding/json"
	"strings"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// RankingFailureResponse is the literal answer the model is told to give when
// it cannot rank the rooms.
const RankingFailureResponse = `{"sorted_room_ids": []}`

// BuildRankingPrompt creates the prompt asking the model to order rooms by how
// well they match the guest's preferences. Every room is included; the list is
// never truncated.
func BuildRankingPrompt(prefs models.Preferences, rooms []models.RoomSummary) string {
	var prompt strings.Builder

	prompt.WriteString("# Room Ranking\n\n")
	prompt.WriteString("You are a hotel booking assistant. Sort the rooms below from best to worst match for the guest's preferences.\n\n")

	prompt.WriteString("## Rules\n\n")
	prompt.WriteString("Rank using this priority order:\n")
	prompt.WriteString("1. Room type match with the guest's preferred room types\n")
	prompt.WriteString("2. Amenity match with the guest's preferred amenities\n")
	prompt.WriteString("3. Fit with the guest's travel reason\n")
	prompt.WriteString("4. Price value within the guest's budget\n\n")

	prompt.WriteString("Constraints:\n")
	prompt.WriteString("- Use only the room ids listed below. Do not invent ids.\n")
	prompt.WriteString("- Do not omit any room.\n")
	prompt.WriteString("- Every id must appear exactly once.\n\n")

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond with JSON only, no markdown and no explanation:\n")
	prompt.WriteString(`{"sorted_room_ids": ["<room id>", "..."]}`)
	prompt.WriteString("\n\n")
	prompt.WriteString("If you cannot rank the rooms, respond with exactly:\n")
	prompt.WriteString(RankingFailureResponse)
	prompt.WriteString("\n\n")

	prompt.WriteString("## Guest Preferences\n\n")
	prompt.WriteString(SerializePreferences(prefs))
	prompt.WriteString("\n\n")

	prompt.WriteString("## Rooms\n\n")
	prompt.WriteString(toJSON(rooms, "[]"))
	prompt.WriteString("\n")

	return prompt.String()
}

// SerializePreferences renders preferences as indented JSON with sorted keys.
// Missing preferences serialize as an empty object.
func SerializePreferences(prefs models.Preferences) string {
	if prefs == nil {
		return "{}"
	}
	return toJSON(prefs, "{}")
}

func toJSON(v any, fallback string) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fallback
	}
	return string(data)
}
