package prompts

import (
	"fmt"
	"strings"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// DefaultChatHotelCap bounds the number of hotels listed in a chat prompt.
const DefaultChatHotelCap = 10

// BuildChatPrompt creates the conversational recommendation prompt. At most
// hotelCap hotels are listed; a non-positive cap uses DefaultChatHotelCap.
func BuildChatPrompt(message string, prefs models.Preferences, hotels []models.HotelSummary, hotelCap int) string {
	if hotelCap <= 0 {
		hotelCap = DefaultChatHotelCap
	}
	if len(hotels) > hotelCap {
		hotels = hotels[:hotelCap]
	}

	var prompt strings.Builder

	prompt.WriteString("You are a friendly travel assistant for a hotel booking site. ")
	prompt.WriteString("Answer the guest's message and recommend suitable hotels from the list when relevant. ")
	prompt.WriteString("Only recommend hotels that appear in the list.\n\n")

	prompt.WriteString("## Guest Message\n\n")
	prompt.WriteString(message)
	prompt.WriteString("\n\n")

	prompt.WriteString("## Guest Preferences\n\n")
	if summary := PreferenceText(prefs); summary != "" {
		prompt.WriteString(summary)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString(SerializePreferences(prefs))
	prompt.WriteString("\n\n")

	prompt.WriteString("## Available Hotels\n\n")
	if len(hotels) == 0 {
		prompt.WriteString("No hotels are currently listed.\n")
	}
	for _, h := range hotels {
		prompt.WriteString(fmt.Sprintf("- %s: $%.2f per night\n", h.Name, h.Price))
	}

	return prompt.String()
}
