package prompts

import (
	"fmt"
	"strings"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// BuildEvaluationPrompt creates the prompt for an AI quality evaluation of a
// property from its reviews. Reviews are listed in the order given, which the
// caller supplies newest first.
func BuildEvaluationPrompt(agg *models.EvaluationAggregate) string {
	var prompt strings.Builder

	prompt.WriteString("# Property Quality Evaluation\n\n")
	prompt.WriteString("Analyze the guest reviews of this property and produce an objective quality evaluation.\n\n")

	p := agg.Property
	prompt.WriteString("## Property\n\n")
	prompt.WriteString(fmt.Sprintf("- **Name**: %s\n", p.Name))
	prompt.WriteString(fmt.Sprintf("- **Location**: %s\n", p.Location))
	if len(p.Amenities) > 0 {
		prompt.WriteString(fmt.Sprintf("- **Amenities**: %s\n", strings.Join(p.Amenities, ", ")))
	} else {
		prompt.WriteString("- **Amenities**: none listed\n")
	}
	if p.Description != "" {
		prompt.WriteString(fmt.Sprintf("- **Description**: %s\n", p.Description))
	}
	prompt.WriteString(fmt.Sprintf("- **Price per night**: $%.2f\n\n", p.PricePerNight))

	prompt.WriteString(fmt.Sprintf("## Reviews (%d total, average rating %.2f/5)\n\n", agg.ReviewCount, agg.AverageRating))
	for i, r := range agg.Reviews {
		prompt.WriteString(fmt.Sprintf("### Review %d\n", i+1))
		prompt.WriteString(fmt.Sprintf("- Rating: %d/5\n", r.Rating))
		if r.Comment != "" {
			prompt.WriteString(fmt.Sprintf("- Comment: %s\n", r.Comment))
		}
		if r.AIAccuracyFeedback != "" {
			prompt.WriteString(fmt.Sprintf("- Feedback on previous AI recommendation: %s\n", r.AIAccuracyFeedback))
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("## Analysis Requested\n\n")
	prompt.WriteString("1. Overall quality score from 0 to 100\n")
	prompt.WriteString("2. Key strengths\n")
	prompt.WriteString("3. Key weaknesses\n")
	prompt.WriteString("4. Amenities assessment\n")
	prompt.WriteString("5. Value for money assessment\n")
	prompt.WriteString("6. Service quality\n")
	prompt.WriteString("7. Cleanliness\n")
	prompt.WriteString("8. Recommendations for the host\n\n")

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond in JSON:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "quality_score": 85,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "amenities_assessment": "...",
  "value_assessment": "...",
  "service_quality": "...",
  "cleanliness": "...",
  "recommendations": ["..."]
}
`)
	prompt.WriteString("```\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}
