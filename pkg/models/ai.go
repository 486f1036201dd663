package models

import (
	"time"
)

// Preferences is the guest's free-form preference mapping as submitted by the
// client (priceRange, selectedAmenities, selectedRoomTypes, travelPurpose,
// preferredLocation, ...). It is opaque to the AI pipeline apart from being
// serialized into prompts.
type Preferences map[string]any

// RoomSummary is the minimal view of a room sent for ranking.
type RoomSummary struct {
	ID        string   `json:"id"`
	RoomType  string   `json:"room_type,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// RankingResult is the ordered list of room ids returned to the caller.
// Fallback is set when the AI ranking could not be used and the input order
// was returned instead.
type RankingResult struct {
	SortedRoomIDs  []string `json:"sorted_room_ids"`
	Fallback       bool     `json:"-"`
	FallbackReason string   `json:"-"`
}

// HotelSummary is a candidate hotel offered to the conversational assistant.
type HotelSummary struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ChatRequest is a conversational recommendation request.
type ChatRequest struct {
	Message     string         `json:"message"`
	Preferences Preferences    `json:"preferences"`
	Hotels      []HotelSummary `json:"hotels"`
}

// EvaluationAggregate is the per-request summary fed into the evaluation prompt.
// Reviews are ordered newest first.
type EvaluationAggregate struct {
	Property      *Property
	Reviews       []*Review
	AverageRating float64
	ReviewCount   int
}

// QualityAssessment is the structured form of an evaluation, present only when
// the model's answer matched the requested JSON shape.
type QualityAssessment struct {
	QualityScore        int      `json:"quality_score"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	AmenitiesAssessment string   `json:"amenities_assessment"`
	ValueAssessment     string   `json:"value_assessment"`
	ServiceQuality      string   `json:"service_quality"`
	Cleanliness         string   `json:"cleanliness"`
	Recommendations     []string `json:"recommendations"`
}

// EvaluationNotAvailable is the evaluation text used when a property has no reviews.
const EvaluationNotAvailable = "N/A"

// PropertyEvaluation is the cached AI evaluation of a property.
// Evaluation holds the raw model output.
type PropertyEvaluation struct {
	TotalReviews  int                `json:"total_reviews"`
	AverageRating float64            `json:"average_rating"`
	Evaluation    string             `json:"evaluation"`
	Assessment    *QualityAssessment `json:"assessment,omitempty"`
	Summary       string             `json:"summary,omitempty"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// NoReviewsEvaluation returns the evaluation reported for a property without reviews.
func NoReviewsEvaluation(now time.Time) *PropertyEvaluation {
	return &PropertyEvaluation{
		TotalReviews:  0,
		AverageRating: 0,
		Evaluation:    EvaluationNotAvailable,
		Summary:       "No reviews yet. An evaluation will be generated once guests leave reviews.",
		GeneratedAt:   now.UTC(),
	}
}
