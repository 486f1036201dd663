package validation

import (
	"encoding/json"

	"github.com/bookingai/bookingai-engine/pkg/jsonutil"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

type evaluationResponse struct {
	QualityScore        json.RawMessage `json:"quality_score"`
	Strengths           []string        `json:"strengths"`
	Weaknesses          []string        `json:"weaknesses"`
	AmenitiesAssessment string          `json:"amenities_assessment"`
	ValueAssessment     string          `json:"value_assessment"`
	ServiceQuality      string          `json:"service_quality"`
	Cleanliness         string          `json:"cleanliness"`
	Recommendations     []string        `json:"recommendations"`
}

// ParseEvaluation extracts a structured quality assessment from an evaluation
// response. Unlike rankings, evaluations are free text by contract, so JSON is
// located leniently and ok is false whenever the shape does not match; the
// caller keeps the raw text either way.
func ParseEvaluation(raw string) (*models.QualityAssessment, bool) {
	jsonStr, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, false
	}

	var doc any
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil, false
	}
	if err := validateDocument(evaluationSchema, doc); err != nil {
		return nil, false
	}

	resp, err := llm.ParseJSONResponse[evaluationResponse](jsonStr)
	if err != nil {
		return nil, false
	}

	score, ok := jsonutil.FlexibleIntValue(resp.QualityScore)
	if !ok || score < 0 || score > 100 {
		return nil, false
	}

	return &models.QualityAssessment{
		QualityScore:        score,
		Strengths:           resp.Strengths,
		Weaknesses:          resp.Weaknesses,
		AmenitiesAssessment: resp.AmenitiesAssessment,
		ValueAssessment:     resp.ValueAssessment,
		ServiceQuality:      resp.ServiceQuality,
		Cleanliness:         resp.Cleanliness,
		Recommendations:     resp.Recommendations,
	}, true
}
