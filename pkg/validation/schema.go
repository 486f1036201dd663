// Package validation checks untrusted model output against the contracts the
// AI pipeline enforces before anything reaches a caller or the database.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const rankingSchemaJSON = `{
  "type": "object",
  "required": ["sorted_room_ids"],
  "properties": {
    "sorted_room_ids": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

const evaluationSchemaJSON = `{
  "type": "object",
  "required": ["quality_score"],
  "properties": {
    "quality_score": {"type": ["number", "string"]},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "amenities_assessment": {"type": "string"},
    "value_assessment": {"type": "string"},
    "service_quality": {"type": "string"},
    "cleanliness": {"type": "string"}
  }
}`

var (
	rankingSchema    = mustCompile(rankingSchemaJSON)
	evaluationSchema = mustCompile(evaluationSchemaJSON)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return s
}

// validateDocument checks a decoded JSON document against schema and returns
// a combined description of every violation.
func validateDocument(schema *gojsonschema.Schema, doc any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema violation: %s", strings.Join(errs, "; "))
	}

	return nil
}
