package validation

import (
	"encoding/json"
	"fmt"

	"github.com/bookingai/bookingai-engine/pkg/llm"
)

// OutcomeKind tags the result of validating a ranking response.
type OutcomeKind string

const (
	OutcomeAccepted          OutcomeKind = "accepted"
	OutcomeParseFailure      OutcomeKind = "parse_failure"
	OutcomeValidationFailure OutcomeKind = "validation_failure"
)

// RankingOutcome is the result of ValidateRanking. SortedIDs is set only when
// Kind is OutcomeAccepted; Reason describes any failure.
type RankingOutcome struct {
	Kind      OutcomeKind
	SortedIDs []string
	Reason    string
}

// Accepted reports whether the response passed every check.
func (o RankingOutcome) Accepted() bool {
	return o.Kind == OutcomeAccepted
}

func parseFailure(format string, args ...any) RankingOutcome {
	return RankingOutcome{Kind: OutcomeParseFailure, Reason: fmt.Sprintf(format, args...)}
}

func validationFailure(format string, args ...any) RankingOutcome {
	return RankingOutcome{Kind: OutcomeValidationFailure, Reason: fmt.Sprintf(format, args...)}
}

// ValidateRanking checks a raw ranking response against the ids that were sent.
//
// A leading markdown fence is stripped, then the remainder must be a single
// JSON object of the form {"sorted_room_ids": [...]}. The returned ids must be
// exactly the input ids: same length, no duplicates, no omissions and no ids
// that were not sent. No lenient extraction from surrounding prose is done.
func ValidateRanking(raw string, inputIDs []string) RankingOutcome {
	body := llm.StripCodeFence(raw)
	if body == "" {
		return parseFailure("empty response")
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return parseFailure("invalid JSON: %v", err)
	}

	if err := validateDocument(rankingSchema, doc); err != nil {
		return validationFailure("%v", err)
	}

	var parsed struct {
		SortedRoomIDs []string `json:"sorted_room_ids"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return validationFailure("decode sorted_room_ids: %v", err)
	}

	if reason := checkSameIDs(parsed.SortedRoomIDs, inputIDs); reason != "" {
		return validationFailure("%s", reason)
	}

	return RankingOutcome{Kind: OutcomeAccepted, SortedIDs: parsed.SortedRoomIDs}
}

// checkSameIDs returns "" when got is a permutation of want.
func checkSameIDs(got, want []string) string {
	if len(got) != len(want) {
		return fmt.Sprintf("expected %d ids, got %d", len(want), len(got))
	}

	expected := make(map[string]struct{}, len(want))
	for _, id := range want {
		expected[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(got))
	for _, id := range got {
		if _, ok := expected[id]; !ok {
			return fmt.Sprintf("unknown id %q", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Sprintf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}

	return ""
}
