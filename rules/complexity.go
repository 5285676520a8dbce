// Package rules holds the versioned rule tables the pipeline consults:
// complexity scoring weights, per-forum vocabulary, relief constraints,
// evidence sufficiency requirements and routing prerequisites. Tables are
// data, not control flow, so each can be tested exhaustively and evolved
// independently of the services that read them.
package rules

import "strings"

// ComplexityAlgorithmVersion tags results produced by this scoring model
const ComplexityAlgorithmVersion = "complexity-v1"

// ComplexityThreshold is the SIMPLE/COMPLEX cut-off for the total score
const ComplexityThreshold = 10

// disputeTypeScores weights the dispute category. Unknown types fall back
// to disputeTypeFallbackScore rather than zero.
var disputeTypeScores = map[string]int{
	"employment":  5,
	"immigration": 5,
	"tax":         4,
	"benefits":    4,
	"housing":     3,
	"debt":        2,
	"consumer":    2,
	"parking":     1,
}

const disputeTypeFallbackScore = 2

// DisputeTypeScore returns the category weight for a dispute type
func DisputeTypeScore(disputeType string) (int, string) {
	key := strings.ToLower(strings.TrimSpace(disputeType))
	if score, ok := disputeTypeScores[key]; ok {
		return score, "category weight for " + key
	}
	return disputeTypeFallbackScore, "fallback weight for unrecognised dispute type"
}

// FactCountScore tiers the number of key facts
func FactCountScore(count int) (int, string) {
	switch {
	case count >= 8:
		return 4, "8 or more key facts"
	case count >= 5:
		return 3, "5-7 key facts"
	case count >= 3:
		return 2, "3-4 key facts"
	case count >= 1:
		return 1, "1-2 key facts"
	default:
		return 0, "no key facts"
	}
}

// EvidenceCountScore tiers the number of evidence items mentioned
func EvidenceCountScore(count int) (int, string) {
	switch {
	case count >= 5:
		return 3, "5 or more evidence items"
	case count >= 2:
		return 2, "2-4 evidence items"
	case count >= 1:
		return 1, "1 evidence item"
	default:
		return 0, "no evidence mentioned"
	}
}

// Outcome keyword tiers. Complex keywords are checked first, then medium,
// then simple; the first tier with a hit wins and unmatched text defaults
// to the simple tier.
var (
	complexOutcomeKeywords = []string{
		"tribunal", "hearing", "court", "appeal", "reinstatement",
		"injunction", "discrimination", "unfair dismissal", "judicial",
	}
	mediumOutcomeKeywords = []string{
		"compensation", "damages", "refund and", "formal complaint",
		"escalate", "interest",
	}
	simpleOutcomeKeywords = []string{
		"refund", "apology", "payment", "repair", "replace",
	}
)

// OutcomeScore classifies the free-text desired outcome into a tier
func OutcomeScore(outcome string) (int, string) {
	text := strings.ToLower(outcome)
	for _, kw := range complexOutcomeKeywords {
		if strings.Contains(text, kw) {
			return 5, "outcome implies formal proceedings (" + kw + ")"
		}
	}
	for _, kw := range mediumOutcomeKeywords {
		if strings.Contains(text, kw) {
			return 3, "outcome seeks monetary remedy (" + kw + ")"
		}
	}
	for _, kw := range simpleOutcomeKeywords {
		if strings.Contains(text, kw) {
			return 1, "outcome is a simple remedy (" + kw + ")"
		}
	}
	return 1, "outcome unclassified, treated as simple"
}
