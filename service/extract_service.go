package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/rules"
)

// ReadinessThreshold is the minimum readiness score for READY_FOR_ROUTING
const ReadinessThreshold = 75

// ExtractService converts a transcript plus evidence count into structured
// candidate facts and a readiness score, and recomputes the gathering
// state wholesale each turn. Extraction never invents values: absent data
// is an explicit null, and a backend failure degrades to an all-null,
// zero-readiness result so the conversation continues safely.
type ExtractService struct {
	backend Backend
}

// ExtractServiceOption is a functional option for ExtractService
type ExtractServiceOption func(*ExtractService)

// ExtractWithBackend sets the generation backend used for extraction
func ExtractWithBackend(backend Backend) ExtractServiceOption {
	return func(s *ExtractService) {
		s.backend = backend
	}
}

// NewExtractService creates a new extract service
func NewExtractService(opts ...ExtractServiceOption) *ExtractService {
	s := &ExtractService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const extractionSystemInstruction = `You extract structured facts from a dispute conversation. Respond with a single JSON object and nothing else. Never guess: when the conversation does not state a field, emit null for it.`

const extractionPromptTemplate = `Read the conversation below and extract the dispute facts.

CONVERSATION:
%TRANSCRIPT%

Respond with JSON matching exactly this shape:
{
  "dispute_type": string|null,        // one of: employment, consumer, housing, benefits, debt, parking, tax, immigration
  "parties": {"user": string|null, "counterparty": string|null, "relationship": string|null},
  "incident_date": string|null,
  "financial_amount": number|null,
  "chosen_forum": string|null,
  "facts": [string],
  "evidence_provided": [string],
  "contradictions": [string],
  "addresses": {"user": string|null, "counterparty": string|null},
  "prerequisites": {
    "acas_certificate_number": string|null,      // ACAS Early Conciliation certificate number, if the user mentions one
    "mandatory_reconsideration_date": string|null, // date of a mandatory reconsideration notice, if mentioned
    "hmrc_decision_date": string|null            // date of an HMRC decision or review letter, if mentioned
  }
}`

// Extract runs extraction over the transcript. Identical input yields an
// identical result: the readiness score and recommended state are computed
// deterministically from the extracted fields, and repeated calls are safe
// under concurrent polling because nothing is mutated.
func (s *ExtractService) Extract(ctx context.Context, transcript models.Transcript, evidenceCount int) *models.ExtractedFacts {
	extracted := s.runBackendExtraction(ctx, transcript)
	if extracted == nil {
		extracted = zeroExtraction()
	}

	finalizeExtraction(extracted, evidenceCount, EvidenceRequested(transcript))
	return extracted
}

func (s *ExtractService) runBackendExtraction(ctx context.Context, transcript models.Transcript) *models.ExtractedFacts {
	if s.backend == nil {
		return nil
	}

	prompt := strings.Replace(extractionPromptTemplate, "%TRANSCRIPT%", renderTranscript(transcript), 1)

	raw, err := s.backend.Generate(ctx, prompt, extractionSystemInstruction)
	if err != nil {
		log.Printf("Warning: fact extraction failed, degrading to zero-readiness result: %v", err)
		return nil
	}

	extracted := &models.ExtractedFacts{}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), extracted); err != nil {
		log.Printf("Warning: fact extraction returned malformed JSON, degrading to zero-readiness result: %v", err)
		return nil
	}

	return extracted
}

// finalizeExtraction normalises slices, recomputes the readiness score and
// missing-info list, and derives the recommended gathering state. The
// backend's own opinion of readiness is ignored; scoring is deterministic.
func finalizeExtraction(extracted *models.ExtractedFacts, evidenceCount int, evidenceRequested bool) {
	if extracted.Facts == nil {
		extracted.Facts = []string{}
	}
	if extracted.EvidenceProvided == nil {
		extracted.EvidenceProvided = []string{}
	}
	if extracted.Contradictions == nil {
		extracted.Contradictions = []string{}
	}

	extracted.ReadinessScore = ComputeReadiness(extracted, evidenceCount)
	extracted.MissingCriticalInfo = MissingCriticalInfo(extracted)
	extracted.RecommendedState = DeriveState(extracted, evidenceCount, evidenceRequested)
}

// evidenceRequestCues are phrases an assistant turn uses when asking the
// user to provide documents.
var evidenceRequestCues = []string{"upload", "attach", "send a copy", "send us a copy", "provide a copy", "any evidence"}

// EvidenceRequested reports whether the assistant has asked the user for
// evidence at any point in the conversation. Only assistant turns count:
// a user mentioning their own documents is not a request.
func EvidenceRequested(transcript models.Transcript) bool {
	for _, msg := range transcript {
		if msg.Role != "assistant" {
			continue
		}
		lower := strings.ToLower(msg.Content)
		for _, cue := range evidenceRequestCues {
			if strings.Contains(lower, cue) {
				return true
			}
		}
	}
	return false
}

// ComputeReadiness builds the readiness score additively and clamps it to
// [0,100].
func ComputeReadiness(extracted *models.ExtractedFacts, evidenceCount int) int {
	score := 0
	if extracted.DisputeType != nil {
		score += 15
	}
	if extracted.Parties.User != nil {
		score += 15
	}
	if extracted.Parties.Counterparty != nil {
		score += 15
	}
	if extracted.IncidentDate != nil {
		score += 10
	}
	if extracted.FinancialAmount != nil {
		score += 10
	}
	if len(extracted.Facts) >= 3 {
		score += 10
	}
	if extracted.Addresses.User != nil {
		score += 10
	}
	if extracted.Addresses.Counterparty != nil {
		score += 10
	}
	if evidenceCount > 0 || len(extracted.EvidenceProvided) > 0 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// MissingCriticalInfo lists the fields still needed before routing
func MissingCriticalInfo(extracted *models.ExtractedFacts) []string {
	missing := make([]string, 0)
	if extracted.DisputeType == nil {
		missing = append(missing, "dispute_type")
	}
	if extracted.Parties.User == nil {
		missing = append(missing, "user_identity")
	}
	if extracted.Parties.Counterparty == nil {
		missing = append(missing, "counterparty")
	}
	if extracted.IncidentDate == nil {
		missing = append(missing, "incident_date")
	}
	if extracted.FinancialAmount == nil {
		missing = append(missing, "financial_amount")
	}
	if len(extracted.Facts) < 3 {
		missing = append(missing, "key_facts")
	}
	return missing
}

// DeriveState recomputes the gathering state from scratch. It is a pure
// function of its inputs, so repeated polling cannot move the state.
// READY_FOR_ROUTING requires the readiness threshold AND either evidence
// in hand or an evidence-optional route. An evidence upload clears
// WAITING_FOR_EVIDENCE on the next recomputation.
func DeriveState(extracted *models.ExtractedFacts, evidenceCount int, evidenceRequested bool) models.GatheringState {
	hasAnything := extracted.DisputeType != nil ||
		extracted.Parties.Counterparty != nil ||
		len(extracted.Facts) > 0

	if !hasAnything {
		return models.StateInitial
	}

	if extracted.ReadinessScore >= ReadinessThreshold {
		if evidenceCount > 0 || len(extracted.EvidenceProvided) > 0 {
			return models.StateReadyForRouting
		}
		if routeIsEvidenceOptional(extracted) {
			return models.StateReadyForRouting
		}
		if evidenceRequested {
			return models.StateWaitingForEvidence
		}
	}

	return models.StateFactsGathering
}

// routeIsEvidenceOptional consults the routing tables for the route the
// extraction points at; letter-first routes may proceed without evidence.
func routeIsEvidenceOptional(extracted *models.ExtractedFacts) bool {
	if extracted.ChosenForum != nil {
		if forum, ok := rules.ParseForum(*extracted.ChosenForum); ok {
			return rules.EvidenceOptional(forum)
		}
	}
	if extracted.DisputeType != nil {
		var amount float64
		if extracted.FinancialAmount != nil {
			amount = *extracted.FinancialAmount
		}
		if forum, ok := rules.DefaultForum(models.DisputeDomain(*extracted.DisputeType), amount); ok {
			return rules.EvidenceOptional(forum)
		}
	}
	return false
}

// Snapshot projects an extraction into the read-only state surface that
// drives external UI prompts.
func Snapshot(extracted *models.ExtractedFacts, evidenceCount int, evidenceRequested bool) models.GatheringSnapshot {
	return models.GatheringSnapshot{
		State:               extracted.RecommendedState,
		Domain:              extracted.DisputeType,
		Relationship:        extracted.Parties.Relationship,
		Counterparty:        extracted.Parties.Counterparty,
		Amount:              extracted.FinancialAmount,
		EvidenceRequested:   evidenceRequested,
		EvidenceProvided:    evidenceCount > 0,
		ReadinessScore:      extracted.ReadinessScore,
		MissingCriticalInfo: extracted.MissingCriticalInfo,
	}
}

// zeroExtraction is the safe degraded result: all nulls, zero readiness
func zeroExtraction() *models.ExtractedFacts {
	return &models.ExtractedFacts{
		Facts:               []string{},
		EvidenceProvided:    []string{},
		Contradictions:      []string{},
		MissingCriticalInfo: []string{},
		RecommendedState:    models.StateInitial,
	}
}

func renderTranscript(transcript models.Transcript) string {
	var builder strings.Builder
	for _, msg := range transcript {
		builder.WriteString(strings.ToUpper(msg.Role))
		builder.WriteString(": ")
		builder.WriteString(msg.Content)
		builder.WriteString("\n")
	}
	return builder.String()
}

// stripCodeFences removes a markdown fence the backend sometimes wraps
// JSON output in.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return strings.TrimSpace(trimmed)
}
