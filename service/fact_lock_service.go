package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/repository"

	"github.com/google/uuid"
)

// FactLockService turns confirmed extraction results into immutable locked
// facts and checks generated content against them. A locked fact must
// appear verbatim downstream; a mismatch is a hard audit failure.
type FactLockService struct {
	factRepo *repository.LockedFactRepository
}

// FactLockServiceOption is a functional option for FactLockService
type FactLockServiceOption func(*FactLockService)

// FactLockWithRepository sets the locked fact repository
func FactLockWithRepository(repo *repository.LockedFactRepository) FactLockServiceOption {
	return func(s *FactLockService) {
		s.factRepo = repo
	}
}

// NewFactLockService creates a new fact lock service
func NewFactLockService(opts ...FactLockServiceOption) *FactLockService {
	s := &FactLockService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	// bracketPlaceholderPattern matches unfilled template tokens like
	// [AMOUNT] or £[SUM]. Any hit in generated output is critical.
	bracketPlaceholderPattern = regexp.MustCompile(`\[[A-Za-z_ ]*\]|\[_+\]|\{\{[^}]*\}\}`)

	hoursClaimPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*hours?\b`)
	amountClaimPattern = regexp.MustCompile(`£\s*([\d,]+(?:\.\d+)?)`)

	concessionCues = []string{"not seeking", "only worked", "approximately", "not claiming", "waive", "won't pursue", "will not pursue"}
)

// LockFacts converts a confirmed extraction into locked facts. Only
// present fields become facts; nothing is invented for absent data.
func (s *FactLockService) LockFacts(caseID uuid.UUID, extracted *models.ExtractedFacts) []models.LockedFact {
	facts := make([]models.LockedFact, 0)

	add := func(field, value string, source models.FactSource) {
		if value == "" {
			return
		}
		facts = append(facts, models.LockedFact{
			CaseID:    caseID,
			Field:     field,
			Value:     value,
			Source:    source,
			Immutable: true,
		})
	}

	if extracted.DisputeType != nil {
		add("dispute_type", *extracted.DisputeType, models.FactSourceUserConfirmed)
	}
	if extracted.Parties.User != nil {
		add("user_name", *extracted.Parties.User, models.FactSourceUserConfirmed)
	}
	if extracted.Parties.Counterparty != nil {
		add("counterparty", *extracted.Parties.Counterparty, models.FactSourceUserConfirmed)
	}
	if extracted.Parties.Relationship != nil {
		add("relationship", *extracted.Parties.Relationship, models.FactSourceUserConfirmed)
	}
	if extracted.IncidentDate != nil {
		add("incident_date", *extracted.IncidentDate, models.FactSourceUserConfirmed)
	}
	if extracted.FinancialAmount != nil {
		add("financial_amount", formatAmount(*extracted.FinancialAmount), models.FactSourceUserConfirmed)
	}
	if extracted.ChosenForum != nil {
		add("chosen_forum", *extracted.ChosenForum, models.FactSourceUserConfirmed)
	}
	if extracted.Addresses.User != nil {
		add("user_address", *extracted.Addresses.User, models.FactSourceUserConfirmed)
	}
	if extracted.Addresses.Counterparty != nil {
		add("counterparty_address", *extracted.Addresses.Counterparty, models.FactSourceUserConfirmed)
	}
	// Completed pre-filing steps unlock the routing gate, so they lock
	// under the exact field names the prerequisite tables read.
	if extracted.Prerequisites.ACASCertificateNumber != nil {
		add("acas_certificate_number", *extracted.Prerequisites.ACASCertificateNumber, models.FactSourceUserConfirmed)
	}
	if extracted.Prerequisites.MandatoryReconsiderationDate != nil {
		add("mandatory_reconsideration_date", *extracted.Prerequisites.MandatoryReconsiderationDate, models.FactSourceUserConfirmed)
	}
	if extracted.Prerequisites.HMRCDecisionDate != nil {
		add("hmrc_decision_date", *extracted.Prerequisites.HMRCDecisionDate, models.FactSourceUserConfirmed)
	}
	for i, fact := range extracted.Facts {
		add(fmt.Sprintf("fact_%d", i+1), fact, models.FactSourceUserConfirmed)
	}
	for i, item := range extracted.EvidenceProvided {
		add(fmt.Sprintf("evidence_%d", i+1), item, models.FactSourceEvidence)
	}

	// Waiver language in the stated facts is locked as a concession so
	// generation cannot claim the waived portion.
	for _, concession := range ExtractConcessions(extracted.Facts) {
		add("concession_"+concession.Field, concession.Statement, models.FactSourceConcession)
	}

	return facts
}

// Persist appends locked facts for a case. Existing fields are never
// overwritten; merges only add new field keys.
func (s *FactLockService) Persist(ctx context.Context, caseID uuid.UUID, facts []models.LockedFact) error {
	if s.factRepo == nil {
		return errors.New("locked fact repository not set")
	}
	return s.factRepo.Append(ctx, caseID, facts)
}

// Load retrieves the locked facts for a case
func (s *FactLockService) Load(ctx context.Context, caseID uuid.UUID) ([]models.LockedFact, error) {
	if s.factRepo == nil {
		return nil, errors.New("locked fact repository not set")
	}
	return s.factRepo.ListByCaseID(ctx, caseID)
}

// ValidateAgainstLockedFacts sweeps generated content for unfilled
// bracket placeholders (always critical) and for locked fields whose
// verbatim value must be present in every document that references them.
func ValidateAgainstLockedFacts(content string, locked []models.LockedFact) []models.FactViolation {
	violations := make([]models.FactViolation, 0)

	for _, match := range bracketPlaceholderPattern.FindAllString(content, -1) {
		violations = append(violations, models.FactViolation{
			Field:    "placeholder",
			Found:    match,
			Severity: "critical",
			Message:  fmt.Sprintf("unfilled placeholder %q in generated content", match),
		})
	}

	text := strings.ToLower(content)
	for _, fact := range locked {
		switch fact.Field {
		case "dispute_type":
			if mismatch := disputeTypeMismatch(text, fact.Value); mismatch != "" {
				violations = append(violations, models.FactViolation{
					Field:    fact.Field,
					Expected: fact.Value,
					Found:    mismatch,
					Severity: "critical",
					Message:  fmt.Sprintf("document describes a %s dispute but the locked dispute type is %s", mismatch, fact.Value),
				})
			}
		case "counterparty":
			// The counterparty anchors every document and must appear
			// verbatim.
			if !strings.Contains(text, strings.ToLower(fact.Value)) {
				violations = append(violations, models.FactViolation{
					Field:    fact.Field,
					Expected: fact.Value,
					Severity: "critical",
					Message:  fmt.Sprintf("locked %s %q does not appear verbatim in the document", fact.Field, fact.Value),
				})
			}
		case "financial_amount":
			// A document that states monetary figures must state the locked
			// amount verbatim. Documents with no figures (schedules,
			// timelines) are exempt.
			if strings.Contains(text, "£") && !strings.Contains(text, strings.ToLower(fact.Value)) {
				violations = append(violations, models.FactViolation{
					Field:    fact.Field,
					Expected: fact.Value,
					Severity: "critical",
					Message:  fmt.Sprintf("locked %s %q does not appear verbatim in the document", fact.Field, fact.Value),
				})
			}
		}
	}

	return violations
}

// disputeTypeKeywords flags content that reads as a different dispute
// domain than the one locked.
var disputeTypeKeywords = map[string][]string{
	"employment": {"dismissal", "employer", "redundancy"},
	"housing":    {"landlord", "tenancy", "deposit"},
	"parking":    {"parking charge", "penalty charge notice"},
	"tax":        {"hmrc", "tax return"},
}

func disputeTypeMismatch(text, lockedType string) string {
	for domain, keywords := range disputeTypeKeywords {
		if domain == lockedType {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return domain
			}
		}
	}
	return ""
}

// ExtractConcessions finds waiver language in the stated facts. Each hit
// carries the numeric ceiling the user conceded to when one is parseable.
func ExtractConcessions(facts []string) []models.Concession {
	concessions := make([]models.Concession, 0)

	for i, fact := range facts {
		lower := strings.ToLower(fact)
		for _, cue := range concessionCues {
			if !strings.Contains(lower, cue) {
				continue
			}
			concession := models.Concession{
				Field:     fmt.Sprintf("fact_%d", i+1),
				Statement: fact,
			}
			if m := hoursClaimPattern.FindStringSubmatch(lower); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					concession.WaivedAmount = &v
				}
			}
			concessions = append(concessions, concession)
			break
		}
	}

	return concessions
}

// DetectOverclaiming compares numeric claims in generated text against the
// stated values. Hours claims must never exceed the stated hours; monetary
// claims may not exceed the stated amount beyond one year's statutory
// interest allowance (8%).
func DetectOverclaiming(content string, locked []models.LockedFact, concessions []models.Concession) []models.FactViolation {
	violations := make([]models.FactViolation, 0)
	text := strings.ToLower(content)

	statedHours := statedHoursCeiling(locked, concessions)
	if statedHours != nil {
		for _, m := range hoursClaimPattern.FindAllStringSubmatch(text, -1) {
			claimed, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if claimed > *statedHours {
				violations = append(violations, models.FactViolation{
					Field:    "hours",
					Expected: trimFloat(*statedHours),
					Found:    trimFloat(claimed),
					Severity: "critical",
					Message: fmt.Sprintf("document claims %s hours but the user stated %s hours",
						trimFloat(claimed), trimFloat(*statedHours)),
				})
			}
		}
	}

	statedAmount := statedAmountValue(locked)
	if statedAmount != nil {
		ceiling := *statedAmount * 1.08
		for _, m := range amountClaimPattern.FindAllStringSubmatch(text, -1) {
			claimed, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if claimed > ceiling {
				violations = append(violations, models.FactViolation{
					Field:    "financial_amount",
					Expected: trimFloat(*statedAmount),
					Found:    trimFloat(claimed),
					Severity: "critical",
					Message: fmt.Sprintf("document claims £%s but the user stated £%s",
						trimFloat(claimed), trimFloat(*statedAmount)),
				})
			}
		}
	}

	return violations
}

// statedHoursCeiling prefers a concession ceiling over any hours fact,
// since the concession is the amount the user limited the claim to.
func statedHoursCeiling(locked []models.LockedFact, concessions []models.Concession) *float64 {
	for _, concession := range concessions {
		if concession.WaivedAmount != nil && strings.Contains(strings.ToLower(concession.Statement), "hour") {
			return concession.WaivedAmount
		}
	}
	for _, fact := range locked {
		lower := strings.ToLower(fact.Value)
		if m := hoursClaimPattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	return nil
}

func statedAmountValue(locked []models.LockedFact) *float64 {
	for _, fact := range locked {
		if fact.Field != "financial_amount" {
			continue
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(fact.Value, ",", ""), 64); err == nil {
			return &v
		}
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
