package service

import (
	"fmt"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/rules"

	"github.com/google/uuid"
)

// ValidationError reports an incomplete strategy. It never escapes the
// planning boundary: callers surface the itemized missing-field list and
// keep gathering.
type ValidationError struct {
	MissingFields []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("strategy incomplete: missing %s", strings.Join(e.MissingFields, ", "))
}

// StrategyService scores case complexity and plans the document docket.
// Both operations are pure and deterministic: identical input always
// yields an identical plan.
type StrategyService struct{}

// NewStrategyService creates a new strategy service
func NewStrategyService() *StrategyService {
	return &StrategyService{}
}

// ValidateStrategyCompleteness hard-requires a dispute type, a desired
// outcome, and either two key facts or one fact plus one evidence item.
// This is a precondition for planning, not a soft warning.
func (s *StrategyService) ValidateStrategyCompleteness(strategy models.CaseStrategy) error {
	missing := make([]string, 0)

	if strings.TrimSpace(strategy.DisputeType) == "" {
		missing = append(missing, "disputeType")
	}
	if strings.TrimSpace(strategy.DesiredOutcome) == "" {
		missing = append(missing, "desiredOutcome")
	}
	if len(strategy.KeyFacts) < 2 && !(len(strategy.KeyFacts) >= 1 && len(strategy.EvidenceMentioned) >= 1) {
		missing = append(missing, "keyFacts")
	}

	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}

// CalculateComplexityScore sums four independent factors from the rule
// tables and classifies against the threshold.
func (s *StrategyService) CalculateComplexityScore(strategy models.CaseStrategy) models.ComplexityBreakdown {
	breakdown := models.ComplexityBreakdown{
		Threshold:        rules.ComplexityThreshold,
		AlgorithmVersion: rules.ComplexityAlgorithmVersion,
	}

	score, reason := rules.DisputeTypeScore(strategy.DisputeType)
	breakdown.DisputeType = models.FactorScore{Score: score, Reason: reason}

	score, reason = rules.FactCountScore(len(strategy.KeyFacts))
	breakdown.FactCount = models.FactorScore{Score: score, Reason: reason}

	score, reason = rules.EvidenceCountScore(len(strategy.EvidenceMentioned))
	breakdown.Evidence = models.FactorScore{Score: score, Reason: reason}

	score, reason = rules.OutcomeScore(strategy.DesiredOutcome)
	breakdown.Outcome = models.FactorScore{Score: score, Reason: reason}

	breakdown.TotalScore = breakdown.DisputeType.Score +
		breakdown.FactCount.Score +
		breakdown.Evidence.Score +
		breakdown.Outcome.Score

	if breakdown.TotalScore >= breakdown.Threshold {
		breakdown.Classification = models.ComplexityComplex
	} else {
		breakdown.Classification = models.ComplexitySimple
	}

	return breakdown
}

// conditionalDocuments is the declarative (predicate, document) table for
// domain-specific additions to a COMPLEX docket. Rows are evaluated in
// fixed order so planning stays pure.
var conditionalDocuments = []struct {
	Applies  func(models.CaseStrategy) bool
	Type     models.DocumentType
	Title    string
	Desc     string
	Required bool
}{
	{
		Applies: func(s models.CaseStrategy) bool {
			return containsAny(strings.ToLower(strings.Join(s.EvidenceMentioned, " ")), "witness", "statement from", "saw")
		},
		Type:  models.DocWitnessStatement,
		Title: "Witness Statement",
		Desc:  "Statement from the witness identified in the evidence",
	},
	{
		Applies: func(s models.CaseStrategy) bool {
			return containsAny(strings.ToLower(s.DesiredOutcome), "tribunal", "hearing")
		},
		Type:     models.DocTribunalClaimForm,
		Title:    "Tribunal Claim Form",
		Desc:     "Claim form for the tribunal hearing the outcome requires",
		Required: true,
	},
	{
		Applies: func(s models.CaseStrategy) bool {
			return containsAny(strings.ToLower(strings.Join(s.KeyFacts, " ")), "not the driver", "was not driving")
		},
		Type:     models.DocStatutoryDeclaration,
		Title:    "Statutory Declaration",
		Desc:     "Declaration that the recipient was not the driver",
		Required: true,
	},
	{
		Applies: func(s models.CaseStrategy) bool {
			return containsAny(strings.ToLower(s.DesiredOutcome), "appeal") ||
				strings.EqualFold(s.DisputeType, "benefits")
		},
		Type:  models.DocAppealForm,
		Title: "Appeal Form",
		Desc:  "Appeal form for the decision under challenge",
	},
}

// RouteDocuments maps the complexity classification to an ordered document
// list. SIMPLE cases get one required letter; COMPLEX cases get a docket.
func (s *StrategyService) RouteDocuments(caseID uuid.UUID, strategy models.CaseStrategy, breakdown models.ComplexityBreakdown) models.DocumentPlan {
	plan := models.DocumentPlan{
		CaseID:     caseID,
		Complexity: breakdown.Classification,
		Score:      breakdown.TotalScore,
		Breakdown:  models.BreakdownJSON(breakdown),
	}

	if breakdown.Classification == models.ComplexitySimple {
		plan.Structure = models.StructureSingleLetter
		plan.Documents = []models.PlannedDocument{
			{
				Type:        models.DocLetterBeforeAction,
				Title:       "Letter Before Action",
				Description: "Formal letter setting out the claim and the remedy sought",
				Order:       1,
				Required:    true,
				Status:      models.DocumentPending,
			},
		}
		return plan
	}

	plan.Structure = models.StructureDocket
	order := 1
	add := func(docType models.DocumentType, title, desc string, required bool) {
		plan.Documents = append(plan.Documents, models.PlannedDocument{
			Type:        docType,
			Title:       title,
			Description: desc,
			Order:       order,
			Required:    required,
			Status:      models.DocumentPending,
		})
		order++
	}

	add(models.DocCoverLetter, "Cover Letter", "Covering letter introducing the enclosed documents", true)
	add(models.DocMainLetter, "Main Letter", "Principal letter setting out the claim in full", true)
	if len(strategy.EvidenceMentioned) > 0 {
		add(models.DocEvidenceSchedule, "Evidence Schedule", "Schedule of exhibits referenced in the letters", true)
	}
	if len(strategy.KeyFacts) >= 5 {
		add(models.DocTimeline, "Timeline of Events", "Chronology of the key facts", true)
	}

	for _, row := range conditionalDocuments {
		if row.Applies(strategy) {
			add(row.Type, row.Title, row.Desc, row.Required)
		}
	}

	return plan
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
