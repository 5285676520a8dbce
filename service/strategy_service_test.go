package service

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/rules"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStrategyCompleteness(t *testing.T) {
	svc := NewStrategyService()

	err := svc.ValidateStrategyCompleteness(models.CaseStrategy{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"disputeType", "desiredOutcome", "keyFacts"}, validationErr.MissingFields)

	// One fact plus one evidence item satisfies the fact requirement.
	err = svc.ValidateStrategyCompleteness(models.CaseStrategy{
		DisputeType:       "debt",
		DesiredOutcome:    "payment",
		KeyFacts:          []string{"invoice unpaid"},
		EvidenceMentioned: []string{"the invoice"},
	})
	assert.NoError(t, err)

	// One fact alone does not.
	err = svc.ValidateStrategyCompleteness(models.CaseStrategy{
		DisputeType:    "debt",
		DesiredOutcome: "payment",
		KeyFacts:       []string{"invoice unpaid"},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"keyFacts"}, validationErr.MissingFields)
}

func TestCalculateComplexityScoreSimple(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType:    "parking",
		KeyFacts:       []string{"PCN issued", "signage was obscured"},
		DesiredOutcome: "a refund",
	}

	breakdown := svc.CalculateComplexityScore(strategy)

	assert.Equal(t, 3, breakdown.TotalScore) // 1 + 1 + 0 + 1
	assert.Equal(t, models.ComplexitySimple, breakdown.Classification)
	assert.Equal(t, rules.ComplexityThreshold, breakdown.Threshold)
	assert.Equal(t, rules.ComplexityAlgorithmVersion, breakdown.AlgorithmVersion)
}

func TestCalculateComplexityScoreComplex(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType: "employment",
		KeyFacts: []string{
			"worked as a contractor", "invoices unpaid", "rate agreed in writing",
			"employer stopped responding", "final invoice disputed",
		},
		EvidenceMentioned: []string{"rate confirmation", "email thread"},
		DesiredOutcome:    "a tribunal hearing and compensation",
	}

	breakdown := svc.CalculateComplexityScore(strategy)

	assert.Equal(t, 15, breakdown.TotalScore) // 5 + 3 + 2 + 5
	assert.Equal(t, models.ComplexityComplex, breakdown.Classification)
}

// A total exactly at the threshold classifies as COMPLEX.
func TestCalculateComplexityScoreThresholdBoundary(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType:    "housing",
		KeyFacts:       []string{"deposit withheld", "no protection scheme", "landlord unresponsive"},
		DesiredOutcome: "court proceedings",
	}

	breakdown := svc.CalculateComplexityScore(strategy)

	assert.Equal(t, 10, breakdown.TotalScore) // 3 + 2 + 0 + 5
	assert.Equal(t, models.ComplexityComplex, breakdown.Classification)
}

func TestCalculateComplexityScoreDeterministic(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType:       "debt",
		KeyFacts:          []string{"a", "b", "c", "d"},
		EvidenceMentioned: []string{"invoice"},
		DesiredOutcome:    "compensation",
	}

	first := svc.CalculateComplexityScore(strategy)
	second := svc.CalculateComplexityScore(strategy)
	assert.Equal(t, first, second)
}

func TestRouteDocumentsSimple(t *testing.T) {
	svc := NewStrategyService()
	caseID := uuid.New()
	strategy := models.CaseStrategy{DisputeType: "parking", DesiredOutcome: "refund"}
	breakdown := svc.CalculateComplexityScore(strategy)

	plan := svc.RouteDocuments(caseID, strategy, breakdown)

	assert.Equal(t, caseID, plan.CaseID)
	assert.Equal(t, models.StructureSingleLetter, plan.Structure)
	require.Len(t, plan.Documents, 1)
	assert.Equal(t, models.DocLetterBeforeAction, plan.Documents[0].Type)
	assert.True(t, plan.Documents[0].Required)
	assert.Equal(t, 1, plan.Documents[0].Order)
	assert.Equal(t, models.DocumentPending, plan.Documents[0].Status)
}

func TestRouteDocumentsComplexDocket(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType: "employment",
		KeyFacts: []string{
			"worked as a contractor", "invoices unpaid", "rate agreed in writing",
			"employer stopped responding", "final invoice disputed",
		},
		EvidenceMentioned: []string{"witness statement from a colleague"},
		DesiredOutcome:    "a tribunal hearing",
	}
	breakdown := svc.CalculateComplexityScore(strategy)
	require.Equal(t, models.ComplexityComplex, breakdown.Classification)

	plan := svc.RouteDocuments(uuid.New(), strategy, breakdown)

	assert.Equal(t, models.StructureDocket, plan.Structure)

	types := make([]models.DocumentType, len(plan.Documents))
	for i, doc := range plan.Documents {
		types[i] = doc.Type
		assert.Equal(t, i+1, doc.Order)
	}
	assert.Equal(t, []models.DocumentType{
		models.DocCoverLetter,
		models.DocMainLetter,
		models.DocEvidenceSchedule,
		models.DocTimeline,
		models.DocWitnessStatement,
		models.DocTribunalClaimForm,
	}, types)
}

func TestRouteDocumentsStatutoryDeclaration(t *testing.T) {
	svc := NewStrategyService()
	strategy := models.CaseStrategy{
		DisputeType: "parking",
		KeyFacts: []string{
			"PCN issued to the registered keeper", "I was not the driver",
			"car was lent to a friend", "notice served late", "appeal rejected",
			"bailiff letter received", "charge escalated", "no hearing offered",
		},
		EvidenceMentioned: []string{"penalty charge notice", "photo of signage"},
		DesiredOutcome:    "court hearing to cancel the charge",
	}
	breakdown := svc.CalculateComplexityScore(strategy)
	require.Equal(t, models.ComplexityComplex, breakdown.Classification)

	plan := svc.RouteDocuments(uuid.New(), strategy, breakdown)

	var found *models.PlannedDocument
	for i := range plan.Documents {
		if plan.Documents[i].Type == models.DocStatutoryDeclaration {
			found = &plan.Documents[i]
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Required)
}
