package service

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestLockFactsFromExtraction(t *testing.T) {
	caseID := uuid.New()
	extracted := &models.ExtractedFacts{
		DisputeType: strPtr("debt"),
		Parties: models.ExtractedParties{
			User:         strPtr("Jane Doe"),
			Counterparty: strPtr("Acme Ltd"),
			Relationship: strPtr("contractor"),
		},
		IncidentDate:     strPtr("2026-03-14"),
		FinancialAmount:  floatPtr(1250),
		Facts:            []string{"Invoice 0042 was issued", "No payment has been received"},
		EvidenceProvided: []string{"invoice"},
		Addresses: models.ExtractedAddresses{
			User: strPtr("1 High Street, Leeds"),
		},
	}

	svc := NewFactLockService()
	facts := svc.LockFacts(caseID, extracted)

	byField := make(map[string]models.LockedFact, len(facts))
	for _, f := range facts {
		byField[f.Field] = f
		assert.Equal(t, caseID, f.CaseID)
		assert.True(t, f.Immutable)
	}

	assert.Equal(t, "debt", byField["dispute_type"].Value)
	assert.Equal(t, "Acme Ltd", byField["counterparty"].Value)
	assert.Equal(t, "1250.00", byField["financial_amount"].Value)
	assert.Equal(t, "Invoice 0042 was issued", byField["fact_1"].Value)
	assert.Equal(t, models.FactSourceUserConfirmed, byField["fact_1"].Source)
	assert.Equal(t, models.FactSourceEvidence, byField["evidence_1"].Source)
	assert.NotContains(t, byField, "counterparty_address")
}

func TestLockFactsRecordsChosenForum(t *testing.T) {
	extracted := &models.ExtractedFacts{
		DisputeType: strPtr("debt"),
		ChosenForum: strPtr("county_court_small_claims"),
	}

	svc := NewFactLockService()
	facts := svc.LockFacts(uuid.New(), extracted)

	var forum *models.LockedFact
	for i := range facts {
		if facts[i].Field == "chosen_forum" {
			forum = &facts[i]
		}
	}
	require.NotNil(t, forum)
	assert.Equal(t, "county_court_small_claims", forum.Value)
	assert.Equal(t, models.FactSourceUserConfirmed, forum.Source)
}

func TestLockFactsRecordsPrerequisites(t *testing.T) {
	extracted := &models.ExtractedFacts{
		DisputeType: strPtr("employment"),
		Prerequisites: models.ExtractedPrerequisites{
			ACASCertificateNumber:        strPtr("R123456/78/90"),
			MandatoryReconsiderationDate: strPtr("2026-04-02"),
		},
	}

	svc := NewFactLockService()
	facts := svc.LockFacts(uuid.New(), extracted)

	byField := make(map[string]string, len(facts))
	for _, f := range facts {
		byField[f.Field] = f.Value
	}

	assert.Equal(t, "R123456/78/90", byField["acas_certificate_number"])
	assert.Equal(t, "2026-04-02", byField["mandatory_reconsideration_date"])
	assert.NotContains(t, byField, "hmrc_decision_date")
}

func TestLockFactsCapturesConcessions(t *testing.T) {
	extracted := &models.ExtractedFacts{
		Facts: []string{
			"The assignment was for 12 hours of work",
			"I only worked 11 hours so I am not claiming the last one",
		},
	}

	svc := NewFactLockService()
	facts := svc.LockFacts(uuid.New(), extracted)

	var concession *models.LockedFact
	for i := range facts {
		if facts[i].Source == models.FactSourceConcession {
			concession = &facts[i]
		}
	}

	require.NotNil(t, concession)
	assert.Equal(t, "concession_fact_2", concession.Field)
}

func TestExtractConcessions(t *testing.T) {
	concessions := ExtractConcessions([]string{
		"The client agreed a rate of £25 per hour",
		"I only worked 11 hours in the end",
		"I am not seeking interest on the debt",
	})

	require.Len(t, concessions, 2)
	assert.Equal(t, "fact_2", concessions[0].Field)
	require.NotNil(t, concessions[0].WaivedAmount)
	assert.Equal(t, 11.0, *concessions[0].WaivedAmount)
	assert.Equal(t, "fact_3", concessions[1].Field)
	assert.Nil(t, concessions[1].WaivedAmount)
}

func TestValidateAgainstLockedFactsPlaceholders(t *testing.T) {
	violations := ValidateAgainstLockedFacts("Dear [NAME], you owe £[AMOUNT] under clause {{clause}}.", nil)

	require.Len(t, violations, 3)
	for _, v := range violations {
		assert.Equal(t, "placeholder", v.Field)
		assert.Equal(t, "critical", v.Severity)
	}
}

func TestValidateAgainstLockedFactsVerbatimAnchors(t *testing.T) {
	locked := []models.LockedFact{
		{Field: "counterparty", Value: "Acme Ltd"},
		{Field: "financial_amount", Value: "1250.00"},
	}

	// Both anchors present, case-insensitively.
	violations := ValidateAgainstLockedFacts("acme ltd owes £1250.00.", locked)
	assert.Empty(t, violations)

	// Amount reworded: the locked value no longer appears verbatim.
	violations = ValidateAgainstLockedFacts("Acme Ltd owes £1,250.", locked)
	require.Len(t, violations, 1)
	assert.Equal(t, "financial_amount", violations[0].Field)
	assert.Equal(t, "critical", violations[0].Severity)
}

func TestValidateAgainstLockedFactsDisputeTypeDrift(t *testing.T) {
	locked := []models.LockedFact{{Field: "dispute_type", Value: "debt"}}

	violations := ValidateAgainstLockedFacts("Your landlord withheld the tenancy deposit.", locked)
	require.Len(t, violations, 1)
	assert.Equal(t, "dispute_type", violations[0].Field)
	assert.Contains(t, violations[0].Message, "housing")
}

func TestDetectOverclaimingHours(t *testing.T) {
	locked := []models.LockedFact{
		{Field: "fact_1", Value: "The assignment was for 12 hours", Source: models.FactSourceUserConfirmed},
	}
	concessions := []models.Concession{
		{Field: "fact_2", Statement: "I only worked 11 hours", WaivedAmount: floatPtr(11)},
	}

	// The conceded ceiling wins over the stated fact: claiming 12 hours
	// after conceding to 11 is an overclaim.
	violations := DetectOverclaiming("The Claimant worked 12 hours and was not paid.", locked, concessions)
	require.Len(t, violations, 1)
	assert.Equal(t, "hours", violations[0].Field)
	assert.Equal(t, "critical", violations[0].Severity)

	violations = DetectOverclaiming("The Claimant worked 11 hours and was not paid.", locked, concessions)
	assert.Empty(t, violations)
}

func TestDetectOverclaimingAmount(t *testing.T) {
	locked := []models.LockedFact{
		{Field: "financial_amount", Value: "1000.00"},
	}

	// Up to one year's statutory interest above the stated amount is fine.
	violations := DetectOverclaiming("You owe £1,050.00.", locked, nil)
	assert.Empty(t, violations)

	violations = DetectOverclaiming("You owe £1,100.00.", locked, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "financial_amount", violations[0].Field)
}
