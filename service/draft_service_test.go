package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// debtDocketContext builds the context for a small claims debt case
func debtDocketContext() *docketContext {
	locked := []models.LockedFact{
		lockedFact("dispute_type", "debt"),
		lockedFact("user_name", "Jane Doe"),
		lockedFact("counterparty", "Acme Ltd"),
		lockedFact("financial_amount", "1250.00"),
		lockedFact("fact_1", "Invoice 0042 was issued for agreed work"),
		lockedFact("fact_2", "No payment has been received despite reminders"),
	}

	return &docketContext{
		disputeCase: &models.DisputeCase{ID: uuid.New()},
		decision: &models.RoutingDecision{
			Status:           models.RoutingApproved,
			Forum:            models.ForumCountyCourtSmallClaims,
			Domain:           models.DomainDebt,
			PrerequisitesMet: true,
		},
		locked:      locked,
		facts:       factMap(locked),
		concessions: concessionsFromLocked(locked),
		evidence: []models.EvidenceItem{
			{Title: "Rate confirmation", FileName: "rate.pdf"},
		},
		claimValue: 1250,
	}
}

// employmentDocketContext builds the context for an employment tribunal case
func employmentDocketContext() *docketContext {
	locked := []models.LockedFact{
		lockedFact("dispute_type", "employment"),
		lockedFact("user_name", "Jane Doe"),
		lockedFact("counterparty", "Acme Ltd"),
		lockedFact("financial_amount", "1250.00"),
		lockedFact("acas_certificate_number", "R123456/78/90"),
		lockedFact("fact_1", "Wages for the final month were withheld"),
		lockedFact("fact_2", "The rate was agreed in writing beforehand"),
	}

	return &docketContext{
		disputeCase: &models.DisputeCase{ID: uuid.New()},
		decision: &models.RoutingDecision{
			Status:           models.RoutingApproved,
			Forum:            models.ForumEmploymentTribunal,
			Domain:           models.DomainEmployment,
			PrerequisitesMet: true,
		},
		locked:      locked,
		facts:       factMap(locked),
		concessions: concessionsFromLocked(locked),
		evidence: []models.EvidenceItem{
			{Title: "March payslip", FileName: "payslip.pdf"},
		},
		claimValue: 1250,
	}
}

func newFallbackDraftService() *DraftService {
	return NewDraftService(DraftWithAuditService(NewAuditService()))
}

func TestFallbackLetterBeforeActionPassesAudit(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := debtDocketContext()
	doc := &models.PlannedDocument{Type: models.DocLetterBeforeAction, Title: "Letter Before Action"}

	content := svc.renderFallback(doc, docCtx)
	audit := svc.auditDocument(content, doc, docCtx)

	assert.True(t, audit.Passed, "critical issues: %v", audit.Critical)
	assert.Empty(t, audit.Warnings)
	assert.Contains(t, content, "Acme Ltd")
	assert.Contains(t, content, "£1250.00")
	assert.Contains(t, content, "within 14 days")
	assert.NotContains(t, content, "[")
}

func TestFallbackDocketDocumentsPassAudit(t *testing.T) {
	svc := newFallbackDraftService()

	tests := []struct {
		name   string
		docCtx *docketContext
		doc    models.PlannedDocument
	}{
		{"cover letter", debtDocketContext(), models.PlannedDocument{Type: models.DocCoverLetter, Title: "Cover Letter"}},
		{"main letter", debtDocketContext(), models.PlannedDocument{Type: models.DocMainLetter, Title: "Main Letter"}},
		{"evidence schedule", debtDocketContext(), models.PlannedDocument{Type: models.DocEvidenceSchedule, Title: "Evidence Schedule"}},
		{"timeline", debtDocketContext(), models.PlannedDocument{Type: models.DocTimeline, Title: "Timeline of Events"}},
		{"witness statement", debtDocketContext(), models.PlannedDocument{Type: models.DocWitnessStatement, Title: "Witness Statement"}},
		{"tribunal claim form", employmentDocketContext(), models.PlannedDocument{Type: models.DocTribunalClaimForm, Title: "Tribunal Claim Form"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := svc.renderFallback(&tt.doc, tt.docCtx)
			audit := svc.auditDocument(content, &tt.doc, tt.docCtx)

			assert.True(t, audit.Passed, "critical issues: %v", audit.Critical)
			assert.NotContains(t, content, "[")
			assert.NotContains(t, content, "{{")
		})
	}
}

func TestFallbackTribunalClaimFormUsesForumVocabulary(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := employmentDocketContext()
	doc := &models.PlannedDocument{Type: models.DocTribunalClaimForm, Title: "Tribunal Claim Form"}

	content := svc.renderFallback(doc, docCtx)

	assert.Contains(t, content, "Claimant")
	assert.Contains(t, content, "Respondent")
	assert.Contains(t, content, "R123456/78/90")
	assert.NotContains(t, strings.ToLower(content), "defendant")
}

// A conceded hours ceiling must not resurface through a background fact.
func TestFallbackOmitsFactsAboveConcededHours(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := debtDocketContext()
	docCtx.locked = append(docCtx.locked,
		lockedFact("fact_3", "The assignment was for 12 hours of work"),
		models.LockedFact{
			Field:  "concession_fact_4",
			Value:  "I only worked 11 hours in the end",
			Source: models.FactSourceConcession,
		},
	)
	docCtx.facts = factMap(docCtx.locked)
	docCtx.concessions = concessionsFromLocked(docCtx.locked)

	doc := &models.PlannedDocument{Type: models.DocTimeline, Title: "Timeline of Events"}
	content := svc.renderFallback(doc, docCtx)

	assert.NotContains(t, content, "12 hours")
	assert.Contains(t, content, "Invoice 0042")
}

// A claim document with no amount on file must fail rather than render
// an invented figure.
func TestGenerateAndAuditFailsWithoutClaimAmount(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := debtDocketContext()

	withoutAmount := make([]models.LockedFact, 0, len(docCtx.locked))
	for _, fact := range docCtx.locked {
		if fact.Field == "financial_amount" {
			continue
		}
		withoutAmount = append(withoutAmount, fact)
	}
	docCtx.locked = withoutAmount
	docCtx.facts = factMap(withoutAmount)
	docCtx.claimValue = 0

	doc := &models.PlannedDocument{Type: models.DocLetterBeforeAction, Title: "Letter Before Action"}
	content, audit := svc.generateAndAudit(context.Background(), doc, docCtx)

	assert.Empty(t, content)
	assert.False(t, audit.Passed)
	require.Len(t, audit.Critical, 1)
	assert.Equal(t, models.CheckAmountConsistency, audit.Critical[0].Check)
	assert.NotContains(t, content, "£0.00")
}

func TestDerivedClaimAmount(t *testing.T) {
	locked := []models.LockedFact{
		lockedFact("fact_1", "The assignment was for 11 hours of work"),
		lockedFact("fact_2", "The agreed rate was £20 per hour"),
	}

	derived := derivedClaimAmount(locked, nil)
	require.NotNil(t, derived)
	assert.Equal(t, 220.0, *derived)

	// A conceded ceiling caps the hours used in the derivation.
	locked = append(locked, lockedFact("fact_3", "The assignment was for 12 hours of work"))
	concessions := []models.Concession{
		{Field: "fact_1", Statement: "I only worked 11 hours", WaivedAmount: floatPtr(11)},
	}
	derived = derivedClaimAmount(locked, concessions)
	require.NotNil(t, derived)
	assert.Equal(t, 220.0, *derived)

	// No rate on file means no derivation.
	assert.Nil(t, derivedClaimAmount([]models.LockedFact{
		lockedFact("fact_1", "The assignment was for 11 hours of work"),
	}, nil))
}

// With hours and a rate on file but no stated total, the fallback letter
// must carry the derived total and still pass the audit.
func TestFallbackLetterUsesDerivedAmount(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := debtDocketContext()

	withoutAmount := make([]models.LockedFact, 0, len(docCtx.locked))
	for _, fact := range docCtx.locked {
		if fact.Field == "financial_amount" {
			continue
		}
		withoutAmount = append(withoutAmount, fact)
	}
	withoutAmount = append(withoutAmount,
		lockedFact("fact_3", "The assignment was for 11 hours of work"),
		lockedFact("fact_4", "The agreed rate was £20 per hour"),
	)
	docCtx.locked = withoutAmount
	docCtx.facts = factMap(withoutAmount)

	derived := derivedClaimAmount(docCtx.locked, docCtx.concessions)
	require.NotNil(t, derived)
	docCtx.claimValue = *derived

	doc := &models.PlannedDocument{Type: models.DocLetterBeforeAction, Title: "Letter Before Action"}
	content, audit := svc.generateAndAudit(context.Background(), doc, docCtx)

	assert.True(t, audit.Passed, "critical issues: %v", audit.Critical)
	assert.Contains(t, content, "£220.00")
	assert.NotContains(t, content, "£0.00")
}

func TestGenerateAndAuditFallsBackOnBadBackendOutput(t *testing.T) {
	svc := NewDraftService(
		DraftWithAuditService(NewAuditService()),
		DraftWithBackend(&fakeBackend{response: "Dear [NAME], please pay £[AMOUNT] at once."}),
	)
	docCtx := debtDocketContext()
	doc := &models.PlannedDocument{Type: models.DocLetterBeforeAction, Title: "Letter Before Action"}

	content, audit := svc.generateAndAudit(context.Background(), doc, docCtx)

	assert.True(t, audit.Passed)
	assert.NotContains(t, content, "[NAME]")
	assert.Contains(t, content, "£1250.00")
}

func TestGenerateAndAuditAcceptsCleanBackendOutput(t *testing.T) {
	svc := NewDraftService(
		DraftWithAuditService(NewAuditService()),
		DraftWithBackend(&fakeBackend{response: cleanSmallClaimsLetter()}),
	)
	docCtx := debtDocketContext()
	doc := &models.PlannedDocument{Type: models.DocLetterBeforeAction, Title: "Letter Before Action"}

	content, audit := svc.generateAndAudit(context.Background(), doc, docCtx)

	assert.True(t, audit.Passed)
	assert.Equal(t, cleanSmallClaimsLetter(), content)
}

func TestBuildPromptCarriesFactsAndConstraints(t *testing.T) {
	svc := newFallbackDraftService()
	docCtx := debtDocketContext()
	doc := &models.PlannedDocument{Type: models.DocMainLetter, Title: "Main Letter", Description: "Principal letter setting out the claim in full"}

	prompt := svc.buildPrompt(doc, docCtx)

	assert.Contains(t, prompt, "counterparty: Acme Ltd")
	assert.Contains(t, prompt, "financial_amount: 1250.00")
	assert.Contains(t, prompt, "Exhibit A: Rate confirmation")
	assert.Contains(t, prompt, "claimant, defendant")
	assert.Contains(t, prompt, "Never use these terms")
	assert.Contains(t, prompt, "no square brackets")
}

func TestInitializeSteps(t *testing.T) {
	svc := newFallbackDraftService()
	plan := &models.DocumentPlan{
		Documents: []models.PlannedDocument{
			{Title: "Cover Letter"},
			{Title: "Main Letter"},
		},
	}

	steps := svc.initializeSteps(plan)

	require.Len(t, steps, 3)
	assert.Equal(t, "Drafting Cover Letter", steps[0].Name)
	assert.Equal(t, "Drafting Main Letter", steps[1].Name)
	assert.Equal(t, "Final Review", steps[2].Name)
	for _, step := range steps {
		assert.Equal(t, "pending", step.Status)
	}
}

func TestPartyLabels(t *testing.T) {
	ours, theirs := partyLabels(models.ForumEmploymentTribunal)
	assert.Equal(t, "Claimant", ours)
	assert.Equal(t, "Respondent", theirs)

	ours, theirs = partyLabels(models.ForumCountyCourtSmallClaims)
	assert.Equal(t, "Claimant", ours)
	assert.Equal(t, "Defendant", theirs)

	ours, theirs = partyLabels(models.ForumTaxTribunal)
	assert.Equal(t, "Appellant", ours)
	assert.Equal(t, "HMRC", theirs)
}

func TestCounterpartyStyle(t *testing.T) {
	salutation, isCompany := counterpartyStyle("Acme Ltd")
	assert.Equal(t, "Dear Sirs", salutation)
	assert.True(t, isCompany)

	salutation, isCompany = counterpartyStyle("John Smith")
	assert.Equal(t, "Dear John Smith", salutation)
	assert.False(t, isCompany)
}

func TestExhibitLabel(t *testing.T) {
	assert.Equal(t, "A", exhibitLabel(0))
	assert.Equal(t, "B", exhibitLabel(1))
	assert.Equal(t, "Z", exhibitLabel(25))
	assert.Equal(t, "AA", exhibitLabel(26))
	assert.Equal(t, "AB", exhibitLabel(27))
}

func TestConfirmedRelief(t *testing.T) {
	locked := []models.LockedFact{
		lockedFact("confirmed_relief", "reinstatement, injunction"),
	}

	confirmed := confirmedRelief(locked)
	require.Len(t, confirmed, 2)
	assert.Equal(t, "reinstatement", string(confirmed[0]))
	assert.Equal(t, "injunction", string(confirmed[1]))

	assert.Empty(t, confirmedRelief(nil))
}
