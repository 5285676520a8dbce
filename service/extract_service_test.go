package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend returns a canned response or error
type fakeBackend struct {
	response string
	err      error
}

func (f *fakeBackend) Generate(ctx context.Context, prompt, systemInstructions string) (string, error) {
	return f.response, f.err
}

func sampleTranscript() models.Transcript {
	return models.Transcript{
		{Role: "user", Content: "My client Acme Ltd has not paid my invoice for £1250."},
		{Role: "assistant", Content: "When was the invoice issued?"},
		{Role: "user", Content: "14 March 2026."},
	}
}

const extractionJSON = `{
  "dispute_type": "debt",
  "parties": {"user": "Jane Doe", "counterparty": "Acme Ltd", "relationship": "contractor"},
  "incident_date": "2026-03-14",
  "financial_amount": 1250,
  "chosen_forum": null,
  "facts": ["Invoice 0042 issued on 14 March 2026", "No payment received", "Reminders sent twice"],
  "evidence_provided": [],
  "contradictions": [],
  "addresses": {"user": null, "counterparty": null},
  "prerequisites": {"acas_certificate_number": null, "mandatory_reconsideration_date": null, "hmrc_decision_date": null}
}`

func TestExtractParsesBackendJSON(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{response: extractionJSON}))

	extracted := svc.Extract(context.Background(), sampleTranscript(), 0)

	require.NotNil(t, extracted.DisputeType)
	assert.Equal(t, "debt", *extracted.DisputeType)
	require.NotNil(t, extracted.FinancialAmount)
	assert.Equal(t, 1250.0, *extracted.FinancialAmount)
	assert.Len(t, extracted.Facts, 3)
	assert.Nil(t, extracted.Prerequisites.ACASCertificateNumber)
}

func TestExtractParsesPrerequisites(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{response: `{
	  "dispute_type": "employment",
	  "parties": {"user": "Jane Doe", "counterparty": "Acme Ltd", "relationship": null},
	  "incident_date": null,
	  "financial_amount": null,
	  "chosen_forum": null,
	  "facts": [],
	  "evidence_provided": [],
	  "contradictions": [],
	  "addresses": {"user": null, "counterparty": null},
	  "prerequisites": {"acas_certificate_number": "R123456/78/90", "mandatory_reconsideration_date": null, "hmrc_decision_date": null}
	}`}))

	extracted := svc.Extract(context.Background(), sampleTranscript(), 0)

	require.NotNil(t, extracted.Prerequisites.ACASCertificateNumber)
	assert.Equal(t, "R123456/78/90", *extracted.Prerequisites.ACASCertificateNumber)
	assert.Nil(t, extracted.Prerequisites.HMRCDecisionDate)
}

func TestExtractStripsCodeFences(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{
		response: "```json\n" + extractionJSON + "\n```",
	}))

	extracted := svc.Extract(context.Background(), sampleTranscript(), 0)

	require.NotNil(t, extracted.DisputeType)
	assert.Equal(t, "debt", *extracted.DisputeType)
}

func TestExtractDegradesOnBackendFailure(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{err: errors.New("backend unavailable")}))

	extracted := svc.Extract(context.Background(), sampleTranscript(), 0)

	assert.Nil(t, extracted.DisputeType)
	assert.Zero(t, extracted.ReadinessScore)
	assert.Equal(t, models.StateInitial, extracted.RecommendedState)
	assert.NotNil(t, extracted.Facts)
}

func TestExtractDegradesOnMalformedJSON(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{response: "I could not extract anything."}))

	extracted := svc.Extract(context.Background(), sampleTranscript(), 0)

	assert.Zero(t, extracted.ReadinessScore)
	assert.Equal(t, models.StateInitial, extracted.RecommendedState)
}

func TestEvidenceRequested(t *testing.T) {
	tests := []struct {
		name       string
		transcript models.Transcript
		want       bool
	}{
		{
			"assistant asked for an upload",
			models.Transcript{
				{Role: "user", Content: "My wages were withheld."},
				{Role: "assistant", Content: "Please upload your payslip for March."},
			},
			true,
		},
		{
			"assistant asked for a copy",
			models.Transcript{
				{Role: "assistant", Content: "Could you send us a copy of the invoice?"},
			},
			true,
		},
		{
			"user mentioning documents is not a request",
			models.Transcript{
				{Role: "user", Content: "I can upload the invoice if you need it."},
				{Role: "assistant", Content: "When was the invoice issued?"},
			},
			false,
		},
		{"empty transcript", models.Transcript{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvidenceRequested(tt.transcript))
		})
	}
}

const employmentExtractionJSON = `{
  "dispute_type": "employment",
  "parties": {"user": "Jane Doe", "counterparty": "Acme Ltd", "relationship": "employee"},
  "incident_date": "2026-03-31",
  "financial_amount": 1250,
  "chosen_forum": null,
  "facts": ["Wages for March were withheld", "The rate was agreed in writing", "Payment was chased twice"],
  "evidence_provided": [],
  "contradictions": [],
  "addresses": {"user": null, "counterparty": null}
}`

// Whether the case waits for evidence depends on the assistant actually
// having asked for some, not just on the evidence count being zero.
func TestExtractWaitsOnlyAfterEvidenceRequest(t *testing.T) {
	svc := NewExtractService(ExtractWithBackend(&fakeBackend{response: employmentExtractionJSON}))

	withRequest := models.Transcript{
		{Role: "user", Content: "Acme Ltd withheld my March wages of £1250."},
		{Role: "assistant", Content: "Please upload your payslip for March."},
	}
	extracted := svc.Extract(context.Background(), withRequest, 0)
	assert.Equal(t, 75, extracted.ReadinessScore)
	assert.Equal(t, models.StateWaitingForEvidence, extracted.RecommendedState)

	withoutRequest := models.Transcript{
		{Role: "user", Content: "Acme Ltd withheld my March wages of £1250."},
		{Role: "assistant", Content: "When were the wages due?"},
	}
	extracted = svc.Extract(context.Background(), withoutRequest, 0)
	assert.Equal(t, models.StateFactsGathering, extracted.RecommendedState)
}

func TestComputeReadiness(t *testing.T) {
	full := &models.ExtractedFacts{
		DisputeType: strPtr("debt"),
		Parties: models.ExtractedParties{
			User:         strPtr("Jane Doe"),
			Counterparty: strPtr("Acme Ltd"),
		},
		IncidentDate:    strPtr("2026-03-14"),
		FinancialAmount: floatPtr(1250),
		Facts:           []string{"a", "b", "c"},
		Addresses: models.ExtractedAddresses{
			User:         strPtr("1 High Street"),
			Counterparty: strPtr("2 Low Street"),
		},
	}

	assert.Equal(t, 95, ComputeReadiness(full, 0))
	assert.Equal(t, 100, ComputeReadiness(full, 1))

	assert.Zero(t, ComputeReadiness(&models.ExtractedFacts{}, 0))
}

func TestMissingCriticalInfo(t *testing.T) {
	missing := MissingCriticalInfo(&models.ExtractedFacts{
		DisputeType: strPtr("debt"),
		Facts:       []string{"a", "b", "c"},
	})

	assert.ElementsMatch(t, []string{"user_identity", "counterparty", "incident_date", "financial_amount"}, missing)
}

func TestDeriveState(t *testing.T) {
	empty := &models.ExtractedFacts{}
	assert.Equal(t, models.StateInitial, DeriveState(empty, 0, false))

	partial := &models.ExtractedFacts{
		DisputeType:    strPtr("employment"),
		ReadinessScore: 40,
	}
	assert.Equal(t, models.StateFactsGathering, DeriveState(partial, 0, false))

	// Ready on facts alone, but the employment route needs evidence.
	ready := &models.ExtractedFacts{
		DisputeType:    strPtr("employment"),
		ReadinessScore: 80,
	}
	assert.Equal(t, models.StateWaitingForEvidence, DeriveState(ready, 0, true))
	assert.Equal(t, models.StateReadyForRouting, DeriveState(ready, 1, true))

	// Letter-first routes may proceed without any evidence.
	letterFirst := &models.ExtractedFacts{
		DisputeType:     strPtr("debt"),
		FinancialAmount: floatPtr(900),
		ReadinessScore:  80,
	}
	assert.Equal(t, models.StateReadyForRouting, DeriveState(letterFirst, 0, true))
}

// Repeated polling with unchanged input never moves the state.
func TestDeriveStateIdempotent(t *testing.T) {
	ready := &models.ExtractedFacts{
		DisputeType:    strPtr("employment"),
		ReadinessScore: 80,
	}

	first := DeriveState(ready, 0, true)
	second := DeriveState(ready, 0, true)
	assert.Equal(t, first, second)
}

func TestSnapshot(t *testing.T) {
	extracted := &models.ExtractedFacts{
		DisputeType: strPtr("debt"),
		Parties: models.ExtractedParties{
			Counterparty: strPtr("Acme Ltd"),
		},
		FinancialAmount:     floatPtr(1250),
		ReadinessScore:      60,
		MissingCriticalInfo: []string{"incident_date"},
		RecommendedState:    models.StateFactsGathering,
	}

	snapshot := Snapshot(extracted, 2, true)

	assert.Equal(t, models.StateFactsGathering, snapshot.State)
	assert.Equal(t, "debt", *snapshot.Domain)
	assert.Equal(t, "Acme Ltd", *snapshot.Counterparty)
	assert.True(t, snapshot.EvidenceProvided)
	assert.True(t, snapshot.EvidenceRequested)
	assert.Equal(t, 60, snapshot.ReadinessScore)
}
