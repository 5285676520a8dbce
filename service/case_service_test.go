package service

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestStrategyFromExtraction(t *testing.T) {
	extracted := &models.ExtractedFacts{
		DisputeType:      strPtr("debt"),
		Facts:            []string{"invoice unpaid", "reminders ignored"},
		EvidenceProvided: []string{"the invoice"},
	}

	strategy := strategyFromExtraction(extracted, "payment of the invoice")

	assert.Equal(t, "debt", strategy.DisputeType)
	assert.Equal(t, []string{"invoice unpaid", "reminders ignored"}, strategy.KeyFacts)
	assert.Equal(t, []string{"the invoice"}, strategy.EvidenceMentioned)
	assert.Equal(t, "payment of the invoice", strategy.DesiredOutcome)
}

func TestStrategyFromExtractionNilDisputeType(t *testing.T) {
	strategy := strategyFromExtraction(&models.ExtractedFacts{}, "refund")
	assert.Empty(t, strategy.DisputeType)
}

func TestConfirmSummaryRequiresConfiguration(t *testing.T) {
	svc := NewCaseService()

	_, err := svc.ConfirmSummary(t.Context(), ConfirmSummaryRequest{})
	assert.Error(t, err)
}
