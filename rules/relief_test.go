package rules

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateReliefSmallClaims(t *testing.T) {
	requested := []ReliefType{ReliefPayment, ReliefCosts, ReliefReinstatement, ReliefInjunction}
	report := ValidateRelief(requested, models.ForumCountyCourtSmallClaims, 500, nil)

	assert.False(t, report.Clean())
	assert.Len(t, report.ForbiddenRelief, 2) // costs and reinstatement
	assert.Len(t, report.UnconfirmedRelief, 1)
	assert.Len(t, report.DisproportionateRelief, 1)
}

func TestValidateReliefConfirmedInjunction(t *testing.T) {
	requested := []ReliefType{ReliefInjunction}
	report := ValidateRelief(requested, models.ForumCountyCourtSmallClaims, 500, []ReliefType{ReliefInjunction})

	assert.True(t, report.Clean())
	assert.Empty(t, report.UnconfirmedRelief)
	// Proportionality is still flagged even when the relief is confirmed.
	assert.Len(t, report.DisproportionateRelief, 1)
}

func TestValidateReliefEmploymentTribunal(t *testing.T) {
	report := ValidateRelief([]ReliefType{ReliefInterest, ReliefCompensation}, models.ForumEmploymentTribunal, 2000, nil)

	assert.False(t, report.Clean())
	assert.Len(t, report.ForbiddenRelief, 1)
	assert.Contains(t, report.ForbiddenRelief[0], "interest")
}

func TestValidateReliefUnknownForumIsPermissive(t *testing.T) {
	report := ValidateRelief([]ReliefType{ReliefInjunction}, models.Forum("magistrates_court"), 0, nil)
	assert.True(t, report.Clean())
}

func TestAllowedRelief(t *testing.T) {
	allowed := AllowedRelief(models.ForumEmploymentTribunal)
	assert.Contains(t, allowed, ReliefCompensation)
	assert.NotContains(t, allowed, ReliefInterest)

	assert.Empty(t, AllowedRelief(models.Forum("magistrates_court")))
}

func TestExtractReliefFromDocument(t *testing.T) {
	content := "We require payment of the outstanding sum together with statutory interest."
	found := ExtractReliefFromDocument(content)

	assert.Equal(t, []ReliefType{ReliefInterest, ReliefPayment}, found)
}

func TestExtractReliefFromDocumentDeduplicates(t *testing.T) {
	content := "Payment of the invoice. You must pay the sum of £100.00 being the outstanding sum."
	found := ExtractReliefFromDocument(content)

	assert.Equal(t, []ReliefType{ReliefPayment}, found)
}

func TestExtractReliefFromDocumentEmpty(t *testing.T) {
	assert.Empty(t, ExtractReliefFromDocument("Please find enclosed the documents."))
}
