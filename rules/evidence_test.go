package rules

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEvidence(t *testing.T) {
	tests := []struct {
		title string
		want  models.EvidenceType
	}{
		{"Signed contract with client", models.EvidenceContract},
		{"Rate confirmation for the assignment", models.EvidenceRateConfirmation},
		{"Invoice 0042", models.EvidenceInvoice},
		{"March payslip", models.EvidencePayslip},
		{"Email thread with the agency", models.EvidenceCorrespondence},
		{"Screenshot of the booking page", models.EvidencePhoto},
		{"Statement from my colleague", models.EvidenceWitnessAccount},
		{"Penalty charge notice", models.EvidenceOfficialNotice},
		{"GP report on my condition", models.EvidenceMedicalRecord},
		{"Assured shorthold tenancy", models.EvidenceTenancyAgreement},
		{"Miscellaneous notes", models.EvidenceOther},
	}

	for _, tt := range tests {
		item := models.EvidenceItem{Title: tt.title, FileName: "file.pdf"}
		assert.Equal(t, tt.want, ClassifyEvidence(item), "title %q", tt.title)
	}
}

func TestClassifyEvidenceUsesFileNameAndDescription(t *testing.T) {
	item := models.EvidenceItem{
		Title:       "Attachment",
		FileName:    "bank_statement_march.pdf",
		Description: "",
	}
	assert.Equal(t, models.EvidenceBankStatement, ClassifyEvidence(item))
}

func TestCheckEvidenceSufficiencyMissingCritical(t *testing.T) {
	// A debt claim with only correspondence: no critical type present, but
	// the check is advisory and never blocks a case that has any evidence.
	items := []models.EvidenceItem{
		{Title: "Email thread with the client", FileName: "emails.pdf"},
	}

	report := CheckEvidenceSufficiency(models.DomainDebt, models.ForumCountyCourtSmallClaims, items)

	assert.False(t, report.HasCritical)
	assert.True(t, report.Sufficient)
	assert.Len(t, report.MissingCritical, 3)
	assert.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.PresentTypes, models.EvidenceCorrespondence)
}

func TestCheckEvidenceSufficiencyCriticalPresent(t *testing.T) {
	items := []models.EvidenceItem{
		{Title: "Rate confirmation from the agency", FileName: "rate.pdf"},
		{Title: "Email thread", FileName: "emails.pdf"},
	}

	report := CheckEvidenceSufficiency(models.DomainDebt, models.ForumCountyCourtSmallClaims, items)

	assert.True(t, report.HasCritical)
	assert.True(t, report.Sufficient)
	assert.Len(t, report.MissingCritical, 2)
}

func TestCheckEvidenceSufficiencyNoEvidence(t *testing.T) {
	report := CheckEvidenceSufficiency(models.DomainEmployment, models.ForumEmploymentTribunal, nil)

	assert.False(t, report.HasCritical)
	assert.False(t, report.Sufficient)
	assert.NotEmpty(t, report.Recommendations)
}

func TestCheckEvidenceSufficiencyUnknownClaimType(t *testing.T) {
	items := []models.EvidenceItem{{Title: "Decision letter", FileName: "letter.pdf"}}
	report := CheckEvidenceSufficiency(models.DomainImmigration, models.ForumImmigrationTribunal, items)

	assert.True(t, report.Sufficient)
	assert.Empty(t, report.MissingCritical)
}
