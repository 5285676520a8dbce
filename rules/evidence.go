package rules

import (
	"fmt"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
)

// EvidenceRulesVersion tags the sufficiency tables
const EvidenceRulesVersion = "evidence-v1"

// evidenceKeywords maps free-text cues to evidence types. Many cues map
// onto one type; the first matching entry in table order wins.
var evidenceKeywords = []struct {
	Keywords []string
	Type     models.EvidenceType
}{
	{[]string{"contract", "agreement", "terms of engagement", "engagement letter"}, models.EvidenceContract},
	{[]string{"tenancy", "lease", "assured shorthold"}, models.EvidenceTenancyAgreement},
	{[]string{"invoice", "bill issued", "billing statement"}, models.EvidenceInvoice},
	{[]string{"rate confirmation", "agreed rate", "rate agreement", "quoted rate"}, models.EvidenceRateConfirmation},
	{[]string{"payslip", "pay slip", "wage slip", "p60", "p45"}, models.EvidencePayslip},
	{[]string{"bank statement", "transaction history", "bank transfer"}, models.EvidenceBankStatement},
	{[]string{"email", "text message", "whatsapp", "letter from", "correspondence", "message thread"}, models.EvidenceCorrespondence},
	{[]string{"photo", "photograph", "picture", "screenshot", "image"}, models.EvidencePhoto},
	{[]string{"witness", "statement from", "saw what happened", "colleague confirms"}, models.EvidenceWitnessAccount},
	{[]string{"penalty charge notice", "pcn", "notice to keeper", "decision letter", "official notice", "notice of"}, models.EvidenceOfficialNotice},
	{[]string{"medical", "gp report", "doctor", "fit note"}, models.EvidenceMedicalRecord},
}

// ClassifyEvidence maps evidence metadata into the closed EvidenceType set
func ClassifyEvidence(item models.EvidenceItem) models.EvidenceType {
	text := strings.ToLower(item.Title + " " + item.FileName + " " + item.Description)
	for _, entry := range evidenceKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				return entry.Type
			}
		}
	}
	return models.EvidenceOther
}

// claimEvidenceKey identifies a claim type as dispute domain × forum
type claimEvidenceKey struct {
	Domain models.DisputeDomain
	Forum  models.Forum
}

// claimEvidenceRule lists what evidence a claim type needs: at least one
// critical type should be present; recommended and helpful only inform
// the advisory output.
type claimEvidenceRule struct {
	Critical    []models.EvidenceType
	Recommended []models.EvidenceType
	Helpful     []models.EvidenceType
}

var claimEvidenceRules = map[claimEvidenceKey]claimEvidenceRule{
	{models.DomainDebt, models.ForumCountyCourtSmallClaims}: {
		Critical:    []models.EvidenceType{models.EvidenceRateConfirmation, models.EvidenceInvoice, models.EvidenceContract},
		Recommended: []models.EvidenceType{models.EvidenceCorrespondence, models.EvidenceBankStatement},
		Helpful:     []models.EvidenceType{models.EvidenceWitnessAccount},
	},
	{models.DomainConsumer, models.ForumCountyCourtSmallClaims}: {
		Critical:    []models.EvidenceType{models.EvidenceInvoice, models.EvidenceContract, models.EvidencePhoto},
		Recommended: []models.EvidenceType{models.EvidenceCorrespondence},
		Helpful:     []models.EvidenceType{models.EvidenceWitnessAccount},
	},
	{models.DomainEmployment, models.ForumEmploymentTribunal}: {
		Critical:    []models.EvidenceType{models.EvidenceContract, models.EvidencePayslip},
		Recommended: []models.EvidenceType{models.EvidenceCorrespondence, models.EvidenceWitnessAccount},
		Helpful:     []models.EvidenceType{models.EvidenceMedicalRecord},
	},
	{models.DomainHousing, models.ForumPropertyTribunal}: {
		Critical:    []models.EvidenceType{models.EvidenceTenancyAgreement},
		Recommended: []models.EvidenceType{models.EvidencePhoto, models.EvidenceCorrespondence},
		Helpful:     []models.EvidenceType{models.EvidenceWitnessAccount},
	},
	{models.DomainBenefits, models.ForumSocialSecurityTribunal}: {
		Critical:    []models.EvidenceType{models.EvidenceOfficialNotice},
		Recommended: []models.EvidenceType{models.EvidenceMedicalRecord, models.EvidenceBankStatement},
		Helpful:     []models.EvidenceType{models.EvidenceCorrespondence},
	},
	{models.DomainParking, models.ForumCountyCourtSmallClaims}: {
		Critical:    []models.EvidenceType{models.EvidenceOfficialNotice},
		Recommended: []models.EvidenceType{models.EvidencePhoto},
		Helpful:     []models.EvidenceType{models.EvidenceWitnessAccount},
	},
	{models.DomainTax, models.ForumTaxTribunal}: {
		Critical:    []models.EvidenceType{models.EvidenceOfficialNotice},
		Recommended: []models.EvidenceType{models.EvidenceBankStatement, models.EvidenceCorrespondence},
		Helpful:     []models.EvidenceType{},
	},
}

// CheckEvidenceSufficiency is advisory only: it never blocks generation.
// Sufficient is true whenever a critical type is present or any evidence
// exists at all — a deliberate never-block-filing policy.
func CheckEvidenceSufficiency(domain models.DisputeDomain, forum models.Forum, items []models.EvidenceItem) models.SufficiencyReport {
	report := models.SufficiencyReport{
		PresentTypes:    []models.EvidenceType{},
		MissingCritical: []models.EvidenceType{},
		Recommendations: []string{},
	}

	present := make(map[models.EvidenceType]bool)
	for _, item := range items {
		t := ClassifyEvidence(item)
		if !present[t] {
			present[t] = true
			report.PresentTypes = append(report.PresentTypes, t)
		}
	}

	rule, ok := claimEvidenceRules[claimEvidenceKey{Domain: domain, Forum: forum}]
	if !ok {
		report.HasCritical = len(items) > 0
		report.Sufficient = len(items) > 0
		return report
	}

	for _, critical := range rule.Critical {
		if present[critical] {
			report.HasCritical = true
		} else {
			report.MissingCritical = append(report.MissingCritical, critical)
		}
	}

	if !report.HasCritical {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("a %s claim is usually supported by at least one of: %s",
				domain, joinTypes(rule.Critical)))
	}
	for _, rec := range rule.Recommended {
		if !present[rec] {
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("consider adding %s evidence", rec))
		}
	}

	report.Sufficient = report.HasCritical || len(items) > 0
	return report
}

func joinTypes(types []models.EvidenceType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
