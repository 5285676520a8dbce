package service

import (
	"fmt"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/rules"
)

// AuditService is the composite final check. Nothing reaches the user
// without passing it; it is the sole authority on deliverability.
type AuditService struct{}

// NewAuditService creates a new audit service
func NewAuditService() *AuditService {
	return &AuditService{}
}

// AuditRequest carries everything the audit needs about one document
type AuditRequest struct {
	Content         string
	DocumentType    models.DocumentType
	Forum           models.Forum
	Domain          models.DisputeDomain
	LockedFacts     []models.LockedFact
	Concessions     []models.Concession
	Evidence        []models.EvidenceItem
	ClaimValue      float64
	ConfirmedRelief []rules.ReliefType
}

// Audit runs the checks in fixed order: fact lock, overclaim, forum
// language, relief, placeholder sweep, amount consistency, deadline,
// then the advisory evidence sufficiency. Score starts at 10.0 and loses
// 2.0 per critical and 0.5 per warning, floored at 0. Passed is true
// exactly when no critical issue was found.
func (s *AuditService) Audit(req AuditRequest) models.LegalAuditResult {
	result := models.LegalAuditResult{
		Critical:        []models.AuditIssue{},
		Warnings:        []models.AuditIssue{},
		Recommendations: []string{},
	}

	// 1. Fact lock: locked values must appear verbatim. Placeholder hits
	// are reported by the dedicated sweep below, not double counted here.
	for _, violation := range ValidateAgainstLockedFacts(req.Content, req.LockedFacts) {
		if violation.Field == "placeholder" {
			continue
		}
		issue := models.AuditIssue{Check: models.CheckFactLock, Message: violation.Message}
		if violation.Severity == "critical" {
			result.Critical = append(result.Critical, issue)
		} else {
			result.Warnings = append(result.Warnings, issue)
		}
	}

	// 2. Overclaim
	for _, violation := range DetectOverclaiming(req.Content, req.LockedFacts, req.Concessions) {
		result.Critical = append(result.Critical, models.AuditIssue{
			Check: models.CheckOverclaim, Message: violation.Message,
		})
	}

	// 3. Forum language
	language := rules.ValidateForumLanguage(req.Content, req.Forum)
	for _, match := range language.ForbiddenMatches {
		result.Critical = append(result.Critical, models.AuditIssue{
			Check: models.CheckForumLanguage, Message: match,
		})
	}
	for _, missing := range language.MissingRequired {
		result.Warnings = append(result.Warnings, models.AuditIssue{
			Check: models.CheckForumLanguage, Message: missing,
		})
	}
	for _, drift := range language.DriftWarnings {
		result.Warnings = append(result.Warnings, models.AuditIssue{
			Check: models.CheckForumLanguage, Message: drift,
		})
	}

	// 4. Relief: check what the document actually asks for against the
	// forum tables (the generator's self-check).
	requested := rules.ExtractReliefFromDocument(req.Content)
	relief := rules.ValidateRelief(requested, req.Forum, req.ClaimValue, req.ConfirmedRelief)
	for _, forbidden := range relief.ForbiddenRelief {
		result.Critical = append(result.Critical, models.AuditIssue{
			Check: models.CheckRelief, Message: forbidden,
		})
	}
	for _, unconfirmed := range relief.UnconfirmedRelief {
		result.Critical = append(result.Critical, models.AuditIssue{
			Check: models.CheckRelief, Message: unconfirmed,
		})
	}
	for _, disproportionate := range relief.DisproportionateRelief {
		result.Warnings = append(result.Warnings, models.AuditIssue{
			Check: models.CheckRelief, Message: disproportionate,
		})
	}
	for _, capped := range relief.CappedRelief {
		result.Warnings = append(result.Warnings, models.AuditIssue{
			Check: models.CheckRelief, Message: capped,
		})
	}

	// 5. Placeholder sweep: any unfilled bracket token blocks delivery
	for _, match := range bracketPlaceholderPattern.FindAllString(req.Content, -1) {
		result.Critical = append(result.Critical, models.AuditIssue{
			Check:   models.CheckPlaceholder,
			Message: fmt.Sprintf("unfilled placeholder %q in generated content", match),
		})
	}

	// 6. Amount consistency: a letter claiming money should state the
	// case value somewhere.
	if req.ClaimValue > 0 && isClaimDocument(req.DocumentType) {
		stated := fmt.Sprintf("%.2f", req.ClaimValue)
		if !strings.Contains(req.Content, stated) {
			result.Warnings = append(result.Warnings, models.AuditIssue{
				Check:   models.CheckAmountConsistency,
				Message: fmt.Sprintf("document does not state the case value £%s", stated),
			})
		}
	}

	// 7. Deadline / time sensitivity
	s.checkDeadlines(req, &result)

	// 8. Evidence sufficiency — advisory only, never blocks
	sufficiency := rules.CheckEvidenceSufficiency(req.Domain, req.Forum, req.Evidence)
	result.Recommendations = append(result.Recommendations, sufficiency.Recommendations...)

	result.Passed = len(result.Critical) == 0
	result.Score = 10.0 - 2.0*float64(len(result.Critical)) - 0.5*float64(len(result.Warnings))
	if result.Score < 0 {
		result.Score = 0
	}

	return result
}

// checkDeadlines verifies letters carry a response deadline and surfaces
// forum time limits as recommendations.
func (s *AuditService) checkDeadlines(req AuditRequest, result *models.LegalAuditResult) {
	text := strings.ToLower(req.Content)

	if isLetterDocument(req.DocumentType) {
		if !strings.Contains(text, "within 14 days") && !strings.Contains(text, "within 30 days") {
			result.Warnings = append(result.Warnings, models.AuditIssue{
				Check:   models.CheckDeadline,
				Message: "letter does not set a response deadline",
			})
		}
	}

	switch req.Forum {
	case models.ForumEmploymentTribunal:
		result.Recommendations = append(result.Recommendations,
			"employment tribunal claims must normally be presented within 3 months less one day of the act complained of")
	case models.ForumSocialSecurityTribunal:
		result.Recommendations = append(result.Recommendations,
			"benefits appeals must normally be lodged within 1 month of the mandatory reconsideration notice")
	}
}

func isLetterDocument(docType models.DocumentType) bool {
	switch docType {
	case models.DocLetterBeforeAction, models.DocMainLetter, models.DocCoverLetter:
		return true
	}
	return false
}

func isClaimDocument(docType models.DocumentType) bool {
	switch docType {
	case models.DocLetterBeforeAction, models.DocMainLetter, models.DocTribunalClaimForm:
		return true
	}
	return false
}
