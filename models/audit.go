package models

// AuditCheck names the audit stage that raised an issue
type AuditCheck string

const (
	CheckFactLock          AuditCheck = "fact_lock"
	CheckOverclaim         AuditCheck = "overclaim"
	CheckForumLanguage     AuditCheck = "forum_language"
	CheckRelief            AuditCheck = "relief"
	CheckPlaceholder       AuditCheck = "placeholder"
	CheckAmountConsistency AuditCheck = "amount_consistency"
	CheckDeadline          AuditCheck = "deadline"
	CheckEvidence          AuditCheck = "evidence"
)

// AuditIssue is a single finding from the legal audit
type AuditIssue struct {
	Check   AuditCheck `json:"check"`
	Message string     `json:"message"`
}

// LegalAuditResult is the composite final check on a generated document.
// Nothing reaches the user without passing it. Passed is true exactly
// when Critical is empty.
type LegalAuditResult struct {
	Passed          bool         `json:"passed"`
	Critical        []AuditIssue `json:"critical"`
	Warnings        []AuditIssue `json:"warnings"`
	Recommendations []string     `json:"recommendations"`
	Score           float64      `json:"score"` // 0..10
}
