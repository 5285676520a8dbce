package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceType is the closed tag set evidence metadata is classified into
type EvidenceType string

const (
	EvidenceContract         EvidenceType = "CONTRACT"
	EvidenceInvoice          EvidenceType = "INVOICE"
	EvidenceRateConfirmation EvidenceType = "RATE_CONFIRMATION"
	EvidenceCorrespondence   EvidenceType = "CORRESPONDENCE"
	EvidencePayslip          EvidenceType = "PAYSLIP"
	EvidencePhoto            EvidenceType = "PHOTO"
	EvidenceWitnessAccount   EvidenceType = "WITNESS_ACCOUNT"
	EvidenceOfficialNotice   EvidenceType = "OFFICIAL_NOTICE"
	EvidenceBankStatement    EvidenceType = "BANK_STATEMENT"
	EvidenceTenancyAgreement EvidenceType = "TENANCY_AGREEMENT"
	EvidenceMedicalRecord    EvidenceType = "MEDICAL_RECORD"
	EvidenceOther            EvidenceType = "OTHER"
)

// EvidenceItem is evidence metadata supplied by the evidence collaborator.
// The core reads metadata only, never the binary content.
type EvidenceItem struct {
	ID           uuid.UUID  `json:"id"`
	CaseID       uuid.UUID  `json:"case_id"`
	Title        string     `json:"title"`
	FileName     string     `json:"file_name"`
	FileType     string     `json:"file_type"`
	Description  string     `json:"description"`
	EvidenceDate *time.Time `json:"evidence_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SufficiencyReport is the advisory output of the evidence checker.
// It never blocks generation; it only emits recommendations.
type SufficiencyReport struct {
	Sufficient      bool           `json:"sufficient"`
	HasCritical     bool           `json:"has_critical"`
	PresentTypes    []EvidenceType `json:"present_types"`
	MissingCritical []EvidenceType `json:"missing_critical"`
	Recommendations []string       `json:"recommendations"`
}
