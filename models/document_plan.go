package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentStructure distinguishes a single letter from a multi-document docket
type DocumentStructure string

const (
	StructureSingleLetter DocumentStructure = "SINGLE_LETTER"
	StructureDocket       DocumentStructure = "MULTI_DOCUMENT_DOCKET"
)

// DocumentType identifies a planned document template
type DocumentType string

const (
	DocLetterBeforeAction   DocumentType = "letter_before_action"
	DocCoverLetter          DocumentType = "cover_letter"
	DocMainLetter           DocumentType = "main_letter"
	DocEvidenceSchedule     DocumentType = "evidence_schedule"
	DocTimeline             DocumentType = "timeline"
	DocWitnessStatement     DocumentType = "witness_statement"
	DocTribunalClaimForm    DocumentType = "tribunal_claim_form"
	DocStatutoryDeclaration DocumentType = "statutory_declaration"
	DocAppealForm           DocumentType = "appeal_form"
)

// DocumentOutputStatus is the per-document generation outcome
type DocumentOutputStatus string

const (
	DocumentPending   DocumentOutputStatus = "PENDING"
	DocumentGenerated DocumentOutputStatus = "GENERATED"
	DocumentFailed    DocumentOutputStatus = "FAILED"
)

// PlannedDocument is one entry of an ordered document plan
type PlannedDocument struct {
	ID          uuid.UUID            `json:"id"`
	PlanID      uuid.UUID            `json:"plan_id"`
	Type        DocumentType         `json:"type"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Order       int                  `json:"order"`
	Required    bool                 `json:"required"`
	Status      DocumentOutputStatus `json:"status"`
	Content     *string              `json:"content"`
}

// BreakdownJSON wraps ComplexityBreakdown for JSONB storage
type BreakdownJSON ComplexityBreakdown

// Value implements driver.Valuer for JSONB
func (b BreakdownJSON) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB
func (b *BreakdownJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, b)
}

// DocumentPlan is the ordered set of documents planned for a case.
// Plans are immutable once persisted; regeneration deletes and recreates
// the whole plan in one transaction, never patches it in place.
type DocumentPlan struct {
	ID         uuid.UUID         `json:"id"`
	CaseID     uuid.UUID         `json:"case_id"`
	Complexity ComplexityClass   `json:"complexity"`
	Score      int               `json:"score"`
	Breakdown  BreakdownJSON     `json:"breakdown"`
	Structure  DocumentStructure `json:"structure"`
	Documents  []PlannedDocument `json:"documents"`
	CreatedAt  time.Time         `json:"created_at"`
}
