package models

import (
	"time"

	"github.com/google/uuid"
)

// FactSource indicates where a locked fact came from
type FactSource string

const (
	FactSourceUserConfirmed FactSource = "user_confirmed"
	FactSourceEvidence      FactSource = "evidence"
	FactSourceConcession    FactSource = "concession"
)

// LockedFact is a user-confirmed datum that must be reproduced verbatim
// in every generated document. Once written it is never overwritten;
// merges only add new field keys.
type LockedFact struct {
	ID        uuid.UUID  `json:"id"`
	CaseID    uuid.UUID  `json:"case_id"`
	Field     string     `json:"field"`
	Value     string     `json:"value"`
	Source    FactSource `json:"source"`
	LockedAt  time.Time  `json:"locked_at"`
	Immutable bool       `json:"immutable"`
}

// Concession is waiver language detected in the user's stated facts.
// Generated documents must not claim the waived portion.
type Concession struct {
	Field     string `json:"field"`
	Statement string `json:"statement"`
	// WaivedAmount is the numeric ceiling the user conceded to, when one
	// could be parsed out of the statement (e.g. "only worked 11 hours").
	WaivedAmount *float64 `json:"waived_amount,omitempty"`
}

// FactViolation is a mismatch between generated content and locked facts
type FactViolation struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Found    string `json:"found"`
	Severity string `json:"severity"` // "critical" or "warning"
	Message  string `json:"message"`
}
