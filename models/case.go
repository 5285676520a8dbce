package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the lifecycle status of a dispute case
type CaseStatus string

const (
	CaseStatusOpen      CaseStatus = "open"
	CaseStatusRouting   CaseStatus = "routing"
	CaseStatusGenerated CaseStatus = "generated"
	CaseStatusArchived  CaseStatus = "archived"
)

// DisputeDomain represents the legal domain of a dispute
type DisputeDomain string

const (
	DomainEmployment DisputeDomain = "employment"
	DomainConsumer   DisputeDomain = "consumer"
	DomainHousing    DisputeDomain = "housing"
	DomainBenefits   DisputeDomain = "benefits"
	DomainDebt       DisputeDomain = "debt"
	DomainParking    DisputeDomain = "parking"
	DomainTax        DisputeDomain = "tax"
	DomainImmigration DisputeDomain = "immigration"
	DomainUnknown    DisputeDomain = "unknown"
)

// TranscriptMessage is a single turn of the intake conversation.
// The session store owns the transcript; the core only reads it.
type TranscriptMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered conversation history for a case
type Transcript []TranscriptMessage

// Value implements driver.Valuer for JSONB
func (t Transcript) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB
func (t *Transcript) Scan(value interface{}) error {
	if value == nil {
		*t = make(Transcript, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*t = make(Transcript, 0)
		return nil
	}

	if len(bytes) == 0 {
		*t = make(Transcript, 0)
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// UserText concatenates the user-authored turns of the transcript
func (t Transcript) UserText() string {
	var out string
	for _, msg := range t {
		if msg.Role == "user" {
			if out != "" {
				out += "\n"
			}
			out += msg.Content
		}
	}
	return out
}

// DisputeCase represents a dispute case entity
type DisputeCase struct {
	ID     uuid.UUID  `json:"id"`
	UserID uuid.UUID  `json:"user_id"`
	Status CaseStatus `json:"status"`

	// Intake
	Domain       DisputeDomain `json:"domain"`
	Counterparty string        `json:"counterparty"`
	ChosenForum  *string       `json:"chosen_forum,omitempty"`
	Transcript   Transcript    `json:"transcript"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
