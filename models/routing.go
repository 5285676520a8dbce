package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RoutingStatus is the approval status that gates everything downstream
type RoutingStatus string

const (
	RoutingApproved  RoutingStatus = "APPROVED"
	RoutingBlocked   RoutingStatus = "BLOCKED"
	RoutingNeedsInfo RoutingStatus = "NEEDS_INFO"
)

// Forum identifies the court or tribunal governing vocabulary and remedies
type Forum string

const (
	ForumCountyCourtSmallClaims Forum = "county_court_small_claims"
	ForumCountyCourtFastTrack   Forum = "county_court_fast_track"
	ForumEmploymentTribunal     Forum = "employment_tribunal"
	ForumSocialSecurityTribunal Forum = "social_security_tribunal"
	ForumTaxTribunal            Forum = "tax_tribunal"
	ForumPropertyTribunal       Forum = "property_tribunal"
	ForumImmigrationTribunal    Forum = "immigration_tribunal"
)

// Prerequisite is a pre-filing step that must be satisfied before a forum
// will accept a claim (e.g. ACAS Early Conciliation before an employment
// tribunal claim).
type Prerequisite struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Met         bool   `json:"met"`
}

// AlternativeRoute is a suggested route when the chosen one is blocked
type AlternativeRoute struct {
	Forum       Forum  `json:"forum"`
	Description string `json:"description"`
}

// Prerequisites wraps a prerequisite list for JSONB storage
type Prerequisites []Prerequisite

// Value implements driver.Valuer for JSONB
func (p Prerequisites) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *Prerequisites) Scan(value interface{}) error {
	if value == nil {
		*p = make(Prerequisites, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*p = make(Prerequisites, 0)
		return nil
	}

	if len(bytes) == 0 {
		*p = make(Prerequisites, 0)
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// RoutingDecision is the hard gate's output. Generation may proceed only
// when Status == APPROVED and PrerequisitesMet is true; the guard in the
// routing service enforces that, not caller discipline.
type RoutingDecision struct {
	ID               uuid.UUID         `json:"id"`
	CaseID           uuid.UUID         `json:"case_id"`
	Status           RoutingStatus     `json:"status"`
	Confidence       float64           `json:"confidence"`
	Jurisdiction     string            `json:"jurisdiction"`
	Relationship     string            `json:"relationship"`
	Counterparty     string            `json:"counterparty"`
	Domain           DisputeDomain     `json:"domain"`
	Forum            Forum             `json:"forum"`
	ForumReasoning   string            `json:"forum_reasoning"`
	AllowedDocs      []string          `json:"allowed_docs"`
	BlockedDocs      []string          `json:"blocked_docs"`
	Prerequisites    Prerequisites     `json:"prerequisites"`
	PrerequisitesMet bool              `json:"prerequisites_met"`
	Reason           string            `json:"reason"`
	UserMessage      string            `json:"user_message"`
	Alternative      *AlternativeRoute `json:"alternative,omitempty"`
	ClassifiedAt     time.Time         `json:"classified_at"`
}
