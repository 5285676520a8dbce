package models

// GatheringState is the conversation progress toward a routing decision.
// It is recomputed wholesale from the transcript each turn, never
// incrementally patched, so repeated polling is idempotent.
type GatheringState string

const (
	StateInitial            GatheringState = "INITIAL"
	StateFactsGathering     GatheringState = "FACTS_GATHERING"
	StateWaitingForEvidence GatheringState = "WAITING_FOR_EVIDENCE"
	StateReadyForRouting    GatheringState = "READY_FOR_ROUTING"
)

// ExtractedParties holds the parties identified in the transcript
type ExtractedParties struct {
	User         *string `json:"user"`
	Counterparty *string `json:"counterparty"`
	Relationship *string `json:"relationship"`
}

// ExtractedAddresses holds postal addresses identified in the transcript
type ExtractedAddresses struct {
	User         *string `json:"user"`
	Counterparty *string `json:"counterparty"`
}

// ExtractedPrerequisites holds pre-filing steps the user says they have
// already completed. These become locked facts and are what the routing
// prerequisite checks read.
type ExtractedPrerequisites struct {
	ACASCertificateNumber        *string `json:"acas_certificate_number"`
	MandatoryReconsiderationDate *string `json:"mandatory_reconsideration_date"`
	HMRCDecisionDate             *string `json:"hmrc_decision_date"`
}

// ExtractedFacts is the structured view of the transcript produced by the
// fact extractor. Absent data is an explicit nil, never an invented value.
type ExtractedFacts struct {
	DisputeType         *string                `json:"dispute_type"`
	Parties             ExtractedParties       `json:"parties"`
	IncidentDate        *string                `json:"incident_date"`
	FinancialAmount     *float64               `json:"financial_amount"`
	ChosenForum         *string                `json:"chosen_forum"`
	Facts               []string               `json:"facts"`
	EvidenceProvided    []string               `json:"evidence_provided"`
	Contradictions      []string               `json:"contradictions"`
	Addresses           ExtractedAddresses     `json:"addresses"`
	Prerequisites       ExtractedPrerequisites `json:"prerequisites"`
	ReadinessScore      int                    `json:"readiness_score"`
	MissingCriticalInfo []string               `json:"missing_critical_info"`
	RecommendedState    GatheringState         `json:"recommended_state"`
}

// GatheringSnapshot is the read-only projection of gathering progress
// served to external UI prompts.
type GatheringSnapshot struct {
	State               GatheringState `json:"state"`
	Domain              *string        `json:"domain"`
	Relationship        *string        `json:"relationship"`
	Counterparty        *string        `json:"counterparty"`
	Amount              *float64       `json:"amount"`
	EvidenceRequested   bool           `json:"evidence_requested"`
	EvidenceProvided    bool           `json:"evidence_provided"`
	ReadinessScore      int            `json:"readiness_score"`
	MissingCriticalInfo []string       `json:"missing_critical_info"`
}
