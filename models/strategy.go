package models

// CaseStrategy is the confirmed dispute summary that drives complexity
// scoring and document planning. It must pass completeness validation
// before any planning happens.
type CaseStrategy struct {
	DisputeType       string   `json:"dispute_type"`
	KeyFacts          []string `json:"key_facts"`
	EvidenceMentioned []string `json:"evidence_mentioned"`
	DesiredOutcome    string   `json:"desired_outcome"`
}

// ComplexityClass is the two-way classification of a case
type ComplexityClass string

const (
	ComplexitySimple  ComplexityClass = "SIMPLE"
	ComplexityComplex ComplexityClass = "COMPLEX"
)

// FactorScore is one factor's contribution to the complexity total
type FactorScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ComplexityBreakdown is the full scoring trace for a classification.
// AlgorithmVersion tags the scoring model so a recalibrated model can be
// introduced without ambiguity about which one produced a stored result.
type ComplexityBreakdown struct {
	DisputeType      FactorScore     `json:"dispute_type"`
	FactCount        FactorScore     `json:"fact_count"`
	Evidence         FactorScore     `json:"evidence"`
	Outcome          FactorScore     `json:"outcome"`
	TotalScore       int             `json:"total_score"`
	Threshold        int             `json:"threshold"`
	Classification   ComplexityClass `json:"classification"`
	AlgorithmVersion string          `json:"algorithm_version"`
}
