package rules

import (
	"fmt"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
)

// ReliefRulesVersion tags the relief tables
const ReliefRulesVersion = "relief-v1"

// ReliefType is the remedy requested in a legal document
type ReliefType string

const (
	ReliefPayment       ReliefType = "payment"
	ReliefInterest      ReliefType = "interest"
	ReliefCosts         ReliefType = "costs"
	ReliefRefund        ReliefType = "refund"
	ReliefCompensation  ReliefType = "compensation"
	ReliefReinstatement ReliefType = "reinstatement"
	ReliefInjunction    ReliefType = "injunction"
	ReliefDeclaration   ReliefType = "declaration"
	ReliefApology       ReliefType = "apology"
	ReliefRepair        ReliefType = "repair"
	ReliefPenaltyCancel ReliefType = "penalty_cancellation"
)

// reliefRule is the per-forum relief constraint set
type reliefRule struct {
	Allowed []ReliefType
	// NeedsConfirmation lists relief a user must explicitly confirm
	// before a document may request it
	NeedsConfirmation []ReliefType
	Forbidden         []ReliefType
	// CostsCapZero caps recoverable costs at nil (small claims)
	CostsCapZero bool
	// ProportionalityFloor is the claim value below which heavyweight
	// relief (injunctions) is flagged as disproportionate
	ProportionalityFloor float64
}

var reliefRules = map[models.Forum]reliefRule{
	models.ForumCountyCourtSmallClaims: {
		Allowed:              []ReliefType{ReliefPayment, ReliefInterest, ReliefRefund, ReliefRepair, ReliefDeclaration},
		NeedsConfirmation:    []ReliefType{ReliefInjunction},
		Forbidden:            []ReliefType{ReliefReinstatement, ReliefCosts},
		CostsCapZero:         true,
		ProportionalityFloor: 1000,
	},
	models.ForumCountyCourtFastTrack: {
		Allowed:           []ReliefType{ReliefPayment, ReliefInterest, ReliefCosts, ReliefRefund, ReliefInjunction, ReliefDeclaration},
		NeedsConfirmation: []ReliefType{ReliefInjunction},
		Forbidden:         []ReliefType{ReliefReinstatement},
	},
	models.ForumEmploymentTribunal: {
		Allowed:           []ReliefType{ReliefCompensation, ReliefDeclaration, ReliefReinstatement},
		NeedsConfirmation: []ReliefType{ReliefReinstatement},
		Forbidden:         []ReliefType{ReliefInjunction, ReliefInterest},
	},
	models.ForumSocialSecurityTribunal: {
		Allowed:   []ReliefType{ReliefDeclaration, ReliefPayment},
		Forbidden: []ReliefType{ReliefInjunction, ReliefCosts, ReliefReinstatement},
	},
	models.ForumTaxTribunal: {
		Allowed:   []ReliefType{ReliefDeclaration, ReliefPenaltyCancel, ReliefRefund},
		Forbidden: []ReliefType{ReliefInjunction, ReliefReinstatement},
	},
	models.ForumPropertyTribunal: {
		Allowed:   []ReliefType{ReliefDeclaration, ReliefRepair, ReliefCompensation},
		Forbidden: []ReliefType{ReliefReinstatement},
	},
	models.ForumImmigrationTribunal: {
		Allowed:   []ReliefType{ReliefDeclaration},
		Forbidden: []ReliefType{ReliefInjunction, ReliefCompensation, ReliefReinstatement},
	},
}

// ReliefReport is the outcome of relief validation
type ReliefReport struct {
	ForbiddenRelief        []string `json:"forbidden_relief"`
	UnconfirmedRelief      []string `json:"unconfirmed_relief"`
	DisproportionateRelief []string `json:"disproportionate_relief"`
	CappedRelief           []string `json:"capped_relief"`
}

// Clean reports whether no hard relief violations were found
func (r ReliefReport) Clean() bool {
	return len(r.ForbiddenRelief) == 0 && len(r.UnconfirmedRelief) == 0
}

// ValidateRelief checks the requested relief against the forum's tables.
// claimValue may be zero when unknown; confirmed lists relief the user has
// explicitly confirmed.
func ValidateRelief(requested []ReliefType, forum models.Forum, claimValue float64, confirmed []ReliefType) ReliefReport {
	report := ReliefReport{
		ForbiddenRelief:        []string{},
		UnconfirmedRelief:      []string{},
		DisproportionateRelief: []string{},
		CappedRelief:           []string{},
	}

	rule, ok := reliefRules[forum]
	if !ok {
		return report
	}

	confirmedSet := make(map[ReliefType]bool, len(confirmed))
	for _, r := range confirmed {
		confirmedSet[r] = true
	}

	for _, relief := range requested {
		if containsRelief(rule.Forbidden, relief) {
			report.ForbiddenRelief = append(report.ForbiddenRelief,
				fmt.Sprintf("%s is not available in %s", relief, forum))
			continue
		}
		if containsRelief(rule.NeedsConfirmation, relief) && !confirmedSet[relief] {
			report.UnconfirmedRelief = append(report.UnconfirmedRelief,
				fmt.Sprintf("%s requires explicit confirmation before it can be requested", relief))
		}
		if relief == ReliefCosts && rule.CostsCapZero {
			report.CappedRelief = append(report.CappedRelief,
				fmt.Sprintf("costs are capped at zero in %s", forum))
		}
		if relief == ReliefInjunction && rule.ProportionalityFloor > 0 &&
			claimValue > 0 && claimValue < rule.ProportionalityFloor {
			report.DisproportionateRelief = append(report.DisproportionateRelief,
				fmt.Sprintf("an injunction is disproportionate for a claim of £%.2f", claimValue))
		}
	}

	return report
}

// AllowedRelief lists the relief types a forum can grant
func AllowedRelief(forum models.Forum) []ReliefType {
	return reliefRules[forum].Allowed
}

// reliefPhrases maps document phrasing back onto relief types for the
// generator's self-check. Many phrases map onto one relief type.
var reliefPhrases = map[string]ReliefType{
	"payment of":           ReliefPayment,
	"pay the sum":          ReliefPayment,
	"outstanding sum":      ReliefPayment,
	"statutory interest":   ReliefInterest,
	"interest pursuant":    ReliefInterest,
	"costs of this":        ReliefCosts,
	"recover costs":        ReliefCosts,
	"full refund":          ReliefRefund,
	"refund of":            ReliefRefund,
	"compensation for":     ReliefCompensation,
	"compensatory award":   ReliefCompensation,
	"reinstatement":        ReliefReinstatement,
	"re-engagement":        ReliefReinstatement,
	"injunction":           ReliefInjunction,
	"order restraining":    ReliefInjunction,
	"declaration that":     ReliefDeclaration,
	"apology":              ReliefApology,
	"carry out the repair": ReliefRepair,
	"cancel the penalty":   ReliefPenaltyCancel,
}

// ExtractReliefFromDocument scans generated text for relief phrasing so a
// document can be checked against the relief it was meant to request.
func ExtractReliefFromDocument(content string) []ReliefType {
	text := strings.ToLower(content)
	seen := make(map[ReliefType]bool)
	found := make([]ReliefType, 0)

	for phrase, relief := range reliefPhrases {
		if strings.Contains(text, phrase) && !seen[relief] {
			seen[relief] = true
			found = append(found, relief)
		}
	}

	sortRelief(found)
	return found
}

func containsRelief(list []ReliefType, r ReliefType) bool {
	for _, item := range list {
		if item == r {
			return true
		}
	}
	return false
}

// sortRelief keeps extraction output deterministic regardless of map order
func sortRelief(list []ReliefType) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j] < list[j-1]; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}
