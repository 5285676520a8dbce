package rules

import (
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
)

// RoutingRulesVersion tags the forum routing and prerequisite tables
const RoutingRulesVersion = "routing-v1"

// SmallClaimsLimit is the county court small claims track ceiling
const SmallClaimsLimit = 10000

// domainForums maps a dispute domain to its default forum when the claim
// value does not decide the track.
var domainForums = map[models.DisputeDomain]models.Forum{
	models.DomainEmployment:  models.ForumEmploymentTribunal,
	models.DomainBenefits:    models.ForumSocialSecurityTribunal,
	models.DomainTax:         models.ForumTaxTribunal,
	models.DomainHousing:     models.ForumPropertyTribunal,
	models.DomainImmigration: models.ForumImmigrationTribunal,
	models.DomainConsumer:    models.ForumCountyCourtSmallClaims,
	models.DomainDebt:        models.ForumCountyCourtSmallClaims,
	models.DomainParking:     models.ForumCountyCourtSmallClaims,
}

// DefaultForum returns the forum a domain routes to, with the county
// court track picked by claim value. ok is false for unknown domains.
func DefaultForum(domain models.DisputeDomain, claimValue float64) (models.Forum, bool) {
	forum, ok := domainForums[domain]
	if !ok {
		return "", false
	}
	if forum == models.ForumCountyCourtSmallClaims && claimValue > SmallClaimsLimit {
		return models.ForumCountyCourtFastTrack, true
	}
	return forum, true
}

// ParseForum maps a user's stated forum choice onto the closed Forum set
func ParseForum(choice string) (models.Forum, bool) {
	switch models.Forum(strings.TrimSpace(strings.ToLower(choice))) {
	case models.ForumCountyCourtSmallClaims,
		models.ForumCountyCourtFastTrack,
		models.ForumEmploymentTribunal,
		models.ForumSocialSecurityTribunal,
		models.ForumTaxTribunal,
		models.ForumPropertyTribunal,
		models.ForumImmigrationTribunal:
		return models.Forum(strings.TrimSpace(strings.ToLower(choice))), true
	}
	return "", false
}

// prerequisiteSpec declares a pre-filing step plus the locked-fact field
// that records its completion.
type prerequisiteSpec struct {
	Name        string
	Description string
	// FactField is the locked-fact key whose presence marks the step met
	FactField string
}

// forumPrerequisites lists the pre-filing steps each forum demands.
// A decision stays BLOCKED or NEEDS_INFO until all are met. The county
// court tracks carry no entry: their pre-action step is the letter before
// action, which is a document this pipeline produces, not something the
// user must have done before routing.
var forumPrerequisites = map[models.Forum][]prerequisiteSpec{
	models.ForumEmploymentTribunal: {
		{
			Name:        "ACAS Early Conciliation",
			Description: "An ACAS Early Conciliation certificate is required before an employment tribunal claim",
			FactField:   "acas_certificate_number",
		},
	},
	models.ForumSocialSecurityTribunal: {
		{
			Name:        "Mandatory Reconsideration",
			Description: "A mandatory reconsideration notice is required before a benefits appeal",
			FactField:   "mandatory_reconsideration_date",
		},
	},
	models.ForumTaxTribunal: {
		{
			Name:        "HMRC Review",
			Description: "An HMRC statutory review or decision letter is required before a tax tribunal appeal",
			FactField:   "hmrc_decision_date",
		},
	},
}

// ForumPrerequisites evaluates the forum's pre-filing steps against the
// locked facts, marking each met when its fact field is present.
func ForumPrerequisites(forum models.Forum, facts map[string]string) models.Prerequisites {
	specs := forumPrerequisites[forum]
	out := make(models.Prerequisites, 0, len(specs))
	for _, spec := range specs {
		_, met := facts[spec.FactField]
		out = append(out, models.Prerequisite{
			Name:        spec.Name,
			Description: spec.Description,
			Met:         met,
		})
	}
	return out
}

// evidenceOptionalForums are routes that may reach READY_FOR_ROUTING
// without any uploaded evidence (letter-first paths).
var evidenceOptionalForums = map[models.Forum]bool{
	models.ForumCountyCourtSmallClaims: true,
	models.ForumCountyCourtFastTrack:   true,
}

// EvidenceOptional reports whether the route can proceed without evidence
func EvidenceOptional(forum models.Forum) bool {
	return evidenceOptionalForums[forum]
}
