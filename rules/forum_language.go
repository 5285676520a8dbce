package rules

import (
	"fmt"
	"strings"

	"github.com/Theofficialsultan/disputehub-sub000/models"
)

// ForumLanguageVersion tags the vocabulary tables
const ForumLanguageVersion = "forum-language-v1"

// forumVocabulary holds the per-forum language constraints. Forbidden
// phrases are hard failures; missing required phrases are soft; drift
// heuristics only warn.
type forumVocabulary struct {
	Forbidden []string
	Required  []string
	// Drift phrases read as borrowed from another forum's register
	Drift []string
}

var forumVocabularies = map[models.Forum]forumVocabulary{
	models.ForumCountyCourtSmallClaims: {
		Forbidden: []string{"respondent", "et1", "acas", "employment tribunal"},
		Required:  []string{"claimant", "defendant"},
		Drift:     []string{"i demand", "outrageous", "disgraceful"},
	},
	models.ForumCountyCourtFastTrack: {
		Forbidden: []string{"respondent", "et1", "acas"},
		Required:  []string{"claimant", "defendant", "cpr"},
		Drift:     []string{"i demand", "outrageous"},
	},
	models.ForumEmploymentTribunal: {
		Forbidden: []string{"defendant", "cpr", "particulars of claim", "county court"},
		Required:  []string{"claimant", "respondent"},
		Drift:     []string{"plaintiff"},
	},
	models.ForumSocialSecurityTribunal: {
		Forbidden: []string{"defendant", "cpr", "claimant v"},
		Required:  []string{"appellant", "mandatory reconsideration"},
		Drift:     []string{"damages", "plaintiff"},
	},
	models.ForumTaxTribunal: {
		Forbidden: []string{"defendant", "cpr"},
		Required:  []string{"appellant", "hmrc"},
		Drift:     []string{"plaintiff", "damages"},
	},
	models.ForumPropertyTribunal: {
		Forbidden: []string{"defendant", "cpr"},
		Required:  []string{"applicant", "respondent"},
		Drift:     []string{"plaintiff"},
	},
	models.ForumImmigrationTribunal: {
		Forbidden: []string{"defendant", "cpr", "county court"},
		Required:  []string{"appellant", "home office"},
		Drift:     []string{"plaintiff", "damages"},
	},
}

// VocabularyFor exposes a forum's required and forbidden phrase lists so
// the generator can steer output before validation runs.
func VocabularyFor(forum models.Forum) (required, forbidden []string) {
	vocab, ok := forumVocabularies[forum]
	if !ok {
		return nil, nil
	}
	return vocab.Required, vocab.Forbidden
}

// LanguageReport is the outcome of a forum-language sweep
type LanguageReport struct {
	ForbiddenMatches []string `json:"forbidden_matches"`
	MissingRequired  []string `json:"missing_required"`
	DriftWarnings    []string `json:"drift_warnings"`
}

// Clean reports whether the content had no hard failures
func (r LanguageReport) Clean() bool {
	return len(r.ForbiddenMatches) == 0
}

// ValidateForumLanguage sweeps content against the forum's vocabulary
// tables. Forbidden-phrase matches are hard failures, missing required
// phrases and drift hits are advisory.
func ValidateForumLanguage(content string, forum models.Forum) LanguageReport {
	report := LanguageReport{
		ForbiddenMatches: []string{},
		MissingRequired:  []string{},
		DriftWarnings:    []string{},
	}

	vocab, ok := forumVocabularies[forum]
	if !ok {
		report.DriftWarnings = append(report.DriftWarnings,
			fmt.Sprintf("no vocabulary table for forum %q", forum))
		return report
	}

	text := strings.ToLower(content)

	for _, phrase := range vocab.Forbidden {
		if strings.Contains(text, phrase) {
			report.ForbiddenMatches = append(report.ForbiddenMatches,
				fmt.Sprintf("%q is not permitted in %s documents", phrase, forum))
		}
	}

	for _, phrase := range vocab.Required {
		if !strings.Contains(text, phrase) {
			report.MissingRequired = append(report.MissingRequired,
				fmt.Sprintf("%s documents normally include %q", forum, phrase))
		}
	}

	for _, phrase := range vocab.Drift {
		if strings.Contains(text, phrase) {
			report.DriftWarnings = append(report.DriftWarnings,
				fmt.Sprintf("%q reads as out of register for %s", phrase, forum))
		}
	}

	return report
}
