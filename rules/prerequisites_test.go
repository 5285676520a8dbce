package rules

import (
	"testing"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestDefaultForum(t *testing.T) {
	tests := []struct {
		domain     models.DisputeDomain
		claimValue float64
		want       models.Forum
	}{
		{models.DomainEmployment, 0, models.ForumEmploymentTribunal},
		{models.DomainBenefits, 0, models.ForumSocialSecurityTribunal},
		{models.DomainTax, 0, models.ForumTaxTribunal},
		{models.DomainHousing, 0, models.ForumPropertyTribunal},
		{models.DomainImmigration, 0, models.ForumImmigrationTribunal},
		{models.DomainDebt, 9999, models.ForumCountyCourtSmallClaims},
		{models.DomainDebt, 10000, models.ForumCountyCourtSmallClaims},
		{models.DomainDebt, 10001, models.ForumCountyCourtFastTrack},
		{models.DomainConsumer, 15000, models.ForumCountyCourtFastTrack},
	}

	for _, tt := range tests {
		forum, ok := DefaultForum(tt.domain, tt.claimValue)
		assert.True(t, ok, "domain %s", tt.domain)
		assert.Equal(t, tt.want, forum, "domain %s value %.0f", tt.domain, tt.claimValue)
	}

	_, ok := DefaultForum(models.DomainUnknown, 0)
	assert.False(t, ok)
}

func TestParseForum(t *testing.T) {
	forum, ok := ParseForum("Employment_Tribunal")
	assert.True(t, ok)
	assert.Equal(t, models.ForumEmploymentTribunal, forum)

	forum, ok = ParseForum("  county_court_small_claims ")
	assert.True(t, ok)
	assert.Equal(t, models.ForumCountyCourtSmallClaims, forum)

	_, ok = ParseForum("high court")
	assert.False(t, ok)
}

func TestForumPrerequisites(t *testing.T) {
	prereqs := ForumPrerequisites(models.ForumEmploymentTribunal, map[string]string{})
	assert.Len(t, prereqs, 1)
	assert.Equal(t, "ACAS Early Conciliation", prereqs[0].Name)
	assert.False(t, prereqs[0].Met)

	prereqs = ForumPrerequisites(models.ForumEmploymentTribunal, map[string]string{
		"acas_certificate_number": "R123456/78/90",
	})
	assert.Len(t, prereqs, 1)
	assert.True(t, prereqs[0].Met)
}

func TestForumPrerequisitesNoneRequired(t *testing.T) {
	prereqs := ForumPrerequisites(models.ForumImmigrationTribunal, map[string]string{})
	assert.Empty(t, prereqs)

	// The letter before action is pipeline output, not a pre-filing step,
	// so the county court tracks must not gate on it.
	assert.Empty(t, ForumPrerequisites(models.ForumCountyCourtSmallClaims, map[string]string{}))
	assert.Empty(t, ForumPrerequisites(models.ForumCountyCourtFastTrack, map[string]string{}))
}

func TestEvidenceOptional(t *testing.T) {
	assert.True(t, EvidenceOptional(models.ForumCountyCourtSmallClaims))
	assert.True(t, EvidenceOptional(models.ForumCountyCourtFastTrack))
	assert.False(t, EvidenceOptional(models.ForumEmploymentTribunal))
	assert.False(t, EvidenceOptional(models.ForumSocialSecurityTribunal))
}
