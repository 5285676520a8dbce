package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/repository"
	"github.com/Theofficialsultan/disputehub-sub000/rules"

	"github.com/google/uuid"
)

// GateRejection is returned by the generation guard when the current
// routing decision does not permit generation. It carries both a
// machine-readable reason and the message shown to the user.
type GateRejection struct {
	Status        models.RoutingStatus
	Reason        string
	UserMessage   string
	Prerequisites models.Prerequisites
}

// Error implements the error interface
func (e *GateRejection) Error() string {
	return fmt.Sprintf("generation not permitted: %s (%s)", e.Reason, e.Status)
}

// RoutingService classifies a case into a jurisdiction and forum and owns
// the hard gate in front of generation. Classification runs once per
// confirm-summary event and is recomputed only on explicit
// re-confirmation, never silently mid-conversation.
type RoutingService struct {
	routingRepo *repository.RoutingRepository
}

// RoutingServiceOption is a functional option for RoutingService
type RoutingServiceOption func(*RoutingService)

// RoutingWithRepository sets the routing decision repository
func RoutingWithRepository(repo *repository.RoutingRepository) RoutingServiceOption {
	return func(s *RoutingService) {
		s.routingRepo = repo
	}
}

// NewRoutingService creates a new routing service
func NewRoutingService(opts ...RoutingServiceOption) *RoutingService {
	s := &RoutingService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClassifyRoute builds a routing decision from locked facts, the user's
// chosen forum and the evidence summary. It is deterministic: the same
// facts always produce the same decision. Anything the tables cannot
// resolve defaults to NEEDS_INFO, never to APPROVED.
func (s *RoutingService) ClassifyRoute(caseID uuid.UUID, locked []models.LockedFact, evidence []models.EvidenceItem) *models.RoutingDecision {
	facts := factMap(locked)

	decision := &models.RoutingDecision{
		CaseID:        caseID,
		Jurisdiction:  "england_wales",
		Relationship:  facts["relationship"],
		Counterparty:  facts["counterparty"],
		AllowedDocs:   []string{},
		BlockedDocs:   []string{},
		Prerequisites: models.Prerequisites{},
		ClassifiedAt:  time.Now(),
	}

	disputeType, ok := facts["dispute_type"]
	if !ok {
		decision.Status = models.RoutingNeedsInfo
		decision.Confidence = 0
		decision.Reason = "dispute type not yet confirmed"
		decision.UserMessage = "We need to confirm what kind of dispute this is before choosing where to file."
		return decision
	}
	decision.Domain = models.DisputeDomain(disputeType)

	var claimValue float64
	if amount := statedAmountValue(locked); amount != nil {
		claimValue = *amount
	}

	forum, reasoning, ok := s.resolveForum(decision.Domain, facts, claimValue)
	if !ok {
		decision.Status = models.RoutingNeedsInfo
		decision.Confidence = 0.3
		decision.Reason = "no forum could be determined for this dispute"
		decision.UserMessage = "We could not work out which court or tribunal covers this dispute. Please tell us more about it."
		return decision
	}
	decision.Forum = forum
	decision.ForumReasoning = reasoning
	decision.Confidence = 0.9
	if len(evidence) > 0 {
		decision.Confidence = 0.95
	}

	decision.Prerequisites = rules.ForumPrerequisites(forum, facts)
	decision.PrerequisitesMet = allMet(decision.Prerequisites)

	if !decision.PrerequisitesMet {
		unmet := firstUnmet(decision.Prerequisites)
		decision.Status = models.RoutingBlocked
		decision.Reason = fmt.Sprintf("prerequisite not satisfied: %s", unmet.Name)
		decision.UserMessage = unmet.Description
		decision.Alternative = alternativeFor(forum)
		return decision
	}

	decision.Status = models.RoutingApproved
	decision.Reason = "forum classified and all prerequisites satisfied"
	decision.UserMessage = fmt.Sprintf("Your case can proceed in the %s.", forumDisplayName(forum))
	decision.AllowedDocs = allowedDocsFor(forum)
	return decision
}

// resolveForum honours an explicit user forum choice when it parses,
// otherwise falls back to the domain routing table.
func (s *RoutingService) resolveForum(domain models.DisputeDomain, facts map[string]string, claimValue float64) (models.Forum, string, bool) {
	if choice, ok := facts["chosen_forum"]; ok {
		if forum, parsed := rules.ParseForum(choice); parsed {
			return forum, "forum chosen explicitly by the user", true
		}
	}

	forum, ok := rules.DefaultForum(domain, claimValue)
	if !ok {
		return "", "", false
	}

	reasoning := fmt.Sprintf("%s disputes route to the %s", domain, forumDisplayName(forum))
	if forum == models.ForumCountyCourtFastTrack {
		reasoning = fmt.Sprintf("claim value £%.2f exceeds the small claims limit", claimValue)
	}
	return forum, reasoning, true
}

// Persist stores a routing decision as the current one for its case
func (s *RoutingService) Persist(ctx context.Context, decision *models.RoutingDecision) error {
	if s.routingRepo == nil {
		return errors.New("routing repository not set")
	}
	return s.routingRepo.Create(ctx, decision)
}

// Authorize is the generation guard. It re-reads the persisted decision
// so racing or duplicate requests cannot bypass the gate, and rejects
// with a GateRejection unless the decision is APPROVED with all
// prerequisites met. A missing or unreadable decision is treated as
// NEEDS_INFO, the most conservative status.
func (s *RoutingService) Authorize(ctx context.Context, caseID uuid.UUID) (*models.RoutingDecision, error) {
	if s.routingRepo == nil {
		return nil, errors.New("routing repository not set")
	}

	decision, err := s.routingRepo.GetLatestByCaseID(ctx, caseID)
	if err != nil {
		return nil, &GateRejection{
			Status:      models.RoutingNeedsInfo,
			Reason:      "no routing decision exists for this case",
			UserMessage: "Please confirm your case summary before generating documents.",
		}
	}

	if err := CheckDecision(decision); err != nil {
		return nil, err
	}

	return decision, nil
}

// CheckDecision enforces the gate invariant on a decision in hand:
// generation may proceed only when status is APPROVED and every
// prerequisite is met.
func CheckDecision(decision *models.RoutingDecision) error {
	if decision == nil {
		return &GateRejection{
			Status:      models.RoutingNeedsInfo,
			Reason:      "no routing decision available",
			UserMessage: "Please confirm your case summary before generating documents.",
		}
	}

	if decision.Status != models.RoutingApproved || !decision.PrerequisitesMet {
		reason := decision.Reason
		if reason == "" {
			reason = "routing decision does not approve generation"
		}
		return &GateRejection{
			Status:        decision.Status,
			Reason:        reason,
			UserMessage:   decision.UserMessage,
			Prerequisites: decision.Prerequisites,
		}
	}

	return nil
}

func factMap(locked []models.LockedFact) map[string]string {
	facts := make(map[string]string, len(locked))
	for _, fact := range locked {
		facts[fact.Field] = fact.Value
	}
	return facts
}

func allMet(prerequisites models.Prerequisites) bool {
	for _, p := range prerequisites {
		if !p.Met {
			return false
		}
	}
	return true
}

func firstUnmet(prerequisites models.Prerequisites) models.Prerequisite {
	for _, p := range prerequisites {
		if !p.Met {
			return p
		}
	}
	return models.Prerequisite{}
}

// alternativeFor suggests a route the user can take while the chosen one
// is blocked.
func alternativeFor(forum models.Forum) *models.AlternativeRoute {
	switch forum {
	case models.ForumEmploymentTribunal:
		return &models.AlternativeRoute{
			Forum:       models.ForumCountyCourtSmallClaims,
			Description: "Unpaid wages below the small claims limit can alternatively be pursued as a county court debt claim.",
		}
	case models.ForumCountyCourtSmallClaims, models.ForumCountyCourtFastTrack:
		return nil
	default:
		return nil
	}
}

func forumDisplayName(forum models.Forum) string {
	names := map[models.Forum]string{
		models.ForumCountyCourtSmallClaims: "county court (small claims track)",
		models.ForumCountyCourtFastTrack:   "county court (fast track)",
		models.ForumEmploymentTribunal:     "employment tribunal",
		models.ForumSocialSecurityTribunal: "social security tribunal",
		models.ForumTaxTribunal:            "tax tribunal",
		models.ForumPropertyTribunal:       "property tribunal",
		models.ForumImmigrationTribunal:    "immigration tribunal",
	}
	if name, ok := names[forum]; ok {
		return name
	}
	return string(forum)
}

// allowedDocsFor lists the document types a forum accepts
func allowedDocsFor(forum models.Forum) []string {
	switch forum {
	case models.ForumEmploymentTribunal:
		return []string{
			string(models.DocCoverLetter), string(models.DocMainLetter),
			string(models.DocEvidenceSchedule), string(models.DocTimeline),
			string(models.DocWitnessStatement), string(models.DocTribunalClaimForm),
		}
	case models.ForumSocialSecurityTribunal:
		return []string{
			string(models.DocCoverLetter), string(models.DocMainLetter),
			string(models.DocAppealForm), string(models.DocEvidenceSchedule),
		}
	default:
		return []string{
			string(models.DocLetterBeforeAction), string(models.DocCoverLetter),
			string(models.DocMainLetter), string(models.DocEvidenceSchedule),
			string(models.DocTimeline), string(models.DocWitnessStatement),
			string(models.DocStatutoryDeclaration),
		}
	}
}
