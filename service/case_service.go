package service

import (
	"context"
	"errors"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/repository"

	"github.com/google/uuid"
)

// CaseService handles business logic for dispute cases, including the
// confirm-summary pipeline that locks facts, classifies the route and
// plans the document docket in one pass.
type CaseService struct {
	caseRepo     *repository.CaseRepository
	evidenceRepo *repository.EvidenceRepository
	planRepo     *repository.DocumentPlanRepository

	extractService  *ExtractService
	factLockService *FactLockService
	routingService  *RoutingService
	strategyService *StrategyService
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// WithCaseRepository sets the case repository
func WithCaseRepository(repo *repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

// WithEvidenceRepository sets the evidence repository
func WithEvidenceRepository(repo *repository.EvidenceRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.evidenceRepo = repo
	}
}

// WithDocumentPlanRepository sets the document plan repository
func WithDocumentPlanRepository(repo *repository.DocumentPlanRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.planRepo = repo
	}
}

// WithExtractService sets the fact extraction service
func WithExtractService(extract *ExtractService) CaseServiceOption {
	return func(s *CaseService) {
		s.extractService = extract
	}
}

// WithFactLockService sets the fact lock service
func WithFactLockService(factLock *FactLockService) CaseServiceOption {
	return func(s *CaseService) {
		s.factLockService = factLock
	}
}

// WithRoutingService sets the routing service
func WithRoutingService(routing *RoutingService) CaseServiceOption {
	return func(s *CaseService) {
		s.routingService = routing
	}
}

// WithStrategyService sets the strategy service
func WithStrategyService(strategy *StrategyService) CaseServiceOption {
	return func(s *CaseService) {
		s.strategyService = strategy
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseRequest represents a request to create a case
type CreateCaseRequest struct {
	UserID       uuid.UUID
	Domain       models.DisputeDomain
	Counterparty string
}

// CreateCaseResult represents the result of creating a case
type CreateCaseResult struct {
	Case *models.DisputeCase
}

// CreateCase creates a new dispute case with default values
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*CreateCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	disputeCase := &models.DisputeCase{
		UserID:       req.UserID,
		Status:       models.CaseStatusOpen,
		Domain:       req.Domain,
		Counterparty: req.Counterparty,
		Transcript:   models.Transcript{},
	}

	if disputeCase.Domain == "" {
		disputeCase.Domain = models.DomainUnknown
	}

	err := s.caseRepo.Create(ctx, disputeCase)
	if err != nil {
		return nil, err
	}

	return &CreateCaseResult{Case: disputeCase}, nil
}

// GetCaseRequest represents a request to get a case
type GetCaseRequest struct {
	ID uuid.UUID
}

// GetCaseResult represents the result of getting a case
type GetCaseResult struct {
	Case *models.DisputeCase
}

// GetCase retrieves a dispute case by ID
func (s *CaseService) GetCase(ctx context.Context, req GetCaseRequest) (*GetCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	disputeCase, err := s.caseRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetCaseResult{Case: disputeCase}, nil
}

// UpdateCaseRequest represents a request to update a case
type UpdateCaseRequest struct {
	Case *models.DisputeCase
}

// UpdateCaseResult represents the result of updating a case
type UpdateCaseResult struct {
	Case *models.DisputeCase
}

// UpdateCase updates a dispute case
func (s *CaseService) UpdateCase(ctx context.Context, req UpdateCaseRequest) (*UpdateCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	err := s.caseRepo.Update(ctx, req.Case)
	if err != nil {
		return nil, err
	}

	return &UpdateCaseResult{Case: req.Case}, nil
}

// ListCasesRequest represents a request to list cases
type ListCasesRequest struct {
	UserID uuid.UUID
	Status *models.CaseStatus
	Limit  int
	Offset int
}

// ListCasesResult represents the result of listing cases
type ListCasesResult struct {
	Cases []*models.DisputeCase
}

// ListCases lists dispute cases for a user
func (s *CaseService) ListCases(ctx context.Context, req ListCasesRequest) (*ListCasesResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	cases, err := s.caseRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListCasesResult{Cases: cases}, nil
}

// GetStateRequest represents a request for the gathering state of a case
type GetStateRequest struct {
	CaseID uuid.UUID
}

// GetStateResult is the read-only gathering snapshot for a case
type GetStateResult struct {
	Snapshot models.GatheringSnapshot
}

// GetState runs extraction over the current transcript and projects the
// result into a gathering snapshot. The state is recomputed from scratch
// each call, so polling this endpoint never advances anything.
func (s *CaseService) GetState(ctx context.Context, req GetStateRequest) (*GetStateResult, error) {
	if s.caseRepo == nil || s.evidenceRepo == nil || s.extractService == nil {
		return nil, errors.New("case service not fully configured")
	}

	disputeCase, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	evidenceCount, err := s.evidenceRepo.CountByCaseID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	extracted := s.extractService.Extract(ctx, disputeCase.Transcript, evidenceCount)
	snapshot := Snapshot(extracted, evidenceCount, EvidenceRequested(disputeCase.Transcript))

	return &GetStateResult{Snapshot: snapshot}, nil
}

// ConfirmSummaryRequest represents the user's confirmation of the dispute
// summary. DesiredOutcome is the remedy the user confirmed they want.
type ConfirmSummaryRequest struct {
	CaseID         uuid.UUID
	DesiredOutcome string
}

// ConfirmSummaryResult is the outcome of a confirm-summary pass
type ConfirmSummaryResult struct {
	LockedFacts []models.LockedFact
	Decision    *models.RoutingDecision
	Plan        *models.DocumentPlan
}

// ConfirmSummary is the pipeline step that converts a confirmed intake
// into locked facts, a routing decision and a document plan. Facts are
// locked append-only; the routing decision is recomputed and persisted;
// the plan replaces any previous plan transactionally. Planning only runs
// when the strategy passes completeness validation and routing approves.
func (s *CaseService) ConfirmSummary(ctx context.Context, req ConfirmSummaryRequest) (*ConfirmSummaryResult, error) {
	if s.caseRepo == nil || s.evidenceRepo == nil || s.planRepo == nil ||
		s.extractService == nil || s.factLockService == nil ||
		s.routingService == nil || s.strategyService == nil {
		return nil, errors.New("case service not fully configured")
	}

	disputeCase, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	evidence, err := s.evidenceRepo.ListByCaseID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	extracted := s.extractService.Extract(ctx, disputeCase.Transcript, len(evidence))

	// A forum choice stored on the case record counts as the user's
	// explicit choice even when the transcript never restates it.
	if extracted.ChosenForum == nil && disputeCase.ChosenForum != nil {
		extracted.ChosenForum = disputeCase.ChosenForum
	}

	// Lock the confirmed facts. Append-only: re-confirmation adds new
	// fields but never rewrites existing ones.
	facts := s.factLockService.LockFacts(req.CaseID, extracted)
	if err := s.factLockService.Persist(ctx, req.CaseID, facts); err != nil {
		return nil, err
	}

	locked, err := s.factLockService.Load(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	decision := s.routingService.ClassifyRoute(req.CaseID, locked, evidence)
	if err := s.routingService.Persist(ctx, decision); err != nil {
		return nil, err
	}

	result := &ConfirmSummaryResult{
		LockedFacts: locked,
		Decision:    decision,
	}

	if decision.Status != models.RoutingApproved {
		return result, nil
	}

	strategy := strategyFromExtraction(extracted, req.DesiredOutcome)
	if err := s.strategyService.ValidateStrategyCompleteness(strategy); err != nil {
		return nil, err
	}

	breakdown := s.strategyService.CalculateComplexityScore(strategy)
	plan := s.strategyService.RouteDocuments(req.CaseID, strategy, breakdown)
	if err := s.planRepo.Replace(ctx, &plan); err != nil {
		return nil, err
	}
	result.Plan = &plan

	disputeCase.Status = models.CaseStatusRouting
	disputeCase.Domain = decision.Domain
	if disputeCase.Counterparty == "" {
		disputeCase.Counterparty = decision.Counterparty
	}
	forum := string(decision.Forum)
	disputeCase.ChosenForum = &forum
	if err := s.caseRepo.Update(ctx, disputeCase); err != nil {
		return nil, err
	}

	return result, nil
}

// strategyFromExtraction builds the planning input from the confirmed
// extraction and the outcome the user stated at confirmation time.
func strategyFromExtraction(extracted *models.ExtractedFacts, desiredOutcome string) models.CaseStrategy {
	strategy := models.CaseStrategy{
		KeyFacts:          extracted.Facts,
		EvidenceMentioned: extracted.EvidenceProvided,
		DesiredOutcome:    desiredOutcome,
	}
	if extracted.DisputeType != nil {
		strategy.DisputeType = *extracted.DisputeType
	}
	return strategy
}
