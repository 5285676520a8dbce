package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Theofficialsultan/disputehub-sub000/models"
	"github.com/Theofficialsultan/disputehub-sub000/repository"
	"github.com/Theofficialsultan/disputehub-sub000/rules"

	"github.com/google/uuid"
)

// DraftService runs docket generation. Every document passes through the
// legal audit before it is stored as GENERATED; the routing gate is
// checked both at job creation and again inside the worker so a stale or
// racing request can never produce output for an unapproved case.
type DraftService struct {
	caseRepo     *repository.CaseRepository
	planRepo     *repository.DocumentPlanRepository
	jobRepo      *repository.GenerationJobRepository
	evidenceRepo *repository.EvidenceRepository

	factLockService *FactLockService
	routingService  *RoutingService
	auditService    *AuditService
	backend         Backend
}

// DraftServiceOption is a functional option for DraftService
type DraftServiceOption func(*DraftService)

// DraftWithCaseRepository sets the case repository
func DraftWithCaseRepository(repo *repository.CaseRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.caseRepo = repo
	}
}

// DraftWithDocumentPlanRepository sets the document plan repository
func DraftWithDocumentPlanRepository(repo *repository.DocumentPlanRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.planRepo = repo
	}
}

// DraftWithGenerationJobRepository sets the generation job repository
func DraftWithGenerationJobRepository(repo *repository.GenerationJobRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.jobRepo = repo
	}
}

// DraftWithEvidenceRepository sets the evidence repository
func DraftWithEvidenceRepository(repo *repository.EvidenceRepository) DraftServiceOption {
	return func(s *DraftService) {
		s.evidenceRepo = repo
	}
}

// DraftWithFactLockService sets the fact lock service
func DraftWithFactLockService(factLock *FactLockService) DraftServiceOption {
	return func(s *DraftService) {
		s.factLockService = factLock
	}
}

// DraftWithRoutingService sets the routing service
func DraftWithRoutingService(routing *RoutingService) DraftServiceOption {
	return func(s *DraftService) {
		s.routingService = routing
	}
}

// DraftWithAuditService sets the audit service
func DraftWithAuditService(audit *AuditService) DraftServiceOption {
	return func(s *DraftService) {
		s.auditService = audit
	}
}

// DraftWithBackend sets the generation backend
func DraftWithBackend(backend Backend) DraftServiceOption {
	return func(s *DraftService) {
		s.backend = backend
	}
}

// NewDraftService creates a new draft service
func NewDraftService(opts ...DraftServiceOption) *DraftService {
	s := &DraftService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrCaseNotFound      = errors.New("case not found")
	ErrPlanNotFound      = errors.New("document plan not found")
	ErrJobCreationFailed = errors.New("failed to create generation job")
	ErrGenerationFailed  = errors.New("failed to generate content")
	ErrJobNotFound       = errors.New("generation job not found")
)

// GenerateDocketRequest represents a request to generate the docket
type GenerateDocketRequest struct {
	CaseID uuid.UUID
}

// GenerateDocketResult represents the result of creating a generation job
type GenerateDocketResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.GenerationJob
}

// GenerateDocket checks the routing gate, creates a generation job and
// returns immediately. This method must complete in <100ms to avoid HTTP
// timeouts; the actual generation runs in ProcessDocket.
func (s *DraftService) GenerateDocket(ctx context.Context, req GenerateDocketRequest) (*GenerateDocketResult, error) {
	if s.jobRepo == nil || s.planRepo == nil || s.routingService == nil {
		return nil, errors.New("draft service not fully configured")
	}

	// Gate first. No job exists unless routing approved the case.
	if _, err := s.routingService.Authorize(ctx, req.CaseID); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByCaseID(ctx, req.CaseID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	job := &models.GenerationJob{
		CaseID: req.CaseID,
		PlanID: plan.ID,
		Status: models.JobStatusPending,
		Steps:  s.initializeSteps(plan),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreationFailed
	}

	return &GenerateDocketResult{JobID: job.ID}, nil
}

// GetPlan retrieves the document plan with its current per-document
// generation results for a case.
func (s *DraftService) GetPlan(ctx context.Context, caseID uuid.UUID) (*models.DocumentPlan, error) {
	if s.planRepo == nil {
		return nil, errors.New("document plan repository not set")
	}
	plan, err := s.planRepo.GetByCaseID(ctx, caseID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// GetJobStatus retrieves the status of a generation job
func (s *DraftService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// initializeSteps creates one step per planned document plus a final review
func (s *DraftService) initializeSteps(plan *models.DocumentPlan) models.GenerationSteps {
	steps := make(models.GenerationSteps, 0, len(plan.Documents)+1)

	for _, doc := range plan.Documents {
		steps = append(steps, models.GenerationStep{
			Name:   "Drafting " + doc.Title,
			Status: "pending",
		})
	}

	steps = append(steps, models.GenerationStep{
		Name:   "Final Review",
		Status: "pending",
	})

	return steps
}

// docketContext carries everything one generation pass needs about a case
type docketContext struct {
	disputeCase *models.DisputeCase
	decision    *models.RoutingDecision
	locked      []models.LockedFact
	facts       map[string]string
	concessions []models.Concession
	evidence    []models.EvidenceItem
	claimValue  float64
}

// ProcessDocket performs the actual generation work in the background.
// This method runs in a goroutine and can take 45-90 seconds.
func (s *DraftService) ProcessDocket(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil || s.planRepo == nil || s.caseRepo == nil ||
		s.evidenceRepo == nil || s.factLockService == nil ||
		s.routingService == nil || s.auditService == nil {
		return errors.New("draft service not fully configured")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load generation job: %w", err)
	}

	// Re-check the gate inside the worker. A decision that changed between
	// job creation and pickup must still stop generation.
	decision, err := s.routingService.Authorize(ctx, job.CaseID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "generation not permitted: "+err.Error())
		return err
	}

	docCtx, err := s.loadDocketContext(ctx, job.CaseID, decision)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load case data: "+err.Error())
		return err
	}

	plan, err := s.planRepo.GetByCaseID(ctx, job.CaseID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load document plan: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	generated := 0
	failed := make([]string, 0)

	for i := range plan.Documents {
		doc := &plan.Documents[i]
		stepName := "Drafting " + doc.Title

		if err := s.updateStepStatus(ctx, jobID, stepName, "in_progress"); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}

		content, audit := s.generateAndAudit(ctx, doc, docCtx)

		status := models.DocumentGenerated
		stepStatus := "completed"
		if !audit.Passed {
			status = models.DocumentFailed
			stepStatus = "failed"
			failed = append(failed, doc.Title)
			log.Printf("Document %s failed audit (score %.1f): %d critical issues",
				doc.Title, audit.Score, len(audit.Critical))
		} else {
			generated++
		}

		if err := s.planRepo.SetDocumentResult(ctx, doc.ID, status, &content); err != nil {
			s.markJobFailed(ctx, jobID, "failed to store document: "+err.Error())
			return err
		}

		if err := s.updateStepStatus(ctx, jobID, stepName, stepStatus); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}
	}

	if err := s.updateStepStatus(ctx, jobID, "Final Review", "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if generated == 0 {
		s.markJobFailed(ctx, jobID, "no document passed the legal audit")
		return ErrGenerationFailed
	}

	if len(failed) > 0 {
		log.Printf("Docket for case %s completed with failed documents: %s",
			job.CaseID, strings.Join(failed, ", "))
	}

	docCtx.disputeCase.Status = models.CaseStatusGenerated
	now := time.Now()
	docCtx.disputeCase.CompletedAt = &now
	if err := s.caseRepo.Update(ctx, docCtx.disputeCase); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update case: "+err.Error())
		return err
	}

	if err := s.updateStepStatus(ctx, jobID, "Final Review", "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

func (s *DraftService) loadDocketContext(ctx context.Context, caseID uuid.UUID, decision *models.RoutingDecision) (*docketContext, error) {
	disputeCase, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	locked, err := s.factLockService.Load(ctx, caseID)
	if err != nil {
		return nil, err
	}

	evidence, err := s.evidenceRepo.ListByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	docCtx := &docketContext{
		disputeCase: disputeCase,
		decision:    decision,
		locked:      locked,
		facts:       factMap(locked),
		concessions: concessionsFromLocked(locked),
		evidence:    evidence,
	}
	if amount := statedAmountValue(locked); amount != nil {
		docCtx.claimValue = *amount
	} else if derived := derivedClaimAmount(locked, docCtx.concessions); derived != nil {
		docCtx.claimValue = *derived
	}

	return docCtx, nil
}

// hourlyRatePattern matches an agreed hourly rate stated in the facts
var hourlyRatePattern = regexp.MustCompile(`£\s*([\d,]+(?:\.\d+)?)\s*(?:per|an|/)\s*hour`)

// derivedClaimAmount computes hours × rate when the facts state both but
// no total amount was locked. The hours figure respects any concession
// ceiling, so a conceded claim derives the conceded total.
func derivedClaimAmount(locked []models.LockedFact, concessions []models.Concession) *float64 {
	hours := statedHoursCeiling(locked, concessions)
	if hours == nil {
		return nil
	}
	for _, fact := range locked {
		m := hourlyRatePattern.FindStringSubmatch(strings.ToLower(fact.Value))
		if m == nil {
			continue
		}
		if rate, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			v := *hours * rate
			return &v
		}
	}
	return nil
}

// generateAndAudit produces the document content and its audit result.
// The backend is tried first; a backend failure or an audit failure on
// backend output falls back to the deterministic template renderer, which
// is audited in turn. The audit of whatever content is returned is final.
func (s *DraftService) generateAndAudit(ctx context.Context, doc *models.PlannedDocument, docCtx *docketContext) (string, models.LegalAuditResult) {
	// A document that must state the claim amount fails outright when no
	// amount is locked and none can be derived. Rendering a made-up
	// figure is worse than no document.
	if isClaimDocument(doc.Type) && docCtx.claimValue <= 0 {
		return "", models.LegalAuditResult{
			Critical: []models.AuditIssue{{
				Check:   models.CheckAmountConsistency,
				Message: "no claim amount is available for a document that must state one",
			}},
			Warnings:        []models.AuditIssue{},
			Recommendations: []string{},
			Score:           8.0,
		}
	}

	if s.backend != nil {
		content, err := s.backend.Generate(ctx, s.buildPrompt(doc, docCtx), documentSystemInstruction)
		if err == nil {
			audit := s.auditDocument(content, doc, docCtx)
			if audit.Passed {
				return content, audit
			}
			log.Printf("Backend output for %s failed audit, falling back to template", doc.Title)
		} else {
			log.Printf("Backend generation for %s failed, falling back to template: %v", doc.Title, err)
		}
	}

	content := s.renderFallback(doc, docCtx)
	return content, s.auditDocument(content, doc, docCtx)
}

func (s *DraftService) auditDocument(content string, doc *models.PlannedDocument, docCtx *docketContext) models.LegalAuditResult {
	return s.auditService.Audit(AuditRequest{
		Content:         content,
		DocumentType:    doc.Type,
		Forum:           docCtx.decision.Forum,
		Domain:          docCtx.decision.Domain,
		LockedFacts:     docCtx.locked,
		Concessions:     docCtx.concessions,
		Evidence:        docCtx.evidence,
		ClaimValue:      docCtx.claimValue,
		ConfirmedRelief: confirmedRelief(docCtx.locked),
	})
}

const documentSystemInstruction = `You are drafting formal legal correspondence for a dispute in England and Wales. Use measured, factual language. Never invent facts, dates or figures; use only what the FACTS section provides.`

// buildPrompt assembles the per-document prompt. The locked facts go in
// verbatim, the forum vocabulary tables become explicit instructions, and
// the formatting constraints mirror what the audit will enforce.
func (s *DraftService) buildPrompt(doc *models.PlannedDocument, docCtx *docketContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Draft the following document for a %s dispute: %s.\n%s\n\n",
		docCtx.decision.Domain, doc.Title, doc.Description)

	b.WriteString("FACTS (use these values exactly as written, never reworded or rounded):\n")
	for _, fact := range docCtx.locked {
		fmt.Fprintf(&b, "- %s: %s\n", fact.Field, fact.Value)
	}
	b.WriteString("\n")

	if len(docCtx.evidence) > 0 {
		b.WriteString("EVIDENCE ON FILE (reference by exhibit label, e.g. (Exhibit A)):\n")
		for i, item := range docCtx.evidence {
			fmt.Fprintf(&b, "- Exhibit %s: %s (%s)\n", exhibitLabel(i), item.Title, item.FileName)
		}
		b.WriteString("\n")
	}

	required, forbidden := rules.VocabularyFor(docCtx.decision.Forum)
	fmt.Fprintf(&b, "FORUM: %s\n", docCtx.decision.Forum)
	if len(required) > 0 {
		fmt.Fprintf(&b, "Use this terminology: %s.\n", strings.Join(required, ", "))
	}
	if len(forbidden) > 0 {
		fmt.Fprintf(&b, "Never use these terms: %s.\n", strings.Join(forbidden, ", "))
	}

	allowed := rules.AllowedRelief(docCtx.decision.Forum)
	if len(allowed) > 0 {
		names := make([]string, len(allowed))
		for i, r := range allowed {
			names[i] = string(r)
		}
		fmt.Fprintf(&b, "Only request remedies this forum can grant: %s.\n", strings.Join(names, ", "))
	}

	b.WriteString(`
RULES:
- Output plain text only, no markdown.
- No placeholder tokens of any kind: no square brackets, no blanks to fill in.
- Write monetary amounts exactly as they appear in FACTS, e.g. £1250.00.
- Never claim more hours or money than the FACTS state.
- If a response deadline is appropriate, ask for a reply within 14 days.

Write the document now:`)

	return b.String()
}

// renderFallback produces the document deterministically from the locked
// facts when the backend is unavailable or its output fails the audit.
// Templates use only forum-safe vocabulary and verbatim fact values.
func (s *DraftService) renderFallback(doc *models.PlannedDocument, docCtx *docketContext) string {
	switch doc.Type {
	case models.DocLetterBeforeAction:
		return s.renderLetterBeforeAction(docCtx)
	case models.DocCoverLetter:
		return s.renderCoverLetter(docCtx)
	case models.DocMainLetter:
		return s.renderMainLetter(docCtx)
	case models.DocEvidenceSchedule:
		return s.renderEvidenceSchedule(docCtx)
	case models.DocTimeline:
		return s.renderTimeline(docCtx)
	case models.DocWitnessStatement:
		return s.renderWitnessStatement(docCtx)
	case models.DocTribunalClaimForm:
		return s.renderTribunalClaimForm(docCtx)
	case models.DocStatutoryDeclaration:
		return s.renderStatutoryDeclaration(docCtx)
	case models.DocAppealForm:
		return s.renderAppealForm(docCtx)
	}
	return s.renderMainLetter(docCtx)
}

// partyLabels returns the forum's terms for the two sides
func partyLabels(forum models.Forum) (ours, theirs string) {
	switch forum {
	case models.ForumEmploymentTribunal:
		return "Claimant", "Respondent"
	case models.ForumSocialSecurityTribunal:
		return "Appellant", "Respondent"
	case models.ForumTaxTribunal:
		return "Appellant", "HMRC"
	case models.ForumPropertyTribunal:
		return "Applicant", "Respondent"
	case models.ForumImmigrationTribunal:
		return "Appellant", "the Home Office"
	default:
		return "Claimant", "Defendant"
	}
}

// counterpartyStyle returns how to address the counterparty. Companies
// (Ltd, Limited, plc, LLP suffixes) get the corporate salutation.
func counterpartyStyle(name string) (salutation string, isCompany bool) {
	lower := strings.ToLower(name)
	for _, suffix := range []string{" ltd", " limited", " plc", " llp"} {
		if strings.HasSuffix(lower, suffix) || strings.Contains(lower, suffix+" ") {
			return "Dear Sirs", true
		}
	}
	return "Dear " + name, false
}

func (s *DraftService) renderLetterBeforeAction(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)
	counterparty := docCtx.facts["counterparty"]
	salutation, _ := counterpartyStyle(counterparty)

	b.WriteString("LETTER BEFORE ACTION\n\n")
	s.writeAddressBlock(&b, docCtx)
	fmt.Fprintf(&b, "%s,\n\n", salutation)
	fmt.Fprintf(&b, "Re: Outstanding sum of £%s\n\n", s.amountString(docCtx))

	fmt.Fprintf(&b, "This letter is sent before the issue of proceedings in which %s would be named as %s and you, %s, as %s.\n\n",
		s.userName(docCtx), strings.ToLower(ours), counterparty, strings.ToLower(theirs))

	s.writeFactParagraphs(&b, docCtx)
	s.writeClaimParagraph(&b, docCtx)
	s.writeComplianceLine(&b, docCtx)

	b.WriteString("Unless payment in full is received within 14 days of the date of this letter, proceedings will be issued without further notice. Proceedings may result in additional interest and court fees becoming payable.\n\n")
	s.writeEvidenceReferences(&b, docCtx)
	fmt.Fprintf(&b, "Yours faithfully,\n%s\n", s.userName(docCtx))

	return b.String()
}

func (s *DraftService) renderCoverLetter(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)
	counterparty := docCtx.facts["counterparty"]

	b.WriteString("COVER LETTER\n\n")
	s.writeAddressBlock(&b, docCtx)
	fmt.Fprintf(&b, "Re: %s (%s) and %s (%s)\n\n", s.userName(docCtx), ours, counterparty, theirs)
	b.WriteString("Please find enclosed the documents in support of the matters set out in the accompanying correspondence. Each enclosure is listed in the evidence schedule and referenced by exhibit label.\n\n")
	s.writeComplianceLine(&b, docCtx)
	b.WriteString("We would be grateful for your acknowledgement within 14 days.\n\n")
	fmt.Fprintf(&b, "Yours faithfully,\n%s\n", s.userName(docCtx))

	return b.String()
}

func (s *DraftService) renderMainLetter(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)
	counterparty := docCtx.facts["counterparty"]
	salutation, _ := counterpartyStyle(counterparty)

	b.WriteString("LETTER OF CLAIM\n\n")
	s.writeAddressBlock(&b, docCtx)
	fmt.Fprintf(&b, "%s,\n\n", salutation)
	fmt.Fprintf(&b, "This letter sets out the claim of %s (the %s) against %s (the %s).\n\n",
		s.userName(docCtx), ours, counterparty, theirs)

	s.writeFactParagraphs(&b, docCtx)
	s.writeClaimParagraph(&b, docCtx)
	s.writeComplianceLine(&b, docCtx)

	b.WriteString("Please respond within 14 days of the date of this letter.\n\n")
	s.writeEvidenceReferences(&b, docCtx)
	fmt.Fprintf(&b, "Yours faithfully,\n%s\n", s.userName(docCtx))

	return b.String()
}

func (s *DraftService) renderEvidenceSchedule(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)

	b.WriteString("EVIDENCE SCHEDULE\n\n")
	fmt.Fprintf(&b, "%s: %s\n%s: %s\n\n", ours, s.userName(docCtx), theirs, docCtx.facts["counterparty"])

	if len(docCtx.evidence) == 0 {
		b.WriteString("No documentary evidence is enclosed at this stage. Further evidence will be served when available.\n")
		return b.String()
	}

	for i, item := range docCtx.evidence {
		desc := item.Description
		if desc == "" {
			desc = item.Title
		}
		fmt.Fprintf(&b, "Exhibit %s: %s. %s\n", exhibitLabel(i), item.Title, desc)
	}

	return b.String()
}

func (s *DraftService) renderTimeline(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)

	b.WriteString("TIMELINE OF EVENTS\n\n")
	fmt.Fprintf(&b, "%s: %s\n%s: %s\n\n", ours, s.userName(docCtx), theirs, docCtx.facts["counterparty"])

	if date, ok := docCtx.facts["incident_date"]; ok {
		fmt.Fprintf(&b, "%s: The events giving rise to this dispute occurred.\n", date)
	}

	n := 1
	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	for _, fact := range orderedNumberedFacts(docCtx.locked) {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, fact)
		n++
	}

	return b.String()
}

func (s *DraftService) renderWitnessStatement(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)

	b.WriteString("WITNESS STATEMENT\n\n")
	fmt.Fprintf(&b, "In the matter between %s (%s) and %s (%s)\n\n",
		s.userName(docCtx), ours, docCtx.facts["counterparty"], theirs)
	fmt.Fprintf(&b, "I, %s, state as follows:\n\n", s.userName(docCtx))

	n := 1
	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	for _, fact := range orderedNumberedFacts(docCtx.locked) {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, fact)
		n++
	}

	b.WriteString("\nI believe that the facts stated in this witness statement are true. I understand that proceedings for contempt of court may be brought against anyone who makes, or causes to be made, a false statement in a document verified by a statement of truth without an honest belief in its truth.\n\n")
	fmt.Fprintf(&b, "Signed: %s\n", s.userName(docCtx))

	return b.String()
}

func (s *DraftService) renderTribunalClaimForm(docCtx *docketContext) string {
	var b strings.Builder
	counterparty := docCtx.facts["counterparty"]

	b.WriteString("TRIBUNAL CLAIM DETAILS\n\n")
	fmt.Fprintf(&b, "Claimant: %s\n", s.userName(docCtx))
	fmt.Fprintf(&b, "Respondent: %s\n", counterparty)
	if cert, ok := docCtx.facts["acas_certificate_number"]; ok {
		fmt.Fprintf(&b, "ACAS early conciliation certificate number: %s\n", cert)
	}
	b.WriteString("\nDetails of the claim:\n\n")

	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	n := 1
	for _, fact := range orderedNumberedFacts(docCtx.locked) {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, fact)
		n++
	}

	fmt.Fprintf(&b, "\nThe Claimant seeks compensation for the losses set out above, amounting to £%s.\n", s.amountString(docCtx))

	return b.String()
}

func (s *DraftService) renderStatutoryDeclaration(docCtx *docketContext) string {
	var b strings.Builder

	b.WriteString("STATUTORY DECLARATION\n\n")
	fmt.Fprintf(&b, "I, %s, do solemnly and sincerely declare that:\n\n", s.userName(docCtx))
	b.WriteString("1. I was not the driver of the vehicle at the time of the alleged contravention.\n")

	n := 2
	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	for _, fact := range orderedNumberedFacts(docCtx.locked) {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, fact)
		n++
	}

	b.WriteString("\nAnd I make this solemn declaration conscientiously believing the same to be true and by virtue of the provisions of the Statutory Declarations Act 1835.\n\n")
	fmt.Fprintf(&b, "Declared by: %s\n", s.userName(docCtx))

	return b.String()
}

func (s *DraftService) renderAppealForm(docCtx *docketContext) string {
	var b strings.Builder
	ours, theirs := partyLabels(docCtx.decision.Forum)

	b.WriteString("NOTICE OF APPEAL\n\n")
	fmt.Fprintf(&b, "%s: %s\n%s: %s\n", ours, s.userName(docCtx), theirs, docCtx.facts["counterparty"])

	switch docCtx.decision.Forum {
	case models.ForumSocialSecurityTribunal:
		if date, ok := docCtx.facts["mandatory_reconsideration_date"]; ok {
			fmt.Fprintf(&b, "Date of mandatory reconsideration notice: %s\n", date)
		} else {
			b.WriteString("The Appellant has completed mandatory reconsideration of the decision under appeal.\n")
		}
	case models.ForumTaxTribunal:
		if date, ok := docCtx.facts["hmrc_decision_date"]; ok {
			fmt.Fprintf(&b, "Date of HMRC decision under appeal: %s\n", date)
		}
	}

	b.WriteString("\nGrounds of appeal:\n\n")
	n := 1
	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	for _, fact := range orderedNumberedFacts(docCtx.locked) {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", n, fact)
		n++
	}

	fmt.Fprintf(&b, "\nThe %s asks for a declaration that the decision under appeal is wrong and should be set aside.\n", ours)

	return b.String()
}

// writeAddressBlock emits the parties' addresses when locked
func (s *DraftService) writeAddressBlock(b *strings.Builder, docCtx *docketContext) {
	if addr, ok := docCtx.facts["counterparty_address"]; ok {
		fmt.Fprintf(b, "To: %s\n%s\n\n", docCtx.facts["counterparty"], addr)
	}
	if addr, ok := docCtx.facts["user_address"]; ok {
		fmt.Fprintf(b, "From: %s\n%s\n\n", s.userName(docCtx), addr)
	}
}

// writeFactParagraphs emits the numbered background facts, skipping any
// line that would claim hours above the stated ceiling.
func (s *DraftService) writeFactParagraphs(b *strings.Builder, docCtx *docketContext) {
	facts := orderedNumberedFacts(docCtx.locked)
	if len(facts) == 0 {
		return
	}

	b.WriteString("The background to this matter is as follows:\n\n")
	ceiling := statedHoursCeiling(docCtx.locked, docCtx.concessions)
	n := 1
	for _, fact := range facts {
		if !factLineSafe(fact, ceiling) {
			continue
		}
		fmt.Fprintf(b, "%d. %s\n", n, fact)
		n++
	}
	b.WriteString("\n")
}

// writeClaimParagraph emits the remedy request using only relief phrasing
// the forum allows.
func (s *DraftService) writeClaimParagraph(b *strings.Builder, docCtx *docketContext) {
	amount := s.amountString(docCtx)
	ours, _ := partyLabels(docCtx.decision.Forum)

	switch docCtx.decision.Forum {
	case models.ForumEmploymentTribunal:
		fmt.Fprintf(b, "The %s seeks compensation for the sums withheld, amounting to £%s.\n\n", ours, amount)
	case models.ForumSocialSecurityTribunal:
		fmt.Fprintf(b, "The %s asks for a declaration that the decision is wrong and for the sums withheld, amounting to £%s.\n\n", ours, amount)
	case models.ForumTaxTribunal:
		fmt.Fprintf(b, "The %s asks HMRC to cancel the penalty and for a declaration that the decision under appeal is wrong. The amount in dispute is £%s.\n\n", ours, amount)
	case models.ForumImmigrationTribunal:
		fmt.Fprintf(b, "The %s asks for a declaration that the decision is not in accordance with the law.\n\n", ours)
	default:
		fmt.Fprintf(b, "The %s requires payment of the outstanding sum of £%s.\n\n", ours, amount)
		if docCtx.claimValue > 0 {
			daily := docCtx.claimValue * 0.08 / 365
			fmt.Fprintf(b, "Statutory interest is also claimed pursuant to section 69 of the County Courts Act 1984 at 8%% per year, accruing at a daily rate of £%s from the due date until payment.\n\n",
				formatAmount(daily))
		}
	}
}

// writeComplianceLine adds the forum-specific procedural reference
func (s *DraftService) writeComplianceLine(b *strings.Builder, docCtx *docketContext) {
	switch docCtx.decision.Forum {
	case models.ForumCountyCourtFastTrack:
		b.WriteString("This letter is sent in accordance with the Practice Direction on Pre-Action Conduct under the CPR.\n\n")
	case models.ForumCountyCourtSmallClaims:
		b.WriteString("This letter is sent in accordance with the Practice Direction on Pre-Action Conduct.\n\n")
	case models.ForumSocialSecurityTribunal:
		b.WriteString("This appeal follows the mandatory reconsideration of the decision in question.\n\n")
	}
}

// writeEvidenceReferences lists the enclosed exhibits
func (s *DraftService) writeEvidenceReferences(b *strings.Builder, docCtx *docketContext) {
	if len(docCtx.evidence) == 0 {
		return
	}
	b.WriteString("The following documents are enclosed in support:\n")
	for i, item := range docCtx.evidence {
		fmt.Fprintf(b, "- %s (Exhibit %s)\n", item.Title, exhibitLabel(i))
	}
	b.WriteString("\n")
}

func (s *DraftService) userName(docCtx *docketContext) string {
	if name, ok := docCtx.facts["user_name"]; ok {
		return name
	}
	return "the undersigned"
}

// amountString returns the locked claim amount, formatted the same way
// LockFacts stores it so the fact-lock check matches verbatim.
func (s *DraftService) amountString(docCtx *docketContext) string {
	if v, ok := docCtx.facts["financial_amount"]; ok {
		return v
	}
	return formatAmount(docCtx.claimValue)
}

// orderedNumberedFacts returns the fact_N values in lock order
func orderedNumberedFacts(locked []models.LockedFact) []string {
	facts := make([]string, 0)
	for _, fact := range locked {
		if strings.HasPrefix(fact.Field, "fact_") {
			facts = append(facts, fact.Value)
		}
	}
	return facts
}

// factLineSafe rejects a fact line whose hours figure exceeds the conceded
// ceiling. A conceded claim must not resurface through a background fact.
func factLineSafe(fact string, ceiling *float64) bool {
	if ceiling == nil {
		return true
	}
	for _, m := range hoursClaimPattern.FindAllStringSubmatch(strings.ToLower(fact), -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > *ceiling {
			return false
		}
	}
	return true
}

// concessionsFromLocked rebuilds concession records from their locked form
func concessionsFromLocked(locked []models.LockedFact) []models.Concession {
	concessions := make([]models.Concession, 0)
	for _, fact := range locked {
		if fact.Source != models.FactSourceConcession {
			continue
		}
		concession := models.Concession{
			Field:     strings.TrimPrefix(fact.Field, "concession_"),
			Statement: fact.Value,
		}
		if m := hoursClaimPattern.FindStringSubmatch(strings.ToLower(fact.Value)); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				concession.WaivedAmount = &v
			}
		}
		concessions = append(concessions, concession)
	}
	return concessions
}

// confirmedRelief parses the relief the user explicitly confirmed, locked
// as a comma-separated confirmed_relief fact.
func confirmedRelief(locked []models.LockedFact) []rules.ReliefType {
	confirmed := make([]rules.ReliefType, 0)
	for _, fact := range locked {
		if fact.Field != "confirmed_relief" {
			continue
		}
		for _, part := range strings.Split(fact.Value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				confirmed = append(confirmed, rules.ReliefType(part))
			}
		}
	}
	return confirmed
}

// exhibitLabel maps an index to A, B, ... Z, AA, AB, ...
func exhibitLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return label
}

// updateStepStatus updates the status of a specific step in the generation job
func (s *DraftService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *DraftService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("failed to mark job %s failed: %v", jobID, err)
	}
}
