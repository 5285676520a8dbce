package repository

import (
	"context"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoutingRepository handles database operations for routing decisions.
// A decision is written once per confirm-summary event; the latest row is
// the authoritative one the generation guard reads.
type RoutingRepository struct {
	db *pgxpool.Pool
}

// NewRoutingRepository creates a new routing repository
func NewRoutingRepository(db *pgxpool.Pool) *RoutingRepository {
	return &RoutingRepository{db: db}
}

// Create persists a routing decision
func (r *RoutingRepository) Create(ctx context.Context, decision *models.RoutingDecision) error {
	query := `
		INSERT INTO routing_decisions (
			case_id, status, confidence, jurisdiction, relationship, counterparty,
			domain, forum, forum_reasoning, allowed_docs, blocked_docs,
			prerequisites, prerequisites_met, reason, user_message, alternative
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, classified_at`

	err := r.db.QueryRow(
		ctx, query,
		decision.CaseID,
		decision.Status,
		decision.Confidence,
		decision.Jurisdiction,
		decision.Relationship,
		decision.Counterparty,
		decision.Domain,
		decision.Forum,
		decision.ForumReasoning,
		decision.AllowedDocs,
		decision.BlockedDocs,
		decision.Prerequisites,
		decision.PrerequisitesMet,
		decision.Reason,
		decision.UserMessage,
		decision.Alternative,
	).Scan(&decision.ID, &decision.ClassifiedAt)

	return err
}

// GetLatestByCaseID retrieves the current routing decision for a case
func (r *RoutingRepository) GetLatestByCaseID(ctx context.Context, caseID uuid.UUID) (*models.RoutingDecision, error) {
	decision := &models.RoutingDecision{}
	query := `
		SELECT id, case_id, status, confidence, jurisdiction, relationship, counterparty,
			domain, forum, forum_reasoning, allowed_docs, blocked_docs,
			prerequisites, prerequisites_met, reason, user_message, alternative, classified_at
		FROM routing_decisions
		WHERE case_id = $1
		ORDER BY classified_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&decision.ID,
		&decision.CaseID,
		&decision.Status,
		&decision.Confidence,
		&decision.Jurisdiction,
		&decision.Relationship,
		&decision.Counterparty,
		&decision.Domain,
		&decision.Forum,
		&decision.ForumReasoning,
		&decision.AllowedDocs,
		&decision.BlockedDocs,
		&decision.Prerequisites,
		&decision.PrerequisitesMet,
		&decision.Reason,
		&decision.UserMessage,
		&decision.Alternative,
		&decision.ClassifiedAt,
	)

	if err != nil {
		return nil, err
	}

	if decision.Prerequisites == nil {
		decision.Prerequisites = make(models.Prerequisites, 0)
	}

	return decision, nil
}
