package repository

import (
	"context"
	"fmt"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for dispute cases
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create creates a new dispute case
func (r *CaseRepository) Create(ctx context.Context, disputeCase *models.DisputeCase) error {
	query := `
		INSERT INTO dispute_cases (
			user_id, status, domain, counterparty, chosen_forum, transcript
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		disputeCase.UserID,
		disputeCase.Status,
		disputeCase.Domain,
		disputeCase.Counterparty,
		disputeCase.ChosenForum,
		disputeCase.Transcript,
	).Scan(&disputeCase.ID, &disputeCase.CreatedAt, &disputeCase.UpdatedAt)

	return err
}

// GetByID retrieves a dispute case by ID
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DisputeCase, error) {
	disputeCase := &models.DisputeCase{}
	query := `
		SELECT id, user_id, status, domain, counterparty, chosen_forum, transcript,
			created_at, updated_at, completed_at
		FROM dispute_cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&disputeCase.ID,
		&disputeCase.UserID,
		&disputeCase.Status,
		&disputeCase.Domain,
		&disputeCase.Counterparty,
		&disputeCase.ChosenForum,
		&disputeCase.Transcript,
		&disputeCase.CreatedAt,
		&disputeCase.UpdatedAt,
		&disputeCase.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return disputeCase, nil
}

// Update updates a dispute case
func (r *CaseRepository) Update(ctx context.Context, disputeCase *models.DisputeCase) error {
	query := `
		UPDATE dispute_cases SET
			status = $2,
			domain = $3,
			counterparty = $4,
			chosen_forum = $5,
			transcript = $6,
			completed_at = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		disputeCase.ID,
		disputeCase.Status,
		disputeCase.Domain,
		disputeCase.Counterparty,
		disputeCase.ChosenForum,
		disputeCase.Transcript,
		disputeCase.CompletedAt,
	).Scan(&disputeCase.UpdatedAt)

	return err
}

// ListByUserID retrieves all cases for a user
func (r *CaseRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.CaseStatus, limit, offset int) ([]*models.DisputeCase, error) {
	query := `
		SELECT id, user_id, status, domain, counterparty, chosen_forum, transcript,
			created_at, updated_at, completed_at
		FROM dispute_cases
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.DisputeCase
	for rows.Next() {
		disputeCase := &models.DisputeCase{}
		err := rows.Scan(
			&disputeCase.ID,
			&disputeCase.UserID,
			&disputeCase.Status,
			&disputeCase.Domain,
			&disputeCase.Counterparty,
			&disputeCase.ChosenForum,
			&disputeCase.Transcript,
			&disputeCase.CreatedAt,
			&disputeCase.UpdatedAt,
			&disputeCase.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		cases = append(cases, disputeCase)
	}

	return cases, rows.Err()
}

// Delete deletes a dispute case
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM dispute_cases WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
