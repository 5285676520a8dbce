package repository

import (
	"context"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LockedFactRepository handles database operations for the append-only
// locked-fact store. A unique index on (case_id, field) plus
// ON CONFLICT DO NOTHING makes the no-overwrite invariant a property of
// the storage layer, not caller discipline. Concurrent confirm-summary
// actions on the same case serialize on that index.
type LockedFactRepository struct {
	db *pgxpool.Pool
}

// NewLockedFactRepository creates a new locked fact repository
func NewLockedFactRepository(db *pgxpool.Pool) *LockedFactRepository {
	return &LockedFactRepository{db: db}
}

// Append writes the facts that are not already locked for the case.
// Existing fields are left untouched; only new field keys are added.
func (r *LockedFactRepository) Append(ctx context.Context, caseID uuid.UUID, facts []models.LockedFact) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO locked_facts (case_id, field, value, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (case_id, field) DO NOTHING`

	for _, fact := range facts {
		if _, err := tx.Exec(ctx, query, caseID, fact.Field, fact.Value, fact.Source); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByCaseID retrieves all locked facts for a case in lock order
func (r *LockedFactRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]models.LockedFact, error) {
	query := `
		SELECT id, case_id, field, value, source, locked_at
		FROM locked_facts
		WHERE case_id = $1
		ORDER BY locked_at, field`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts := make([]models.LockedFact, 0)
	for rows.Next() {
		fact := models.LockedFact{Immutable: true}
		err := rows.Scan(
			&fact.ID,
			&fact.CaseID,
			&fact.Field,
			&fact.Value,
			&fact.Source,
			&fact.LockedAt,
		)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}

	return facts, rows.Err()
}
