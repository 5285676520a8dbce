package repository

import (
	"context"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EvidenceRepository handles database operations for evidence metadata
type EvidenceRepository struct {
	db *pgxpool.Pool
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create creates a new evidence metadata record
func (r *EvidenceRepository) Create(ctx context.Context, item *models.EvidenceItem) error {
	query := `
		INSERT INTO evidence_items (
			case_id, title, file_name, file_type, description, evidence_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		item.CaseID,
		item.Title,
		item.FileName,
		item.FileType,
		item.Description,
		item.EvidenceDate,
	).Scan(&item.ID, &item.CreatedAt)

	return err
}

// GetByID retrieves an evidence item by ID
func (r *EvidenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceItem, error) {
	item := &models.EvidenceItem{}
	query := `
		SELECT id, case_id, title, file_name, file_type, description, evidence_date, created_at
		FROM evidence_items
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.CaseID,
		&item.Title,
		&item.FileName,
		&item.FileType,
		&item.Description,
		&item.EvidenceDate,
		&item.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListByCaseID retrieves all evidence metadata for a case
func (r *EvidenceRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]models.EvidenceItem, error) {
	query := `
		SELECT id, case_id, title, file_name, file_type, description, evidence_date, created_at
		FROM evidence_items
		WHERE case_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.EvidenceItem, 0)
	for rows.Next() {
		item := models.EvidenceItem{}
		err := rows.Scan(
			&item.ID,
			&item.CaseID,
			&item.Title,
			&item.FileName,
			&item.FileType,
			&item.Description,
			&item.EvidenceDate,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountByCaseID counts evidence items for a case
func (r *EvidenceRepository) CountByCaseID(ctx context.Context, caseID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM evidence_items WHERE case_id = $1`
	err := r.db.QueryRow(ctx, query, caseID).Scan(&count)
	return count, err
}
