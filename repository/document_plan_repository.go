package repository

import (
	"context"

	"github.com/Theofficialsultan/disputehub-sub000/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentPlanRepository handles database operations for document plans.
// Plans are immutable once persisted: regeneration deletes the old plan
// and creates the new one inside a single transaction, never patches rows
// in place.
type DocumentPlanRepository struct {
	db *pgxpool.Pool
}

// NewDocumentPlanRepository creates a new document plan repository
func NewDocumentPlanRepository(db *pgxpool.Pool) *DocumentPlanRepository {
	return &DocumentPlanRepository{db: db}
}

// Replace deletes any existing plan for the case and creates the new plan
// with its ordered child documents, all in one transaction.
func (r *DocumentPlanRepository) Replace(ctx context.Context, plan *models.DocumentPlan) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM document_plans WHERE case_id = $1`, plan.CaseID)
	if err != nil {
		return err
	}

	planQuery := `
		INSERT INTO document_plans (
			case_id, complexity, score, breakdown, structure
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = tx.QueryRow(
		ctx, planQuery,
		plan.CaseID,
		plan.Complexity,
		plan.Score,
		plan.Breakdown,
		plan.Structure,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return err
	}

	docQuery := `
		INSERT INTO planned_documents (
			plan_id, doc_type, title, description, doc_order, required, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	for i := range plan.Documents {
		doc := &plan.Documents[i]
		doc.PlanID = plan.ID
		if doc.Status == "" {
			doc.Status = models.DocumentPending
		}
		err = tx.QueryRow(
			ctx, docQuery,
			plan.ID,
			doc.Type,
			doc.Title,
			doc.Description,
			doc.Order,
			doc.Required,
			doc.Status,
		).Scan(&doc.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByCaseID retrieves the plan and its ordered documents for a case
func (r *DocumentPlanRepository) GetByCaseID(ctx context.Context, caseID uuid.UUID) (*models.DocumentPlan, error) {
	plan := &models.DocumentPlan{}
	query := `
		SELECT id, case_id, complexity, score, breakdown, structure, created_at
		FROM document_plans
		WHERE case_id = $1`

	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&plan.ID,
		&plan.CaseID,
		&plan.Complexity,
		&plan.Score,
		&plan.Breakdown,
		&plan.Structure,
		&plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	docs, err := r.listDocuments(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	plan.Documents = docs

	return plan, nil
}

// GetDocument retrieves one planned document by ID
func (r *DocumentPlanRepository) GetDocument(ctx context.Context, id uuid.UUID) (*models.PlannedDocument, error) {
	doc := &models.PlannedDocument{}
	query := `
		SELECT id, plan_id, doc_type, title, description, doc_order, required, status, content
		FROM planned_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.PlanID,
		&doc.Type,
		&doc.Title,
		&doc.Description,
		&doc.Order,
		&doc.Required,
		&doc.Status,
		&doc.Content,
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// SetDocumentResult stores a document's generation outcome and content
func (r *DocumentPlanRepository) SetDocumentResult(ctx context.Context, id uuid.UUID, status models.DocumentOutputStatus, content *string) error {
	query := `
		UPDATE planned_documents SET
			status = $2,
			content = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status, content)
	return err
}

func (r *DocumentPlanRepository) listDocuments(ctx context.Context, planID uuid.UUID) ([]models.PlannedDocument, error) {
	query := `
		SELECT id, plan_id, doc_type, title, description, doc_order, required, status, content
		FROM planned_documents
		WHERE plan_id = $1
		ORDER BY doc_order`

	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]models.PlannedDocument, 0)
	for rows.Next() {
		doc := models.PlannedDocument{}
		err := rows.Scan(
			&doc.ID,
			&doc.PlanID,
			&doc.Type,
			&doc.Title,
			&doc.Description,
			&doc.Order,
			&doc.Required,
			&doc.Status,
			&doc.Content,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
