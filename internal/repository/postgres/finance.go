package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var financeEntries = table{
	name:    "finance_entries",
	alias:   "f",
	columns: "f.id, f.entry_date, f.type, f.amount, f.description, f.document_id, f.created_at, f.updated_at",
	filters: filter.Columns{
		criteria.FieldID:        {Expr: "f.id", Type: filter.TypeOf[int64]()},
		criteria.FieldEntryDate: {Expr: "f.entry_date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldType:      {Expr: "f.type", Type: filter.TypeOf[model.FinanceEntryType]()},
	},
}

type financeEntryRepository struct {
	BaseRepository
}

func NewFinanceEntryRepository(db *sqlx.DB) repository.FinanceEntryRepository {
	return &financeEntryRepository{NewBaseRepository(db)}
}

func (r *financeEntryRepository) Create(ctx context.Context, e *model.FinanceEntry) error {
	query := `
		INSERT INTO finance_entries (entry_date, type, amount, description, document_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		e.EntryDate, e.Type, e.Amount, e.Description, e.DocumentID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create finance entry: %w", err)
	}
	return nil
}

func (r *financeEntryRepository) Get(ctx context.Context, id int64) (*model.FinanceEntry, error) {
	var e model.FinanceEntry
	if err := r.getByID(ctx, &e, financeEntries, id); err != nil {
		return nil, fmt.Errorf("failed to get finance entry: %w", err)
	}
	return &e, nil
}

func (r *financeEntryRepository) Update(ctx context.Context, e *model.FinanceEntry) error {
	query := `
		UPDATE finance_entries
		SET entry_date = $1, type = $2, amount = $3, description = $4, document_id = $5, updated_at = $6
		WHERE id = $7
	`
	e.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		e.EntryDate, e.Type, e.Amount, e.Description, e.DocumentID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update finance entry: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update finance entry: %w", err)
	}
	return nil
}

func (r *financeEntryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, financeEntries, id); err != nil {
		return fmt.Errorf("failed to delete finance entry: %w", err)
	}
	return nil
}

func (r *financeEntryRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.FinanceEntry, error) {
	var out []*model.FinanceEntry
	if err := r.find(ctx, &out, financeEntries, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list finance entries: %w", err)
	}
	return out, nil
}

func (r *financeEntryRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, financeEntries, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count finance entries: %w", err)
	}
	return n, nil
}

type financeDocumentRepository struct {
	BaseRepository
}

func NewFinanceDocumentRepository(db *sqlx.DB) repository.FinanceDocumentRepository {
	return &financeDocumentRepository{NewBaseRepository(db)}
}

func (r *financeDocumentRepository) Create(ctx context.Context, doc *model.FinanceDocument) error {
	query := `
		INSERT INTO finance_documents (file_name, content_type, size, data, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	doc.UploadedAt = time.Now().UTC()
	doc.Size = int64(len(doc.Data))

	err := r.db.QueryRowxContext(ctx, query,
		doc.FileName, doc.ContentType, doc.Size, doc.Data, doc.UploadedAt,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to create finance document: %w", err)
	}
	return nil
}

func (r *financeDocumentRepository) Get(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	return r.get(ctx, "id, file_name, content_type, size, uploaded_at", id)
}

func (r *financeDocumentRepository) GetWithData(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	return r.get(ctx, "id, file_name, content_type, size, data, uploaded_at", id)
}

func (r *financeDocumentRepository) get(ctx context.Context, columns string, id int64) (*model.FinanceDocument, error) {
	var doc model.FinanceDocument
	query := fmt.Sprintf("SELECT %s FROM finance_documents WHERE id = $1", columns)
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get finance document: %w", err)
	}
	return &doc, nil
}

// Delete removes the document. Entries pointing at it keep their row with a
// null document_id.
func (r *financeDocumentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM finance_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete finance document: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to delete finance document: %w", err)
	}
	return nil
}
