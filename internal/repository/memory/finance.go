package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

type FinanceEntryRepository struct {
	rows *store[model.FinanceEntry]
}

var _ repository.FinanceEntryRepository = (*FinanceEntryRepository)(nil)

func NewFinanceEntryRepository() *FinanceEntryRepository {
	return &FinanceEntryRepository{rows: newStore(
		func(e *model.FinanceEntry) *int64 { return &e.ID },
		nil,
		map[string]field[model.FinanceEntry]{
			criteria.FieldID:        func(e *model.FinanceEntry) any { return e.ID },
			criteria.FieldEntryDate: func(e *model.FinanceEntry) any { return e.EntryDate },
			criteria.FieldType:      func(e *model.FinanceEntry) any { return e.Type },
		},
	)}
}

func (r *FinanceEntryRepository) Create(ctx context.Context, e *model.FinanceEntry) error {
	stamp(&e.Base, true)
	return r.rows.insert(ctx, e)
}

func (r *FinanceEntryRepository) Get(ctx context.Context, id int64) (*model.FinanceEntry, error) {
	e, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get finance entry: %w", err)
	}
	return e, nil
}

func (r *FinanceEntryRepository) Update(ctx context.Context, e *model.FinanceEntry) error {
	stamp(&e.Base, false)
	if err := r.rows.replace(ctx, e); err != nil {
		return fmt.Errorf("failed to update finance entry: %w", err)
	}
	return nil
}

func (r *FinanceEntryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete finance entry: %w", err)
	}
	return nil
}

func (r *FinanceEntryRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.FinanceEntry, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *FinanceEntryRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

type FinanceDocumentRepository struct {
	rows *store[model.FinanceDocument]
}

var _ repository.FinanceDocumentRepository = (*FinanceDocumentRepository)(nil)

func NewFinanceDocumentRepository() *FinanceDocumentRepository {
	return &FinanceDocumentRepository{rows: newStore(
		func(d *model.FinanceDocument) *int64 { return &d.ID },
		func(d *model.FinanceDocument) *model.FinanceDocument {
			c := *d
			c.Data = slices.Clone(d.Data)
			return &c
		},
		map[string]field[model.FinanceDocument]{
			criteria.FieldID: func(d *model.FinanceDocument) any { return d.ID },
		},
	)}
}

func (r *FinanceDocumentRepository) Create(ctx context.Context, doc *model.FinanceDocument) error {
	doc.UploadedAt = time.Now().UTC()
	doc.Size = int64(len(doc.Data))
	return r.rows.insert(ctx, doc)
}

func (r *FinanceDocumentRepository) Get(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	doc, err := r.GetWithData(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Data = nil
	return doc, nil
}

func (r *FinanceDocumentRepository) GetWithData(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	doc, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get finance document: %w", err)
	}
	return doc, nil
}

func (r *FinanceDocumentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete finance document: %w", err)
	}
	return nil
}
