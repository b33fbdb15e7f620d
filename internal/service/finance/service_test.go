package finance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

func newService() *Service {
	return NewService(memory.NewFinanceEntryRepository(), memory.NewFinanceDocumentRepository(), logger.Nop())
}

func TestStoreDocumentDefaults(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	doc, err := svc.StoreDocument(ctx, " ", "", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, doc.FileName)
	assert.Equal(t, DefaultContentType, doc.ContentType)
	assert.Equal(t, int64(8), doc.Size)
	assert.Nil(t, doc.Data)

	meta, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, meta.Data)

	full, err := svc.DownloadDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), full.Data)

	require.NoError(t, svc.DeleteDocument(ctx, doc.ID))
	_, err = svc.DownloadDocument(ctx, doc.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEntryLifecycle(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateEntry(ctx, &model.FinanceEntryRequest{
		EntryDate:  day,
		Type:       model.FinanceEntryExpense,
		Amount:     filter.Ptr(decimal.RequireFromString("12.50")),
		DocumentID: filter.Ptr[int64](7),
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	doc, err := svc.StoreDocument(ctx, "receipt.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	e, err := svc.CreateEntry(ctx, &model.FinanceEntryRequest{
		EntryDate:  day,
		Type:       model.FinanceEntryExpense,
		Amount:     filter.Ptr(decimal.RequireFromString("12.50")),
		DocumentID: &doc.ID,
	})
	require.NoError(t, err)

	patched, err := svc.PartialUpdateEntry(ctx, e.ID, &model.FinanceEntryPatch{Type: filter.Ptr(model.FinanceEntryIncome)})
	require.NoError(t, err)
	assert.Equal(t, model.FinanceEntryIncome, patched.Type)
	assert.True(t, decimal.RequireFromString("12.5").Equal(patched.Amount))
	assert.Equal(t, doc.ID, *patched.DocumentID)

	rows, total, err := svc.ListEntries(ctx, filter.Page{Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	require.NoError(t, svc.DeleteEntry(ctx, e.ID))
	assert.True(t, errors.Is(svc.DeleteEntry(ctx, e.ID), errors.ErrNotFound))
}
