// Package finance keeps the ledger of income and expense entries and the
// documents attached to them.
package finance

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

const (
	DefaultFileName    = "invoice"
	DefaultContentType = "application/octet-stream"
)

type Service struct {
	entries   repository.FinanceEntryRepository
	documents repository.FinanceDocumentRepository
	logger    *logger.Logger
}

func NewService(entries repository.FinanceEntryRepository, documents repository.FinanceDocumentRepository, logger *logger.Logger) *Service {
	return &Service{entries: entries, documents: documents, logger: logger}
}

func (s *Service) CreateEntry(ctx context.Context, req *model.FinanceEntryRequest) (*model.FinanceEntry, error) {
	s.logger.Debug("request to save finance entry", "type", req.Type)

	if err := s.checkDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	e := &model.FinanceEntry{
		EntryDate:   req.EntryDate,
		Type:        req.Type,
		Amount:      *req.Amount,
		Description: req.Description,
		DocumentID:  req.DocumentID,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create finance entry: %w", err)
	}
	return e, nil
}

func (s *Service) UpdateEntry(ctx context.Context, id int64, req *model.FinanceEntryRequest) (*model.FinanceEntry, error) {
	s.logger.Debug("request to update finance entry", "id", id)

	e, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}
	e.EntryDate = req.EntryDate
	e.Type = req.Type
	e.Amount = *req.Amount
	e.Description = req.Description
	e.DocumentID = req.DocumentID

	if err := s.entries.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update finance entry: %w", err)
	}
	return e, nil
}

func (s *Service) PartialUpdateEntry(ctx context.Context, id int64, patch *model.FinanceEntryPatch) (*model.FinanceEntry, error) {
	s.logger.Debug("request to partially update finance entry", "id", id)

	e, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.EntryDate != nil {
		e.EntryDate = *patch.EntryDate
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Description != nil {
		e.Description = patch.Description
	}
	if patch.DocumentID != nil {
		if err := s.checkDocument(ctx, patch.DocumentID); err != nil {
			return nil, err
		}
		e.DocumentID = patch.DocumentID
	}

	if err := s.entries.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update finance entry: %w", err)
	}
	return e, nil
}

func (s *Service) GetEntry(ctx context.Context, id int64) (*model.FinanceEntry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, notFound("finance entry", err)
	}
	return e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete finance entry", "id", id)
	if err := s.entries.Delete(ctx, id); err != nil {
		return notFound("finance entry", err)
	}
	return nil
}

func (s *Service) ListEntries(ctx context.Context, page filter.Page) ([]*model.FinanceEntry, int64, error) {
	rows, err := s.entries.Find(ctx, filter.Spec{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list finance entries: %w", err)
	}
	total, err := s.entries.Count(ctx, filter.Spec{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count finance entries: %w", err)
	}
	return rows, total, nil
}

// StoreDocument saves an uploaded file. A blank name or content type falls
// back to DefaultFileName and DefaultContentType.
func (s *Service) StoreDocument(ctx context.Context, fileName, contentType string, data []byte) (*model.FinanceDocument, error) {
	if strings.TrimSpace(fileName) == "" {
		fileName = DefaultFileName
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = DefaultContentType
	}
	s.logger.Debug("request to store finance document", "file_name", fileName, "size", len(data))

	doc := &model.FinanceDocument{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store finance document: %w", err)
	}
	doc.Data = nil
	return doc, nil
}

// GetDocument returns the metadata only.
func (s *Service) GetDocument(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, notFound("finance document", err)
	}
	return doc, nil
}

func (s *Service) DownloadDocument(ctx context.Context, id int64) (*model.FinanceDocument, error) {
	doc, err := s.documents.GetWithData(ctx, id)
	if err != nil {
		return nil, notFound("finance document", err)
	}
	return doc, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete finance document", "id", id)
	if err := s.documents.Delete(ctx, id); err != nil {
		return notFound("finance document", err)
	}
	return nil
}

func (s *Service) checkDocument(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.documents.Get(ctx, *id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewValidation("invalid finance entry", map[string]string{"document_id": "unknown document"})
		}
		return err
	}
	return nil
}

func notFound(resource string, err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(resource, err)
	}
	return err
}
