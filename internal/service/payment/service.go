package payment

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type Service struct {
	repo   repository.PaymentRepository
	logger *logger.Logger
}

func NewService(repo repository.PaymentRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.PaymentRequest) (*model.Payment, error) {
	s.logger.Debug("request to save payment", "method", req.Method)

	if err := checkAmount(req); err != nil {
		return nil, err
	}
	p := &model.Payment{}
	apply(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.PaymentRequest) (*model.Payment, error) {
	s.logger.Debug("request to update payment", "id", id)

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(req); err != nil {
		return nil, err
	}
	apply(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete payment", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page filter.Page) ([]*model.Payment, int64, error) {
	rows, err := s.repo.Find(ctx, filter.Spec{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	total, err := s.repo.Count(ctx, filter.Spec{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return rows, total, nil
}

func checkAmount(req *model.PaymentRequest) error {
	if req.Amount == nil || req.Amount.IsNegative() {
		return errors.NewValidation("invalid payment", map[string]string{"amount": "must not be negative"})
	}
	return nil
}

func apply(p *model.Payment, req *model.PaymentRequest) {
	p.Amount = *req.Amount
	p.Method = req.Method
	p.Status = req.Status
	p.TransactionID = req.TransactionID
	p.PaymentDate = req.PaymentDate
	p.ReservationID = req.ReservationID
	p.CustomerID = req.CustomerID
	p.BusinessID = req.BusinessID
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("payment", err)
	}
	return err
}
