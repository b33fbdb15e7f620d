package customer

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

type Service struct {
	repo   repository.CustomerRepository
	logger *logger.Logger
}

func NewService(repo repository.CustomerRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	s.logger.Debug("request to save customer")

	c := &model.Customer{}
	apply(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error) {
	s.logger.Debug("request to update customer", "id", id)

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(c, req)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// FindByEmail matches the address ignoring case.
func (s *Service) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete customer", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page filter.Page) ([]*model.Customer, int64, error) {
	rows, err := s.repo.Find(ctx, filter.Spec{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	total, err := s.repo.Count(ctx, filter.Spec{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return rows, total, nil
}

func apply(c *model.Customer, req *model.CustomerRequest) {
	c.FirstName = req.FirstName
	c.LastName = req.LastName
	c.Email = req.Email
	c.Phone = req.Phone
	c.Notes = req.Notes
	c.BusinessID = req.BusinessID
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("customer", err)
	}
	return err
}
