package offeredservice

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type Service struct {
	repo       repository.OfferedServiceRepository
	businesses repository.BusinessRepository
	logger     *logger.Logger
}

func NewService(repo repository.OfferedServiceRepository, businesses repository.BusinessRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, businesses: businesses, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.OfferedServiceRequest) (*model.OfferedService, error) {
	s.logger.Debug("request to save offered service", "name", req.Name)

	if err := s.checkBusiness(ctx, req.BusinessID); err != nil {
		return nil, err
	}
	o := &model.OfferedService{}
	apply(o, req)
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create offered service: %w", err)
	}
	return o, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.OfferedServiceRequest) (*model.OfferedService, error) {
	s.logger.Debug("request to update offered service", "id", id)

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkBusiness(ctx, req.BusinessID); err != nil {
		return nil, err
	}
	apply(o, req)
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update offered service: %w", err)
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.OfferedService, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete offered service", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// List pages offered services, restricted to one business when businessID is set.
func (s *Service) List(ctx context.Context, businessID *int64, page filter.Page) ([]*model.OfferedService, int64, error) {
	spec := filter.Spec{}
	if businessID != nil {
		spec = spec.And(filter.Eq(criteria.FieldBusinessID, *businessID))
	}

	rows, err := s.repo.Find(ctx, spec, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offered services: %w", err)
	}
	total, err := s.repo.Count(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count offered services: %w", err)
	}
	return rows, total, nil
}

func (s *Service) checkBusiness(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.businesses.Get(ctx, *id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewValidation("invalid offered service", map[string]string{"business_id": "unknown business"})
		}
		return err
	}
	return nil
}

func apply(o *model.OfferedService, req *model.OfferedServiceRequest) {
	o.Name = req.Name
	o.Description = req.Description
	o.DurationMinutes = req.DurationMinutes
	o.Price = req.Price
	o.BusinessID = req.BusinessID
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("offered service", err)
	}
	return err
}
