package business

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
	repo   repository.BusinessRepository
	logger *logger.Logger
}

func NewService(repo repository.BusinessRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.BusinessRequest) (*model.Business, error) {
	s.logger.Debug("request to save business", "name", req.Name)

	b := &model.Business{}
	apply(b, req)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.BusinessRequest) (*model.Business, error) {
	s.logger.Debug("request to update business", "id", id)

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(b, req)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return b, nil
}

func (s *Service) PartialUpdate(ctx context.Context, id int64, patch *model.BusinessPatch) (*model.Business, error) {
	s.logger.Debug("request to partially update business", "id", id)

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Type != nil {
		b.Type = *patch.Type
	}
	if patch.Address != nil {
		b.Address = patch.Address
	}
	if patch.Phone != nil {
		b.Phone = patch.Phone
	}
	if patch.Email != nil {
		b.Email = patch.Email
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Business, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete business", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page filter.Page) ([]*model.Business, int64, error) {
	rows, err := s.repo.Find(ctx, filter.Spec{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	total, err := s.repo.Count(ctx, filter.Spec{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return rows, total, nil
}

func apply(b *model.Business, req *model.BusinessRequest) {
	b.Name = req.Name
	b.Type = req.Type
	b.Address = req.Address
	b.Phone = req.Phone
	b.Email = req.Email
	b.Description = req.Description
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("business", err)
	}
	return err
}
