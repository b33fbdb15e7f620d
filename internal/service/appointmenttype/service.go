package appointmenttype

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
	repo   repository.AppointmentTypeRepository
	logger *logger.Logger
}

func NewService(repo repository.AppointmentTypeRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.AppointmentTypeRequest) (*model.AppointmentType, error) {
	s.logger.Debug("request to save appointment type", "name", req.Name)

	t := &model.AppointmentType{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    *req.IsActive,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create appointment type: %w", err)
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.AppointmentTypeRequest) (*model.AppointmentType, error) {
	s.logger.Debug("request to update appointment type", "id", id)

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = req.Name
	t.Description = req.Description
	t.Color = req.Color
	t.IsActive = *req.IsActive

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update appointment type: %w", err)
	}
	return t, nil
}

func (s *Service) PartialUpdate(ctx context.Context, id int64, patch *model.AppointmentTypePatch) (*model.AppointmentType, error) {
	s.logger.Debug("request to partially update appointment type", "id", id)

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Color != nil {
		t.Color = patch.Color
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update appointment type: %w", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.AppointmentType, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete appointment type", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) FindByCriteria(ctx context.Context, c *criteria.AppointmentTypeCriteria, page filter.Page) ([]*model.AppointmentType, error) {
	rows, err := s.repo.Find(ctx, c.Spec(), page)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment types: %w", err)
	}
	return rows, nil
}

func (s *Service) CountByCriteria(ctx context.Context, c *criteria.AppointmentTypeCriteria) (int64, error) {
	n, err := s.repo.Count(ctx, c.Spec())
	if err != nil {
		return 0, fmt.Errorf("failed to count appointment types: %w", err)
	}
	return n, nil
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("appointment type", err)
	}
	return err
}
