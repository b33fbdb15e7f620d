package appointment

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type Service struct {
	repo   repository.AppointmentRepository
	types  repository.AppointmentTypeRepository
	logger *logger.Logger
}

func NewService(repo repository.AppointmentRepository, types repository.AppointmentTypeRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		types:  types,
		logger: logger,
	}
}

// Create stores a new appointment. Without an explicit creator the current
// user is recorded.
func (s *Service) Create(ctx context.Context, req *model.AppointmentRequest) (*model.Appointment, error) {
	s.logger.Debug("request to save appointment", "title", req.Title)

	if err := s.checkType(ctx, req.TypeID); err != nil {
		return nil, err
	}
	apt := &model.Appointment{
		Title:           req.Title,
		Description:     req.Description,
		AppointmentDate: req.AppointmentDate,
		Duration:        req.Duration,
		Status:          req.Status,
		CreatedByID:     req.CreatedByID,
		TypeID:          req.TypeID,
		ParticipantIDs:  req.ParticipantIDs,
	}
	if apt.CreatedByID == nil {
		if actor := auth.ActorFromContext(ctx); actor != nil {
			apt.CreatedByID = actor.ID
		}
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return s.Get(ctx, apt.ID)
}

func (s *Service) Update(ctx context.Context, id int64, req *model.AppointmentRequest) (*model.Appointment, error) {
	s.logger.Debug("request to update appointment", "id", id)

	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkType(ctx, req.TypeID); err != nil {
		return nil, err
	}

	apt.Title = req.Title
	apt.Description = req.Description
	apt.AppointmentDate = req.AppointmentDate
	apt.Duration = req.Duration
	apt.Status = req.Status
	apt.TypeID = req.TypeID
	apt.ParticipantIDs = req.ParticipantIDs
	if req.CreatedByID != nil {
		apt.CreatedByID = req.CreatedByID
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) PartialUpdate(ctx context.Context, id int64, patch *model.AppointmentPatch) (*model.Appointment, error) {
	s.logger.Debug("request to partially update appointment", "id", id)

	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		apt.Title = *patch.Title
	}
	if patch.Description != nil {
		apt.Description = patch.Description
	}
	if patch.AppointmentDate != nil {
		apt.AppointmentDate = *patch.AppointmentDate
	}
	if patch.Duration != nil {
		apt.Duration = *patch.Duration
	}
	if patch.Status != nil {
		apt.Status = *patch.Status
	}
	if patch.TypeID != nil {
		if err := s.checkType(ctx, patch.TypeID); err != nil {
			return nil, err
		}
		apt.TypeID = patch.TypeID
	}
	if patch.ParticipantIDs != nil {
		apt.ParticipantIDs = *patch.ParticipantIDs
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads the appointment with its participants.
func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete appointment", "id", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// FindByCriteria pages the matching appointments in the requested order.
func (s *Service) FindByCriteria(ctx context.Context, c *criteria.AppointmentCriteria, page filter.Page) ([]*model.Appointment, error) {
	s.logger.Debug("find appointments by criteria")

	rows, err := s.repo.Find(ctx, c.Spec(), page)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	return rows, nil
}

func (s *Service) CountByCriteria(ctx context.Context, c *criteria.AppointmentCriteria) (int64, error) {
	n, err := s.repo.Count(ctx, c.Spec())
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

func (s *Service) get(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return apt, nil
}

func (s *Service) checkType(ctx context.Context, typeID *int64) error {
	if typeID == nil {
		return nil
	}
	if _, err := s.types.Get(ctx, *typeID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewValidation("invalid appointment", map[string]string{"type_id": "unknown appointment type"})
		}
		return err
	}
	return nil
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("appointment", err)
	}
	return err
}
