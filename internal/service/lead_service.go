package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms/internal/auth"
	apperrors "lms/internal/errors"
	"lms/internal/model"
	"lms/internal/repository"
)

// CreateLeadInput carries the fields for a new lead.
type CreateLeadInput struct {
	Name       string
	Email      string
	Phone      string
	LeadSource string
	Status     model.LeadStatus
	AssignedTo *uuid.UUID
}

// UpdateLeadInput carries a partial lead update; nil fields are untouched.
type UpdateLeadInput struct {
	Name       *string
	Email      *string
	Phone      *string
	LeadSource *string
	Status     *model.LeadStatus
}

// LeadService exposes role-scoped lead operations. Non-admin actors only see
// and touch leads assigned to them; reassignment is admin-only.
type LeadService interface {
	Create(ctx context.Context, actor auth.Actor, input CreateLeadInput) (*model.Lead, error)
	List(ctx context.Context, actor auth.Actor, filter repository.LeadFilter) ([]model.Lead, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Lead, error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateLeadInput) (*model.Lead, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	Assign(ctx context.Context, actor auth.Actor, id uuid.UUID, assignedTo *uuid.UUID) (*model.Lead, error)
}

type leadService struct {
	repo repository.LeadRepository
}

// NewLeadService builds a LeadService.
func NewLeadService(repo repository.LeadRepository) LeadService {
	return &leadService{repo: repo}
}

// canAccess is the single visibility rule: admins see everything, everyone
// else only leads assigned to them.
func canAccess(actor auth.Actor, lead *model.Lead) bool {
	if actor.IsAdmin() {
		return true
	}
	return lead.AssignedTo != nil && *lead.AssignedTo == actor.ID
}

func (s *leadService) Create(ctx context.Context, actor auth.Actor, input CreateLeadInput) (*model.Lead, error) {
	status := input.Status
	if status == "" {
		status = model.LeadStatusNew
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	assignedTo := input.AssignedTo
	if assignedTo == nil {
		// default to self if not provided
		id := actor.ID
		assignedTo = &id
	}

	lead := &model.Lead{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		LeadSource: input.LeadSource,
		Status:     status,
		AssignedTo: assignedTo,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// List returns leads matching the filter. For non-admin actors the assignee
// constraint is forced to the actor regardless of what the filter asked for.
func (s *leadService) List(ctx context.Context, actor auth.Actor, filter repository.LeadFilter) ([]model.Lead, error) {
	if !actor.IsAdmin() {
		id := actor.ID
		filter.AssignedTo = &id
	}
	return s.repo.List(ctx, filter)
}

func (s *leadService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, lead) {
		return nil, apperrors.ErrForbidden
	}
	return lead, nil
}

func (s *leadService) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, input UpdateLeadInput) (*model.Lead, error) {
	lead, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, lead) {
		return nil, apperrors.ErrForbidden
	}

	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.LeadSource != nil {
		lead.LeadSource = *input.LeadSource
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		lead.Status = *input.Status
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	lead, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canAccess(actor, lead) {
		return apperrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

// Assign reassigns a lead. Admin-only, regardless of current assignment.
func (s *leadService) Assign(ctx context.Context, actor auth.Actor, id uuid.UUID, assignedTo *uuid.UUID) (*model.Lead, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	lead, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	lead.AssignedTo = assignedTo
	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	return lead, nil
}

func (s *leadService) find(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}
