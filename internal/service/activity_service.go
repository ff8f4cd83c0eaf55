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

// ActivityService manages the history entries of a lead. Every operation
// first resolves the lead and applies the same visibility rule as the lead
// CRUD surface.
type ActivityService interface {
	Add(ctx context.Context, actor auth.Actor, leadID uuid.UUID, activityType model.ActivityType, description string) (*model.Activity, error)
	List(ctx context.Context, actor auth.Actor, leadID uuid.UUID) ([]model.Activity, error)
	Update(ctx context.Context, actor auth.Actor, leadID, activityID uuid.UUID, activityType model.ActivityType, description string) (*model.Activity, error)
	Delete(ctx context.Context, actor auth.Actor, leadID, activityID uuid.UUID) error
}

type activityService struct {
	activityRepo repository.ActivityRepository
	leadRepo     repository.LeadRepository
}

// NewActivityService builds an ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, leadRepo repository.LeadRepository) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		leadRepo:     leadRepo,
	}
}

func (s *activityService) Add(ctx context.Context, actor auth.Actor, leadID uuid.UUID, activityType model.ActivityType, description string) (*model.Activity, error) {
	if !activityType.Valid() {
		return nil, apperrors.ErrInvalidActivityType
	}
	if err := s.checkLead(ctx, actor, leadID); err != nil {
		return nil, err
	}

	activity := &model.Activity{
		LeadID:      leadID,
		Type:        activityType,
		Description: description,
		CreatedBy:   actor.ID,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

func (s *activityService) List(ctx context.Context, actor auth.Actor, leadID uuid.UUID) ([]model.Activity, error) {
	if err := s.checkLead(ctx, actor, leadID); err != nil {
		return nil, err
	}
	return s.activityRepo.ListByLead(ctx, leadID)
}

func (s *activityService) Update(ctx context.Context, actor auth.Actor, leadID, activityID uuid.UUID, activityType model.ActivityType, description string) (*model.Activity, error) {
	if !activityType.Valid() {
		return nil, apperrors.ErrInvalidActivityType
	}
	if err := s.checkLead(ctx, actor, leadID); err != nil {
		return nil, err
	}

	activity, err := s.findOnLead(ctx, leadID, activityID)
	if err != nil {
		return nil, err
	}

	activity.Type = activityType
	activity.Description = description
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return activity, nil
}

func (s *activityService) Delete(ctx context.Context, actor auth.Actor, leadID, activityID uuid.UUID) error {
	if err := s.checkLead(ctx, actor, leadID); err != nil {
		return err
	}
	if _, err := s.findOnLead(ctx, leadID, activityID); err != nil {
		return err
	}
	if err := s.activityRepo.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// checkLead resolves the lead and enforces visibility for the actor.
func (s *activityService) checkLead(ctx context.Context, actor auth.Actor, leadID uuid.UUID) error {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLeadNotFound
		}
		return err
	}
	if !canAccess(actor, lead) {
		return apperrors.ErrForbidden
	}
	return nil
}

// findOnLead loads an activity and checks it belongs to the given lead.
func (s *activityService) findOnLead(ctx context.Context, leadID, activityID uuid.UUID) (*model.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, err
	}
	if activity.LeadID != leadID {
		return nil, apperrors.ErrActivityNotFound
	}
	return activity, nil
}
