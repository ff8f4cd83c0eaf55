package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "lms/internal/errors"
	"lms/internal/model"
)

// MockActivityRepository is a mock implementation of repository.ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]model.Activity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func TestActivityService_Add_UnknownLead(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	leadRepo := new(MockLeadRepository)
	svc := NewActivityService(activityRepo, leadRepo)
	leadID := uuid.New()

	leadRepo.On("FindByID", mock.Anything, leadID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Add(context.Background(), adminActor(), leadID, model.ActivityTypeCall, "rang them")
	assert.ErrorIs(t, err, apperrors.ErrLeadNotFound)
	activityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActivityService_Add_SalesNeedsAssignment(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	leadRepo := new(MockLeadRepository)
	svc := NewActivityService(activityRepo, leadRepo)
	actor := salesActor()
	other := uuid.New()
	lead := &model.Lead{ID: uuid.New(), AssignedTo: &other}

	leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err := svc.Add(context.Background(), actor, lead.ID, model.ActivityTypeNote, "note")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestActivityService_Add_RecordsCreator(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	leadRepo := new(MockLeadRepository)
	svc := NewActivityService(activityRepo, leadRepo)
	actor := salesActor()
	lead := &model.Lead{ID: uuid.New(), AssignedTo: &actor.ID}

	leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	activityRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Activity) bool {
		return a.LeadID == lead.ID && a.CreatedBy == actor.ID && a.Type == model.ActivityTypeMeeting
	})).Return(nil)

	activity, err := svc.Add(context.Background(), actor, lead.ID, model.ActivityTypeMeeting, "kickoff")
	require.NoError(t, err)
	assert.Equal(t, actor.ID, activity.CreatedBy)
}

func TestActivityService_Update_WrongLead(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	leadRepo := new(MockLeadRepository)
	svc := NewActivityService(activityRepo, leadRepo)
	lead := &model.Lead{ID: uuid.New()}
	activity := &model.Activity{ID: uuid.New(), LeadID: uuid.New()} // belongs elsewhere

	leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	activityRepo.On("FindByID", mock.Anything, activity.ID).Return(activity, nil)

	_, err := svc.Update(context.Background(), adminActor(), lead.ID, activity.ID, model.ActivityTypeNote, "edited")
	assert.ErrorIs(t, err, apperrors.ErrActivityNotFound)
	activityRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestActivityService_Delete_Success(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	leadRepo := new(MockLeadRepository)
	svc := NewActivityService(activityRepo, leadRepo)
	lead := &model.Lead{ID: uuid.New()}
	activity := &model.Activity{ID: uuid.New(), LeadID: lead.ID}

	leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	activityRepo.On("FindByID", mock.Anything, activity.ID).Return(activity, nil)
	activityRepo.On("Delete", mock.Anything, activity.ID).Return(nil)

	err := svc.Delete(context.Background(), adminActor(), lead.ID, activity.ID)
	require.NoError(t, err)
	activityRepo.AssertExpectations(t)
}
