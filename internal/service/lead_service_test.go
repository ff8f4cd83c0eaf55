package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms/internal/auth"
	apperrors "lms/internal/errors"
	"lms/internal/model"
	"lms/internal/repository"
)

// MockLeadRepository is a mock implementation of repository.LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter repository.LeadFilter) ([]model.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func salesActor() auth.Actor {
	return auth.Actor{ID: uuid.New(), Role: model.RoleSales}
}

func adminActor() auth.Actor {
	return auth.Actor{ID: uuid.New(), Role: model.RoleAdmin}
}

func TestLeadService_List_ForcesSalesScope(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()
	other := uuid.New()

	// Even when the filter asks for someone else's leads, a sales actor is
	// pinned to their own assignment.
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.LeadFilter) bool {
		return f.AssignedTo != nil && *f.AssignedTo == actor.ID
	})).Return([]model.Lead{}, nil)

	_, err := svc.List(context.Background(), actor, repository.LeadFilter{AssignedTo: &other})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeadService_List_AdminFilterPassesThrough(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := adminActor()
	assignee := uuid.New()

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.LeadFilter) bool {
		return f.AssignedTo != nil && *f.AssignedTo == assignee && f.Status == model.LeadStatusNew
	})).Return([]model.Lead{}, nil)

	_, err := svc.List(context.Background(), actor, repository.LeadFilter{
		Status:     model.LeadStatusNew,
		AssignedTo: &assignee,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeadService_List_AdminUnfiltered(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.LeadFilter) bool {
		return f.AssignedTo == nil
	})).Return([]model.Lead{{Name: "a"}, {Name: "b"}}, nil)

	leads, err := svc.List(context.Background(), adminActor(), repository.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestLeadService_Create_DefaultsAssigneeToSelf(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
		return l.AssignedTo != nil && *l.AssignedTo == actor.ID && l.Status == model.LeadStatusNew
	})).Return(nil)

	lead, err := svc.Create(context.Background(), actor, CreateLeadInput{
		Name:       "Acme",
		Email:      "acme@x.com",
		Phone:      "555",
		LeadSource: "Website",
	})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, *lead.AssignedTo)
}

func TestLeadService_Get_NotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), adminActor(), id)
	assert.ErrorIs(t, err, apperrors.ErrLeadNotFound)
}

func TestLeadService_Get_SalesCannotSeeUnassigned(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()
	other := uuid.New()
	lead := &model.Lead{ID: uuid.New(), AssignedTo: &other}

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err := svc.Get(context.Background(), actor, lead.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLeadService_Update_ForbiddenLeavesLeadUntouched(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()
	other := uuid.New()
	lead := &model.Lead{ID: uuid.New(), Name: "Acme", AssignedTo: &other}

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	name := "Hijacked"
	_, err := svc.Update(context.Background(), actor, lead.ID, UpdateLeadInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadService_Delete_SalesOwnLead(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()
	lead := &model.Lead{ID: uuid.New(), AssignedTo: &actor.ID}

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("Delete", mock.Anything, lead.ID).Return(nil)

	err := svc.Delete(context.Background(), actor, lead.ID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeadService_Assign_SalesForbidden(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	actor := salesActor()
	assignee := uuid.New()

	// Reassignment is admin-only even for the lead's own assignee.
	_, err := svc.Assign(context.Background(), actor, uuid.New(), &assignee)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadService_Assign_AdminReassigns(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewLeadService(repo)
	previous := uuid.New()
	next := uuid.New()
	lead := &model.Lead{ID: uuid.New(), AssignedTo: &previous}

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
		return l.AssignedTo != nil && *l.AssignedTo == next
	})).Return(nil)

	updated, err := svc.Assign(context.Background(), adminActor(), lead.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, next, *updated.AssignedTo)
}
