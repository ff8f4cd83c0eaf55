package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "lms/internal/errors"
	"lms/internal/model"
	"lms/internal/otp"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDWithCreator(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendCode(ctx context.Context, to, code string, kind otp.ChangeKind) error {
	args := m.Called(ctx, to, code, kind)
	return args.Error(0)
}

// fakePendingStore is an in-memory PendingStore for exercising the protocol
// sequence end to end.
type fakePendingStore struct {
	entries map[uuid.UUID]otp.PendingChange
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{entries: make(map[uuid.UUID]otp.PendingChange)}
}

func (s *fakePendingStore) Put(ctx context.Context, userID uuid.UUID, change otp.PendingChange, ttl time.Duration) error {
	s.entries[userID] = change
	return nil
}

func (s *fakePendingStore) Get(ctx context.Context, userID uuid.UUID) (*otp.PendingChange, error) {
	change, ok := s.entries[userID]
	if !ok {
		return nil, nil
	}
	return &change, nil
}

func (s *fakePendingStore) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(s.entries, userID)
	return nil
}

type changeFixture struct {
	repo   *MockUserRepository
	store  *fakePendingStore
	mailer *MockMailer
	svc    ProfileChangeService
}

func newChangeFixture() *changeFixture {
	repo := new(MockUserRepository)
	store := newFakePendingStore()
	mailer := new(MockMailer)
	svc := NewProfileChangeService(repo, store, otp.NewTokenService("test-otp-secret"), mailer, nil)
	return &changeFixture{repo: repo, store: store, mailer: mailer, svc: svc}
}

func TestRequestEmailChange_SendsCodeToCurrentAddress(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Name: "U", Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, "old@x.com", mock.AnythingOfType("string"), otp.KindEmailChange).Return(nil)

	token, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	pending, ok := f.store.entries[userID]
	require.True(t, ok, "pending entry not stored")
	assert.Equal(t, otp.KindEmailChange, pending.Kind)
	assert.Equal(t, "new@x.com", pending.NewEmail)
	assert.Len(t, pending.Code, 6)
	assert.WithinDuration(t, time.Now().Add(otp.CodeExpiry), pending.ExpiresAt, 5*time.Second)
	f.mailer.AssertExpectations(t)
}

func TestRequestEmailChange_DeliveryFailureLeavesNoState(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, "old@x.com", mock.AnythingOfType("string"), otp.KindEmailChange).Return(assert.AnError)

	_, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.Error(t, err)
	assert.Empty(t, f.store.entries, "delivery failure must not persist a pending entry")
}

func TestRequestEmailChange_UnknownUser(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()

	f.repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestConfirmEmailChange_SuccessConsumesEntry(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Name: "U", Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, "old@x.com", mock.AnythingOfType("string"), otp.KindEmailChange).Return(nil)

	token, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.NoError(t, err)
	code := f.store.entries[userID].Code

	f.repo.On("FindByIDWithCreator", mock.Anything, userID).Return(user, nil)
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@x.com"
	})).Return(nil).Once()

	profile, err := f.svc.ConfirmEmailChange(context.Background(), code, token)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", profile.Email)
	assert.Empty(t, f.store.entries, "pending entry must be consumed")

	// Replaying the consumed code fails and applies nothing further.
	_, err = f.svc.ConfirmEmailChange(context.Background(), code, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	f.repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestConfirmEmailChange_WrongCodeNeverMutates(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	token, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = f.svc.ConfirmEmailChange(context.Background(), "000000", token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	}

	assert.Contains(t, f.store.entries, userID, "failed attempts must not delete the pending entry")
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmEmailChange_ExpiredCode(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	token, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.NoError(t, err)

	entry := f.store.entries[userID]
	code := entry.Code
	entry.ExpiresAt = time.Now().Add(-time.Minute)
	f.store.entries[userID] = entry

	_, err = f.svc.ConfirmEmailChange(context.Background(), code, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmEmailChange_TamperedToken(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.RequestEmailChange(context.Background(), userID, "new@x.com")
	require.NoError(t, err)
	code := f.store.entries[userID].Code

	forged, err := otp.NewTokenService("wrong-secret").Generate(userID, otp.KindEmailChange, "new@x.com")
	require.NoError(t, err)

	_, err = f.svc.ConfirmEmailChange(context.Background(), code, forged)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestConfirmEmailChange_KindMismatch(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// A password-change token must not confirm an email change.
	token, err := f.svc.RequestPasswordChange(context.Background(), userID, "hunter22")
	require.NoError(t, err)
	code := f.store.entries[userID].Code

	_, err = f.svc.ConfirmEmailChange(context.Background(), code, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestSecondRequestInvalidatesFirstCode(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Name: "U", Email: "old@x.com", Role: model.RoleSales}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	firstToken, err := f.svc.RequestEmailChange(context.Background(), userID, "first@x.com")
	require.NoError(t, err)
	firstCode := f.store.entries[userID].Code

	secondToken, err := f.svc.RequestEmailChange(context.Background(), userID, "second@x.com")
	require.NoError(t, err)
	secondCode := f.store.entries[userID].Code

	if firstCode == secondCode {
		t.Skip("codes collided; overwrite indistinguishable")
	}

	// The first code was overwritten, even though its own window is open.
	_, err = f.svc.ConfirmEmailChange(context.Background(), firstCode, firstToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	f.repo.On("FindByIDWithCreator", mock.Anything, userID).Return(user, nil)
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "second@x.com"
	})).Return(nil)

	profile, err := f.svc.ConfirmEmailChange(context.Background(), secondCode, secondToken)
	require.NoError(t, err)
	assert.Equal(t, "second@x.com", profile.Email)
}

func TestConfirmPasswordChange_StoresVerifiableHash(t *testing.T) {
	f := newChangeFixture()
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "old@x.com", Role: model.RoleSales, PasswordHash: "previous"}

	f.repo.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.mailer.On("SendCode", mock.Anything, "old@x.com", mock.AnythingOfType("string"), otp.KindPasswordChange).Return(nil)

	token, err := f.svc.RequestPasswordChange(context.Background(), userID, "s3cret-new")
	require.NoError(t, err)
	code := f.store.entries[userID].Code

	// Plaintext must not be retained past the request call.
	assert.Empty(t, f.store.entries[userID].NewEmail)
	assert.NotEqual(t, "s3cret-new", f.store.entries[userID].NewPasswordHash)

	f.repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	err = f.svc.ConfirmPasswordChange(context.Background(), code, token)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-new")))
	assert.Empty(t, f.store.entries)
}
