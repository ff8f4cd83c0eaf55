package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/internal/cache"
	apperrors "lms/internal/errors"
	"lms/internal/mail"
	"lms/internal/model"
	"lms/internal/otp"
	"lms/internal/repository"
)

// ProfileChangeService runs the two-phase OTP protocol gating email and
// password changes. The request step proves nothing by itself; the confirm
// step requires both the signed change token and the code delivered to the
// account's current email address.
type ProfileChangeService interface {
	RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) (changeToken string, err error)
	ConfirmEmailChange(ctx context.Context, code, changeToken string) (*model.Profile, error)
	RequestPasswordChange(ctx context.Context, userID uuid.UUID, newPassword string) (changeToken string, err error)
	ConfirmPasswordChange(ctx context.Context, code, changeToken string) error
}

type profileChangeService struct {
	userRepo repository.UserRepository
	store    otp.PendingStore
	tokens   *otp.TokenService
	mailer   mail.Mailer
	cache    *cache.Client
}

// NewProfileChangeService creates the OTP change-confirmation service.
func NewProfileChangeService(
	userRepo repository.UserRepository,
	store otp.PendingStore,
	tokens *otp.TokenService,
	mailer mail.Mailer,
	cache *cache.Client,
) ProfileChangeService {
	return &profileChangeService{
		userRepo: userRepo,
		store:    store,
		tokens:   tokens,
		mailer:   mailer,
		cache:    cache,
	}
}

// RequestEmailChange issues a code for changing the user's email. The code
// goes to the *current* address: even if an attacker requests the change,
// only the account holder can approve it. The pending entry is only persisted
// once delivery succeeded, so a failed send leaves no state behind.
func (s *profileChangeService) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) (string, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendCode(ctx, user.Email, code, otp.KindEmailChange); err != nil {
		return "", fmt.Errorf("deliver code: %w", err)
	}

	change := otp.PendingChange{
		Code:      code,
		Kind:      otp.KindEmailChange,
		ExpiresAt: time.Now().Add(otp.CodeExpiry),
		NewEmail:  newEmail,
	}
	if err := s.store.Put(ctx, userID, change, otp.CodeExpiry); err != nil {
		return "", err
	}

	return s.tokens.Generate(userID, otp.KindEmailChange, newEmail)
}

// ConfirmEmailChange applies the pending email change when both the token and
// the submitted code check out. On success the pending entry is consumed; on
// any failure all state is left untouched so further attempts remain possible
// until expiry.
func (s *profileChangeService) ConfirmEmailChange(ctx context.Context, code, changeToken string) (*model.Profile, error) {
	userID, pending, err := s.verify(ctx, code, changeToken, otp.KindEmailChange)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIDWithCreator(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	user.Email = pending.NewEmail
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.consume(ctx, userID); err != nil {
		return nil, err
	}

	return user.PublicProfile(), nil
}

// RequestPasswordChange issues a code for changing the user's password. The
// new password is hashed here so the plaintext never outlives this call.
func (s *profileChangeService) RequestPasswordChange(ctx context.Context, userID uuid.UUID, newPassword string) (string, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendCode(ctx, user.Email, code, otp.KindPasswordChange); err != nil {
		return "", fmt.Errorf("deliver code: %w", err)
	}

	change := otp.PendingChange{
		Code:            code,
		Kind:            otp.KindPasswordChange,
		ExpiresAt:       time.Now().Add(otp.CodeExpiry),
		NewPasswordHash: string(hashed),
	}
	if err := s.store.Put(ctx, userID, change, otp.CodeExpiry); err != nil {
		return "", err
	}

	return s.tokens.Generate(userID, otp.KindPasswordChange, "")
}

// ConfirmPasswordChange applies the pending password hash when the token and
// code check out.
func (s *profileChangeService) ConfirmPasswordChange(ctx context.Context, code, changeToken string) error {
	userID, pending, err := s.verify(ctx, code, changeToken, otp.KindPasswordChange)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	user.PasswordHash = pending.NewPasswordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return s.consume(ctx, userID)
}

// verify runs the stateless checks (token signature, token expiry, kind)
// then the stateful ones (pending entry present, code match, entry expiry).
// Every failure maps to the same ErrInvalidOTP so callers cannot tell which
// check tripped.
func (s *profileChangeService) verify(ctx context.Context, code, changeToken string, kind otp.ChangeKind) (uuid.UUID, *otp.PendingChange, error) {
	claims, err := s.tokens.Validate(changeToken)
	if err != nil {
		return uuid.Nil, nil, apperrors.ErrInvalidOTP
	}
	if claims.Kind != kind {
		return uuid.Nil, nil, apperrors.ErrInvalidOTP
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, nil, apperrors.ErrInvalidOTP
	}

	pending, err := s.store.Get(ctx, userID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if pending == nil || pending.Kind != kind || pending.Code != code || pending.Expired(time.Now()) {
		return uuid.Nil, nil, apperrors.ErrInvalidOTP
	}

	return userID, pending, nil
}

// consume deletes the pending entry and drops the cached profile. A failed
// delete is surfaced: leaving the entry behind would allow code reuse on
// another instance.
func (s *profileChangeService) consume(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("consume pending change: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(userID))
	return nil
}

func (s *profileChangeService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
