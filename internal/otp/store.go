package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lms/internal/cache"
)

// CodeExpiry is how long a pending change and its code stay valid.
const CodeExpiry = 10 * time.Minute

const pendingKeyPrefix = "otp:pending:"

// ChangeKind distinguishes the two gated profile mutations.
type ChangeKind string

const (
	KindEmailChange    ChangeKind = "email_change"
	KindPasswordChange ChangeKind = "password_change"
)

// PendingChange is the server-side record of an unconfirmed profile mutation.
// Exactly one of NewEmail / NewPasswordHash is set, depending on Kind.
type PendingChange struct {
	Code            string     `json:"code"`
	Kind            ChangeKind `json:"kind"`
	ExpiresAt       time.Time  `json:"expires_at"`
	NewEmail        string     `json:"new_email,omitempty"`
	NewPasswordHash string     `json:"new_password_hash,omitempty"`
}

// Expired reports whether the entry's own expiry has elapsed.
func (p *PendingChange) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// PendingStore keeps at most one pending change per user. Put replaces any
// existing entry for the user: a newer request supersedes the older one.
type PendingStore interface {
	Put(ctx context.Context, userID uuid.UUID, change PendingChange, ttl time.Duration) error
	// Get returns nil without error when no entry exists.
	Get(ctx context.Context, userID uuid.UUID) (*PendingChange, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisPendingStore backs the pending-change state with Redis so any instance
// can serve the confirmation step. TTL doubles as garbage collection for
// abandoned entries.
type RedisPendingStore struct {
	cache *cache.Client
}

var _ PendingStore = (*RedisPendingStore)(nil)

// NewRedisPendingStore creates a Redis-backed pending-change store.
func NewRedisPendingStore(cache *cache.Client) *RedisPendingStore {
	return &RedisPendingStore{cache: cache}
}

func pendingKey(userID uuid.UUID) string {
	return pendingKeyPrefix + userID.String()
}

// Put stores the pending change, overwriting any prior entry for the user.
func (s *RedisPendingStore) Put(ctx context.Context, userID uuid.UUID, change PendingChange, ttl time.Duration) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal pending change: %w", err)
	}
	if err := s.cache.Set(ctx, pendingKey(userID), payload, ttl); err != nil {
		return fmt.Errorf("store pending change: %w", err)
	}
	return nil
}

// Get loads the pending change for the user, or nil when absent.
func (s *RedisPendingStore) Get(ctx context.Context, userID uuid.UUID) (*PendingChange, error) {
	data, err := s.cache.Get(ctx, pendingKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load pending change: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var change PendingChange
	if err := json.Unmarshal(data, &change); err != nil {
		return nil, fmt.Errorf("unmarshal pending change: %w", err)
	}
	return &change, nil
}

// Delete consumes the pending change for the user.
func (s *RedisPendingStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Delete(ctx, pendingKey(userID))
}
