package repository

import (
	"context"
	"sync"
	"time"

	"clinic-admin/internal/model"
)

const activityPerUser = 100

type storedToken struct {
	userID    string
	expiresAt time.Time
}

// MemoryTokenRepository is the TokenRepository used when no database is
// configured.
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: map[string]storedToken{}}
}

func (r *MemoryTokenRepository) Store(_ context.Context, tokenID string, userID string, _ time.Time, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenID] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *MemoryTokenRepository) Validate(_ context.Context, tokenID string, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok || !t.expiresAt.After(now) {
		return "", model.ErrTokenNotFound
	}
	return t.userID, nil
}

func (r *MemoryTokenRepository) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenID)
	return nil
}

func (r *MemoryTokenRepository) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.userID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *MemoryTokenRepository) CleanExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, t := range r.tokens {
		if !t.expiresAt.After(now) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed, nil
}

// MemoryActivityRepository keeps the latest entries of each user.
type MemoryActivityRepository struct {
	mu     sync.Mutex
	byUser map[string][]model.Activity
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{byUser: map[string][]model.Activity{}}
}

func (r *MemoryActivityRepository) Log(_ context.Context, entry model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.byUser[entry.UserID], entry)
	if len(entries) > activityPerUser {
		entries = entries[len(entries)-activityPerUser:]
	}
	r.byUser[entry.UserID] = entries
	return nil
}

func (r *MemoryActivityRepository) List(_ context.Context, userID string, limit int) ([]model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byUser[userID]
	out := make([]model.Activity, 0, min(limit, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
