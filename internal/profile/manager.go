package profile

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store defines the persistence operations the Manager needs.
// Implemented by storage.Store.
type Store interface {
	// LoadProfile returns the stored profile for a conversation. The bool
	// is false when no profile has been persisted yet.
	LoadProfile(ctx context.Context, conversationID string) (Profile, bool, error)
	SaveProfile(ctx context.Context, conversationID string, p Profile) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager provides cached, per-conversation access to user profiles. A
// profile is loaded (or created) on first access and kept in memory for the
// life of the process; every read hands out an independent copy.
type Manager struct {
	store Store
	clock Clock

	mu     sync.Mutex
	cached map[string]Profile
}

// NewManager creates a Manager backed by store.
func NewManager(store Store) *Manager {
	return NewManagerWithClock(store, realClock{})
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock) *Manager {
	return &Manager{
		store:  store,
		clock:  clock,
		cached: make(map[string]Profile),
	}
}

// Get returns the profile for a conversation, creating a default one on
// first contact. The default is not persisted until the first Apply or
// Reset writes it.
func (m *Manager) Get(ctx context.Context, conversationID string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(ctx, conversationID)
}

func (m *Manager) getLocked(ctx context.Context, conversationID string) (Profile, error) {
	if p, ok := m.cached[conversationID]; ok {
		return clone(p), nil
	}
	p, found, err := m.store.LoadProfile(ctx, conversationID)
	if err != nil {
		return Profile{}, fmt.Errorf("loading profile for %s: %w", conversationID, err)
	}
	if !found {
		p = Default(m.clock.Now())
	}
	m.cached[conversationID] = clone(p)
	return p, nil
}

// Apply merges an update into the conversation's profile and persists the
// result. Zero updates are a no-op and do not advance the profile's
// last-updated time. When persistence fails the merged profile is still
// retained in memory and returned alongside the error, so a turn can
// proceed on the in-memory value while the caller logs the failure.
func (m *Manager) Apply(ctx context.Context, conversationID string, u Update) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.getLocked(ctx, conversationID)
	if err != nil {
		return Profile{}, err
	}
	if u.IsZero() {
		return cur, nil
	}

	merged := Merge(cur, u, m.clock.Now())
	m.cached[conversationID] = clone(merged)

	if err := m.store.SaveProfile(ctx, conversationID, merged); err != nil {
		return merged, fmt.Errorf("saving profile for %s: %w", conversationID, err)
	}
	return merged, nil
}

// Reset wipes the conversation's profile back to the default, with a fresh
// created timestamp, and persists it.
func (m *Manager) Reset(ctx context.Context, conversationID string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := Default(m.clock.Now())
	m.cached[conversationID] = clone(p)

	if err := m.store.SaveProfile(ctx, conversationID, p); err != nil {
		return p, fmt.Errorf("resetting profile for %s: %w", conversationID, err)
	}
	return p, nil
}
