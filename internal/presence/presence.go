// Package presence derives online status from last-activity timestamps.
package presence

import (
	"errors"
	"time"

	"github.com/mhr3/skipscan/internal/store"
)

// ProfileStore is the subset of the store presence needs.
type ProfileStore interface {
	TouchLastSeen(username string, at time.Time) error
	GetProfile(username string) (store.Profile, error)
}

// IsOnline reports whether lastSeen lies within window of now.
// A zero lastSeen is never online.
func IsOnline(lastSeen, now time.Time, window time.Duration) bool {
	if lastSeen.IsZero() {
		return false
	}
	return now.Sub(lastSeen) <= window
}

// Tracker records activity and answers online queries.
type Tracker struct {
	store  ProfileStore
	window time.Duration
	now    func() time.Time
}

// NewTracker returns a Tracker. A nil now uses time.Now.
func NewTracker(s ProfileStore, window time.Duration, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: s, window: window, now: now}
}

// Touch marks username as active now.
func (t *Tracker) Touch(username string) error {
	return t.store.TouchLastSeen(username, t.now())
}

// LastSeen returns the last recorded activity. The zero time means never.
func (t *Tracker) LastSeen(username string) (time.Time, error) {
	p, err := t.store.GetProfile(username)
	if errors.Is(err, store.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return p.LastSeen, nil
}

// Online reports whether username was active within the window.
func (t *Tracker) Online(username string) (bool, error) {
	seen, err := t.LastSeen(username)
	if err != nil {
		return false, err
	}
	return IsOnline(seen, t.now(), t.window), nil
}
