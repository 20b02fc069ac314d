package confirmation

import (
	"time"

	"github.com/checkinto-io/checkinto-app/internal/models"
)

// futureTolerance allows for clock skew when checking stored timestamps.
const futureTolerance = 5 * time.Minute

// StateValid reports whether a stored confirmation is still trustworthy
// for the freshly loaded event. Pure predicate, no I/O: when it returns
// false the caller is responsible for clearing the stored state.
func StateValid(eventID string, event *models.Event, stored *State) bool {
	// No stored state means nothing to invalidate.
	if stored == nil {
		return true
	}

	// Event not found.
	if event == nil {
		return false
	}

	// Event no longer accepts check-ins.
	if !event.Active {
		return false
	}

	// Storage key collision.
	if stored.EventID != eventID {
		return false
	}

	// Stale slug: the stored state predates a url_id change.
	if event.URLID != eventID {
		return false
	}

	return true
}

// CanPersist reports whether a new confirmation may be durably stored for
// the event. Malformed event records never get persisted confirmations.
func CanPersist(event *models.Event) bool {
	if event == nil {
		return false
	}
	if !event.Active {
		return false
	}
	if event.URLID == "" || event.ID == "" || event.Title == "" {
		return false
	}
	return true
}

// ValidTimestamp checks a stored epoch-millisecond timestamp. maxAge of
// zero disables age checking; no shipped caller passes one.
func ValidTimestamp(timestamp int64, maxAge time.Duration) bool {
	if timestamp <= 0 {
		return false
	}

	now := time.Now().UnixMilli()
	if timestamp > now+futureTolerance.Milliseconds() {
		return false
	}

	if maxAge > 0 && now-timestamp > maxAge.Milliseconds() {
		return false
	}

	return true
}

// ValidStateObject is the strict structural check applied at the
// deserialization boundary: the state must be confirmed, carry the
// expected event id, and have a plausible timestamp.
func ValidStateObject(state *State, expectedEventID string) bool {
	if state == nil {
		return false
	}
	if !state.IsConfirmed {
		return false
	}
	if state.EventID != expectedEventID {
		return false
	}
	return ValidTimestamp(state.Timestamp, 0)
}

// ValidateAndCleanup reads the stored state for the event, clears it when
// it fails validation, and returns the surviving state or nil.
func (s *Store) ValidateAndCleanup(eventID string, event *models.Event) *State {
	stored := s.Get(eventID)
	if stored == nil {
		return nil
	}

	if !StateValid(eventID, event, stored) {
		s.Clear(eventID)
		return nil
	}

	return stored
}
