package confirmation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const storageKeyPrefix = "meetup-checkin"

// State is the durable record marking that this client already completed
// check-in for a given event.
type State struct {
	IsConfirmed bool   `json:"isConfirmed"`
	Timestamp   int64  `json:"timestamp"` // epoch milliseconds
	EventID     string `json:"eventId"`
}

// Store keeps one confirmation record per event in local durable storage.
// Every operation is best-effort: if the backing filesystem is unavailable
// or corrupt, callers get a safe default and a warning is logged, never an
// error.
type Store struct {
	fs  afero.Fs
	dir string
	log *zap.Logger
}

func NewStore(fs afero.Fs, dir string, log *zap.Logger) *Store {
	return &Store{fs: fs, dir: dir, log: log}
}

// StorageKey derives the per-event key. The fixed prefix and suffix keep
// records for different events from ever colliding.
func StorageKey(eventID string) string {
	return fmt.Sprintf("%s-%s-confirmation-state", storageKeyPrefix, eventID)
}

func (s *Store) path(eventID string) string {
	return s.dir + "/" + StorageKey(eventID) + ".json"
}

func (s *Store) available() bool {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return false
	}
	probe := s.dir + "/.storage-probe"
	if err := afero.WriteFile(s.fs, probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	s.fs.Remove(probe)
	return true
}

// Store writes a confirmed record for the event. Returns false when storage
// is unavailable or the write fails.
func (s *Store) Store(eventID string) bool {
	if !s.available() {
		return false
	}

	state := State{
		IsConfirmed: true,
		Timestamp:   time.Now().UnixMilli(),
		EventID:     eventID,
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.log.Warn("Failed to encode confirmation state", zap.Error(err))
		return false
	}

	if err := afero.WriteFile(s.fs, s.path(eventID), data, 0o644); err != nil {
		s.log.Warn("Failed to store confirmation state",
			zap.String("event_id", eventID), zap.Error(err))
		return false
	}
	return true
}

// Get reads the record for the event. A missing record returns nil; a
// corrupt or mismatched record is deleted (self-heal) and nil is returned.
func (s *Store) Get(eventID string) *State {
	if !s.available() {
		return nil
	}

	data, err := afero.ReadFile(s.fs, s.path(eventID))
	if err != nil {
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn("Corrupt confirmation state, clearing",
			zap.String("event_id", eventID), zap.Error(err))
		s.Clear(eventID)
		return nil
	}

	if state.EventID != eventID {
		s.log.Warn("Confirmation state event mismatch, clearing",
			zap.String("event_id", eventID), zap.String("stored_event_id", state.EventID))
		s.Clear(eventID)
		return nil
	}

	return &state
}

// Clear deletes the record for the event. Idempotent.
func (s *Store) Clear(eventID string) bool {
	if !s.available() {
		return false
	}
	if err := s.fs.Remove(s.path(eventID)); err != nil {
		// Already gone counts as cleared.
		if exists, _ := afero.Exists(s.fs, s.path(eventID)); exists {
			s.log.Warn("Failed to clear confirmation state",
				zap.String("event_id", eventID), zap.Error(err))
			return false
		}
	}
	return true
}

// Has reports whether a confirmed record exists for the event.
func (s *Store) Has(eventID string) bool {
	state := s.Get(eventID)
	return state != nil && state.IsConfirmed
}

// ClearAll removes every confirmation record in the store and returns how
// many were deleted. Diagnostic sweep.
func (s *Store) ClearAll() int {
	if !s.available() {
		return 0
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		s.log.Warn("Failed to list confirmation states", zap.Error(err))
		return 0
	}

	cleared := 0
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, storageKeyPrefix+"-") && strings.HasSuffix(name, "-confirmation-state.json") {
			if err := s.fs.Remove(s.dir + "/" + name); err == nil {
				cleared++
			}
		}
	}
	return cleared
}
