package confirmation

import (
	"testing"
	"time"

	"github.com/checkinto-io/checkinto-app/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func activeEvent(urlID string) *models.Event {
	return &models.Event{
		ID:     "11111111-1111-1111-1111-111111111111",
		URLID:  urlID,
		Title:  "Go Meetup",
		Active: true,
	}
}

func confirmedState(eventID string) *State {
	return &State{
		IsConfirmed: true,
		Timestamp:   time.Now().UnixMilli(),
		EventID:     eventID,
	}
}

func TestStateValid(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		event   *models.Event
		stored  *State
		want    bool
	}{
		{
			name:    "no stored state is trivially valid",
			eventID: "go-meetup",
			event:   activeEvent("go-meetup"),
			stored:  nil,
			want:    true,
		},
		{
			name:    "event not found invalidates",
			eventID: "go-meetup",
			event:   nil,
			stored:  confirmedState("go-meetup"),
			want:    false,
		},
		{
			name:    "inactive event invalidates regardless of other fields",
			eventID: "go-meetup",
			event: &models.Event{
				ID: "id", URLID: "go-meetup", Title: "Go Meetup", Active: false,
			},
			stored: confirmedState("go-meetup"),
			want:   false,
		},
		{
			name:    "stored event id mismatch invalidates",
			eventID: "B",
			event:   activeEvent("B"),
			stored:  confirmedState("A"),
			want:    false,
		},
		{
			name:    "stale slug invalidates",
			eventID: "old-slug",
			event:   activeEvent("new-slug"),
			stored:  confirmedState("old-slug"),
			want:    false,
		},
		{
			name:    "matching active event validates",
			eventID: "go-meetup",
			event:   activeEvent("go-meetup"),
			stored:  confirmedState("go-meetup"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateValid(tt.eventID, tt.event, tt.stored))
		})
	}
}

func TestCanPersist(t *testing.T) {
	assert.False(t, CanPersist(nil))

	inactive := activeEvent("go-meetup")
	inactive.Active = false
	assert.False(t, CanPersist(inactive))

	noTitle := activeEvent("go-meetup")
	noTitle.Title = ""
	assert.False(t, CanPersist(noTitle))

	noID := activeEvent("go-meetup")
	noID.ID = ""
	assert.False(t, CanPersist(noID))

	assert.True(t, CanPersist(activeEvent("go-meetup")))
}

func TestValidTimestamp(t *testing.T) {
	now := time.Now().UnixMilli()

	assert.False(t, ValidTimestamp(0, 0))
	assert.False(t, ValidTimestamp(-5, 0))
	assert.True(t, ValidTimestamp(now, 0))

	// Small future skew is tolerated, large is not.
	assert.True(t, ValidTimestamp(now+time.Minute.Milliseconds(), 0))
	assert.False(t, ValidTimestamp(now+time.Hour.Milliseconds(), 0))

	// Optional max age.
	old := now - (2 * time.Hour).Milliseconds()
	assert.True(t, ValidTimestamp(old, 0))
	assert.False(t, ValidTimestamp(old, time.Hour))
}

func TestValidStateObject(t *testing.T) {
	assert.False(t, ValidStateObject(nil, "go-meetup"))

	unconfirmed := confirmedState("go-meetup")
	unconfirmed.IsConfirmed = false
	assert.False(t, ValidStateObject(unconfirmed, "go-meetup"))

	assert.False(t, ValidStateObject(confirmedState("other"), "go-meetup"))

	stale := confirmedState("go-meetup")
	stale.Timestamp = 0
	assert.False(t, ValidStateObject(stale, "go-meetup"))

	assert.True(t, ValidStateObject(confirmedState("go-meetup"), "go-meetup"))
}

func TestValidateAndCleanup(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "state", zap.NewNop())
	s.Store("go-meetup")

	// Invalid: event went inactive. State is returned as nil and cleared.
	inactive := activeEvent("go-meetup")
	inactive.Active = false
	assert.Nil(t, s.ValidateAndCleanup("go-meetup", inactive))
	assert.Nil(t, s.Get("go-meetup"))

	// Valid: state survives.
	s.Store("go-meetup")
	state := s.ValidateAndCleanup("go-meetup", activeEvent("go-meetup"))
	assert.NotNil(t, state)
	assert.NotNil(t, s.Get("go-meetup"))
}
