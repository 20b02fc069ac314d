package navigation

import (
	"sync"

	"github.com/checkinto-io/checkinto-app/internal/confirmation"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"go.uber.org/zap"
)

type Screen string

const (
	ScreenWelcome      Screen = "welcome"
	ScreenCheckin      Screen = "checkin"
	ScreenConfirmation Screen = "confirmation"
)

// State is the navigation snapshot for one check-in session. Loading and
// error flags are orthogonal to the screen.
type State struct {
	CurrentScreen Screen
	EventID       string
	IsLoading     bool
	Error         string
}

func initialState() State {
	return State{CurrentScreen: ScreenWelcome}
}

// Machine tracks which screen a session shows and keeps it consistent with
// the durable confirmation store. The confirmation screen is reachable only
// through CompleteCheckin or a validated restore in SetEvent.
type Machine struct {
	mu    sync.Mutex
	state State
	store *confirmation.Store
	log   *zap.Logger
}

func NewMachine(store *confirmation.Store, log *zap.Logger) *Machine {
	return &Machine{state: initialState(), store: store, log: log}
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetEvent installs the freshly loaded event record. A stored confirmation
// that survives validation jumps the session straight to the confirmation
// screen; anything else lands on welcome. Stale stored state is cleared as
// a side effect. Loading and error flags are always reset.
func (m *Machine) SetEvent(eventID string, event *models.Event) {
	restored := m.store.ValidateAndCleanup(eventID, event) // I/O outside the lock

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.EventID = eventID
	m.state.Error = ""
	m.state.IsLoading = false

	if restored != nil && restored.IsConfirmed {
		m.log.Info("Restored confirmed session", zap.String("event_id", eventID))
		m.state.CurrentScreen = ScreenConfirmation
		return
	}
	m.state.CurrentScreen = ScreenWelcome
}

// GoToScreen switches between the welcome and check-in screens. Requests
// for the confirmation screen are refused; that transition must carry a
// confirmation.
func (m *Machine) GoToScreen(screen Screen) {
	if screen == ScreenConfirmation {
		m.log.Warn("Refusing direct navigation to confirmation screen")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentScreen = screen
	m.state.Error = ""
	m.state.IsLoading = false
}

func (m *Machine) StartCheckin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentScreen = ScreenCheckin
	m.state.Error = ""
}

// CompleteCheckin moves to the confirmation screen and, when the event
// record is fit for persistence, durably stores the confirmation. The
// attendee email is accepted for future use; persistence does not depend
// on it.
func (m *Machine) CompleteCheckin(event *models.Event, attendeeEmail string) {
	m.mu.Lock()
	eventID := m.state.EventID
	m.state.CurrentScreen = ScreenConfirmation
	m.state.Error = ""
	m.state.IsLoading = false
	m.mu.Unlock()

	if confirmation.CanPersist(event) {
		if !m.store.Store(eventID) {
			m.log.Warn("Could not persist confirmation state",
				zap.String("event_id", eventID))
		}
	}
}

func (m *Machine) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsLoading = loading
}

// SetError records a session-level error message. Setting an error always
// clears the loading flag; an empty message clears the error.
func (m *Machine) SetError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Error = message
	m.state.IsLoading = false
}

// Reset clears the durable confirmation for the current event and returns
// the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	eventID := m.state.EventID
	m.state = initialState()
	m.mu.Unlock()

	if eventID != "" {
		m.store.Clear(eventID)
	}
}
