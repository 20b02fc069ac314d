package form

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const alreadyRegisteredMessage = "This email is already registered for this event"

// scheduleEmailCheck arms the single debounce timer slot for the remote
// already-registered probe. A newer keystroke cancels the pending timer and
// restarts the quiet window; a probe result that arrives after a newer
// schedule or a reset is discarded (latest request wins).
func (f *Form) scheduleEmailCheck(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}

	f.generation++
	gen := f.generation

	f.timer = time.AfterFunc(f.window, func() {
		f.runEmailCheck(gen, email)
	})
}

func (f *Form) runEmailCheck(gen uint64, email string) {
	registered, err := f.checker.IsEmailRegisteredForEvent(context.Background(), f.eventID, email)
	if err != nil {
		// Advisory check: on error, assume not a duplicate so a
		// legitimate resubmission is never blocked.
		f.log.Warn("Email registration check failed",
			zap.String("event_id", f.eventID), zap.Error(err))
		return
	}

	if !registered {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Stale result: a newer check was scheduled or the form was reset.
	if gen != f.generation {
		return
	}
	// The field changed while the probe was in flight.
	if f.data.Email != email {
		return
	}

	f.validation.Email = alreadyRegisteredMessage
	f.recomputeValidity()
}
