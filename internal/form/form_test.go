package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChecker struct {
	mu         sync.Mutex
	calls      int
	registered map[string]bool
	err        error
	gate       chan struct{} // when set, blocks each call until a value is received
}

func (c *fakeChecker) IsEmailRegisteredForEvent(ctx context.Context, eventID, email string) (bool, error) {
	c.mu.Lock()
	c.calls++
	gate := c.gate
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if c.err != nil {
		return false, c.err
	}
	return c.registered[email], nil
}

func (c *fakeChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func fillValid(f *Form) {
	f.UpdateField(FieldFirstName, "Alice")
	f.UpdateField(FieldLastName, "Smith")
	f.UpdateField(FieldEmail, "alice@example.com")
	f.UpdateField(FieldInterestingFact, "I write Go")
}

func TestValidationMessages(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		{"first name required", FieldFirstName, "", "First name is required"},
		{"first name blank after trim", FieldFirstName, "   ", "First name is required"},
		{"first name too long", FieldFirstName, strings.Repeat("a", 51), "First name must be 50 characters or less"},
		{"accented name counts characters not bytes", FieldFirstName, strings.Repeat("é", 50), ""},
		{"accented name too long", FieldFirstName, strings.Repeat("é", 51), "First name must be 50 characters or less"},
		{"last name required", FieldLastName, "", "Last name is required"},
		{"email required", FieldEmail, "", "Email is required"},
		{"email malformed", FieldEmail, "not-an-email", "Please enter a valid email address"},
		{"email missing tld", FieldEmail, "alice@example", "Please enter a valid email address"},
		{"email with whitespace", FieldEmail, "alice @example.com", "Please enter a valid email address"},
		{"email too long", FieldEmail, strings.Repeat("a", 250) + "@x.com", "Email must be 254 characters or less"},
		{"fact required", FieldInterestingFact, "", "Interesting fact is required"},
		{"fact too long", FieldInterestingFact, strings.Repeat("x", 256), "Interesting fact must be 255 characters or less"},
		{"valid email passes", FieldEmail, "alice@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("", nil, zap.NewNop())
			f.UpdateField(tt.field, tt.value)

			got := ""
			switch tt.field {
			case FieldFirstName:
				got = f.Validation().FirstName
			case FieldLastName:
				got = f.Validation().LastName
			case FieldEmail:
				got = f.Validation().Email
			case FieldInterestingFact:
				got = f.Validation().InterestingFact
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidRecompute(t *testing.T) {
	f := New("", nil, zap.NewNop())
	assert.False(t, f.IsValid())

	fillValid(f)
	assert.True(t, f.IsValid())

	f.UpdateField(FieldEmail, "broken")
	assert.False(t, f.IsValid())

	f.UpdateField(FieldEmail, "alice@example.com")
	assert.True(t, f.IsValid())
}

func TestValidateAll(t *testing.T) {
	f := New("", nil, zap.NewNop())
	assert.False(t, f.ValidateAll())

	v := f.Validation()
	assert.Equal(t, "First name is required", v.FirstName)
	assert.Equal(t, "Last name is required", v.LastName)
	assert.Equal(t, "Email is required", v.Email)
	assert.Equal(t, "Interesting fact is required", v.InterestingFact)

	fillValid(f)
	assert.True(t, f.ValidateAll())
}

func TestReset(t *testing.T) {
	f := New("", nil, zap.NewNop())
	fillValid(f)
	f.SetSubmitting(true)

	before := f.ResetTrigger()
	f.Reset()

	assert.Equal(t, Data{}, f.Data())
	assert.False(t, f.IsValid())
	assert.False(t, f.IsSubmitting())
	assert.Equal(t, before+1, f.ResetTrigger())
}

func TestDebounce_FlagsRegisteredEmail(t *testing.T) {
	checker := &fakeChecker{registered: map[string]bool{"taken@example.com": true}}
	f := New("go-meetup", checker, zap.NewNop())
	f.window = 5 * time.Millisecond

	f.UpdateField(FieldEmail, "taken@example.com")

	require.Eventually(t, func() bool {
		return f.Validation().Email == "This email is already registered for this event"
	}, time.Second, 5*time.Millisecond)
	assert.False(t, f.IsValid())
}

func TestDebounce_SingleSlot(t *testing.T) {
	checker := &fakeChecker{registered: map[string]bool{}}
	f := New("go-meetup", checker, zap.NewNop())
	f.window = 50 * time.Millisecond

	// Rapid keystrokes: each one cancels the previous timer, so only the
	// final value is ever checked.
	f.UpdateField(FieldEmail, "a@example.com")
	f.UpdateField(FieldEmail, "ab@example.com")
	f.UpdateField(FieldEmail, "abc@example.com")

	require.Eventually(t, func() bool {
		return checker.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, checker.callCount())
}

func TestDebounce_StaleResultDiscarded(t *testing.T) {
	gate := make(chan struct{})
	checker := &fakeChecker{
		registered: map[string]bool{"taken@example.com": true},
		gate:       gate,
	}
	f := New("go-meetup", checker, zap.NewNop())
	f.window = time.Millisecond

	f.UpdateField(FieldEmail, "taken@example.com")
	require.Eventually(t, func() bool { return checker.callCount() == 1 }, time.Second, time.Millisecond)

	// A newer value arrives while the first probe is still in flight.
	f.UpdateField(FieldEmail, "fresh@example.com")
	gate <- struct{}{} // release the stale probe
	require.Eventually(t, func() bool { return checker.callCount() == 2 }, time.Second, time.Millisecond)
	gate <- struct{}{} // release the fresh probe

	// The stale "already registered" result must not land on the new value.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.Validation().Email)
}

func TestDebounce_ErrorTreatedAsNotRegistered(t *testing.T) {
	checker := &fakeChecker{err: errors.New("network down")}
	f := New("go-meetup", checker, zap.NewNop())
	f.window = 5 * time.Millisecond

	f.UpdateField(FieldEmail, "alice@example.com")

	require.Eventually(t, func() bool { return checker.callCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, f.Validation().Email)
}

func TestDebounce_NotScheduledForInvalidEmail(t *testing.T) {
	checker := &fakeChecker{}
	f := New("go-meetup", checker, zap.NewNop())
	f.window = time.Millisecond

	f.UpdateField(FieldEmail, "not-an-email")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, checker.callCount())
}
