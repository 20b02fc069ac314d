package form

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	FirstNameMaxLength       = 50
	LastNameMaxLength        = 50
	EmailMaxLength           = 254
	InterestingFactMaxLength = 255

	debounceWindow = 500 * time.Millisecond
)

// Shallow two-part check. Deep validation happens server-side via the
// uniqueness constraint.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Field string

const (
	FieldFirstName       Field = "first_name"
	FieldLastName        Field = "last_name"
	FieldEmail           Field = "email"
	FieldInterestingFact Field = "interesting_fact"
)

type Data struct {
	FirstName       string
	LastName        string
	Email           string
	InterestingFact string
}

// Validation holds one message per field; empty means valid.
type Validation struct {
	FirstName       string
	LastName        string
	Email           string
	InterestingFact string
}

func (v Validation) Valid() bool {
	return v.FirstName == "" && v.LastName == "" && v.Email == "" && v.InterestingFact == ""
}

// Validate runs every field check against a data snapshot. Handlers use it
// as the server-side gate, independent of any live Form instance.
func Validate(d Data) Validation {
	return Validation{
		FirstName:       validateName(d.FirstName, "First name", FirstNameMaxLength),
		LastName:        validateName(d.LastName, "Last name", LastNameMaxLength),
		Email:           validateEmail(d.Email),
		InterestingFact: validateInterestingFact(d.InterestingFact),
	}
}

// Fields maps non-empty messages by wire field name.
func (v Validation) Fields() map[string]string {
	fields := map[string]string{}
	if v.FirstName != "" {
		fields["first_name"] = v.FirstName
	}
	if v.LastName != "" {
		fields["last_name"] = v.LastName
	}
	if v.Email != "" {
		fields["email"] = v.Email
	}
	if v.InterestingFact != "" {
		fields["interesting_fact"] = v.InterestingFact
	}
	return fields
}

// RegistrationChecker answers whether an email is already registered for an
// event. Implemented by the check-in orchestrator.
type RegistrationChecker interface {
	IsEmailRegisteredForEvent(ctx context.Context, eventID, email string) (bool, error)
}

// Form tracks check-in form state: field values, per-field validation
// messages, and whole-form validity. Updating the email field schedules a
// debounced remote already-registered probe; the probe is advisory and
// never blocks submission on its own.
type Form struct {
	mu           sync.Mutex
	data         Data
	validation   Validation
	isValid      bool
	isSubmitting bool
	resetTrigger int

	eventID string
	checker RegistrationChecker
	log     *zap.Logger

	window     time.Duration
	timer      *time.Timer
	generation uint64
}

func New(eventID string, checker RegistrationChecker, log *zap.Logger) *Form {
	return &Form{
		eventID: eventID,
		checker: checker,
		log:     log,
		window:  debounceWindow,
	}
}

func (f *Form) Data() Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *Form) Validation() Validation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validation
}

func (f *Form) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isValid
}

func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isSubmitting
}

// ResetTrigger is a monotonic counter bumped on every Reset so presentation
// layers can force-clear autofill artifacts.
func (f *Form) ResetTrigger() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetTrigger
}

func (f *Form) SetSubmitting(submitting bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isSubmitting = submitting
}

// UpdateField sets one field, revalidates just that field, and recomputes
// whole-form validity. A syntactically valid email additionally schedules
// the debounced remote uniqueness probe.
func (f *Form) UpdateField(field Field, value string) {
	f.mu.Lock()

	switch field {
	case FieldFirstName:
		f.data.FirstName = value
		f.validation.FirstName = validateName(value, "First name", FirstNameMaxLength)
	case FieldLastName:
		f.data.LastName = value
		f.validation.LastName = validateName(value, "Last name", LastNameMaxLength)
	case FieldEmail:
		f.data.Email = value
		f.validation.Email = validateEmail(value)
	case FieldInterestingFact:
		f.data.InterestingFact = value
		f.validation.InterestingFact = validateInterestingFact(value)
	}

	f.recomputeValidity()

	scheduleCheck := field == FieldEmail && f.validation.Email == "" &&
		f.eventID != "" && f.checker != nil
	email := f.data.Email
	f.mu.Unlock()

	if scheduleCheck {
		f.scheduleEmailCheck(email)
	}
}

// ValidateAll synchronously revalidates every field. This is the
// authoritative gate at submit time, independent of debounce timing.
func (f *Form) ValidateAll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.validation = Validation{
		FirstName:       validateName(f.data.FirstName, "First name", FirstNameMaxLength),
		LastName:        validateName(f.data.LastName, "Last name", LastNameMaxLength),
		Email:           validateEmail(f.data.Email),
		InterestingFact: validateInterestingFact(f.data.InterestingFact),
	}
	f.isValid = f.validation.Valid()
	return f.isValid
}

// Reset restores blank state, cancels any pending email probe, and bumps
// the reset trigger.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.generation++ // discard any in-flight probe result

	f.data = Data{}
	f.validation = Validation{}
	f.isValid = false
	f.isSubmitting = false
	f.resetTrigger++
}

// recomputeValidity must be called with the lock held.
func (f *Form) recomputeValidity() {
	f.isValid = f.validation.Valid() &&
		strings.TrimSpace(f.data.FirstName) != "" &&
		strings.TrimSpace(f.data.LastName) != "" &&
		strings.TrimSpace(f.data.Email) != "" &&
		strings.TrimSpace(f.data.InterestingFact) != ""
}

// Length limits count characters, not bytes, so accented names are not
// penalized for their UTF-8 encoding.
func validateName(value, label string, max int) string {
	if strings.TrimSpace(value) == "" {
		return label + " is required"
	}
	if utf8.RuneCountInString(value) > max {
		return label + " must be " + strconv.Itoa(max) + " characters or less"
	}
	return ""
}

func validateEmail(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Email is required"
	}
	if utf8.RuneCountInString(value) > EmailMaxLength {
		return "Email must be " + strconv.Itoa(EmailMaxLength) + " characters or less"
	}
	if !emailPattern.MatchString(value) {
		return "Please enter a valid email address"
	}
	return ""
}

func validateInterestingFact(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Interesting fact is required"
	}
	if utf8.RuneCountInString(value) > InterestingFactMaxLength {
		return "Interesting fact must be " + strconv.Itoa(InterestingFactMaxLength) + " characters or less"
	}
	return ""
}
