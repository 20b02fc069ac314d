package checkin

import (
	"context"
	"errors"
	"strings"

	"github.com/checkinto-io/checkinto-app/internal/form"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// Result is the structured outcome of a check-in attempt. Backing-store
// failures surface here as Success=false plus a message, never as a panic
// or an unclassified error reaching the UI layer.
type Result struct {
	Success            bool             `json:"success"`
	IsExistingAttendee bool             `json:"is_existing_attendee"`
	Attendee           *models.Attendee `json:"attendee,omitempty"`
	Message            string           `json:"message,omitempty"`

	// NotFound distinguishes an unknown or inactive event from a backing
	// store failure, independent of the human-facing message wording.
	NotFound bool `json:"-"`
}

// Orchestrator guarantees that a submission creates at most one attendee
// row per (community, email) and at most one link per (event, attendee),
// no matter how many times or from how many devices it is submitted.
type Orchestrator struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrchestrator(db *gorm.DB, log *zap.Logger) *Orchestrator {
	return &Orchestrator{db: db, log: log}
}

// GetEventByURLID loads an active event by its URL slug, with its owning
// community and page relations. An optional community subdomain narrows
// the lookup for multi-tenant deployments. Returns ErrEventNotFound for
// missing or inactive events.
func (o *Orchestrator) GetEventByURLID(ctx context.Context, urlID, communitySubdomain string) (*models.Event, error) {
	query := o.db.WithContext(ctx).
		Preload("Community").
		Preload("Venue").
		Preload("Host").
		Preload("Presenter").
		Preload("WorkshopLead").
		Where("url_id = ? AND active = ?", urlID, true)

	if communitySubdomain != "" {
		query = query.
			Joins("JOIN communities ON communities.id = events.community_id").
			Where("communities.subdomain = ?", communitySubdomain)
	}

	var event models.Event
	if err := query.First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// IsEmailRegisteredForEvent reports whether an attendee with this email is
// already linked to the event. Also serves the form's debounced probe.
func (o *Orchestrator) IsEmailRegisteredForEvent(ctx context.Context, eventID, email string) (bool, error) {
	var count int64
	err := o.db.WithContext(ctx).
		Model(&models.EventAttendee{}).
		Joins("JOIN attendees ON attendees.id = event_attendees.attendee_id").
		Where("event_attendees.event_id = ? AND attendees.email = ?", eventID, sanitize(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckIn records an attendee for the event identified by its URL slug.
//
// The pre-check makes repeat submissions idempotent, but two first-time
// submissions racing with the same email can both pass it; the unique
// index on (community_id, email) is the source of truth, and a rejected
// insert is classified as the benign already-registered outcome.
func (o *Orchestrator) CheckIn(ctx context.Context, urlID string, data form.Data) Result {
	event, err := o.GetEventByURLID(ctx, urlID, "")
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return Result{NotFound: true, Message: "Event not found"}
		}
		o.log.Error("Event lookup failed", zap.String("url_id", urlID), zap.Error(err))
		return Result{Message: "Something went wrong, please try again"}
	}

	email := sanitize(data.Email)

	registered, err := o.IsEmailRegisteredForEvent(ctx, event.ID, email)
	if err != nil {
		o.log.Error("Registration check failed",
			zap.String("event_id", event.ID), zap.Error(err))
		return Result{Message: "Something went wrong, please try again"}
	}
	if registered {
		attendee, err := o.findAttendee(ctx, event.CommunityID, email)
		if err != nil {
			o.log.Error("Existing attendee lookup failed", zap.Error(err))
			return Result{Message: "Something went wrong, please try again"}
		}
		return Result{Success: true, IsExistingAttendee: true, Attendee: attendee,
			Message: "You're already checked in"}
	}

	// Insert-only, never upsert: an email collision must not overwrite
	// another attendee's data.
	attendee := models.Attendee{
		FirstName:       sanitize(data.FirstName),
		LastName:        sanitize(data.LastName),
		Email:           email,
		InterestingFact: sanitize(data.InterestingFact),
		CommunityID:     event.CommunityID,
	}

	isExisting := false
	if err := o.db.WithContext(ctx).Create(&attendee).Error; err != nil {
		if !isUniqueViolation(err) {
			o.log.Error("Attendee insert failed",
				zap.String("event_id", event.ID), zap.Error(err))
			return Result{Message: "Something went wrong, please try again"}
		}
		// Lost a race or checked in for another of this community's
		// events before: reuse the existing row.
		existing, err := o.findAttendee(ctx, event.CommunityID, email)
		if err != nil {
			o.log.Error("Attendee lookup after conflict failed", zap.Error(err))
			return Result{Message: "Something went wrong, please try again"}
		}
		attendee = *existing
		isExisting = true
	}

	link := models.EventAttendee{EventID: event.ID, AttendeeID: attendee.ID}
	if err := o.db.WithContext(ctx).Create(&link).Error; err != nil {
		if !isUniqueViolation(err) {
			o.log.Error("Event link failed",
				zap.String("event_id", event.ID), zap.String("attendee_id", attendee.ID), zap.Error(err))
			return Result{Message: "Something went wrong, please try again"}
		}
		// A concurrent duplicate submission won the race; that is still
		// a successful check-in.
		isExisting = true
	}

	return Result{Success: true, IsExistingAttendee: isExisting, Attendee: &attendee}
}

func (o *Orchestrator) findAttendee(ctx context.Context, communityID uint, email string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := o.db.WithContext(ctx).
		Where("community_id = ? AND email = ?", communityID, email).
		First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sanitize trims and collapses interior whitespace.
func sanitize(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
