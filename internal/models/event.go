package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a single check-in-able gathering. Only active events accept
// check-ins; the URL slug is what attendees type, the UUID is internal.
type Event struct {
	ID               string `json:"id" gorm:"primaryKey;size:36"`
	URLID            string `json:"url_id" gorm:"uniqueIndex"`
	Title            string `json:"title"`
	WelcomeMessage   string `json:"welcome_message"`
	CheckedInMessage string `json:"checked_in_message"`
	Active           bool   `json:"active"`

	CommunityID    uint       `json:"community_id"`
	Community      Community  `json:"community"`
	VenueID        *uint      `json:"venue_id"`
	Venue          *Venue     `json:"venue"`
	HostID         *uint      `json:"host_id"`
	Host           *Profile   `json:"host" gorm:"foreignKey:HostID"`
	PresenterID    *uint      `json:"presenter_id"`
	Presenter      *Profile   `json:"presenter" gorm:"foreignKey:PresenterID"`
	WorkshopLeadID *uint      `json:"workshop_lead_id"`
	WorkshopLead   *Profile   `json:"workshop_lead" gorm:"foreignKey:WorkshopLeadID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
