package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendee is one person's check-in record. Email is unique per owning
// community; the database index is the source of truth for duplicates.
type Attendee struct {
	ID              string `json:"id" gorm:"primaryKey;size:36"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" gorm:"uniqueIndex:idx_attendee_email_community"`
	InterestingFact string `json:"interesting_fact"`

	CommunityID uint      `json:"community_id" gorm:"uniqueIndex:idx_attendee_email_community"`
	Community   Community `json:"community"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Attendee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
