package models

import (
	"gorm.io/gorm"
)

// Community is the owning scope that partitions events and attendees.
// Attendee emails are unique within a community, not globally.
type Community struct {
	gorm.Model
	Name      string `json:"name"`
	Subdomain string `json:"subdomain" gorm:"uniqueIndex"`
	LogoImage string `json:"logo_image"` // URL to image
}

type Venue struct {
	gorm.Model
	Name        string `json:"name"`
	Address     string `json:"address"`
	CommunityID uint   `json:"community_id"`
}

// Profile is a person shown on the event page (host, presenter, workshop lead).
type Profile struct {
	gorm.Model
	Name        string `json:"name"`
	Title       string `json:"title"`
	Bio         string `json:"bio"`
	AvatarImage string `json:"avatar_image"`
	CommunityID uint   `json:"community_id"`
}
