package models

import (
	"gorm.io/gorm"
)

// User is an organizer account. Attendees never get user rows; organizers
// sign in via Discord to run raffles and manage their community.
type User struct {
	gorm.Model
	DiscordID   string `json:"discord_id" gorm:"uniqueIndex"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar"`
	CommunityID *uint  `json:"community_id"`
}
