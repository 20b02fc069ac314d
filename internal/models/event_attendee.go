package models

import (
	"time"
)

// EventAttendee links one attendee to one event, at most once per pair.
// RaffleRound is set if and only if RaffleWinner is true; rounds count up
// from 1 per event.
type EventAttendee struct {
	EventID    string `json:"event_id" gorm:"primaryKey;size:36"`
	AttendeeID string `json:"attendee_id" gorm:"primaryKey;size:36"`

	RaffleWinner bool `json:"raffle_winner"`
	RaffleRound  *int `json:"raffle_round"`

	Event    Event    `json:"event"`
	Attendee Attendee `json:"attendee"`

	CreatedAt time.Time `json:"created_at"`
}
