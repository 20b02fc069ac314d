package raffle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/checkinto-io/checkinto-app/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoEligibleAttendees = errors.New("no eligible attendees remaining for this event")

// Winner is the public view of one raffle draw.
type Winner struct {
	AttendeeID  string `json:"attendee_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	RaffleRound int    `json:"raffle_round"`
}

// Selector draws raffle winners. One invocation marks exactly one
// not-yet-winning attendee for the next round, or fails without touching
// any row.
type Selector struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSelector(db *gorm.DB, log *zap.Logger) *Selector {
	return &Selector{db: db, log: log}
}

// SelectWinner picks one eligible attendee uniformly at random and marks
// them as the winner of the next round.
//
// Round computation, the pool read, and the winner mark all run inside one
// transaction so concurrent draws cannot hand out the same round number.
// The mark itself is additionally guarded by raffle_winner = false; if the
// guard trips, the draw moves on to another candidate.
func (s *Selector) SelectWinner(ctx context.Context, eventID string) (*Winner, error) {
	var winner *Winner

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxRound sql.NullInt64
		err := tx.Model(&models.EventAttendee{}).
			Where("event_id = ? AND raffle_winner = ?", eventID, true).
			Select("MAX(raffle_round)").
			Scan(&maxRound).Error
		if err != nil {
			return fmt.Errorf("compute next round: %w", err)
		}
		nextRound := 1
		if maxRound.Valid {
			nextRound = int(maxRound.Int64) + 1
		}

		var pool []models.EventAttendee
		if err := tx.Where("event_id = ? AND raffle_winner = ?", eventID, false).
			Find(&pool).Error; err != nil {
			return fmt.Errorf("load eligible pool: %w", err)
		}
		if len(pool) == 0 {
			return ErrNoEligibleAttendees
		}

		var picked *models.EventAttendee
		for len(pool) > 0 {
			i := rand.IntN(len(pool))
			candidate := pool[i]

			res := tx.Model(&models.EventAttendee{}).
				Where("event_id = ? AND attendee_id = ? AND raffle_winner = ?",
					eventID, candidate.AttendeeID, false).
				Updates(map[string]any{
					"raffle_winner": true,
					"raffle_round":  nextRound,
				})
			if res.Error != nil {
				return fmt.Errorf("mark winner: %w", res.Error)
			}
			if res.RowsAffected == 1 {
				picked = &candidate
				break
			}
			// Candidate already won in the meantime; drop and redraw.
			pool = append(pool[:i], pool[i+1:]...)
		}
		if picked == nil {
			return ErrNoEligibleAttendees
		}

		var attendee models.Attendee
		if err := tx.First(&attendee, "id = ?", picked.AttendeeID).Error; err != nil {
			return fmt.Errorf("load winner details: %w", err)
		}

		winner = &Winner{
			AttendeeID:  attendee.ID,
			FirstName:   attendee.FirstName,
			LastName:    attendee.LastName,
			Email:       attendee.Email,
			RaffleRound: nextRound,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Raffle winner selected",
		zap.String("event_id", eventID),
		zap.String("attendee_id", winner.AttendeeID),
		zap.Int("round", winner.RaffleRound))
	return winner, nil
}

// Winners returns the event's winners so far, ordered by round.
func (s *Selector) Winners(ctx context.Context, eventID string) ([]Winner, error) {
	var rows []struct {
		AttendeeID  string
		FirstName   string
		LastName    string
		Email       string
		RaffleRound int
	}

	err := s.db.WithContext(ctx).
		Model(&models.EventAttendee{}).
		Select("event_attendees.attendee_id, attendees.first_name, attendees.last_name, attendees.email, event_attendees.raffle_round").
		Joins("JOIN attendees ON attendees.id = event_attendees.attendee_id").
		Where("event_attendees.event_id = ? AND event_attendees.raffle_winner = ?", eventID, true).
		Order("event_attendees.raffle_round ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	winners := make([]Winner, 0, len(rows))
	for _, r := range rows {
		winners = append(winners, Winner{
			AttendeeID:  r.AttendeeID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Email:       r.Email,
			RaffleRound: r.RaffleRound,
		})
	}
	return winners, nil
}
