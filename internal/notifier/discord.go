package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/checkinto-io/checkinto-app/internal/models"
	"github.com/checkinto-io/checkinto-app/internal/raffle"
	"go.uber.org/zap"
)

// Notifier announces check-ins and raffle results to the community.
// Implementations are best-effort; a failed announcement never fails the
// request that triggered it.
type Notifier interface {
	NotifyCheckIn(event *models.Event, attendee *models.Attendee) error
	NotifyRaffleWinner(event *models.Event, winner *raffle.Winner) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	log       *zap.Logger
}

func NewDiscordNotifier(cfg *config.Config, log *zap.Logger) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("discord bot token not configured")
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord notifications channel not configured")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
		log:       log,
	}, nil
}

func (n *DiscordNotifier) NotifyCheckIn(event *models.Event, attendee *models.Attendee) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	message := fmt.Sprintf("✅ **New Check-in**\n**Event:** %s\n**Attendee:** %s %s\n**Fact:** %s",
		event.Title,
		attendee.FirstName,
		attendee.LastName,
		attendee.InterestingFact,
	)

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		n.log.Warn("Failed to send discord check-in message", zap.Error(err))
		return err
	}
	return nil
}

func (n *DiscordNotifier) NotifyRaffleWinner(event *models.Event, winner *raffle.Winner) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	message := fmt.Sprintf("🎉 **Raffle Winner (Round %d)**\n**Event:** %s\n**Winner:** %s %s",
		winner.RaffleRound,
		event.Title,
		winner.FirstName,
		winner.LastName,
	)

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		n.log.Warn("Failed to send discord raffle message", zap.Error(err))
		return err
	}
	return nil
}
