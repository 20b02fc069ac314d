// Kiosk runs the check-in flow for a single event on a shared device,
// talking to the same database as the server. A confirmed check-in
// survives restarts through the state directory, so the device comes
// back up on the confirmation screen until an organizer resets it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/checkinto-io/checkinto-app/internal/checkin"
	"github.com/checkinto-io/checkinto-app/internal/config"
	"github.com/checkinto-io/checkinto-app/internal/confirmation"
	"github.com/checkinto-io/checkinto-app/internal/database"
	"github.com/checkinto-io/checkinto-app/internal/form"
	"github.com/checkinto-io/checkinto-app/internal/logger"
	"github.com/checkinto-io/checkinto-app/internal/navigation"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: kiosk <event-url-id>")
		os.Exit(2)
	}
	urlID := os.Args[1]

	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := database.Connect(cfg)
	orchestrator := checkin.NewOrchestrator(db, log)

	store := confirmation.NewStore(afero.NewOsFs(), cfg.StateDir, log)
	machine := navigation.NewMachine(store, log)

	ctx := context.Background()
	event, err := orchestrator.GetEventByURLID(ctx, urlID, cfg.CommunityProfile)
	if err != nil {
		log.Fatal("Failed to load event", zap.String("url_id", urlID), zap.Error(err))
	}
	// The machine and store key sessions by the URL slug, matching what
	// attendees see in the address bar.
	machine.SetEvent(urlID, event)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		switch machine.Snapshot().CurrentScreen {
		case navigation.ScreenWelcome:
			fmt.Printf("\n=== %s ===\n%s\n", event.Title, event.WelcomeMessage)
			fmt.Print("Press enter to check in (or type quit): ")
			if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == "quit" {
				return
			}
			machine.StartCheckin()

		case navigation.ScreenCheckin:
			frm := form.New(event.ID, orchestrator, log)
			frm.UpdateField(form.FieldFirstName, prompt(scanner, "First name"))
			frm.UpdateField(form.FieldLastName, prompt(scanner, "Last name"))
			frm.UpdateField(form.FieldEmail, prompt(scanner, "Email"))
			frm.UpdateField(form.FieldInterestingFact, prompt(scanner, "Interesting fact"))

			if !frm.ValidateAll() {
				for _, message := range frm.Validation().Fields() {
					fmt.Println(" !", message)
				}
				continue
			}

			machine.SetLoading(true)
			result := orchestrator.CheckIn(ctx, urlID, frm.Data())
			if !result.Success {
				machine.SetError(result.Message)
				fmt.Println(" !", result.Message)
				machine.GoToScreen(navigation.ScreenWelcome)
				continue
			}
			machine.CompleteCheckin(event, frm.Data().Email)
			frm.Reset()

		case navigation.ScreenConfirmation:
			fmt.Printf("\n%s\n", event.CheckedInMessage)
			fmt.Print("Press enter for the next attendee (or type quit): ")
			if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == "quit" {
				return
			}
			machine.Reset()
			machine.SetEvent(urlID, event)
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}
