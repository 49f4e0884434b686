package cmd

import (
	"context"
	"fmt"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
)

// TrackCmd records a state change for a user. Transports shell out to this
// command (or call the service directly) on every user action.
type TrackCmd struct {
	User   string `arg:"" help:"External user ID"`
	State  string `arg:"" help:"Target state" enum:"idle,commuting,working,lunch"`
	Offset int    `help:"Minutes to shift the timestamp (negative = past)" short:"o" default:"0"`
}

// Run executes the track command
func (t *TrackCmd) Run(container *Container, cli *CLI) error {
	ctx := context.Background()

	user, err := container.UserReader.GetUserByExternalID(ctx, t.User)
	if err != nil {
		return fmt.Errorf("unknown user %q: %w", t.User, err)
	}

	logging.Logger.Info("Executing track command",
		"user", t.User, "state", t.State, "offset", t.Offset)

	result, err := container.TrackerService.StartStateWithOffset(ctx, user.ID, domain.State(t.State), t.Offset)
	if err != nil {
		return err
	}

	switch r := result.(type) {
	case domain.SessionEnded:
		fmt.Printf("Ended %s session started at %s\n",
			r.Session.State, r.Session.StartedAt.Format("15:04"))
	case domain.SessionStarted:
		if r.EndedSession != nil {
			fmt.Printf("Ended %s session, started %s", r.EndedSession.State, r.Session.State)
		} else {
			fmt.Printf("Started %s", r.Session.State)
		}
		if r.Session.State == domain.StateCommuting {
			fmt.Printf(" (%s)", r.Session.CommuteDirection)
		}
		fmt.Println()
	case domain.ResultNoChange:
		fmt.Println("Nothing to do")
	}

	return nil
}
