package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/psimao/ponto/internal/domain"
)

// SessionsCmd groups session inspection and correction subcommands
type SessionsCmd struct {
	List   SessionsListCmd   `cmd:"" help:"List recent sessions for a user"`
	Adjust SessionsAdjustCmd `cmd:"" help:"Adjust the start or end time of an ended session"`
	Note   SessionsNoteCmd   `cmd:"" help:"Set the note on a session"`
}

// SessionsListCmd lists recent sessions
type SessionsListCmd struct {
	User  string `arg:"" help:"External user ID"`
	Limit int    `help:"Maximum number of sessions to show" default:"20"`
}

// Run executes the sessions list command
func (s *SessionsListCmd) Run(container *Container, cli *CLI) error {
	ctx := context.Background()

	user, err := container.UserReader.GetUserByExternalID(ctx, s.User)
	if err != nil {
		return fmt.Errorf("unknown user %q: %w", s.User, err)
	}

	sessions, err := container.SessionRepo.GetRecentSessions(ctx, user.ID, s.Limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return nil
	}

	now := container.Clock.Now()
	for _, session := range sessions {
		end := "active"
		if session.EndedAt != nil {
			end = session.EndedAt.In(user.Location()).Format("15:04")
		}
		state := string(session.State)
		if session.State == domain.StateCommuting {
			state = fmt.Sprintf("%s (%s)", state, session.CommuteDirection)
		}
		fmt.Printf("%s  %s  %s - %s  %.2fh  %s\n",
			session.ID,
			session.StartedAt.In(user.Location()).Format("2006-01-02"),
			session.StartedAt.In(user.Location()).Format("15:04"),
			end,
			session.Duration(now).Hours(),
			state)
	}

	return nil
}

// SessionsAdjustCmd corrects the boundaries of an ended session
type SessionsAdjustCmd struct {
	Session string `arg:"" help:"Session ID"`
	Start   string `help:"New start time (RFC 3339)"`
	End     string `help:"New end time (RFC 3339)"`
}

// Run executes the sessions adjust command
func (s *SessionsAdjustCmd) Run(container *Container, cli *CLI) error {
	if s.Start == "" && s.End == "" {
		return fmt.Errorf("nothing to adjust: pass --start and/or --end")
	}

	ctx := context.Background()

	if s.Start != "" {
		newStart, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		session, err := container.TrackerService.AdjustStartTime(ctx, s.Session, newStart)
		if err != nil {
			return err
		}
		fmt.Printf("Start moved to %s\n", session.StartedAt.Format(time.RFC3339))
	}

	if s.End != "" {
		newEnd, err := time.Parse(time.RFC3339, s.End)
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		session, err := container.TrackerService.AdjustEndTime(ctx, s.Session, newEnd)
		if err != nil {
			return err
		}
		fmt.Printf("End moved to %s\n", session.EndedAt.Format(time.RFC3339))
	}

	return nil
}

// SessionsNoteCmd sets the free-text note on a session
type SessionsNoteCmd struct {
	Session string `arg:"" help:"Session ID"`
	Note    string `arg:"" help:"Note text (empty clears the note)"`
}

// Run executes the sessions note command
func (s *SessionsNoteCmd) Run(container *Container, cli *CLI) error {
	if err := container.TrackerService.SetNote(context.Background(), s.Session, s.Note); err != nil {
		return err
	}
	fmt.Println("Note updated")
	return nil
}
