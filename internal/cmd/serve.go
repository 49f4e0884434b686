package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/workers"
)

// ServeCmd runs the long-lived daemon hosting the four reconciliation
// workers. Interactive transports talk to the same database.
type ServeCmd struct {
	AutoShutdownInterval   int `help:"Auto-shutdown sweep interval in minutes" default:"5"`
	ForgotShutdownInterval int `help:"Forgot-shutdown sweep interval in minutes" default:"5"`
	LunchReminderInterval  int `help:"Lunch reminder sweep interval in minutes" default:"15"`
	WorkHoursInterval      int `help:"Work-hours alert sweep interval in minutes" default:"15"`
}

// Run executes the serve command
func (s *ServeCmd) Run(container *Container, cli *CLI) error {
	logging.InitializeConsole(cli.Debug)

	// Settings fill in intervals the flags left at default
	if cli.settings != nil {
		applyInterval(&s.AutoShutdownInterval, 5, cli.settings.AutoShutdownIntervalMinutes)
		applyInterval(&s.ForgotShutdownInterval, 5, cli.settings.ForgotShutdownIntervalMinutes)
		applyInterval(&s.LunchReminderInterval, 15, cli.settings.LunchReminderIntervalMinutes)
		applyInterval(&s.WorkHoursInterval, 15, cli.settings.WorkHoursIntervalMinutes)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	autoShutdown := workers.NewAutoShutdownWorker(
		container.SessionRepo, container.UserReader, container.Notifier, container.Clock,
		time.Duration(s.AutoShutdownInterval)*time.Minute)
	forgotShutdown := workers.NewForgotShutdownWorker(
		container.SessionRepo, container.UserReader, container.Notifier, container.Clock,
		time.Duration(s.ForgotShutdownInterval)*time.Minute)
	lunchReminder := workers.NewLunchReminderWorker(
		container.SessionRepo, container.UserReader, container.Notifier, container.Clock,
		time.Duration(s.LunchReminderInterval)*time.Minute)
	workHours := workers.NewWorkHoursAlertWorker(
		container.SessionRepo, container.UserReader, container.Notifier, container.Clock,
		time.Duration(s.WorkHoursInterval)*time.Minute)

	logging.Logger.Info("ponto daemon starting",
		"db", cli.DB,
		"redis", cli.Redis)

	// The workers operate on disjoint concerns and share no lock; each
	// tick opens its own transaction against the repository.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return autoShutdown.Run(gctx) })
	g.Go(func() error { return forgotShutdown.Run(gctx) })
	g.Go(func() error { return lunchReminder.Run(gctx) })
	g.Go(func() error { return workHours.Run(gctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Logger.Info("ponto daemon stopped")
	return nil
}

func applyInterval(flag *int, flagDefault int, setting *int) {
	if *flag == flagDefault && setting != nil && *setting > 0 {
		*flag = *setting
	}
}
