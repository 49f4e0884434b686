package memory

import (
	"context"
	"sync"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/ports"
)

// SentNotification records one outbound notification for inspection.
type SentNotification struct {
	Kind         string
	UserID       int64
	State        domain.State
	TargetHours  float64
	ActualHours  float64
	CurrentHours float64
	AverageHours float64
	Duration     float64
}

// Notifier implements ports.Notifier by recording sends in memory. Tests
// assert on the recorded slice; local development runs without Redis.
type Notifier struct {
	mu   sync.Mutex
	sent []SentNotification

	// Err, when set, is returned by every send.
	Err error
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier creates an empty recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Sent returns a copy of the recorded notifications.
func (n *Notifier) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentNotification, len(n.sent))
	copy(out, n.sent)
	return out
}

// SendLunchReminder implements Notifier.SendLunchReminder
func (n *Notifier) SendLunchReminder(ctx context.Context, userID int64) error {
	return n.record(SentNotification{Kind: "lunch_reminder", UserID: userID})
}

// SendWorkHoursComplete implements Notifier.SendWorkHoursComplete
func (n *Notifier) SendWorkHoursComplete(ctx context.Context, userID int64, targetHours, actualHours float64) error {
	return n.record(SentNotification{
		Kind:        "work_hours_complete",
		UserID:      userID,
		TargetHours: targetHours,
		ActualHours: actualHours,
	})
}

// SendForgotShutdownReminder implements Notifier.SendForgotShutdownReminder
func (n *Notifier) SendForgotShutdownReminder(ctx context.Context, userID int64, state domain.State, currentHours, averageHours float64) error {
	return n.record(SentNotification{
		Kind:         "forgot_shutdown",
		UserID:       userID,
		State:        state,
		CurrentHours: currentHours,
		AverageHours: averageHours,
	})
}

// SendAutoShutdownNotification implements Notifier.SendAutoShutdownNotification
func (n *Notifier) SendAutoShutdownNotification(ctx context.Context, userID int64, state domain.State, durationHours float64) error {
	return n.record(SentNotification{
		Kind:     "auto_shutdown",
		UserID:   userID,
		State:    state,
		Duration: durationHours,
	})
}

func (n *Notifier) record(sent SentNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, sent)
	return nil
}
