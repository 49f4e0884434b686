package ports

import (
	"context"

	"github.com/psimao/ponto/internal/domain"
)

// Notifier delivers outbound reminders and alerts. Delivery guarantees are
// owned by the transport behind it; the core treats sends as fire-and-forget.
type Notifier interface {
	SendLunchReminder(ctx context.Context, userID int64) error
	SendWorkHoursComplete(ctx context.Context, userID int64, targetHours, actualHours float64) error
	SendForgotShutdownReminder(ctx context.Context, userID int64, state domain.State, currentHours, averageHours float64) error
	SendAutoShutdownNotification(ctx context.Context, userID int64, state domain.State, durationHours float64) error
}
