package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

// Channel carries every outbound notification. The chat transport
// subscribes and renders messages to the user; delivery beyond the publish
// is its problem, not the core's.
const Channel = "ponto:notifications"

const publishTimeout = 5 * time.Second

// Notification kinds on the wire
const (
	KindLunchReminder  = "lunch_reminder"
	KindWorkHours      = "work_hours_complete"
	KindForgotShutdown = "forgot_shutdown"
	KindAutoShutdown   = "auto_shutdown"
)

// Message is the JSON payload published per notification. Hour fields are
// set according to Kind.
type Message struct {
	Kind         string  `json:"kind"`
	UserID       int64   `json:"user_id"`
	State        string  `json:"state,omitempty"`
	TargetHours  float64 `json:"target_hours,omitempty"`
	ActualHours  float64 `json:"actual_hours,omitempty"`
	CurrentHours float64 `json:"current_hours,omitempty"`
	AverageHours float64 `json:"average_hours,omitempty"`
	Duration     float64 `json:"duration_hours,omitempty"`
	SentAt       string  `json:"sent_at"`
}

// RedisNotifier implements ports.Notifier by publishing JSON messages to a
// Redis channel.
type RedisNotifier struct {
	client *redis.Client
}

var _ ports.Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a notifier publishing to the given Redis address.
func NewRedisNotifier(addr string) *RedisNotifier {
	return &RedisNotifier{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewRedisNotifierWithClient creates a notifier over an existing client.
func NewRedisNotifierWithClient(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Close closes the underlying Redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// SendLunchReminder implements Notifier.SendLunchReminder
func (n *RedisNotifier) SendLunchReminder(ctx context.Context, userID int64) error {
	return n.publish(ctx, Message{
		Kind:   KindLunchReminder,
		UserID: userID,
	})
}

// SendWorkHoursComplete implements Notifier.SendWorkHoursComplete
func (n *RedisNotifier) SendWorkHoursComplete(ctx context.Context, userID int64, targetHours, actualHours float64) error {
	return n.publish(ctx, Message{
		Kind:        KindWorkHours,
		UserID:      userID,
		TargetHours: targetHours,
		ActualHours: actualHours,
	})
}

// SendForgotShutdownReminder implements Notifier.SendForgotShutdownReminder
func (n *RedisNotifier) SendForgotShutdownReminder(ctx context.Context, userID int64, state domain.State, currentHours, averageHours float64) error {
	return n.publish(ctx, Message{
		Kind:         KindForgotShutdown,
		UserID:       userID,
		State:        string(state),
		CurrentHours: currentHours,
		AverageHours: averageHours,
	})
}

// SendAutoShutdownNotification implements Notifier.SendAutoShutdownNotification
func (n *RedisNotifier) SendAutoShutdownNotification(ctx context.Context, userID int64, state domain.State, durationHours float64) error {
	return n.publish(ctx, Message{
		Kind:     KindAutoShutdown,
		UserID:   userID,
		State:    string(state),
		Duration: durationHours,
	})
}

func (n *RedisNotifier) publish(ctx context.Context, msg Message) error {
	msg.SentAt = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := n.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	logging.Logger.Debug("notification published", "kind", msg.Kind, "user_id", msg.UserID)
	return nil
}
