package domain

import "time"

// User holds the tracking configuration for one user. The tracking core
// treats it as read-only input; provisioning is owned by the chat transport.
type User struct {
	ID          int64
	ExternalID  string
	DisplayName string

	// Local day boundaries and weekend checks are computed from this offset.
	UTCOffsetMinutes int

	// Hard auto-shutdown ceilings in decimal hours, one per relevant state.
	// Idle has no ceiling. Nil disables the ceiling for that state.
	MaxWorkHours    *float64
	MaxCommuteHours *float64
	MaxLunchHours   *float64

	// Local time of day for the lunch reminder. Nil disables the reminder.
	LunchReminderHour   *int
	LunchReminderMinute *int

	// Daily work goal in decimal hours. Nil disables the alert.
	TargetWorkHours *float64

	// Percentage of the historical average beyond which a running session is
	// treated as forgotten. Must be > 100 when set.
	ForgotShutdownThresholdPercent *int
}

// Location returns the user's fixed-offset timezone.
func (u *User) Location() *time.Location {
	return time.FixedZone("user", u.UTCOffsetMinutes*60)
}

// LocalTime converts a UTC instant to the user's local wall clock.
func (u *User) LocalTime(t time.Time) time.Time {
	return t.In(u.Location())
}

// LocalDay returns the user's calendar date for the given instant.
func (u *User) LocalDay(t time.Time) time.Time {
	local := u.LocalTime(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, u.Location())
}

// LocalDayStartUTC returns the UTC instant at which the user's local calendar
// day containing t begins.
func (u *User) LocalDayStartUTC(t time.Time) time.Time {
	return u.LocalDay(t).UTC()
}

// IsLocalWeekend reports whether the instant falls on a Saturday or Sunday in
// the user's local timezone.
func (u *User) IsLocalWeekend(t time.Time) bool {
	wd := u.LocalTime(t).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MaxHoursFor returns the configured auto-shutdown ceiling for a state, or
// nil when no ceiling applies.
func (u *User) MaxHoursFor(state State) *float64 {
	switch state {
	case StateWorking:
		return u.MaxWorkHours
	case StateCommuting:
		return u.MaxCommuteHours
	case StateLunch:
		return u.MaxLunchHours
	}
	return nil
}

// HasForgotShutdownThreshold reports whether a usable threshold is
// configured. Values at or below 100 would fire on every session and are
// treated as unset.
func (u *User) HasForgotShutdownThreshold() bool {
	return u.ForgotShutdownThresholdPercent != nil && *u.ForgotShutdownThresholdPercent > 100
}

// HasLunchReminder reports whether a lunch reminder time is configured.
func (u *User) HasLunchReminder() bool {
	return u.LunchReminderHour != nil && u.LunchReminderMinute != nil
}
