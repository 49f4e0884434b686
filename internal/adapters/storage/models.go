package storage

import "time"

// SessionModel is the GORM model for the tracking_sessions table
type SessionModel struct {
	CommuteDirection *string `gorm:"default:null;check:commute_direction IN ('to_work','to_home') OR commute_direction IS NULL"`
	CreatedAt        time.Time
	EndedAt          *time.Time `gorm:"index:idx_sessions_ended;default:null"`
	ID               string     `gorm:"primaryKey"`
	Note             string     `gorm:"not null;default:''"`
	StartedAt        time.Time  `gorm:"not null;index:idx_sessions_started"`
	State            string     `gorm:"not null;index:idx_sessions_state;check:state IN ('commuting','working','lunch')"`
	UpdatedAt        time.Time
	UserID           int64 `gorm:"not null;index:idx_sessions_user"`
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string { return "tracking_sessions" }

// UserModel is the GORM model for the users table. The tracking core only
// reads it; rows are provisioned by the chat transport.
type UserModel struct {
	CreatedAt                      time.Time
	DisplayName                    string `gorm:"not null;default:''"`
	ExternalID                     string `gorm:"not null;uniqueIndex:idx_users_external_id"`
	ForgotShutdownThresholdPercent *int   `gorm:"default:null"`
	ID                             int64  `gorm:"primaryKey;autoIncrement"`
	LunchReminderHour              *int   `gorm:"default:null"`
	LunchReminderMinute            *int   `gorm:"default:null"`
	MaxCommuteHours                *float64 `gorm:"default:null"`
	MaxLunchHours                  *float64 `gorm:"default:null"`
	MaxWorkHours                   *float64 `gorm:"default:null"`
	TargetWorkHours                *float64 `gorm:"default:null"`
	UTCOffsetMinutes               int      `gorm:"not null;default:0"`
	UpdatedAt                      time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string { return "users" }
