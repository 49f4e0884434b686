package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings represents the structure of $PONTO_HOME/settings.json. All fields
// are optional; CLI flags and environment variables take precedence.
type Settings struct {
	AutoShutdownIntervalMinutes   *int   `json:"auto_shutdown_interval_minutes,omitempty"`
	DBPath                        string `json:"db_path,omitempty"`
	Debug                         *bool  `json:"debug,omitempty"`
	ForgotShutdownIntervalMinutes *int   `json:"forgot_shutdown_interval_minutes,omitempty"`
	LunchReminderIntervalMinutes  *int   `json:"lunch_reminder_interval_minutes,omitempty"`
	MaxLogFiles                   *int   `json:"max_log_files,omitempty"`
	RedisAddr                     string `json:"redis_addr,omitempty"`
	WorkHoursIntervalMinutes      *int   `json:"work_hours_interval_minutes,omitempty"`
}

// LoadSettings loads settings from $PONTO_HOME/settings.json. A missing file
// is not an error; defaults apply.
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = ExpandPath(settings.DBPath)
	}

	return &settings, nil
}

// SaveSettings saves settings to $PONTO_HOME/settings.json
func SaveSettings(settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(GetSettingsPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
