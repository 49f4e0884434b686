package cmd

import (
	"fmt"
	"os"

	"github.com/psimao/ponto/internal/config"
	"github.com/psimao/ponto/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	DB          string `help:"Path to the tracking database" env:"PONTO_DB"`
	Debug       bool   `help:"Enable debug logging" short:"d"`
	DebugFile   string `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int    `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	Redis       string `help:"Redis address for outbound notifications" env:"PONTO_REDIS"`

	Serve    ServeCmd    `cmd:"" help:"Run the tracking daemon with all reconciliation workers"`
	Track    TrackCmd    `cmd:"" help:"Record a state change for a user"`
	Sessions SessionsCmd `cmd:"" help:"Inspect and adjust tracking sessions"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply applies settings precedence (flags > env > settings.json >
// defaults), initializes logging, and wires the dependency container.
func (c *CLI) AfterApply() error {
	if c.settings != nil {
		if !c.Debug && c.settings.Debug != nil && *c.settings.Debug {
			if _, hasEnv := os.LookupEnv("PONTO_DEBUG"); !hasEnv {
				c.Debug = true
			}
		}
		if c.MaxLogFiles == 1000 && c.settings.MaxLogFiles != nil {
			c.MaxLogFiles = *c.settings.MaxLogFiles
		}
		if c.DB == "" {
			c.DB = c.settings.DBPath
		}
		if c.Redis == "" {
			c.Redis = c.settings.RedisAddr
		}
	}
	if c.DB == "" {
		c.DB = config.GetDBPath()
	}
	if c.Redis == "" {
		c.Redis = "localhost:6379"
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Child processes inherit debug settings and append to the same file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("PONTO_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("PONTO_DEBUG_FILE", logFilePath)
		}
	}

	container, err := NewContainer(c.DB, c.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
