package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/psimao/ponto/internal/cmd"
	"github.com/psimao/ponto/internal/config"
)

func main() {
	// Settings are applied before parsing so flags can override them
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cli cmd.CLI
	cli.SetSettings(settings)

	ctx := kong.Parse(&cli,
		kong.Name("ponto"),
		kong.Description("Work-time tracking daemon: session state machine plus background reconciliation workers"),
		kong.UsageOnError(),
	)
	defer cli.Close()

	if err := ctx.Run(cli.Container, &cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
