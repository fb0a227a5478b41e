package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/Vishalsongara77/Task-App/client"
	"github.com/Vishalsongara77/Task-App/ui"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the terminal task list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Base URL of the task API",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("TASKY_API_URL"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the UI owns the terminal",
			},
		},
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	// The alt screen owns stdout; logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	defer log.SetOutput(os.Stderr)

	return ui.Run(ctx, client.New(cmd.String("api")))
}
