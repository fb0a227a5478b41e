package commands

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasky",
		Usage: "Task list service and terminal client",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format: text or json",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			NewServeCommand(),
			NewInitStorageCommand(),
			NewTUICommand(),
		},
	}
}

func configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	switch strings.ToLower(cmd.String("log-format")) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return ctx, fmt.Errorf("invalid log format %q", cmd.String("log-format"))
	}
	return ctx, nil
}
