package commands

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/Vishalsongara77/Task-App/storage"
)

// NewInitStorageCommand returns the init-storage subcommand.
func NewInitStorageCommand() *cli.Command {
	return &cli.Command{
		Name:   "init-storage",
		Usage:  "Create the Azure table and queue or migrate the SQL schema",
		Flags:  storeFlags(),
		Action: runInitStorage,
	}
}

func runInitStorage(ctx context.Context, cmd *cli.Command) error {
	switch backend := cmd.String("store"); backend {
	case backendMemory:
		log.Info("memory store needs no initialization")
		return nil
	case backendSQLite, backendMySQL:
		if cmd.String("dsn") == "" {
			return fmt.Errorf("store %s requires --dsn", backend)
		}
		db, err := storage.OpenSQL(ctx, backend, cmd.String("dsn"))
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.WithField("driver", backend).Info("schema ready")
		return db.Close()
	case backendTables:
		connStr := cmd.String("storage-connection-string")
		if connStr == "" {
			return errors.New("missing storage config")
		}
		return storage.Provision(ctx, connStr, cmd.String("tasks-table"), cmd.String("events-queue"))
	default:
		return fmt.Errorf("unknown store backend %q", backend)
	}
}
