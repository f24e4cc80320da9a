package commands

import (
	"fmt"

	"github.com/legalaudit/crvc/internal/config"
	"github.com/legalaudit/crvc/internal/storage"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies the audit job store's schema (spec.md §6's
// `migrate` operation). internal/storage creates its schema inline as
// `CREATE TABLE IF NOT EXISTS` inside each Store constructor, so "applying
// migrations" here means constructing (and closing) the configured store —
// idempotent, safe to run repeatedly.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the audit job store schema",
		Long:  "Ensure the configured job store's schema exists (sqlite/postgres/mongodb/memory)",
	}

	cmd.AddCommand(newMigrateUpCmd())

	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Ensure the job store schema exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openJobStore(cfg)
			if err != nil {
				return fmt.Errorf("applying schema: %w", err)
			}
			defer store.Close()

			fmt.Printf("✓ Schema ensured for %s job store\n", cfg.Database.Driver)
			return nil
		},
	}

	return cmd
}

// openJobStore constructs the job store named by cfg.Database.Driver,
// the same switch cmd/kite-api's main uses to wire its store.
func openJobStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "memory", "":
		return storage.NewMemoryStore(), nil

	case "sqlite":
		dbPath := cfg.Database.Database
		if dbPath == "" {
			dbPath = "crvc.db"
		}
		return storage.NewSQLiteStore(dbPath)

	case "postgres", "postgresql":
		connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Username,
			cfg.Database.Password, cfg.Database.Database, cfg.Database.SSLMode)
		return storage.NewPostgresStore(connStr)

	case "mongodb", "mongo":
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%d",
			cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port)
		if cfg.Database.Username == "" {
			uri = fmt.Sprintf("mongodb://%s:%d", cfg.Database.Host, cfg.Database.Port)
		}
		return storage.NewMongoStore(uri, cfg.Database.Database)

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Database.Driver)
	}
}
