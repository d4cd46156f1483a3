// Package cli defines the cobra command tree for rentora.
package cli

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/db"
)

var flagDB string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentora",
		Short:         "Rental-property management service",
		Long:          "A rental-property management service. Owners list units, tenants request to rent them, and approved tenancies are paid by card.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.rentora/rentora.db)")

	root.AddCommand(
		newServeCmd(),
		newSeedCmd(),
		newRemindCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the environment, after loading .env if present.
func loadConfig() config.Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()
	return config.FromEnv()
}

// openDB opens the SQLite database using the --db flag, the configured
// path, or the default path, in that order.
func openDB(cfg config.Config) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}
