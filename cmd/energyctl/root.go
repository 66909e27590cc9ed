package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/arez-sajeel/Project-Green/internal/db"
)

var dsn string

var rootCmd = &cobra.Command{
	Use:   "energyctl",
	Short: "Operational tooling for the energy platform",
	Long: `energyctl seeds tariff plans, imports historical usage data, simulates
smart meters and reports per-meter statistics against the platform database.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN (default taken from ENERGY_POSTGRES_DSN)")
}

func resolveDSN() (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if env := os.Getenv("ENERGY_POSTGRES_DSN"); env != "" {
		return env, nil
	}
	return "", errors.New("no DSN: pass --dsn or set ENERGY_POSTGRES_DSN")
}

// openDB connects to Postgres and makes sure the schema exists.
func openDB(ctx context.Context) (*sql.DB, error) {
	resolved, err := resolveDSN()
	if err != nil {
		return nil, err
	}
	pool, err := db.NewPostgres(resolved)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
