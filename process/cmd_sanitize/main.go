package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"moneytracker/pkg/config"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/store"
	"moneytracker/process/sanitize"
)

func main() {
	cfg := config.Load()
	dryRun := flag.Bool("dry-run", true, "Don't perform destructive actions; show what would be done")
	yes := flag.Bool("yes", false, "Confirm destructive action (required to actually wipe)")
	reseed := flag.Bool("reseed", false, "After wiping, reseed the superadmin and default categories")
	tables := flag.String("tables", strings.Join(sanitize.Tables, ","), "Comma-separated list of tables to wipe")
	flag.Parse()

	if err := run(cfg, *tables, *dryRun, *yes, *reseed); err != nil {
		fmt.Fprintf(os.Stderr, "sanitize: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, tables string, dryRun, yes, reseed bool) error {
	if cfg.DBDSN == "" {
		return fmt.Errorf("DB_DSN must be set to run sanitize")
	}
	wanted, err := sanitize.ParseTables(tables)
	if err != nil {
		return err
	}
	s, err := store.Open(store.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Logger: logging.New(os.Stderr, "warn", cfg.LogFormat),
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return sanitize.Run(ctx, s, sanitize.Options{
		Tables:             wanted,
		DryRun:             dryRun,
		Confirm:            yes,
		Reseed:             reseed,
		SuperadminUsername: cfg.SuperadminUsername,
		SuperadminPassword: cfg.SuperadminPassword,
	}, os.Stdout)
}
