package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"moneytracker/pkg/config"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/store"
	"moneytracker/process/report"
)

func main() {
	cfg := config.Load()
	username := flag.String("username", cfg.SuperadminUsername, "username to report for")
	list := flag.Bool("list", false, "list every transaction")
	flag.Parse()

	if cfg.DBDSN == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}
	s, err := store.Open(store.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Logger: logging.New(os.Stderr, "warn", cfg.LogFormat),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	err = report.Run(context.Background(), s, os.Stdout, *username, *list)
	_ = s.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}
