package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"moneytracker/pkg/auth"
	"moneytracker/pkg/config"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/prompt"
	"moneytracker/pkg/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run rotates the password of an existing user, typically the bootstrap
// superadmin after the first start.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("reset_password", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("username", "", "username to reset")
	passwordFlag := fs.String("password", "", fmt.Sprintf("new password (min %d chars, will prompt if omitted)", auth.MinPasswordLength))
	driver := fs.String("driver", cfg.DBDriver, "Database driver: postgres or sqlite")
	dsn := fs.String("dsn", cfg.DBDSN, "Database DSN (defaults to DB_DSN)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		return fmt.Errorf("--username is required")
	}
	if strings.TrimSpace(*dsn) == "" {
		return fmt.Errorf("DB_DSN not set; pass -dsn or export DB_DSN")
	}

	password := *passwordFlag
	if password == "" {
		var err error
		password, err = prompt.Password(stdin, stdout, "New password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	s, err := store.Open(store.Options{
		Driver: *driver,
		DSN:    *dsn,
		Logger: logging.New(stderr, "warn", cfg.LogFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	if err := auth.NewCredentials(s).ResetPassword(context.Background(), *username, password); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", *username)
		}
		return err
	}
	fmt.Fprintf(stdout, "Password reset for user %s\n", strings.TrimSpace(*username))
	return nil
}
