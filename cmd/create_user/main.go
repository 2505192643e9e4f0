package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"moneytracker/models"
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

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("create_user", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	roleFlag := fs.String("role", string(models.RoleUser), "Role: user or superadmin")
	driver := fs.String("driver", cfg.DBDriver, "Database driver: postgres or sqlite")
	dsn := fs.String("dsn", cfg.DBDSN, "Database DSN (defaults to DB_DSN)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		fmt.Fprintln(stdout, "Usage: create_user -user <username> [-password <password>] [-role user|superadmin]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}
	role, err := models.ParseRole(*roleFlag)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*dsn) == "" {
		return fmt.Errorf("DB_DSN not set; pass -dsn or export DB_DSN")
	}

	password := *passwordFlag
	if password == "" {
		password, err = prompt.Password(stdin, stdout, "Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	s, err := store.Open(store.Options{
		Driver:      *driver,
		DSN:         *dsn,
		AutoMigrate: true,
		Logger:      logging.New(stderr, "warn", cfg.LogFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	user, err := auth.NewCredentials(s).Register(context.Background(), *username, password, role)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return fmt.Errorf("user %s already exists", strings.TrimSpace(*username))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(stdout, "User %s created successfully with ID %s and role %s\n", user.Username, user.ID, user.Role)
	return nil
}
