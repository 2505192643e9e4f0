// Package store owns the database handle shared by every component. It is
// opened once at startup, migrated, and closed on shutdown.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moneytracker/models"
	"moneytracker/pkg/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	Logger      *slog.Logger
}

// Store wraps the gorm handle. Components receive it at construction and use
// DB directly.
type Store struct {
	DB *gorm.DB
}

// Open connects and, when AutoMigrate is set, brings the schema up to date.
func Open(opts Options) (*Store, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logger, 200*time.Millisecond),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// a single writer avoids "database is locked" on concurrent requests
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Store{DB: db}
	if opts.AutoMigrate {
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Migrate creates or updates every table. Users first, since categories and
// transactions reference user ids.
func (s *Store) Migrate() error {
	for _, m := range []any{&models.User{}, &models.Category{}, &models.Transaction{}} {
		if err := s.DB.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err came from a unique index. Drivers
// that gorm cannot translate are matched on their message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
