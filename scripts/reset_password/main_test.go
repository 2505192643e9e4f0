package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"moneytracker/models"
	"moneytracker/pkg/auth"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// seed creates a database file holding one user and returns its path.
func seed(t *testing.T, username, password string) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "users.db")
	s, err := store.Open(store.Options{Driver: store.DriverSQLite, DSN: dsn, AutoMigrate: true, Logger: logging.New(io.Discard, "error", "text")})
	require.NoError(t, err)
	defer s.Close()
	_, err = auth.NewCredentials(s, auth.WithHashCost(bcrypt.MinCost)).Register(context.Background(), username, password, models.RoleSuperadmin)
	require.NoError(t, err)
	return dsn
}

func login(t *testing.T, dsn, username, password string) error {
	t.Helper()
	s, err := store.Open(store.Options{Driver: store.DriverSQLite, DSN: dsn, Logger: logging.New(io.Discard, "error", "text")})
	require.NoError(t, err)
	defer s.Close()
	_, err = auth.NewCredentials(s).Login(context.Background(), username, password)
	return err
}

func TestRun_ResetsPassword(t *testing.T) {
	dsn := seed(t, "superadmin", "admin123")
	stdout := new(bytes.Buffer)

	err := run([]string{"-driver", "sqlite", "-dsn", dsn, "-username", "superadmin", "-password", "rotated-secret"},
		new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password reset for user superadmin")

	assert.ErrorIs(t, login(t, dsn, "superadmin", "admin123"), auth.ErrInvalidCredentials)
	assert.NoError(t, login(t, dsn, "superadmin", "rotated-secret"))
}

func TestRun_PromptsForPassword(t *testing.T) {
	dsn := seed(t, "superadmin", "admin123")
	stdout := new(bytes.Buffer)

	err := run([]string{"-driver", "sqlite", "-dsn", dsn, "-username", "superadmin"},
		bytes.NewBufferString("typed-secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "New password: ")
	assert.NoError(t, login(t, dsn, "superadmin", "typed-secret"))
}

func TestRun_Failures(t *testing.T) {
	dsn := seed(t, "superadmin", "admin123")

	err := run([]string{"-driver", "sqlite", "-dsn", dsn, "-username", "ghost", "-password", "long-enough"},
		new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user ghost not found")

	err = run([]string{"-driver", "sqlite", "-dsn", dsn, "-username", "superadmin", "-password", "short"},
		new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password too short")

	err = run([]string{"-driver", "sqlite", "-dsn", dsn}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--username is required")
}
