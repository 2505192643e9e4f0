package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "users.db")
	return append([]string{"-driver", "sqlite", "-dsn", dsn}, extra...)
}

func TestRun_Success(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run(sqliteArgs(t, "-user", "ana", "-password", "secret", "-role", "superadmin"), new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User ana created successfully")
	assert.Contains(t, stdout.String(), "role superadmin")
}

func TestRun_DuplicateUser(t *testing.T) {
	args := sqliteArgs(t, "-user", "ana", "-password", "secret")

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))
	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_InteractivePassword(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run(sqliteArgs(t, "-user", "bo"), bytes.NewBufferString("typed-secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User bo created successfully")
}

func TestRun_EmptyPassword(t *testing.T) {
	err := run(sqliteArgs(t, "-user", "bo"), bytes.NewBufferString("\n"), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_ShortPassword(t *testing.T) {
	err := run(sqliteArgs(t, "-user", "bo", "-password", "abc"), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password too short")
}

func TestRun_MissingUserFlag(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run(sqliteArgs(t, "-password", "secret"), new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InvalidRole(t *testing.T) {
	err := run(sqliteArgs(t, "-user", "bo", "-password", "x", "-role", "admin"), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be one of")
}

func TestRun_InvalidFlag(t *testing.T) {
	err := run([]string{"-invalid"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}
