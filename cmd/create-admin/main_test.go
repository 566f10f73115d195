package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadOptionsDefaultsFromEnvFile(t *testing.T) {
	unsetEnv(t, "ADMIN_EMAIL", "ADMIN_PASSWORD")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ADMIN_EMAIL=file@example.com\nADMIN_PASSWORD=from-the-file\n"), 0o600))

	opts, _, err := loadOptions(envFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", opts.email)
	assert.Equal(t, "from-the-file", opts.password)
	assert.Equal(t, "admin", opts.role)
}

func TestLoadOptionsFlagsOverrideEnvFile(t *testing.T) {
	unsetEnv(t, "ADMIN_EMAIL", "ADMIN_PASSWORD")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ADMIN_EMAIL=file@example.com\nADMIN_PASSWORD=from-the-file\n"), 0o600))

	opts, _, err := loadOptions(envFile, []string{"-email", "flag@example.com", "-role", "editor"})
	require.NoError(t, err)
	assert.Equal(t, "flag@example.com", opts.email)
	assert.Equal(t, "editor", opts.role)
}

func TestLoadOptionsValidates(t *testing.T) {
	unsetEnv(t, "ADMIN_EMAIL", "ADMIN_PASSWORD")
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, _, err := loadOptions(missing, []string{"-email", "a@example.com", "-password", "short"})
	assert.ErrorIs(t, err, errUsage)

	_, _, err = loadOptions(missing, []string{"-email", "a@example.com", "-password", "long-enough", "-role", "owner"})
	assert.Error(t, err)
}
