package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	writeFile(t, path, "agent:\n  user_name: alice\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Agent.UserName)
	assert.Equal(t, defaultHeartbeatInterval, cfg.CPP.HeartbeatInterval)
	assert.Equal(t, defaultBaseURL, cfg.CPP.BaseURL)
}

func TestLoadMissingRequiredFieldFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	writeFile(t, path, "agent:\n  coordinate: {longitude: 1.0, latitude: 2.0}\n")

	_, err := Load(path)
	require.Error(t, err)
	var invalid *InvalidError
	assert.ErrorAs(t, err, &invalid)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoadOrCreateStateGeneratesUUIDOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yml")

	st1, err := LoadOrCreateState(path)
	require.NoError(t, err)
	assert.NotEmpty(t, st1.AgentID)

	st2, err := LoadOrCreateState(path)
	require.NoError(t, err)
	assert.Equal(t, st1.AgentID, st2.AgentID)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
