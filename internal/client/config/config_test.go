package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000/api", c.ServerURL)
	assert.Equal(t, 12, c.PageSize)
	assert.Equal(t, 500*time.Millisecond, c.ScrollThrottle)
	assert.Equal(t, 300*time.Millisecond, c.SearchDebounce)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cinecollection", "session.db"), cfg.SessionDBPath)
}

func TestLoad_JSONThenFlags(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{
		"server_url": "https://json.example/api",
		"session_db_path": "/tmp/json.db",
		"page_size": 20,
		"search_debounce": "1s",
		"request_timeout": 5000000000
	}`), 0o600))

	cfg, err := Load([]string{"-config", jsonFile, "-page-size", "6", "-throttle", "250ms", "-unknown", "x"})
	require.NoError(t, err)

	want := &Config{
		ServerURL:      "https://json.example/api",
		SessionDBPath:  "/tmp/json.db",
		PageSize:       6,
		ScrollThrottle: 250 * time.Millisecond,
		SearchDebounce: time.Second,
		RequestTimeout: 5 * time.Second,
		LogLevel:       "warn",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	_, err := Load([]string{"-c", bad})
	assert.Error(t, err)

	_, err = Load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	_, err = Load([]string{"-page-size", "many"})
	assert.Error(t, err)
}
