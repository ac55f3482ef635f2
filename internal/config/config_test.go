package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[trakt]
client_id = "id"
client_secret = "secret"
username = "luke"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./tvtime2trakt.db", cfg.Database.Path)
	assert.Equal(t, time.Second, cfg.Import.Delay)
	assert.Equal(t, 60*time.Second, cfg.Import.RateLimitWait)
	assert.Equal(t, 10, cfg.Import.MaxErrorStreak)
	assert.Equal(t, "info", cfg.Import.LogLevel)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
[trakt]
client_id = "id"
client_secret = "secret"
username = "luke"

[export]
dir = "/tmp/gdpr"

[import]
delay = "2s"
max_error_streak = 3
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Import.Delay)
	assert.Equal(t, 3, cfg.Import.MaxErrorStreak)
	assert.Equal(t, "/tmp/gdpr", cfg.Export.Dir)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_TRAKT_SECRET", "from-env")

	path := writeConfig(t, `
[trakt]
client_id = "id"
client_secret = "${TEST_TRAKT_SECRET}"
username = "luke"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Trakt.ClientSecret)
}

func TestLoadUnsetEnvVarLeftAlone(t *testing.T) {
	path := writeConfig(t, `
[trakt]
client_id = "${DEFINITELY_NOT_SET_VAR_42}"
client_secret = "secret"
username = "luke"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_VAR_42}", cfg.Trakt.ClientID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	exportDir := t.TempDir()

	valid := &Config{
		Trakt:  TraktConfig{ClientID: "id", ClientSecret: "secret", Username: "luke"},
		Export: ExportConfig{Dir: exportDir},
		Import: ImportConfig{Delay: time.Second, MaxErrorStreak: 10, LogLevel: "info"},
	}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing client id", func(c *Config) { c.Trakt.ClientID = "" }, "trakt.client_id: required"},
		{"missing client secret", func(c *Config) { c.Trakt.ClientSecret = "" }, "trakt.client_secret: required"},
		{"missing username", func(c *Config) { c.Trakt.Username = "" }, "trakt.username: required"},
		{"missing export dir", func(c *Config) { c.Export.Dir = "" }, "export.dir: required"},
		{"bad log level", func(c *Config) { c.Import.LogLevel = "loud" }, "import.log_level: must be one of debug, info, warn, error; got \"loud\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Contains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateUnreadableExportDir(t *testing.T) {
	cfg := &Config{
		Trakt:  TraktConfig{ClientID: "id", ClientSecret: "secret", Username: "luke"},
		Export: ExportConfig{Dir: filepath.Join(t.TempDir(), "missing")},
		Import: ImportConfig{MaxErrorStreak: 10},
	}
	errs := cfg.Validate()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "export.dir")
}

func TestConfigError(t *testing.T) {
	e := &ConfigError{Path: "config.toml", Errors: []string{"trakt.client_id: required"}}
	assert.True(t, e.HasErrors())
	assert.Contains(t, e.Error(), "trakt.client_id: required")

	empty := &ConfigError{}
	assert.False(t, empty.HasErrors())
	assert.Empty(t, empty.Error())
}

func TestWriteDefaultIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Import.Delay)
}

func TestDiscoverEnvOverride(t *testing.T) {
	path := writeConfig(t, "[trakt]\nclient_id = \"id\"\n")
	t.Setenv("TVTIME2TRAKT_CONFIG", path)

	found, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestDiscoverEnvOverrideMissing(t *testing.T) {
	t.Setenv("TVTIME2TRAKT_CONFIG", filepath.Join(t.TempDir(), "gone.toml"))
	_, err := Discover()
	assert.Error(t, err)
}
