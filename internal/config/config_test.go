package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears every KANBAN_* variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{EnvConfig, EnvDB, EnvBoardKey, EnvTimezone, EnvLogLevel} {
		t.Setenv(name, "")
	}
	t.Setenv(EnvLogFile, "")
	os.Unsetenv(EnvLogFile)
	return home
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".kanban", "kanban.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, ".kanban", "kanban.log"), cfg.LogFile)
	assert.Equal(t, DefaultBoardKey, cfg.BoardKey)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.NotNil(t, cfg.Location)
	assert.Empty(t, cfg.Source)
}

func TestLoad_DefaultFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".kanban", "config.toml")
	writeConfig(t, path, `
db_path = "~/boards/work.db"
board_key = "work"
timezone = "Europe/Moscow"
log_level = "debug"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "boards", "work.db"), cfg.DBPath)
	assert.Equal(t, "work", cfg.BoardKey)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	writeConfig(t, path, `board_key = "from-file"`)
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvBoardKey, "from-env")
	t.Setenv(EnvDB, "/tmp/k.db")
	t.Setenv(EnvTimezone, "UTC")
	t.Setenv(EnvLogFile, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.BoardKey)
	assert.Equal(t, "/tmp/k.db", cfg.DBPath)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Empty(t, cfg.LogFile, "empty KANBAN_LOG_FILE disables file logging")
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, home string)
	}{
		{"missing explicit file", func(t *testing.T, home string) {
			t.Setenv(EnvConfig, filepath.Join(home, "nope.toml"))
		}},
		{"bad toml", func(t *testing.T, home string) {
			writeConfig(t, filepath.Join(home, ".kanban", "config.toml"), `board_key = `)
		}},
		{"unknown key", func(t *testing.T, home string) {
			writeConfig(t, filepath.Join(home, ".kanban", "config.toml"), `boards = 3`)
		}},
		{"blank board key", func(t *testing.T, home string) {
			writeConfig(t, filepath.Join(home, ".kanban", "config.toml"), `board_key = "  "`)
		}},
		{"unknown timezone", func(t *testing.T, home string) {
			t.Setenv(EnvTimezone, "Mars/Olympus")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home := isolate(t)
			tc.setup(t, home)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
