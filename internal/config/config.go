// Package config resolves kanban settings from defaults, an optional TOML
// file and KANBAN_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultBoardKey names the board blob.
	DefaultBoardKey = "kanban"
	// DefaultLogLevel is used when nothing overrides it.
	DefaultLogLevel = "info"

	dataDirName    = ".kanban"
	configFileName = "config.toml"
)

// Environment variable names.
const (
	EnvConfig   = "KANBAN_CONFIG"
	EnvDB       = "KANBAN_DB"
	EnvBoardKey = "KANBAN_BOARD_KEY"
	EnvTimezone = "KANBAN_TIMEZONE"
	EnvLogLevel = "KANBAN_LOG_LEVEL"
	EnvLogFile  = "KANBAN_LOG_FILE"
)

// Config holds resolved settings.
type Config struct {
	DBPath   string `toml:"db_path"`
	BoardKey string `toml:"board_key"`
	Timezone string `toml:"timezone"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// Location is Timezone resolved by Load.
	Location *time.Location `toml:"-"`
	// Source is the config file that was read, if any.
	Source string `toml:"-"`
}

// DefaultConfig returns settings rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		DBPath:   filepath.Join(dataDir, "kanban.db"),
		BoardKey: DefaultBoardKey,
		Timezone: "Local",
		LogLevel: DefaultLogLevel,
		LogFile:  filepath.Join(dataDir, "kanban.log"),
	}
}

// DataDir returns ~/.kanban.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, dataDirName), nil
}

// Load resolves the configuration. A file named by KANBAN_CONFIG must
// exist; the default file is optional.
func Load() (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(dataDir)

	path, required := os.Getenv(EnvConfig), true
	if path == "" {
		path, required = filepath.Join(dataDir, configFileName), false
	}
	if err := loadFile(&cfg, path, required); err != nil {
		return nil, err
	}

	loadFromEnv(&cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Source = path
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvBoardKey); v != "" {
		cfg.BoardKey = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	// an explicitly empty KANBAN_LOG_FILE disables the log file
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
}

func (c *Config) finalize() error {
	c.BoardKey = strings.TrimSpace(c.BoardKey)
	if c.BoardKey == "" {
		return fmt.Errorf("board_key must not be blank")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be blank")
	}
	c.DBPath = expandHome(c.DBPath)
	c.LogFile = expandHome(c.LogFile)

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
