// Package config resolves runtime settings from flags, IDEABOX_* env vars
// and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "IDEABOX"
	defaultLevel   = "info"
	defaultWorkers = 4
	defaultTimeout = 10 * time.Second
)

// Keys, shared by flags, env vars (IDEABOX_DATABASE_PATH, ...) and the file.
const (
	KeyDatabasePath = "database.path"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyAuthor       = "author"
	KeyQueueWorkers = "queue.workers"
	KeyQueueTimeout = "queue.timeout"
	KeyGlyphs       = "tui.glyphs"
)

type Config struct {
	DatabasePath string
	LogLevel     string
	// LogFile is where logs go; empty means stderr for commands and nowhere
	// for the TUI.
	LogFile      string
	Author       string
	QueueWorkers int
	QueueTimeout time.Duration
	Glyphs       string
}

func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on v.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyLogLevel, defaultLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyAuthor, defaultAuthor())
	v.SetDefault(KeyQueueWorkers, defaultWorkers)
	v.SetDefault(KeyQueueTimeout, defaultTimeout)
	v.SetDefault(KeyGlyphs, "unicode")
}

// DefaultDatabasePath is $XDG_DATA_HOME/ideabox/ideas.db, falling back to
// ~/.local/share.
func DefaultDatabasePath() string {
	base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "ideas.db"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "ideabox", "ideas.db")
}

// DefaultConfigFile is $XDG_CONFIG_HOME/ideabox/config.yaml.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "ideabox", "config.yaml")
}

func defaultAuthor() string {
	for _, k := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return "anonymous"
}

// BindFlags binds every flag in fs named after a key ("database-path" for
// "database.path") to that key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyDatabasePath, KeyLogLevel, KeyLogFile, KeyAuthor, KeyQueueWorkers, KeyQueueTimeout, KeyGlyphs} {
		f := fs.Lookup(FlagName(key))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// FlagName maps a key to its flag name.
func FlagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

// ReadFile reads path into v. An explicit path must exist; the default
// location is optional.
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
		if path == "" {
			return nil
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load parses and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath: strings.TrimSpace(v.GetString(KeyDatabasePath)),
		LogLevel:     strings.TrimSpace(v.GetString(KeyLogLevel)),
		LogFile:      strings.TrimSpace(v.GetString(KeyLogFile)),
		Author:       strings.TrimSpace(v.GetString(KeyAuthor)),
		QueueWorkers: v.GetInt(KeyQueueWorkers),
		QueueTimeout: v.GetDuration(KeyQueueTimeout),
		Glyphs:       strings.ToLower(strings.TrimSpace(v.GetString(KeyGlyphs))),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%s is required", KeyDatabasePath)
	}
	if c.Author == "" {
		return fmt.Errorf("%s is required", KeyAuthor)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "off":
	default:
		return fmt.Errorf("invalid %s %q (want debug|info|warn|error|off)", KeyLogLevel, c.LogLevel)
	}
	if c.QueueWorkers < 0 {
		return fmt.Errorf("%s must be >= 0", KeyQueueWorkers)
	}
	if c.QueueTimeout < 0 {
		return fmt.Errorf("%s must be >= 0", KeyQueueTimeout)
	}
	switch c.Glyphs {
	case "unicode", "ascii":
	default:
		return fmt.Errorf("invalid %s %q (want unicode|ascii)", KeyGlyphs, c.Glyphs)
	}
	return nil
}
