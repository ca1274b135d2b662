// Package config handles the XDG configuration directory, the optional
// config file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"taskwiz/internal/logging"
	"taskwiz/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "taskwiz"

	// ConfigFile is the optional config filename inside the config dir.
	ConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment overrides (TASKWIZ_SERVER, ...).
	EnvPrefix = "TASKWIZ"

	// DefaultServer is the backend base URL used when nothing else is set.
	DefaultServer = "http://localhost:3000"

	// DefaultAuthPrefix is the path prefix of the signup/signin endpoints.
	// Some deployments mount them under "/user/auth" instead.
	DefaultAuthPrefix = "/auth"

	// DefaultTimeout bounds every backend request.
	DefaultTimeout = 10 * time.Second

	// DefaultListen is the address the reference backend listens on.
	DefaultListen = ":3000"

	// DBFile is the reference backend database filename inside the config dir.
	DBFile = "taskwiz.db"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Server is the backend base URL, without a trailing slash.
	Server string

	// AuthPrefix is the path prefix for signup/signin.
	AuthPrefix string

	// Timeout bounds each backend request.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Listen is the address `serve` binds to.
	Listen string

	// DBPath is the SQLite database used by `serve`.
	DBPath string

	// JWTSecret signs access tokens issued by `serve`. Empty means a
	// random per-process secret.
	JWTSecret string

	// Logger receives debug logs. Never nil after New.
	Logger *slog.Logger
}

// New creates a Config for the given directory (or the default one),
// layering defaults, config.yaml in that directory and TASKWIZ_* env vars.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetDefault("server", DefaultServer)
	v.SetDefault("auth_prefix", DefaultAuthPrefix)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("db", filepath.Join(dir, DBFile))

	v.SetConfigFile(filepath.Join(dir, ConfigFile))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Config{
		Dir:        dir,
		Server:     NormalizeServer(v.GetString("server")),
		AuthPrefix: normalizePrefix(v.GetString("auth_prefix")),
		Timeout:    timeout,
		Listen:     v.GetString("listen"),
		DBPath:     v.GetString("db"),
		JWTSecret:  v.GetString("jwt_secret"),
		Logger:     logging.Discard(),
	}, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// NormalizeServer trims whitespace and trailing slashes from a base URL.
func NormalizeServer(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

func normalizePrefix(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return DefaultAuthPrefix
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Storage returns the durable store rooted at the config directory.
func (c *Config) Storage() storage.Store {
	return storage.NewFileStore(c.Dir)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Log returns the configured logger, or a discarding one.
func (c *Config) Log() *slog.Logger {
	return logging.OrDiscard(c.Logger)
}

// RequestTimeout returns Timeout, or DefaultTimeout when unset.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// AuthPath returns the path prefix for auth endpoints, defaulting when unset.
func (c *Config) AuthPath() string {
	return normalizePrefix(c.AuthPrefix)
}
