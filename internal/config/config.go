// Package config loads cfeditorial settings from a TOML file, an optional
// .env file and the environment, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Fetch   FetchConfig   `toml:"fetch"`
	Cache   CacheConfig   `toml:"cache"`
	Finder  FinderConfig  `toml:"finder"`
	Archive ArchiveConfig `toml:"archive"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// AIConfig holds AI provider settings.
type AIConfig struct {
	Provider         string `toml:"provider"`
	APIKey           string `toml:"api_key"`
	Model            string `toml:"model"`
	FindMaxTokens    int    `toml:"find_max_tokens"`
	ExtractMaxTokens int    `toml:"extract_max_tokens"`
}

// FetchConfig controls outbound HTTP.
type FetchConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Retries        int    `toml:"retries"`
	UserAgent      string `toml:"user_agent"`
	RespectRobots  bool   `toml:"respect_robots"`
	Render         bool   `toml:"render"`
}

// CacheConfig selects the editorial cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	TTLHours      int    `toml:"ttl_hours"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// FinderConfig tunes tutorial discovery.
type FinderConfig struct {
	FeedURLs []string `toml:"feed_urls"`
}

// ArchiveConfig enables object-store archival of PDF tutorials.
type ArchiveConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

const defaultConfigContent = `[ai]
provider = "openai"               # "openai" or "anthropic"
api_key = ""                      # Your API key (or set AI_API_KEY env var)
model = "gpt-4o"
find_max_tokens = 500
extract_max_tokens = 8000

[fetch]
timeout_seconds = 30
retries = 3
respect_robots = false
render = true                     # Render blog and contest pages in headless Chrome

[cache]
backend = "sqlite"                # "memory", "sqlite", "redis" or "none"
ttl_hours = 168
sqlite_path = "~/.cfeditorial/cache.db"
redis_addr = "localhost:6379"
redis_password = ""
redis_db = 0

[finder]
feed_urls = []

[archive]
enabled = false
endpoint = "localhost:9000"
access_key = ""
secret_key = ""
bucket = "cfeditorial-tutorials"
use_ssl = false

[server]
port = 8080

[log]
level = "info"
`

// DefaultPath returns ~/.cfeditorial/config.toml, or config.toml in the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".cfeditorial", "config.toml")
}

// LoadEnvFile loads variables from a .env file into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %q: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	cfg.Cache.SQLitePath = expandHome(cfg.Cache.SQLitePath)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("cache", "ttl_hours") && cfg.Cache.TTLHours < 1 {
		return fmt.Errorf("invalid cache.ttl_hours %d: must be >= 1", cfg.Cache.TTLHours)
	}
	if md.IsDefined("fetch", "retries") && cfg.Fetch.Retries < 1 {
		return fmt.Errorf("invalid fetch.retries %d: must be >= 1", cfg.Fetch.Retries)
	}
	if md.IsDefined("fetch", "timeout_seconds") && cfg.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid fetch.timeout_seconds %d: must be >= 1", cfg.Fetch.TimeoutSeconds)
	}
	if md.IsDefined("ai", "find_max_tokens") && cfg.AI.FindMaxTokens < 1 {
		return fmt.Errorf("invalid ai.find_max_tokens %d: must be >= 1", cfg.AI.FindMaxTokens)
	}
	if md.IsDefined("ai", "extract_max_tokens") && cfg.AI.ExtractMaxTokens < 1 {
		return fmt.Errorf("invalid ai.extract_max_tokens %d: must be >= 1", cfg.AI.ExtractMaxTokens)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields. Booleans
// are left alone: a missing bool and an explicit false look the same.
func applyDefaults(cfg *Config) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModel(cfg.AI.Provider)
	}
	if cfg.AI.FindMaxTokens == 0 {
		cfg.AI.FindMaxTokens = 500
	}
	if cfg.AI.ExtractMaxTokens == 0 {
		cfg.AI.ExtractMaxTokens = 8000
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 30
	}
	if cfg.Fetch.Retries == 0 {
		cfg.Fetch.Retries = 3
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 168
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "~/.cfeditorial/cache.db"
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Archive.Bucket == "" {
		cfg.Archive.Bucket = "cfeditorial-tutorials"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func defaultModel(provider string) string {
	if provider == "anthropic" {
		return "claude-haiku-4-5"
	}
	return "gpt-4o"
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. ANTHROPIC_API_KEY (when provider is "anthropic")
//  3. OPENAI_API_KEY (when provider is "openai")
func applyEnvOverrides(cfg *Config) {
	switch cfg.AI.Provider {
	case "anthropic":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}

	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}

	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisAddr = strings.TrimPrefix(v, "redis://")
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("invalid ai.provider %q: must be \"anthropic\" or \"openai\"", cfg.AI.Provider)
	}

	switch cfg.Cache.Backend {
	case "memory", "sqlite", "redis", "none":
	default:
		return fmt.Errorf("invalid cache.backend %q: must be one of memory, sqlite, redis, none", cfg.Cache.Backend)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Archive.Enabled && (cfg.Archive.AccessKey == "" || cfg.Archive.SecretKey == "") {
		return errors.New("archive.enabled requires archive.access_key and archive.secret_key")
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}

	return nil
}

// SlogLevel maps Log.Level onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
