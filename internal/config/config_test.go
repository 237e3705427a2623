package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig is a helper that writes a TOML config file to a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
[ai]
provider = "anthropic"
api_key = "sk-test-key-123"
model = "claude-sonnet-4-5"
find_max_tokens = 300
extract_max_tokens = 6000

[fetch]
timeout_seconds = 10
retries = 5
user_agent = "cfeditorial-test"
respect_robots = true
render = false

[cache]
backend = "redis"
ttl_hours = 24
redis_addr = "cache:6379"
redis_password = "secret"
redis_db = 2

[finder]
feed_urls = ["https://codeforces.com/blog/entry/rss"]

[archive]
enabled = true
endpoint = "minio:9000"
access_key = "ak"
secret_key = "sk"
bucket = "pdfs"
use_ssl = true

[server]
port = 9090

[log]
level = "debug"
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// AI config
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("AI.Provider = %q, want %q", cfg.AI.Provider, "anthropic")
	}
	if cfg.AI.APIKey != "sk-test-key-123" {
		t.Errorf("AI.APIKey = %q, want %q", cfg.AI.APIKey, "sk-test-key-123")
	}
	if cfg.AI.Model != "claude-sonnet-4-5" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "claude-sonnet-4-5")
	}
	if cfg.AI.FindMaxTokens != 300 || cfg.AI.ExtractMaxTokens != 6000 {
		t.Errorf("AI max tokens = %d/%d, want 300/6000", cfg.AI.FindMaxTokens, cfg.AI.ExtractMaxTokens)
	}

	// Fetch config
	if cfg.Fetch.TimeoutSeconds != 10 {
		t.Errorf("Fetch.TimeoutSeconds = %d, want %d", cfg.Fetch.TimeoutSeconds, 10)
	}
	if cfg.Fetch.Retries != 5 {
		t.Errorf("Fetch.Retries = %d, want %d", cfg.Fetch.Retries, 5)
	}
	if cfg.Fetch.UserAgent != "cfeditorial-test" {
		t.Errorf("Fetch.UserAgent = %q, want %q", cfg.Fetch.UserAgent, "cfeditorial-test")
	}
	if !cfg.Fetch.RespectRobots || cfg.Fetch.Render {
		t.Errorf("Fetch flags = robots %v render %v, want true false", cfg.Fetch.RespectRobots, cfg.Fetch.Render)
	}

	// Cache config
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("Cache.TTLHours = %d, want %d", cfg.Cache.TTLHours, 24)
	}
	if cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisPassword != "secret" || cfg.Cache.RedisDB != 2 {
		t.Errorf("Cache redis = %q %q %d, want cache:6379 secret 2", cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	}

	if len(cfg.Finder.FeedURLs) != 1 || cfg.Finder.FeedURLs[0] != "https://codeforces.com/blog/entry/rss" {
		t.Errorf("Finder.FeedURLs = %q, want one feed", cfg.Finder.FeedURLs)
	}

	// Archive config
	if !cfg.Archive.Enabled || cfg.Archive.Endpoint != "minio:9000" || cfg.Archive.Bucket != "pdfs" || !cfg.Archive.UseSSL {
		t.Errorf("Archive = %+v, want enabled minio:9000 pdfs ssl", cfg.Archive)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want %v", cfg.SlogLevel(), slog.LevelDebug)
	}
}

func TestLoad_MissingFile_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	// File should have been created.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not created at %q: %v", path, err)
	}

	// Should have default values.
	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want %q", cfg.AI.Provider, "openai")
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "gpt-4o")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Fetch.Render != true {
		t.Errorf("Fetch.Render = %v, want %v", cfg.Fetch.Render, true)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "sqlite")
	}
	if strings.HasPrefix(cfg.Cache.SQLitePath, "~") {
		t.Errorf("Cache.SQLitePath = %q, want home expanded", cfg.Cache.SQLitePath)
	}
	if cfg.Cache.TTLHours != 168 {
		t.Errorf("Cache.TTLHours = %d, want %d", cfg.Cache.TTLHours, 168)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	// Minimal config: only provide required valid provider, let everything
	// else fall through to defaults.
	content := `
[ai]
api_key = "sk-test"

[server]

[cache]
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.Provider != "openai" {
		t.Errorf("AI.Provider = %q, want default %q", cfg.AI.Provider, "openai")
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("AI.Model = %q, want default %q", cfg.AI.Model, "gpt-4o")
	}
	if cfg.AI.FindMaxTokens != 500 {
		t.Errorf("AI.FindMaxTokens = %d, want default %d", cfg.AI.FindMaxTokens, 500)
	}
	if cfg.AI.ExtractMaxTokens != 8000 {
		t.Errorf("AI.ExtractMaxTokens = %d, want default %d", cfg.AI.ExtractMaxTokens, 8000)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, 8080)
	}
	if cfg.Fetch.TimeoutSeconds != 30 {
		t.Errorf("Fetch.TimeoutSeconds = %d, want default %d", cfg.Fetch.TimeoutSeconds, 30)
	}
	if cfg.Fetch.Retries != 3 {
		t.Errorf("Fetch.Retries = %d, want default %d", cfg.Fetch.Retries, 3)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want default %q", cfg.Cache.Backend, "memory")
	}
	if cfg.Cache.TTLHours != 168 {
		t.Errorf("Cache.TTLHours = %d, want default %d", cfg.Cache.TTLHours, 168)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, "info")
	}
}

func TestLoad_DefaultModelFollowsProvider(t *testing.T) {
	path := writeTestConfig(t, "[ai]\nprovider = \"anthropic\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}
	if cfg.AI.Model != "claude-haiku-4-5" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "claude-haiku-4-5")
	}
}

func TestLoad_EnvVar_AIAPIKey(t *testing.T) {
	content := `
[ai]
provider = "anthropic"
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("AI_API_KEY", "from-env-generic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-generic" {
		t.Errorf("AI.APIKey = %q, want %q (AI_API_KEY should override config)", cfg.AI.APIKey, "from-env-generic")
	}
}

func TestLoad_EnvVar_AnthropicAPIKey(t *testing.T) {
	content := `
[ai]
provider = "anthropic"
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("ANTHROPIC_API_KEY", "from-env-anthropic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-anthropic" {
		t.Errorf("AI.APIKey = %q, want %q (ANTHROPIC_API_KEY should override for anthropic provider)", cfg.AI.APIKey, "from-env-anthropic")
	}
}

func TestLoad_EnvVar_OpenAIAPIKey(t *testing.T) {
	content := `
[ai]
provider = "openai"
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("OPENAI_API_KEY", "from-env-openai")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-openai" {
		t.Errorf("AI.APIKey = %q, want %q (OPENAI_API_KEY should override for openai provider)", cfg.AI.APIKey, "from-env-openai")
	}
}

func TestLoad_EnvVar_AIAPIKey_TakesPrecedence(t *testing.T) {
	content := `
[ai]
provider = "anthropic"
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("ANTHROPIC_API_KEY", "from-env-anthropic")
	t.Setenv("AI_API_KEY", "from-env-generic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-generic" {
		t.Errorf("AI.APIKey = %q, want %q (AI_API_KEY should take precedence over ANTHROPIC_API_KEY)", cfg.AI.APIKey, "from-env-generic")
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "unknown provider", provider: "gemini"},
		{name: "empty after no default", provider: "invalid"},
		{name: "typo", provider: "anth ropic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
[ai]
provider = "` + tt.provider + `"
api_key = "sk-test"
`
			path := writeTestConfig(t, content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error for provider %q, got nil", path, tt.provider)
			}
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port string
	}{
		{name: "zero", port: "0"},
		{name: "negative", port: "-1"},
		{name: "too high", port: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
[ai]
provider = "anthropic"
api_key = "sk-test"

[server]
port = ` + tt.port + `
`
			path := writeTestConfig(t, content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error for port %s, got nil", path, tt.port)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero ttl", content: "[cache]\nttl_hours = 0\n"},
		{name: "negative ttl", content: "[cache]\nttl_hours = -1\n"},
		{name: "zero retries", content: "[fetch]\nretries = 0\n"},
		{name: "zero timeout", content: "[fetch]\ntimeout_seconds = 0\n"},
		{name: "zero find tokens", content: "[ai]\nfind_max_tokens = 0\n"},
		{name: "negative extract tokens", content: "[ai]\nextract_max_tokens = -5\n"},
		{name: "unknown backend", content: "[cache]\nbackend = \"memcached\"\n"},
		{name: "unknown log level", content: "[log]\nlevel = \"verbose\"\n"},
		{name: "archive without keys", content: "[archive]\nenabled = true\n"},
		{name: "malformed toml", content: "[cache\nbackend = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error, got nil", path)
			}
		})
	}
}

func TestLoad_EnvVar_Cache(t *testing.T) {
	path := writeTestConfig(t, "[cache]\nbackend = \"memory\"\n")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://redis.internal:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Cache.RedisAddr != "redis.internal:6380" {
		t.Errorf("Cache.RedisAddr = %q, want %q", cfg.Cache.RedisAddr, "redis.internal:6380")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("CFEDITORIAL_TEST_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv("CFEDITORIAL_TEST_KEY", "")
	os.Unsetenv("CFEDITORIAL_TEST_KEY")

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile(%q) error: %v", envPath, err)
	}
	if got := os.Getenv("CFEDITORIAL_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("CFEDITORIAL_TEST_KEY = %q, want %q", got, "from-dotenv")
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) error = %v, want nil", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(\"\") error = %v, want nil", err)
	}
}

func TestLoad_EmptyAPIKey_NoError(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	content := `
[ai]
provider = "anthropic"
api_key = ""
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v (empty api_key should warn, not fail)", path, err)
	}

	if cfg.AI.APIKey != "" {
		t.Errorf("AI.APIKey = %q, want empty string", cfg.AI.APIKey)
	}
}
