// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IsProduction reports whether strict behavior (rate limiting, PII
// scrubbing) is mandatory.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// ProviderConfig holds settings for the upstream LLM provider.
type ProviderConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"`      // milliseconds, per attempt
	MaxAttempts int     `mapstructure:"max_attempts"` // total attempts incl. the first
	BackoffBase int     `mapstructure:"backoff_base"` // milliseconds
	Referer     string  `mapstructure:"referer"`
	AppTitle    string  `mapstructure:"app_title"`
}

// RateLimitConfig holds per-session quota settings. Disabled is an explicit
// flag; it is never inferred from environment heuristics, and production
// ignores it.
type RateLimitConfig struct {
	MaxRequests   int  `mapstructure:"max_requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
	Disabled      bool `mapstructure:"disabled"`
}

// SessionConfig selects where per-session state (quota timestamps, phase-1
// results) lives.
type SessionConfig struct {
	Backend    string `mapstructure:"backend"`     // "memory" or "redis"
	TTLSeconds int    `mapstructure:"ttl_seconds"` // phase-1 state retention
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Output      string `mapstructure:"output"`
	SanitizePII bool   `mapstructure:"sanitize_pii"`
}
