package config

import "time"

// Config represents the complete namegate configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Redis    RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Limits   LimitsConfig   `yaml:"limits" mapstructure:"limits"`
	Alert    AlertConfig    `yaml:"alert" mapstructure:"alert"`
	Premium  PremiumConfig  `yaml:"premium" mapstructure:"premium"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	// Addr is the listen address for the HTTP API.
	Addr string `yaml:"addr" mapstructure:"addr"`
	// TrustForwardedFor honours the first X-Forwarded-For hop as the
	// client identity. Enable only behind a trusted edge.
	TrustForwardedFor bool `yaml:"trust_forwarded_for" mapstructure:"trust_forwarded_for"`
}

// RedisConfig holds the shared counter store connection. An empty Addr
// selects the in-process store (guards then only see local traffic).
type RedisConfig struct {
	Addr      string `yaml:"addr" mapstructure:"addr"`
	Password  string `yaml:"password" mapstructure:"password"`
	DB        int    `yaml:"db" mapstructure:"db"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// LimitsConfig holds the admission guard ceilings.
type LimitsConfig struct {
	BurstPerMinute int64 `yaml:"burst_per_minute" mapstructure:"burst_per_minute"`
	MonthlyQuota   int64 `yaml:"monthly_quota" mapstructure:"monthly_quota"`
	MonthlyCeiling int64 `yaml:"monthly_ceiling" mapstructure:"monthly_ceiling"`
}

// AlertConfig holds the circuit-breaker webhook. An empty URL disables
// alerting.
type AlertConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// PremiumConfig holds the metered aftermarket upstream.
type PremiumConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	// Proxy URL (supports HTTP, HTTPS, SOCKS5)
	Proxy string `yaml:"proxy" mapstructure:"proxy"`
	// Custom User-Agent string
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ResolverConfig tunes the per-protocol resolvers.
type ResolverConfig struct {
	RDAPTimeout    time.Duration `yaml:"rdap_timeout" mapstructure:"rdap_timeout"`
	RDAPRetryDelay time.Duration `yaml:"rdap_retry_delay" mapstructure:"rdap_retry_delay"`
	WhoisTimeout   time.Duration `yaml:"whois_timeout" mapstructure:"whois_timeout"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			TrustForwardedFor: true,
		},
		Redis: RedisConfig{
			KeyPrefix: "namegate",
		},
		Limits: LimitsConfig{
			BurstPerMinute: 10,
			MonthlyQuota:   50,
			MonthlyCeiling: 10000,
		},
		Resolver: ResolverConfig{
			RDAPTimeout:    8 * time.Second,
			RDAPRetryDelay: 2 * time.Second,
			WhoisTimeout:   5 * time.Second,
		},
	}
}
