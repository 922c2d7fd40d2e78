package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetDefaultConfigPath returns the OS-appropriate default config file path.
// Accepts userConfigDir for dependency injection (testability). Ensures the
// app-specific config directory exists.
func GetDefaultConfigPath(userConfigDir func() (string, error)) (string, error) {
	configDir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, "namegate")
	if err := os.MkdirAll(appConfigDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(appConfigDir, "config.yaml"), nil
}

// Load loads the configuration from the specified path or default location.
// If configPath is empty, it uses the OS-appropriate default path. If the
// config file doesn't exist, it returns a default configuration.
func Load(configPath string, userConfigDir func() (string, error)) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath(userConfigDir)
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return NewDefaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures Viper default values matching NewDefaultConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.trust_forwarded_for", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.key_prefix", "namegate")
	v.SetDefault("limits.burst_per_minute", 10)
	v.SetDefault("limits.monthly_quota", 50)
	v.SetDefault("limits.monthly_ceiling", 10000)
	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("premium.base_url", "")
	v.SetDefault("premium.api_key", "")
	v.SetDefault("http.proxy", "")
	v.SetDefault("http.user_agent", "")
	v.SetDefault("resolver.rdap_timeout", "8s")
	v.SetDefault("resolver.rdap_retry_delay", "2s")
	v.SetDefault("resolver.whois_timeout", "5s")
}
