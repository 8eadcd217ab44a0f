package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Backend BackendConfig
	Server  ServerConfig
	AI      AIConfig
}

// BackendConfig tells the client where the REST backend lives.
type BackendConfig struct {
	// URL of the backend. Ignored when Server.Embedded is true; the client
	// then talks to the embedded listener.
	URL string
	// Embedded starts the bundled backend in-process instead of expecting
	// an external one.
	Embedded bool
}

// ServerConfig holds the embedded backend's settings.
type ServerConfig struct {
	Port int
	// Path of the sqlite database file.
	DatabasePath string
}

// AIConfig holds AI provider settings. With no API key the backend falls
// back to the heuristic provider.
type AIConfig struct {
	APIKeyEnv string
	APIKey    string
	Model     string
}

// ResolveAPIKey returns the configured key, preferring the env var.
func (c AIConfig) ResolveAPIKey() string {
	if c.APIKeyEnv != "" {
		if key := os.Getenv(c.APIKeyEnv); key != "" {
			return key
		}
	}
	return c.APIKey
}

// BackendURL returns the base URL the client should talk to.
func (c Config) BackendURL() string {
	if c.Backend.Embedded {
		return fmt.Sprintf("http://127.0.0.1:%d", c.Server.Port)
	}
	return c.Backend.URL
}

// Load reads configuration from file and env. Env var overrides use prefix CANBAN_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.url", "http://127.0.0.1:51723")
	v.SetDefault("backend.embedded", true)
	v.SetDefault("server.port", 51723)
	v.SetDefault("server.database_path", filepath.Join(os.Getenv("HOME"), ".local", "share", "canban", "canban.db"))
	v.SetDefault("ai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CANBAN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "canban"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CANBAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API key is stored in plain text in the config file; encourage users to prefer env vars.
func Save(cfg Config) error {
	path := os.Getenv("CANBAN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "canban", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.embedded", cfg.Backend.Embedded)
	v.Set("server.port", cfg.Server.Port)
	v.Set("server.database_path", cfg.Server.DatabasePath)
	v.Set("ai.api_key_env", cfg.AI.APIKeyEnv)
	v.Set("ai.api_key", cfg.AI.APIKey)
	v.Set("ai.model", cfg.AI.Model)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
