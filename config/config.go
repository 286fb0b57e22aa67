// Package config loads the pluginkit configuration file: logging options and
// per-provider sections for the bundled providers. Values merge in layers,
// defaults first, then the config file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error, trace
	File   string `yaml:"file,omitempty"`   // Log file path (empty = stdout)
	Pretty bool   `yaml:"pretty,omitempty"` // Human-readable console output (stdout only)
}

// EchoConfig controls the echo provider.
type EchoConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// MockAPIConfig controls the mock API provider.
type MockAPIConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"` // Default key when requests carry none
}

// OpenAIConfig controls the OpenAI provider.
type OpenAIConfig struct {
	Enabled      bool   `yaml:"enabled,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`     // Custom base URL (default: official API)
	Organization string `yaml:"organization,omitempty"` // Organization ID
}

// AnthropicConfig controls the Anthropic provider.
type AnthropicConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// OllamaConfig controls the Ollama provider.
type OllamaConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"` // Ollama host (default: "http://localhost:11434")
}

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Echo      EchoConfig      `yaml:"echo,omitempty"`
	MockAPI   MockAPIConfig   `yaml:"mock_api,omitempty"`
	OpenAI    OpenAIConfig    `yaml:"openai,omitempty"`
	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
	Ollama    OllamaConfig    `yaml:"ollama,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present: local
// providers enabled, API-backed providers off until credentials are supplied.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Echo:    EchoConfig{Enabled: true},
		MockAPI: MockAPIConfig{Enabled: true},
		Ollama: OllamaConfig{
			Host: "http://localhost:11434",
		},
	}
}

// GetConfigPath returns the default config file path.
// Can be overridden via PLUGINKIT_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("PLUGINKIT_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.pluginkit/config.yaml"
	}
	return filepath.Join(homeDir, ".pluginkit", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Load loads configuration from the given path, merging it onto defaults and
// applying environment variable overrides. A missing file is not an error;
// defaults plus environment apply.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig()

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err == nil {
		configYAML, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(configYAML, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		if err := mergo.Merge(defaults, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	applyEnvOverrides(defaults)
	return defaults, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides layers environment variables over the loaded values.
// Credentials from the environment also enable their provider.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
		cfg.OpenAI.Enabled = true
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.OpenAI.BaseURL = baseURL
	}
	if org := os.Getenv("OPENAI_ORG_ID"); org != "" {
		cfg.OpenAI.Organization = org
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.Anthropic.APIKey = key
		cfg.Anthropic.Enabled = true
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ollama.Host = host
	}
}
