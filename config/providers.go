package config

import (
	"fmt"

	"github.com/modelmux/pluginkit/llm"
	"github.com/modelmux/pluginkit/providers/anthropic"
	"github.com/modelmux/pluginkit/providers/echo"
	"github.com/modelmux/pluginkit/providers/mockapi"
	"github.com/modelmux/pluginkit/providers/ollama"
	"github.com/modelmux/pluginkit/providers/openai"
	"github.com/modelmux/pluginkit/registry"
)

// RegisterProviders registers a factory for every enabled provider with the
// given registry. Factories capture their configuration; no provider is
// instantiated until first use.
func RegisterProviders(cfg *Config, reg *registry.Registry) error {
	if cfg.Echo.Enabled {
		if err := reg.Register("echo", echo.New); err != nil {
			return fmt.Errorf("failed to register echo provider: %w", err)
		}
	}
	if cfg.MockAPI.Enabled {
		factory := mockapi.New
		if cfg.MockAPI.APIKey != "" {
			key := cfg.MockAPI.APIKey
			factory = func() llm.Provider { return mockapi.NewWithKey(key) }
		}
		if err := reg.Register("mock_api", factory); err != nil {
			return fmt.Errorf("failed to register mock_api provider: %w", err)
		}
	}
	if cfg.OpenAI.Enabled {
		factory := openai.New
		if cfg.OpenAI.APIKey != "" {
			section := cfg.OpenAI
			factory = func() llm.Provider {
				p, err := openai.NewWithConfig(section.APIKey, section.BaseURL, section.Organization)
				if err != nil {
					return openai.New()
				}
				return p
			}
		}
		if err := reg.Register("openai", factory); err != nil {
			return fmt.Errorf("failed to register openai provider: %w", err)
		}
	}
	if cfg.Anthropic.Enabled {
		factory := anthropic.New
		if cfg.Anthropic.APIKey != "" {
			key := cfg.Anthropic.APIKey
			factory = func() llm.Provider {
				p, err := anthropic.NewWithKey(key)
				if err != nil {
					return anthropic.New()
				}
				return p
			}
		}
		if err := reg.Register("anthropic", factory); err != nil {
			return fmt.Errorf("failed to register anthropic provider: %w", err)
		}
	}
	if cfg.Ollama.Enabled {
		host := cfg.Ollama.Host
		factory := func() llm.Provider {
			p, err := ollama.NewWithHost(host)
			if err != nil {
				return ollama.New()
			}
			return p
		}
		if err := reg.Register("ollama", factory); err != nil {
			return fmt.Errorf("failed to register ollama provider: %w", err)
		}
	}
	return nil
}
