// Package llm seats a large language model at the table. An Oracle gives
// clues, guesses, and deals boards by prompting one of the supported
// providers and handing the raw reply back to the caller.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ingenimax/agent-sdk-go/pkg/interfaces"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/deepseek"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/gemini"
	"github.com/Ingenimax/agent-sdk-go/pkg/llm/openai"
	"github.com/Ingenimax/agent-sdk-go/pkg/logging"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/domino14/spymaster/config"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrNoAPIKey            = errors.New("no API key configured")
)

// Config holds the provider settings for an Oracle.
type Config struct {
	Provider string // "gemini", "openai", or "deepseek"
	APIKey   string
	Model    string
}

// DefaultConfig picks the key and model of the configured provider.
func DefaultConfig(cfg *config.Config) *Config {
	provider := cfg.GetString(config.ConfigGenaiProvider)

	var apiKey, model string
	switch provider {
	case "openai":
		apiKey = cfg.GetString(config.ConfigOpenaiApiKey)
		model = cfg.GetString(config.ConfigOpenaiModel)
	case "gemini":
		apiKey = cfg.GetString(config.ConfigGeminiApiKey)
		model = cfg.GetString(config.ConfigGeminiModel)
	case "deepseek":
		apiKey = cfg.GetString(config.ConfigDeepseekApiKey)
		model = cfg.GetString(config.ConfigDeepseekModel)
	}

	return &Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case "gemini", "openai", "deepseek":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w for %s", ErrNoAPIKey, c.Provider)
	}
	return nil
}

func newClient(ctx context.Context, c *Config) (interfaces.LLM, error) {
	switch c.Provider {
	case "gemini":
		model := c.Model
		if model == "" {
			model = "gemini-2.5-flash"
		}
		return gemini.NewClient(ctx,
			gemini.WithAPIKey(c.APIKey),
			gemini.WithBackend(genai.BackendGeminiAPI),
			gemini.WithModel(model))
	case "openai":
		log.Info().Str("model", c.Model).Msg("using-openai-client")
		return openai.NewClient(c.APIKey, openai.WithModel(c.Model), openai.WithLogger(logging.New())), nil
	case "deepseek":
		log.Info().Str("model", c.Model).Msg("using-deepseek-client")
		return deepseek.NewClient(c.APIKey, deepseek.WithModel(c.Model), deepseek.WithLogger(logging.New())), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.Provider)
}
