package factory

import (
	"fmt"

	"deck-align-be/pkg/llm"
	"deck-align-be/pkg/llm/gemini"
	"deck-align-be/pkg/llm/ollama"
)

type Config struct {
	Provider string // "ollama" or "gemini"
	Model    string
	BaseURL  string // ollama only
	APIKey   string // gemini only
}

func NewProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.BaseURL, cfg.Model), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
