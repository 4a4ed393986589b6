package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/askbq/askbq/internal/settings"
)

var ErrKeyNotConfigured = errors.New("model key not configured")

// Generator turns one prompt into one text completion. Implementations
// wrap a remote generative model and make exactly one call per prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New selects the provider for the current configuration. Provider
// clients are cheap to construct, so callers build one per agent turn
// and always pick up the latest stored key.
func New(ctx context.Context, cfg settings.Config) (Generator, error) {
	switch cfg.ModelProvider {
	case settings.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("%w: set anthropicKey in settings", ErrKeyNotConfigured)
		}
		return newAnthropic(cfg.AnthropicKey), nil
	default:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("%w: set geminiKey in settings", ErrKeyNotConfigured)
		}
		return newGemini(ctx, cfg.GeminiKey)
	}
}
