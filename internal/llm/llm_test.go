package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/askbq/askbq/internal/settings"
)

func TestNewRequiresGeminiKey(t *testing.T) {
	_, err := New(context.Background(), settings.Config{ModelProvider: settings.ProviderGemini})
	if !errors.Is(err, ErrKeyNotConfigured) {
		t.Fatalf("expected ErrKeyNotConfigured, got %v", err)
	}
	if !strings.Contains(err.Error(), "geminiKey") {
		t.Errorf("expected error to name the missing setting, got %q", err)
	}
}

func TestNewRequiresAnthropicKey(t *testing.T) {
	_, err := New(context.Background(), settings.Config{ModelProvider: settings.ProviderAnthropic})
	if !errors.Is(err, ErrKeyNotConfigured) {
		t.Fatalf("expected ErrKeyNotConfigured, got %v", err)
	}
	if !strings.Contains(err.Error(), "anthropicKey") {
		t.Errorf("expected error to name the missing setting, got %q", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	g, err := New(context.Background(), settings.Config{
		ModelProvider: settings.ProviderGemini,
		GeminiKey:     "gk-test",
	})
	if err != nil {
		t.Fatalf("New (gemini): %v", err)
	}
	if _, ok := g.(*gemini); !ok {
		t.Errorf("expected gemini generator, got %T", g)
	}

	g, err = New(context.Background(), settings.Config{
		ModelProvider: settings.ProviderAnthropic,
		AnthropicKey:  "ak-test",
	})
	if err != nil {
		t.Fatalf("New (anthropic): %v", err)
	}
	if _, ok := g.(*anthropicGen); !ok {
		t.Errorf("expected anthropic generator, got %T", g)
	}
}
