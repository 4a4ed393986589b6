package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicModel = "claude-sonnet-4-5-20250929"

type anthropicGen struct {
	client anthropic.Client
	model  string
}

func newAnthropic(apiKey string) *anthropicGen {
	return &anthropicGen{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropicModel,
	}
}

func (a *anthropicGen) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
