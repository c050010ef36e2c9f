// Package advisor turns coaching output into a short narrative for the
// client-facing report. Narration is cosmetic: the numeric advice is
// computed upstream and is never changed here.
package advisor

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/investor-cli/internal/model"
)

// Client is the message-creation surface the advisor needs.
type Client interface {
	CreateMessage(ctx context.Context, model string, maxTokens int64, system, prompt string) (string, error)
}

// Advisor narrates coaching advice. With no client configured it falls
// back to the deterministic message already present in the advice.
type Advisor struct {
	client Client
	model  string
}

// New creates an Advisor. An empty API key disables narration.
func New(apiKey, model string) *Advisor {
	a := &Advisor{model: model}
	if apiKey != "" {
		a.client = &sdkClient{client: sdk.NewClient(option.WithAPIKey(apiKey))}
	}
	return a
}

// NewWithClient creates an Advisor over an explicit client, for tests.
func NewWithClient(c Client, model string) *Advisor {
	return &Advisor{client: c, model: model}
}

const systemPrompt = "You are a DSCR loan assistant. In two or three plain sentences, explain the qualification picture and the suggested down-payment change to a real-estate investor. No greetings, no disclaimers, no numbers beyond those provided."

// Narrate returns a client-facing explanation of the advice. Failures and
// the disabled state both degrade to the advice's own message.
func (a *Advisor) Narrate(ctx context.Context, in model.ScenarioInput, res model.ScenarioResult, advice *model.CoachingAdvice) string {
	if advice == nil {
		return ""
	}
	if a == nil || a.client == nil {
		return advice.Message
	}

	prompt := fmt.Sprintf(
		"Purchase price $%.0f, down payment %.1f%%, monthly rent $%.0f, PITIA $%.2f, DSCR %.2f.\nAdvice: %s",
		in.PurchasePrice, in.DownPaymentPercent, res.EffectiveRent, res.PITIA, res.DSCR, advice.Message,
	)

	text, err := a.client.CreateMessage(ctx, a.model, 300, systemPrompt, prompt)
	if err != nil {
		zap.L().Warn("advisor narration failed, using fallback", zap.Error(err))
		return advice.Message
	}
	if text == "" {
		return advice.Message
	}
	return text
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
}

func (c *sdkClient) CreateMessage(ctx context.Context, modelID string, maxTokens int64, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(modelID),
		MaxTokens: maxTokens,
		System:    []sdk.TextBlockParam{{Text: system}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", eris.Wrap(err, "advisor: create message")
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}
