package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/alnah/go-classic-translate/internal/apierr"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// anthropicMaxOutputTokens is required by the Messages API.
const anthropicMaxOutputTokens = 8192

// messageCreator is the subset of the Anthropic messages service we use.
// *anthropic.MessageService implements it.
type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

var _ Translator = (*AnthropicTranslator)(nil)

// AnthropicTranslator translates through the Anthropic Messages API.
type AnthropicTranslator struct {
	client messageCreator
	settings
}

// NewAnthropicClient builds a client for apiKey. SDK retries are disabled;
// retries are handled by the translator.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) anthropic.Client {
	base := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	return anthropic.NewClient(append(base, opts...)...)
}

// NewAnthropicTranslator creates a translator using client's message service.
func NewAnthropicTranslator(client anthropic.Client, opts ...Option) *AnthropicTranslator {
	return &AnthropicTranslator{
		client:   &client.Messages,
		settings: newSettings(DefaultAnthropicModel, opts),
	}
}

// Name returns "anthropic/<model>".
func (t *AnthropicTranslator) Name() string {
	return "anthropic/" + t.model
}

// Translate sends the segment as a single user message with the instruction
// as the system prompt. The API accepts temperature or top_p, not both:
// top_p replaces temperature only when it narrows sampling.
func (t *AnthropicTranslator) Translate(ctx context.Context, req Request) (string, error) {
	maxTokens := t.maxOutputTokens
	if maxTokens == 0 {
		maxTokens = anthropicMaxOutputTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: req.Instruction}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Text))},
	}
	if req.TopP > 0 && req.TopP < 1 {
		params.TopP = anthropic.Float(req.TopP)
	} else {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	return withRetry(ctx, t.settings, t.Name(), func() (string, error) {
		msg, err := t.client.New(ctx, params)
		if err != nil {
			return "", classifyAnthropicError(err)
		}
		if msg.StopReason == anthropic.StopReasonMaxTokens {
			t.log.Warn("translation truncated by output limit", "provider", t.Name())
		}
		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		out := strings.TrimSpace(b.String())
		if out == "" {
			return "", fmt.Errorf("no text content: %w", apierr.ErrEmptyResponse)
		}
		return out, nil
	})
}

// classifyAnthropicError maps SDK errors to apierr sentinels.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if classified := apierr.ClassifyStatus(apiErr.StatusCode, apiErr.Error()); classified != nil {
			return classified
		}
	}
	return apierr.ClassifyTransport(err)
}
