package translate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-classic-translate/internal/apierr"
)

// OpenAI-compatible endpoints.
const (
	DefaultOpenAIModel   = "gpt-4"
	DefaultDeepSeekModel = "deepseek-chat"
	DeepSeekBaseURL      = "https://api.deepseek.com/v1"
)

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Translator = (*OpenAITranslator)(nil)

// OpenAITranslator translates through an OpenAI-compatible chat completion
// API. DeepSeek is served by the same type with a different base URL.
type OpenAITranslator struct {
	client   chatCompleter
	provider string
	settings
}

// NewOpenAITranslator creates a translator for the OpenAI API.
func NewOpenAITranslator(client *openai.Client, opts ...Option) *OpenAITranslator {
	return newChatTranslator(client, "openai", DefaultOpenAIModel, opts)
}

// NewDeepSeekTranslator creates a translator for the DeepSeek API.
// The client must target DeepSeekBaseURL, see NewOpenAIClient.
func NewDeepSeekTranslator(client *openai.Client, opts ...Option) *OpenAITranslator {
	return newChatTranslator(client, "deepseek", DefaultDeepSeekModel, opts)
}

// NewOpenAIClient builds a go-openai client for apiKey.
// An empty baseURL targets OpenAI.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func newChatTranslator(cc chatCompleter, provider, model string, opts []Option) *OpenAITranslator {
	return &OpenAITranslator{
		client:   cc,
		provider: provider,
		settings: newSettings(model, opts),
	}
}

// Name returns "<provider>/<model>".
func (t *OpenAITranslator) Name() string {
	return t.provider + "/" + t.model
}

// Translate sends the instruction as the system message and the segment as
// the user message. Transient failures are retried with backoff.
func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instruction},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: openAITemperature(req.Temperature),
		TopP:        float32(req.TopP),
		MaxTokens:   t.maxOutputTokens,
	}

	return withRetry(ctx, t.settings, t.Name(), func() (string, error) {
		resp, err := t.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices: %w", apierr.ErrEmptyResponse)
		}
		choice := resp.Choices[0]
		if choice.FinishReason == openai.FinishReasonLength {
			t.log.Warn("translation truncated by output limit", "provider", t.Name())
		}
		out := strings.TrimSpace(choice.Message.Content)
		if out == "" {
			return "", apierr.ErrEmptyResponse
		}
		return out, nil
	})
}

// openAITemperature maps a zero temperature to the smallest positive value.
// The request field is omitted when zero, which would select the API
// default of 1.
func openAITemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// classifyOpenAIError maps go-openai errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if classified := apierr.ClassifyStatus(apiErr.HTTPStatusCode, apiErr.Message); classified != nil {
			return classified
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := strings.TrimSpace(string(reqErr.Body))
		if msg == "" {
			msg = reqErr.Error()
		}
		if classified := apierr.ClassifyStatus(reqErr.HTTPStatusCode, msg); classified != nil {
			return classified
		}
	}
	return apierr.ClassifyTransport(err)
}
