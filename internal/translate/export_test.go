package translate

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/alnah/go-classic-translate/internal/apierr"
)

// ChatCompleterFunc adapts a function to the chatCompleter interface.
type ChatCompleterFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f ChatCompleterFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

// MessageCreatorFunc adapts a function to the messageCreator interface.
type MessageCreatorFunc func(ctx context.Context, body anthropic.MessageNewParams) (*anthropic.Message, error)

func (f MessageCreatorFunc) New(ctx context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	return f(ctx, body)
}

// ContentGeneratorFunc adapts a function to the contentGenerator interface.
type ContentGeneratorFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f ContentGeneratorFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, cfg)
}

// NewOpenAITranslatorWith creates an OpenAITranslator around a mock client.
func NewOpenAITranslatorWith(cc ChatCompleterFunc, provider, model string, opts ...Option) *OpenAITranslator {
	return newChatTranslator(cc, provider, model, opts)
}

// NewAnthropicTranslatorWith creates an AnthropicTranslator around a mock client.
func NewAnthropicTranslatorWith(mc MessageCreatorFunc, opts ...Option) *AnthropicTranslator {
	return &AnthropicTranslator{client: mc, settings: newSettings(DefaultAnthropicModel, opts)}
}

// NewGeminiTranslatorWith creates a GeminiTranslator around a mock client.
func NewGeminiTranslatorWith(cg ContentGeneratorFunc, opts ...Option) *GeminiTranslator {
	return &GeminiTranslator{client: cg, settings: newSettings(DefaultGeminiModel, opts)}
}

// RetryPolicy returns the retry configuration opts produce.
func RetryPolicy(opts ...Option) apierr.RetryConfig {
	return newSettings("", opts).retry
}

// Function exports for unit testing internal logic.
var (
	ClassifyOpenAIError = classifyOpenAIError
	OpenAITemperature   = openAITemperature
	Head                = head
)
