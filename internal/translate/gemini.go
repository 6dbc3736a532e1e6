package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/alnah/go-classic-translate/internal/apierr"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of the genai models service we use.
// *genai.Models implements it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Translator = (*GeminiTranslator)(nil)

// GeminiTranslator translates through the Gemini API.
type GeminiTranslator struct {
	client contentGenerator
	settings
}

// NewGeminiClient builds a Gemini API client for apiKey.
// An empty baseURL targets the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// NewGeminiTranslator creates a translator using client's models service.
func NewGeminiTranslator(client *genai.Client, opts ...Option) *GeminiTranslator {
	return &GeminiTranslator{
		client:   client.Models,
		settings: newSettings(DefaultGeminiModel, opts),
	}
}

// Name returns "gemini/<model>".
func (t *GeminiTranslator) Name() string {
	return "gemini/" + t.model
}

// Translate sends the segment as user content with the instruction as the
// system instruction.
func (t *GeminiTranslator) Translate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Instruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		TopP:              genai.Ptr(float32(req.TopP)),
		MaxOutputTokens:   int32(t.maxOutputTokens), // #nosec G115 -- bounded by flag validation
	}

	return withRetry(ctx, t.settings, t.Name(), func() (string, error) {
		resp, err := t.client.GenerateContent(ctx, t.model, genai.Text(req.Text), cfg)
		if err != nil {
			return "", classifyGeminiError(err)
		}
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked (%s) %s: %w", fb.BlockReason, fb.BlockReasonMessage, apierr.ErrBadRequest)
		}
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
			t.log.Warn("translation truncated by output limit", "provider", t.Name())
		}
		out := strings.TrimSpace(resp.Text())
		if out == "" {
			return "", apierr.ErrEmptyResponse
		}
		return out, nil
	})
}

// classifyGeminiError maps genai errors to apierr sentinels.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if classified := apierr.ClassifyStatus(apiErr.Code, apiErr.Message); classified != nil {
			return classified
		}
	}
	return apierr.ClassifyTransport(err)
}
