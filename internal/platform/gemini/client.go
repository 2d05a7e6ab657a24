package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/menulens/menulens-api/internal/config"
	"github.com/menulens/menulens-api/internal/platform/media"
)

// Client implements the extraction.Extractor, translation.Translator and
// synthesis.Synthesizer interfaces against the Gemini API. One Client is
// built at process startup and shared by all sessions.
type Client struct {
	client *genai.Client
	media  media.Store
	cfg    config.LLMConfig
	logger *slog.Logger
}

// NewClient creates a Gemini client from the LLM configuration. mediaStore
// receives synthesized image bytes and turns them into URL references.
func NewClient(ctx context.Context, cfg config.LLMConfig, mediaStore media.Store, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if mediaStore == nil {
		return nil, errors.New("media store cannot be nil")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		media:  mediaStore,
		cfg:    cfg,
		logger: logger.With("component", "gemini_client"),
	}, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no content generated")
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", errors.New("content blocked by safety filters")
	}
	if candidate.Content == nil {
		return "", errors.New("empty content in response")
	}
	var text string
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", errors.New("no text in response")
	}
	return text, nil
}
