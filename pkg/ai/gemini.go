package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/johnquangdev/capnotes/pkg/config"
)

const defaultGeminiModel = "gemini-1.5-pro"

// GeminiClient generates text with the Gemini API
type GeminiClient struct {
	client        *genai.Client
	model         string
	maxRetries    uint64
	retryInterval time.Duration
}

// NewGeminiClient creates a Gemini client from config
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, maxRetries uint64) (*GeminiClient, error) {
	var apiKey, model, baseURL string
	if cfg != nil {
		apiKey = cfg.APIKey
		model = cfg.Model
		baseURL = cfg.BaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client:        client,
		model:         model,
		maxRetries:    maxRetries,
		retryInterval: defaultRetryInterval,
	}, nil
}

// Generate returns the text of the first candidate
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := retry(ctx, g.maxRetries, g.retryInterval, func() error {
		result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		t, err := firstCandidateText(result)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return sb.String(), nil
}
