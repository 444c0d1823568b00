package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/pkg/config"
)

// AssemblyAIClient recognizes speech with the official AssemblyAI SDK
type AssemblyAIClient struct {
	client       *aai.Client
	languageCode string
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg carries no key, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, languageCode string) *AssemblyAIClient {
	var apiKey, baseURL string
	if cfg != nil {
		apiKey = cfg.APIKey
		baseURL = cfg.BaseURL
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}

	opts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aai.WithBaseURL(baseURL))
	}

	return &AssemblyAIClient{
		client:       aai.NewClientWithOptions(opts...),
		languageCode: toAssemblyLanguage(languageCode),
	}
}

// Recognize uploads the audio, waits for the transcript and returns its
// utterances as segments. Without utterances, the full text is one segment.
// AssemblyAI detects the container itself, so encoding is informational only.
func (c *AssemblyAIClient) Recognize(ctx context.Context, audio []byte, _ entities.AudioEncoding) ([]string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(c.languageCode),
	}

	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcribe: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcript failed: %s", msg)
	}

	segments := make([]string, 0, len(transcript.Utterances))
	for _, utt := range transcript.Utterances {
		if utt.Text != nil {
			segments = append(segments, *utt.Text)
		}
	}
	if len(segments) == 0 && transcript.Text != nil && strings.TrimSpace(*transcript.Text) != "" {
		segments = append(segments, *transcript.Text)
	}
	return segments, nil
}

// toAssemblyLanguage converts BCP-47 tags such as en-US into en_us
func toAssemblyLanguage(code string) string {
	if code == "" {
		return "en_us"
	}
	return strings.ToLower(strings.ReplaceAll(code, "-", "_"))
}
