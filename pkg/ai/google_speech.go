package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

// GoogleSpeechClient recognizes speech with Google Cloud Speech-to-Text
type GoogleSpeechClient struct {
	svc          *speech.Service
	languageCode string
}

// NewGoogleSpeechClient builds a client on top of an already authenticated
// HTTP client. endpoint overrides the API base URL when non-empty.
func NewGoogleSpeechClient(ctx context.Context, httpClient *http.Client, endpoint, languageCode string) (*GoogleSpeechClient, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GoogleSpeechClient{svc: svc, languageCode: languageCode}, nil
}

// Recognize sends base64 audio in a single synchronous call and returns the
// top alternative of each result, in the order the service returned them
func (c *GoogleSpeechClient) Recognize(ctx context.Context, audio []byte, encoding entities.AudioEncoding) ([]string, error) {
	req := &speech.RecognizeRequest{
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
		Config: &speech.RecognitionConfig{
			Encoding:     string(encoding),
			LanguageCode: c.languageCode,
		},
	}

	resp, err := c.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	segments := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 || result.Alternatives[0] == nil {
			continue
		}
		segments = append(segments, result.Alternatives[0].Transcript)
	}
	return segments, nil
}
