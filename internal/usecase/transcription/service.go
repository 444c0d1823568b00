package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/internal/domain/gateways"
)

// Service converts uploaded audio into a transcript
type Service struct {
	recognizer gateways.SpeechRecognizer
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService creates a transcription service. A non-positive timeout leaves the
// caller's deadline in charge.
func NewService(recognizer gateways.SpeechRecognizer, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recognizer: recognizer,
		timeout:    timeout,
		logger:     logger,
	}
}

// Transcribe returns the recognized text, one segment per line. An empty
// transcript with a nil error means no speech was detected.
func (s *Service) Transcribe(ctx context.Context, audio entities.AudioInput) (string, error) {
	if audio.Size() == 0 {
		return "", fmt.Errorf("%w: %w", entities.ErrTranscriptionFailed, entities.ErrAudioEmpty)
	}

	encoding, err := audio.Encoding()
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrTranscriptionFailed, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	segments, err := s.recognizer.Recognize(ctx, audio.Data, encoding)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrTranscriptionFailed, err)
	}

	transcript := joinSegments(segments)
	s.logger.Debug("transcription.completed",
		zap.String("encoding", string(encoding)),
		zap.Int("audio_bytes", audio.Size()),
		zap.Int("segments", len(segments)),
		zap.Int("transcript_length", len(transcript)),
	)
	return transcript, nil
}

func joinSegments(segments []string) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		lines = append(lines, seg)
	}
	return strings.Join(lines, "\n")
}
