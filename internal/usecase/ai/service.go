package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/internal/domain/gateways"
)

// Summarizer produces bullet-point summaries of transcripts
type Summarizer struct {
	generator gateways.TextGenerator
}

// NewSummarizer creates a summarizer backed by generator
func NewSummarizer(generator gateways.TextGenerator) *Summarizer {
	return &Summarizer{generator: generator}
}

// Summarize returns the first candidate for the summary prompt. No truncation
// is applied; an over-long transcript fails like any other call.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	out, err := s.generator.Generate(ctx, BuildSummaryPrompt(transcript))
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrSummarizationFailed, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: no candidates", entities.ErrSummarizationFailed)
	}
	return out, nil
}

// MeetingExtractor asks the model whether a transcript references a future meeting
type MeetingExtractor struct {
	generator gateways.TextGenerator
	parser    *Parser
	logger    *zap.Logger
}

// NewMeetingExtractor creates an extractor backed by generator
func NewMeetingExtractor(generator gateways.TextGenerator, logger *zap.Logger) *MeetingExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingExtractor{
		generator: generator,
		parser:    NewParser(),
		logger:    logger,
	}
}

// DetectMeeting never returns an error. Failures come back as UnparsedExtraction.
func (e *MeetingExtractor) DetectMeeting(ctx context.Context, transcript string) entities.ExtractionResult {
	raw, err := e.generator.Generate(ctx, BuildMeetingPrompt(transcript))
	if err != nil {
		return entities.UnparsedExtraction{
			Err: fmt.Errorf("%w: %w", entities.ErrMeetingDetectionFailed, err),
		}
	}

	result := e.parser.ParseMeetingSignal(raw)
	if unparsed, ok := result.(entities.UnparsedExtraction); ok {
		e.logger.Debug("ai.meeting.unparsed",
			zap.Int("raw_length", len(unparsed.Raw)),
			zap.Error(unparsed.Err),
		)
	}
	return result
}

// Assistant answers free-form questions about a transcript
type Assistant struct {
	generator gateways.TextGenerator
}

// NewAssistant creates a Q&A assistant backed by generator
func NewAssistant(generator gateways.TextGenerator) *Assistant {
	return &Assistant{generator: generator}
}

// Ask answers question using only the supplied transcript
func (a *Assistant) Ask(ctx context.Context, transcript, question string) (string, error) {
	if strings.TrimSpace(transcript) == "" || strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: transcript and question are required", entities.ErrAnswerFailed)
	}

	out, err := a.generator.Generate(ctx, BuildQuestionPrompt(transcript, question))
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrAnswerFailed, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: no candidates", entities.ErrAnswerFailed)
	}
	return out, nil
}
