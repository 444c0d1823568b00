package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestSummarizer_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns model text and embeds transcript verbatim", func(t *testing.T) {
		gen := &fakeGenerator{reply: "- budget"}
		got, err := NewSummarizer(gen).Summarize(ctx, "we talked about the budget")
		require.NoError(t, err)
		assert.Equal(t, "- budget", got)
		require.Len(t, gen.prompts, 1)
		assert.True(t, strings.HasPrefix(gen.prompts[0], "Summarize the following transcript into bullet points"))
		assert.True(t, strings.HasSuffix(gen.prompts[0], "we talked about the budget"))
	})

	t.Run("generator error", func(t *testing.T) {
		_, err := NewSummarizer(&fakeGenerator{err: errors.New("input too long")}).Summarize(ctx, "x")
		assert.ErrorIs(t, err, entities.ErrSummarizationFailed)
	})

	t.Run("blank candidate", func(t *testing.T) {
		_, err := NewSummarizer(&fakeGenerator{reply: "  \n"}).Summarize(ctx, "x")
		assert.ErrorIs(t, err, entities.ErrSummarizationFailed)
	})
}

func TestMeetingExtractor_DetectMeeting(t *testing.T) {
	ctx := context.Background()

	t.Run("parsed", func(t *testing.T) {
		gen := &fakeGenerator{reply: "```json\n{\"meetingsDiscussed\": true, \"dateTime\": \"next Tuesday at 3pm\"}\n```"}
		res := NewMeetingExtractor(gen, nil).DetectMeeting(ctx, "Let's meet next Tuesday at 3pm to discuss the budget.")

		parsed, ok := res.(entities.ParsedExtraction)
		require.True(t, ok)
		assert.True(t, parsed.Signal.Discussed)
		require.NotNil(t, parsed.Signal.DateTimeText)
		assert.Equal(t, "next Tuesday at 3pm", *parsed.Signal.DateTimeText)
		assert.Contains(t, gen.prompts[0], "Let's meet next Tuesday at 3pm to discuss the budget.")
	})

	t.Run("generator failure is unparsed, not an error", func(t *testing.T) {
		res := NewMeetingExtractor(&fakeGenerator{err: errors.New("timeout")}, nil).DetectMeeting(ctx, "x")

		unparsed, ok := res.(entities.UnparsedExtraction)
		require.True(t, ok)
		assert.ErrorIs(t, unparsed.Err, entities.ErrMeetingDetectionFailed)
		assert.False(t, entities.NormalizeExtraction(res).Discussed)
	})

	t.Run("malformed output is unparsed with raw text", func(t *testing.T) {
		res := NewMeetingExtractor(&fakeGenerator{reply: "I think so?"}, nil).DetectMeeting(ctx, "x")

		signal := entities.NormalizeExtraction(res)
		assert.False(t, signal.Discussed)
		assert.Equal(t, "I think so?", signal.RawResponse)
	})
}

func TestAssistant_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("answers", func(t *testing.T) {
		gen := &fakeGenerator{reply: "The budget."}
		got, err := NewAssistant(gen).Ask(ctx, "we discussed the budget", "What was discussed?")
		require.NoError(t, err)
		assert.Equal(t, "The budget.", got)
		assert.Contains(t, gen.prompts[0], `"What was discussed?"`)
		assert.Contains(t, gen.prompts[0], "we discussed the budget")
	})

	t.Run("requires question", func(t *testing.T) {
		gen := &fakeGenerator{reply: "x"}
		_, err := NewAssistant(gen).Ask(ctx, "transcript", " ")
		assert.ErrorIs(t, err, entities.ErrAnswerFailed)
		assert.Empty(t, gen.prompts)
	})

	t.Run("generator failure", func(t *testing.T) {
		_, err := NewAssistant(&fakeGenerator{err: errors.New("down")}).Ask(ctx, "t", "q")
		assert.ErrorIs(t, err, entities.ErrAnswerFailed)
	})
}
