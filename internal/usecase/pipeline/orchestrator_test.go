package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/internal/domain/gateways"
	"github.com/johnquangdev/capnotes/internal/usecase/ai"
	"github.com/johnquangdev/capnotes/internal/usecase/schedule"
	"github.com/johnquangdev/capnotes/internal/usecase/transcription"
)

type fakeRecognizer struct {
	segments []string
	err      error
}

func (f *fakeRecognizer) Recognize(context.Context, []byte, entities.AudioEncoding) ([]string, error) {
	return f.segments, f.err
}

// fakeGenerator answers summary and meeting prompts separately
type fakeGenerator struct {
	mu           sync.Mutex
	summary      string
	summaryErr   error
	meeting      string
	meetingErr   error
	summaryCalls int
	meetingCalls int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.HasPrefix(prompt, "Summarize") {
		f.summaryCalls++
		return f.summary, f.summaryErr
	}
	f.meetingCalls++
	return f.meeting, f.meetingErr
}

type fakeCalendar struct {
	link   string
	err    error
	events []gateways.EventDescriptor
}

func (f *fakeCalendar) InsertEvent(_ context.Context, event gateways.EventDescriptor) (string, error) {
	f.events = append(f.events, event)
	return f.link, f.err
}

type stageKey struct {
	stage   entities.PipelineStage
	outcome entities.StageOutcome
}

type fakeRecorder struct {
	mu     sync.Mutex
	stages map[stageKey]int
	runs   map[bool]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{stages: map[stageKey]int{}, runs: map[bool]int{}}
}

func (f *fakeRecorder) RecordStage(stage entities.PipelineStage, outcome entities.StageOutcome, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages[stageKey{stage, outcome}]++
}

func (f *fakeRecorder) RecordRun(completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[completed]++
}

type harness struct {
	recognizer *fakeRecognizer
	generator  *fakeGenerator
	calendar   *fakeCalendar
	recorder   *fakeRecorder
	loc        *time.Location
	now        time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return &harness{
		recognizer: &fakeRecognizer{},
		generator:  &fakeGenerator{summary: "- budget discussion"},
		calendar:   &fakeCalendar{link: "https://calendar.google.com/event?eid=abc"},
		recorder:   newFakeRecorder(),
		loc:        loc,
		// Wednesday
		now: time.Date(2025, 3, 5, 10, 0, 0, 0, loc),
	}
}

func (h *harness) orchestrator(parallel bool) *Orchestrator {
	return NewOrchestrator(
		transcription.NewService(h.recognizer, 0, nil),
		ai.NewSummarizer(h.generator),
		ai.NewMeetingExtractor(h.generator, nil),
		schedule.NewResolver(h.loc),
		schedule.NewScheduler(h.calendar, nil, h.loc, 0, nil),
		h.recorder,
		Options{
			StageTimeout:     time.Second,
			ParallelAnalysis: parallel,
			Clock:            func() time.Time { return h.now },
		},
		nil,
	)
}

func audio() entities.AudioInput {
	return entities.AudioInput{Data: []byte("fake-audio"), MIMEType: "audio/mpeg", Filename: "clip.mp3"}
}

func TestProcess_MeetingScheduled(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		h := newHarness(t)
		h.recognizer.segments = []string{"Let's meet next Tuesday at 3pm to discuss the budget."}
		h.generator.meeting = `{"meetingsDiscussed": true, "phrases": ["Let's meet next Tuesday at 3pm"], "participants": [], "dateTime": "next Tuesday at 3pm"}`

		res, err := h.orchestrator(parallel).Process(context.Background(), audio())
		require.NoError(t, err)

		assert.Equal(t, "Let's meet next Tuesday at 3pm to discuss the budget.", res.Transcript)
		assert.Equal(t, "- budget discussion", res.Summary)
		require.NotNil(t, res.MeetingSignal)
		assert.True(t, res.MeetingSignal.Discussed)
		require.NotNil(t, res.CalendarLink)
		assert.Equal(t, "https://calendar.google.com/event?eid=abc", *res.CalendarLink)

		require.Len(t, h.calendar.events, 1)
		ev := h.calendar.events[0]
		start := ev.Start.In(h.loc)
		assert.True(t, start.Equal(time.Date(2025, 3, 11, 15, 0, 0, 0, h.loc)), "start = %s", start)
		assert.Equal(t, time.Tuesday, start.Weekday())
		assert.Equal(t, 15, start.Hour())
		assert.True(t, start.After(h.now))
		assert.Equal(t, "Let's meet next Tuesday at 3pm", ev.Description)
		assert.Equal(t, 30*time.Minute, ev.End.Sub(ev.Start))

		assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageScheduling, entities.StageOutcomeOK}])
		assert.Equal(t, 1, h.recorder.runs[true])
	}
}

func TestProcess_NoMeeting(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"The quarterly numbers look good."}
	h.generator.meeting = `{"meetingsDiscussed": false, "phrases": [], "participants": [], "dateTime": null}`

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	require.NoError(t, err)

	assert.Equal(t, "The quarterly numbers look good.", res.Transcript)
	assert.Equal(t, "- budget discussion", res.Summary)
	require.NotNil(t, res.MeetingSignal)
	assert.False(t, res.MeetingSignal.Discussed)
	assert.Nil(t, res.CalendarLink)
	assert.Empty(t, h.calendar.events)

	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageResolvingDate, entities.StageOutcomeSkipped}])
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageScheduling, entities.StageOutcomeSkipped}])
}

func TestProcess_SilenceIsFatal(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = nil

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, entities.ErrEmptyTranscript)

	assert.Zero(t, h.generator.summaryCalls)
	assert.Zero(t, h.generator.meetingCalls)
	assert.Empty(t, h.calendar.events)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageTranscribing, entities.StageOutcomeFatal}])
	assert.Equal(t, 1, h.recorder.runs[false])
}

func TestProcess_TranscriptionFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.recognizer.err = errors.New("speech service unavailable")

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)
	assert.Zero(t, h.generator.summaryCalls)
	assert.Zero(t, h.generator.meetingCalls)
}

func TestProcess_FencedMeetingJSON(t *testing.T) {
	for _, discussed := range []bool{true, false} {
		h := newHarness(t)
		h.recognizer.segments = []string{"Some talk."}
		if discussed {
			h.generator.meeting = "```json\n{\"meetingsDiscussed\": true, \"dateTime\": null}\n```"
		} else {
			h.generator.meeting = "```json\n{\"meetingsDiscussed\": false, \"dateTime\": null}\n```"
		}

		res, err := h.orchestrator(true).Process(context.Background(), audio())
		require.NoError(t, err)
		require.NotNil(t, res.MeetingSignal)
		assert.Equal(t, discussed, res.MeetingSignal.Discussed)
		assert.Empty(t, res.MeetingSignal.RawResponse)
		assert.Nil(t, res.CalendarLink)
		assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageResolvingDate, entities.StageOutcomeSkipped}])
	}
}

func TestProcess_SchedulingFailureIsSoft(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"Let's meet next Tuesday at 3pm to discuss the budget."}
	h.generator.meeting = `{"meetingsDiscussed": true, "dateTime": "next Tuesday at 3pm"}`
	h.calendar.err = errors.New("dial tcp: i/o timeout")

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Transcript)
	assert.Equal(t, "- budget discussion", res.Summary)
	require.NotNil(t, res.MeetingSignal)
	assert.True(t, res.MeetingSignal.Discussed)
	assert.Nil(t, res.CalendarLink)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageScheduling, entities.StageOutcomeSoftFail}])
	assert.Equal(t, 1, h.recorder.runs[true])
}

func TestProcess_AnalysisFailuresAreSoft(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"Let's meet next Tuesday at 3pm."}
	h.generator.summaryErr = errors.New("quota exceeded")
	h.generator.meeting = "Sure! They want to meet on Tuesday."

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	require.NoError(t, err)

	assert.Equal(t, "Let's meet next Tuesday at 3pm.", res.Transcript)
	assert.Empty(t, res.Summary)
	require.NotNil(t, res.MeetingSignal)
	assert.False(t, res.MeetingSignal.Discussed)
	assert.Nil(t, res.MeetingSignal.DateTimeText)
	assert.Equal(t, "Sure! They want to meet on Tuesday.", res.MeetingSignal.RawResponse)
	assert.Nil(t, res.CalendarLink)

	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageSummarizing, entities.StageOutcomeSoftFail}])
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageDetectingMeeting, entities.StageOutcomeSoftFail}])
}

func TestProcess_UnresolvableDate(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"We should meet sometime."}
	h.generator.meeting = `{"meetingsDiscussed": true, "dateTime": "no idea"}`

	res, err := h.orchestrator(false).Process(context.Background(), audio())
	require.NoError(t, err)
	assert.True(t, res.MeetingSignal.Discussed)
	assert.Nil(t, res.CalendarLink)
	assert.Empty(t, h.calendar.events)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageResolvingDate, entities.StageOutcomeSoftFail}])
}

func TestProcess_WeekdayPrefixedDateKeepsStatedHour(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"Let's meet Tuesday, March 11 at 3 PM."}
	h.generator.meeting = `{"meetingsDiscussed": true, "phrases": ["Let's meet Tuesday"], "dateTime": "Tuesday, March 11, 2025 at 3:00 PM"}`

	res, err := h.orchestrator(true).Process(context.Background(), audio())
	require.NoError(t, err)
	require.NotNil(t, res.CalendarLink)

	require.Len(t, h.calendar.events, 1)
	start := h.calendar.events[0].Start
	assert.True(t, start.Equal(time.Date(2025, 3, 11, 15, 0, 0, 0, h.loc)), "start = %s", start)
}

func TestProcess_NoCalendarConfigured(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"Let's meet next Tuesday at 3pm."}
	h.generator.meeting = `{"meetingsDiscussed": true, "dateTime": "next Tuesday at 3pm"}`

	o := NewOrchestrator(
		transcription.NewService(h.recognizer, 0, nil),
		ai.NewSummarizer(h.generator),
		ai.NewMeetingExtractor(h.generator, nil),
		schedule.NewResolver(h.loc),
		nil,
		h.recorder,
		Options{Clock: func() time.Time { return h.now }},
		nil,
	)

	res, err := o.Process(context.Background(), audio())
	require.NoError(t, err)
	assert.Nil(t, res.CalendarLink)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageScheduling, entities.StageOutcomeSkipped}])
}

type panickingSummarizer struct{}

func (panickingSummarizer) Summarize(context.Context, string) (string, error) {
	panic("boom")
}

func TestProcess_StagePanicIsSoft(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"hello"}
	h.generator.meeting = `{"meetingsDiscussed": false}`

	o := NewOrchestrator(
		transcription.NewService(h.recognizer, 0, nil),
		panickingSummarizer{},
		ai.NewMeetingExtractor(h.generator, nil),
		schedule.NewResolver(h.loc),
		nil,
		h.recorder,
		Options{ParallelAnalysis: true},
		nil,
	)

	res, err := o.Process(context.Background(), audio())
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Transcript)
	assert.Empty(t, res.Summary)
}

// stallingGenerator blocks summary prompts until the stage deadline and
// passes every other prompt through
type stallingGenerator struct {
	next *fakeGenerator
}

func (g stallingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.HasPrefix(prompt, "Summarize") {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.next.Generate(ctx, prompt)
}

type stallingRecognizer struct{}

func (stallingRecognizer) Recognize(ctx context.Context, _ []byte, _ entities.AudioEncoding) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProcess_StageTimeoutIsSoft(t *testing.T) {
	h := newHarness(t)
	h.recognizer.segments = []string{"Let's meet next Tuesday at 3pm."}
	h.generator.meeting = `{"meetingsDiscussed": true, "phrases": ["Let's meet next Tuesday at 3pm"], "dateTime": "next Tuesday at 3pm"}`
	gen := stallingGenerator{next: h.generator}

	o := NewOrchestrator(
		transcription.NewService(h.recognizer, 0, nil),
		ai.NewSummarizer(gen),
		ai.NewMeetingExtractor(gen, nil),
		schedule.NewResolver(h.loc),
		schedule.NewScheduler(h.calendar, nil, h.loc, 0, nil),
		h.recorder,
		Options{
			StageTimeout:     50 * time.Millisecond,
			ParallelAnalysis: true,
			Clock:            func() time.Time { return h.now },
		},
		nil,
	)

	started := time.Now()
	res, err := o.Process(context.Background(), audio())
	require.NoError(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)

	assert.Equal(t, "Let's meet next Tuesday at 3pm.", res.Transcript)
	assert.Empty(t, res.Summary)
	require.NotNil(t, res.CalendarLink)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageSummarizing, entities.StageOutcomeSoftFail}])
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageScheduling, entities.StageOutcomeOK}])
	assert.Equal(t, 1, h.recorder.runs[true])
}

func TestProcess_TranscriptionTimeoutIsFatal(t *testing.T) {
	h := newHarness(t)

	o := NewOrchestrator(
		transcription.NewService(stallingRecognizer{}, 0, nil),
		ai.NewSummarizer(h.generator),
		ai.NewMeetingExtractor(h.generator, nil),
		schedule.NewResolver(h.loc),
		nil,
		h.recorder,
		Options{StageTimeout: 50 * time.Millisecond},
		nil,
	)

	res, err := o.Process(context.Background(), audio())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)
	assert.Equal(t, 1, h.recorder.stages[stageKey{entities.PipelineStageTranscribing, entities.StageOutcomeFatal}])
	assert.Equal(t, 1, h.recorder.runs[false])
	assert.Zero(t, h.generator.summaryCalls)
}
