package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/internal/usecase/schedule"
	"github.com/johnquangdev/capnotes/pkg/runcontext"
)

// Transcriber converts audio into a transcript
type Transcriber interface {
	Transcribe(ctx context.Context, audio entities.AudioInput) (string, error)
}

// Summarizer summarizes a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// MeetingDetector extracts a meeting signal from a transcript
type MeetingDetector interface {
	DetectMeeting(ctx context.Context, transcript string) entities.ExtractionResult
}

// DateResolver resolves date/time text relative to ref
type DateResolver interface {
	ResolveDateTime(text *string, ref time.Time) *time.Time
}

// EventScheduler creates calendar events
type EventScheduler interface {
	ScheduleEvent(ctx context.Context, start time.Time, description string, durationMinutes int) (entities.CalendarInvite, error)
}

// Recorder receives stage and run outcomes
type Recorder interface {
	RecordStage(stage entities.PipelineStage, outcome entities.StageOutcome, elapsed time.Duration)
	RecordRun(completed bool)
}

// Options tunes the orchestrator
type Options struct {
	StageTimeout     time.Duration
	ParallelAnalysis bool
	MeetingDuration  int
	// Clock supplies the reference time for relative dates. Defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator runs audio through transcription, analysis and scheduling.
// Only transcription can fail a run; every later stage degrades to an empty field.
type Orchestrator struct {
	transcriber Transcriber
	summarizer  Summarizer
	detector    MeetingDetector
	resolver    DateResolver
	scheduler   EventScheduler
	recorder    Recorder
	opts        Options
	logger      *zap.Logger
}

// NewOrchestrator wires the pipeline stages. scheduler may be nil, which
// disables calendar invites. recorder may be nil.
func NewOrchestrator(
	transcriber Transcriber,
	summarizer Summarizer,
	detector MeetingDetector,
	resolver DateResolver,
	scheduler EventScheduler,
	recorder Recorder,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MeetingDuration <= 0 {
		opts.MeetingDuration = schedule.DefaultDurationMinutes
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		transcriber: transcriber,
		summarizer:  summarizer,
		detector:    detector,
		resolver:    resolver,
		scheduler:   scheduler,
		recorder:    recorder,
		opts:        opts,
		logger:      logger,
	}
}

// run accumulates stage outputs for one invocation
type run struct {
	audio      entities.AudioInput
	stage      entities.PipelineStage
	transcript string
	summary    string
	signal     entities.MeetingSignal
	meeting    *entities.ResolvedMeeting
	link       *string
}

func (r *run) result() *entities.PipelineResult {
	signal := r.signal
	return &entities.PipelineResult{
		Transcript:    r.transcript,
		Summary:       r.summary,
		MeetingSignal: &signal,
		CalendarLink:  r.link,
	}
}

// Process runs the full pipeline. The returned error is always
// ErrTranscriptionFailed or ErrEmptyTranscript; any other failure is absorbed.
func (o *Orchestrator) Process(ctx context.Context, audio entities.AudioInput) (*entities.PipelineResult, error) {
	ctx = runcontext.RunBegin(ctx)
	r := &run{
		audio:  audio,
		stage:  entities.PipelineStageReceived,
		signal: entities.InertMeetingSignal(""),
	}

	if err := o.transcribe(ctx, r); err != nil {
		o.recorder.RecordRun(false)
		return nil, err
	}

	o.analyze(ctx, r)
	o.resolveDate(ctx, r)
	o.schedule(ctx, r)

	r.stage = entities.PipelineStageCompleted
	o.recorder.RecordRun(true)

	meta := runcontext.GetRunMetadata(ctx)
	o.logger.Info("pipeline.completed",
		zap.String("run_id", meta.RunID.String()),
		zap.Time("started_at", meta.StartTime),
		zap.Duration("elapsed", runcontext.Elapsed(ctx)),
		zap.Bool("meeting_discussed", r.signal.Discussed),
		zap.Bool("calendar_link", r.link != nil),
	)
	return r.result(), nil
}

func (o *Orchestrator) transcribe(ctx context.Context, r *run) error {
	r.stage = entities.PipelineStageTranscribing
	err := o.execute(ctx, r.stage, true, func(ctx context.Context) error {
		transcript, err := o.transcriber.Transcribe(ctx, r.audio)
		if err != nil {
			return err
		}
		if strings.TrimSpace(transcript) == "" {
			return entities.ErrEmptyTranscript
		}
		r.transcript = transcript
		return nil
	})
	if err == nil || errors.Is(err, entities.ErrEmptyTranscript) || errors.Is(err, entities.ErrTranscriptionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", entities.ErrTranscriptionFailed, err)
}

// analyze runs summarization and meeting detection. They share no state, so
// they may run concurrently.
func (o *Orchestrator) analyze(ctx context.Context, r *run) {
	if !o.opts.ParallelAnalysis {
		o.summarize(ctx, r)
		o.detectMeeting(ctx, r)
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		o.summarize(ctx, r)
		return nil
	})
	g.Go(func() error {
		o.detectMeeting(ctx, r)
		return nil
	})
	_ = g.Wait()
}

func (o *Orchestrator) summarize(ctx context.Context, r *run) {
	_ = o.execute(ctx, entities.PipelineStageSummarizing, false, func(ctx context.Context) error {
		summary, err := o.summarizer.Summarize(ctx, r.transcript)
		if err != nil {
			return err
		}
		r.summary = summary
		return nil
	})
}

func (o *Orchestrator) detectMeeting(ctx context.Context, r *run) {
	_ = o.execute(ctx, entities.PipelineStageDetectingMeeting, false, func(ctx context.Context) error {
		result := o.detector.DetectMeeting(ctx, r.transcript)
		r.signal = entities.NormalizeExtraction(result)
		if unparsed, ok := result.(entities.UnparsedExtraction); ok {
			if unparsed.Err != nil {
				return unparsed.Err
			}
			return entities.ErrMeetingParseFailed
		}
		return nil
	})
}

func (o *Orchestrator) resolveDate(ctx context.Context, r *run) {
	r.stage = entities.PipelineStageResolvingDate
	if !r.signal.Discussed {
		o.skip(ctx, r.stage, "no meeting discussed")
		return
	}
	if !r.signal.HasDateTime() {
		o.skip(ctx, r.stage, "no date/time mentioned")
		return
	}
	if o.resolver == nil {
		o.skip(ctx, r.stage, "no resolver configured")
		return
	}

	ref := o.opts.Clock()
	_ = o.execute(ctx, r.stage, false, func(context.Context) error {
		start := o.resolver.ResolveDateTime(r.signal.DateTimeText, ref)
		if start == nil {
			return fmt.Errorf("unresolvable date/time %q", *r.signal.DateTimeText)
		}
		r.meeting = &entities.ResolvedMeeting{
			StartInstant: *start,
			Description:  schedule.Describe(r.signal.Phrases),
		}
		return nil
	})
}

func (o *Orchestrator) schedule(ctx context.Context, r *run) {
	r.stage = entities.PipelineStageScheduling
	if r.meeting == nil {
		o.skip(ctx, r.stage, "no meeting time")
		return
	}
	if o.scheduler == nil {
		o.skip(ctx, r.stage, "no calendar configured")
		return
	}

	_ = o.execute(ctx, r.stage, false, func(ctx context.Context) error {
		invite, err := o.scheduler.ScheduleEvent(ctx, r.meeting.StartInstant, r.meeting.Description, o.opts.MeetingDuration)
		if err != nil {
			return err
		}
		link := invite.Link
		r.link = &link
		return nil
	})
}

// execute runs fn under a stage context, then records and logs its outcome
func (o *Orchestrator) execute(ctx context.Context, stage entities.PipelineStage, fatal bool, fn func(context.Context) error) error {
	stageCtx, cancel := runcontext.StageBegin(ctx, string(stage), o.opts.StageTimeout)
	defer cancel()

	started := time.Now()
	err := runcontext.StageRun(stageCtx, fn)
	elapsed := time.Since(started)

	if err == nil {
		o.recorder.RecordStage(stage, entities.StageOutcomeOK, elapsed)
		return nil
	}

	meta := runcontext.GetRunMetadata(stageCtx)
	fields := []zap.Field{
		zap.String("stage", meta.Stage),
		zap.String("run_id", meta.RunID.String()),
		zap.Duration("elapsed", elapsed),
		zap.Duration("run_elapsed", time.Since(meta.StartTime)),
		zap.Error(err),
	}

	if fatal {
		o.recorder.RecordStage(stage, entities.StageOutcomeFatal, elapsed)
		o.logger.Error("pipeline.stage.fatal", fields...)
		return err
	}

	o.recorder.RecordStage(stage, entities.StageOutcomeSoftFail, elapsed)
	o.logger.Warn("pipeline.stage.soft_fail", fields...)
	return err
}

func (o *Orchestrator) skip(ctx context.Context, stage entities.PipelineStage, reason string) {
	o.recorder.RecordStage(stage, entities.StageOutcomeSkipped, 0)

	runID, _ := runcontext.GetRunID(ctx)
	o.logger.Debug("pipeline.stage.skipped",
		zap.String("stage", string(stage)),
		zap.String("run_id", runID.String()),
		zap.String("reason", reason),
	)
}

type nopRecorder struct{}

func (nopRecorder) RecordStage(entities.PipelineStage, entities.StageOutcome, time.Duration) {}
func (nopRecorder) RecordRun(bool) {}
