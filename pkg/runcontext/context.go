package runcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyRunStartTime KeyContext = "run_start_time"
	keyStage        KeyContext = "stage"
)

// RunMetadata holds metadata for one pipeline run
type RunMetadata struct {
	RunID     uuid.UUID
	Stage     string
	StartTime time.Time
}

// RunBegin tags the context with a fresh run ID and start time
func RunBegin(parentCtx context.Context) context.Context {
	ctx := context.WithValue(parentCtx, keyRunID, uuid.New())
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())
	return ctx
}

// StageBegin derives a stage context bounded by timeout.
// A non-positive timeout leaves the parent deadline in place.
func StageBegin(parentCtx context.Context, stage string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithValue(parentCtx, keyStage, stage)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// StageRun executes fn, converting a panic into an error
func StageRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered in stage %s: %v", GetStage(ctx), p)
		}
	}()

	// Check if context was cancelled before execution
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before stage execution: %w", ctx.Err())
	}

	return fn(ctx)
}

// GetRunID extracts run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(keyRunID).(uuid.UUID)
	return runID, ok
}

// GetStage extracts the current stage name from context
func GetStage(ctx context.Context) string {
	stage, ok := ctx.Value(keyStage).(string)
	if !ok {
		return ""
	}
	return stage
}

// GetRunStartTime extracts run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// Elapsed returns the time since RunBegin, or zero if the context carries no run
func Elapsed(ctx context.Context) time.Duration {
	start, ok := GetRunStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		RunID:     runID,
		Stage:     GetStage(ctx),
		StartTime: startTime,
	}
}
