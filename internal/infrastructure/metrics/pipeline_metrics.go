// Package metrics provides Prometheus metrics for the transcription pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

var (
	// stageOutcomesTotal counts how each pipeline stage ended.
	// Labels:
	//   - stage: e.g. "transcribing", "summarizing"
	//   - outcome: "ok", "soft_fail", "fatal" or "skipped"
	stageOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capnotes_pipeline_stage_outcomes_total",
			Help: "Total number of pipeline stage executions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	// stageDuration records wall time per stage.
	// Buckets: 0.1s up to 60s, the upper end of a slow speech call.
	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capnotes_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	// runsTotal counts whole pipeline runs.
	// Labels:
	//   - result: "completed" or "failed"
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capnotes_pipeline_runs_total",
			Help: "Total number of pipeline runs by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(stageOutcomesTotal)
	prometheus.MustRegister(stageDuration)
	prometheus.MustRegister(runsTotal)
}

// RecordStageOutcome records how a stage ended
func RecordStageOutcome(stage, outcome string) {
	stageOutcomesTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordStageDuration records the duration of a stage in seconds
func RecordStageDuration(stage string, durationSeconds float64) {
	stageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordRun records the end of a pipeline run
func RecordRun(result string) {
	runsTotal.WithLabelValues(result).Inc()
}

// PipelineRecorder adapts the package metrics to the pipeline's recorder interface
type PipelineRecorder struct{}

// NewPipelineRecorder creates a recorder backed by the default registry
func NewPipelineRecorder() *PipelineRecorder {
	return &PipelineRecorder{}
}

func (PipelineRecorder) RecordStage(stage entities.PipelineStage, outcome entities.StageOutcome, elapsed time.Duration) {
	RecordStageOutcome(string(stage), string(outcome))
	if outcome != entities.StageOutcomeSkipped {
		RecordStageDuration(string(stage), elapsed.Seconds())
	}
}

func (PipelineRecorder) RecordRun(completed bool) {
	if completed {
		RecordRun("completed")
		return
	}
	RecordRun("failed")
}
