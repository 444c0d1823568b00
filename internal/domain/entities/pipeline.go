package entities

// PipelineStage represents a step of the transcription pipeline
type PipelineStage string

const (
	PipelineStageReceived         PipelineStage = "received"
	PipelineStageTranscribing     PipelineStage = "transcribing"
	PipelineStageSummarizing      PipelineStage = "summarizing"
	PipelineStageDetectingMeeting PipelineStage = "detecting_meeting"
	PipelineStageResolvingDate    PipelineStage = "resolving_date"
	PipelineStageScheduling       PipelineStage = "scheduling"
	PipelineStageCompleted        PipelineStage = "completed"
)

// StageOutcome is how a single stage ended
type StageOutcome string

const (
	StageOutcomeOK       StageOutcome = "ok"
	StageOutcomeSoftFail StageOutcome = "soft_fail"
	StageOutcomeFatal    StageOutcome = "fatal"
	StageOutcomeSkipped  StageOutcome = "skipped"
)

// PipelineResult is returned to the caller once a transcript exists.
// Each nil or empty field means that stage produced nothing, not that the run failed.
type PipelineResult struct {
	Transcript    string         `json:"transcript"`
	Summary       string         `json:"summary"`
	MeetingSignal *MeetingSignal `json:"meetingInsights"`
	CalendarLink  *string        `json:"calendarLink"`
}
