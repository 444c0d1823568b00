package entities

import "errors"

// Domain errors
var (
	// Audio errors
	ErrAudioEmpty          = errors.New("audio is empty")
	ErrAudioTooLarge       = errors.New("audio exceeds size limit")
	ErrUnsupportedEncoding = errors.New("unsupported audio encoding")

	// Fatal pipeline errors
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrEmptyTranscript     = errors.New("no speech detected")

	// Soft pipeline errors
	ErrSummarizationFailed    = errors.New("summarization failed")
	ErrMeetingDetectionFailed = errors.New("meeting detection failed")
	ErrMeetingParseFailed     = errors.New("meeting signal could not be parsed")
	ErrSchedulingFailed       = errors.New("scheduling failed")

	// Q&A errors
	ErrAnswerFailed = errors.New("failed to answer question")
)
