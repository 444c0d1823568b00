package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1002
	ErrorCode_NOT_FOUND        ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2001
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2002

	// Audio upload
	ErrorCode_AUDIO_MISSING              ErrorCode = 3001
	ErrorCode_AUDIO_TOO_LARGE            ErrorCode = 3002
	ErrorCode_AUDIO_UNSUPPORTED_ENCODING ErrorCode = 3003

	// AI pipeline
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4001
	ErrorCode_AI_NO_SPEECH_DETECTED   ErrorCode = 4002
	ErrorCode_AI_ANSWER_FAILED        ErrorCode = 4003
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 4004
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUDIO_MISSING:              "AUDIO_MISSING",
	ErrorCode_AUDIO_TOO_LARGE:            "AUDIO_TOO_LARGE",
	ErrorCode_AUDIO_UNSUPPORTED_ENCODING: "AUDIO_UNSUPPORTED_ENCODING",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_NO_SPEECH_DETECTED:      "AI_NO_SPEECH_DETECTED",
	ErrorCode_AI_ANSWER_FAILED:           "AI_ANSWER_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
