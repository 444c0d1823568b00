package handler

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/capnotes/errors"
	"github.com/johnquangdev/capnotes/internal/adapter/dto"
	"github.com/johnquangdev/capnotes/internal/domain/entities"
	pkgvalidator "github.com/johnquangdev/capnotes/pkg/validator"
)

// Processor runs the transcription pipeline
type Processor interface {
	Process(ctx context.Context, audio entities.AudioInput) (*entities.PipelineResult, error)
}

// Answerer answers questions about a transcript
type Answerer interface {
	Ask(ctx context.Context, transcript, question string) (string, error)
}

// Transcribe serves the audio upload and transcript Q&A endpoints
type Transcribe struct {
	pipeline  Processor
	assistant Answerer
	maxBytes  int64
	logger    *zap.Logger
}

// NewTranscribeHandler creates the transcription handler
func NewTranscribeHandler(pipeline Processor, assistant Answerer, maxBytes int64, logger *zap.Logger) *Transcribe {
	if maxBytes <= 0 {
		maxBytes = entities.DefaultMaxAudioBytes
	}
	return &Transcribe{
		pipeline:  pipeline,
		assistant: assistant,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Audio transcribes an uploaded recording and schedules any follow-up meeting
// @Summary      Transcribe audio
// @Description  Transcribes an audio file, summarizes it, detects follow-up meetings and creates a calendar invite when a date is found
// @Tags         Transcribe
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio  formData  file                      true  "Audio file (max 10 MB)"
// @Success      200    {object}  dto.TranscribeResponse
// @Failure      400    {object}  common.ErrorResponse  "No file, file too large, or no speech detected"
// @Failure      401    {object}  common.ErrorResponse  "User not authenticated"
// @Failure      415    {object}  common.ErrorResponse  "Unsupported audio encoding"
// @Failure      500    {object}  common.ErrorResponse  "Error processing audio file"
// @Router       /transcribe/audio [post]
func (h *Transcribe) Audio(c echo.Context) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		var httpErr *echo.HTTPError
		if stdErrors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
			return HandleError(h.logger, c, errors.ErrAudioTooLarge(h.maxBytes))
		}
		return HandleError(h.logger, c, errors.ErrAudioMissing())
	}
	if fileHeader.Size > h.maxBytes {
		return HandleError(h.logger, c, errors.ErrAudioTooLarge(h.maxBytes))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(fmt.Errorf("open upload: %w", err)))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(fmt.Errorf("read upload: %w", err)))
	}

	audio, err := entities.NewAudioInput(data, fileHeader.Header.Get(echo.HeaderContentType), fileHeader.Filename, h.maxBytes)
	if err != nil {
		switch {
		case stdErrors.Is(err, entities.ErrAudioTooLarge):
			return HandleError(h.logger, c, errors.ErrAudioTooLarge(h.maxBytes))
		default:
			return HandleError(h.logger, c, errors.ErrAudioMissing())
		}
	}

	if _, err := audio.Encoding(); err != nil {
		return HandleError(h.logger, c, errors.ErrAudioUnsupportedEncoding(audio.EffectiveMIMEType()))
	}

	result, err := h.pipeline.Process(c.Request().Context(), audio)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, dto.NewTranscribeResponse(result))
}

// Ask answers a question about a transcript
// @Summary      Ask about a transcript
// @Description  Answers a free-form question using only the supplied transcript
// @Tags         Transcribe
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.AskRequest  true  "Transcript and question"
// @Success      200      {object}  dto.AskResponse
// @Failure      400      {object}  common.ErrorResponse  "Invalid payload"
// @Failure      401      {object}  common.ErrorResponse  "User not authenticated"
// @Failure      502      {object}  common.ErrorResponse  "Failed to answer question"
// @Router       /transcribe/ask [post]
func (h *Transcribe) Ask(c echo.Context) error {
	var req dto.AskRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		msg := "transcript and question are required"
		if fields := pkgvalidator.Fields(err); len(fields) > 0 {
			msg = "invalid fields: " + strings.Join(fields, ", ")
		}
		return HandleError(h.logger, c, errors.ErrInvalidArgument(msg))
	}
	if h.assistant == nil {
		return HandleError(h.logger, c, errors.ErrAIServiceUnavailable("assistant"))
	}

	answer, err := h.assistant.Ask(c.Request().Context(), req.Transcript, req.Question)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrAIAnswerFailed(err))
	}

	return HandleSuccess(h.logger, c, dto.AskResponse{Answer: answer})
}
