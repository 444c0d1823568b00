package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/capnotes/errors"
	"github.com/johnquangdev/capnotes/internal/adapter/dto/common"
	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

// getRequestID tries to read X-Request-ID from the request or response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes data as the 200 response body
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, data)
}

// HandleError centralizes error handling and logging. The cause is logged
// but never returned to the caller.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", appErr.HTTPCode),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    int(appErr.Code),
		Message: appErr.Message,
	})
}

// ErrorHandler adapts HandleError to echo.HTTPErrorHandler so middleware
// errors share the response shape
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		_ = HandleError(logger, c, err)
	}
}

// toAppError maps domain and framework errors onto API errors
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		return fromHTTPError(httpErr)
	}

	switch {
	case stdErrors.Is(err, entities.ErrAudioEmpty):
		return errors.ErrAudioMissing()
	case stdErrors.Is(err, entities.ErrAudioTooLarge):
		return errors.ErrAudioTooLarge(entities.DefaultMaxAudioBytes)
	case stdErrors.Is(err, entities.ErrUnsupportedEncoding):
		return errors.ErrAudioUnsupportedEncoding("")
	case stdErrors.Is(err, entities.ErrEmptyTranscript):
		return errors.ErrAINoSpeechDetected()
	case stdErrors.Is(err, entities.ErrTranscriptionFailed):
		return errors.ErrAITranscriptionFailed(err)
	case stdErrors.Is(err, entities.ErrAnswerFailed):
		return errors.ErrAIAnswerFailed(err)
	}

	return errors.ErrInternal(err)
}

func fromHTTPError(he *echo.HTTPError) errors.AppError {
	switch he.Code {
	case http.StatusRequestEntityTooLarge:
		return errors.ErrAudioTooLarge(entities.DefaultMaxAudioBytes)
	case http.StatusUnauthorized:
		return errors.ErrUnauthenticated()
	case http.StatusNotFound:
		return errors.ErrNotFound()
	case http.StatusBadRequest:
		return errors.ErrInvalidPayload()
	}

	if he.Code >= http.StatusInternalServerError {
		return errors.ErrInternal(he)
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	}
	return errors.AppError{
		Raw:      he,
		HTTPCode: he.Code,
		Code:     errors.ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}
