package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

// StatusError is returned when an upstream API answers with a non-2xx status
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// Temporary reports whether retrying the call may succeed
func (e *StatusError) Temporary() bool {
	return temporaryStatus(e.StatusCode)
}

func temporaryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

const defaultRetryInterval = 500 * time.Millisecond

// retry runs op until it succeeds, returns a permanent error, maxRetries is
// exhausted or ctx is done
func retry(ctx context.Context, maxRetries uint64, initial time.Duration, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.MaxInterval = 10 * initial
	bo.MaxElapsedTime = 0 // bounded by maxRetries and ctx

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ge genai.APIError
	if errors.As(err, &ge) {
		return temporaryStatus(ge.Code)
	}
	// transport errors
	return true
}
