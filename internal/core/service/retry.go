package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/metrics"
)

// ConflictBackoff is the base delay between optimistic-concurrency retries.
// The n-th retry waits n*ConflictBackoff.
var ConflictBackoff = 10 * time.Millisecond

// finalError marks an error that must not be retried even if it is a Conflict.
type finalError struct{ err error }

func (e *finalError) Error() string { return e.err.Error() }
func (e *finalError) Unwrap() error { return e.err }

func stop(err error) error {
	return &finalError{err: err}
}

// retryOnConflict runs attempt until it returns something other than a Conflict
// error, at most maxRetries+1 times. Each attempt must re-read the record.
func retryOnConflict(ctx context.Context, logger zerolog.Logger, maxRetries int, operation string, attempt func() error) error {
	for try := 0; ; try++ {
		err := attempt()

		var final *finalError
		if errors.As(err, &final) {
			return final.err
		}
		if !domain.IsKind(err, domain.KindConflict) || try >= maxRetries {
			return err
		}

		metrics.RecordConflictRetry(operation)
		logger.Debug().
			Str("operation", operation).
			Int("retry", try+1).
			Err(err).
			Msg("version conflict, retrying")

		select {
		case <-ctx.Done():
			return domain.WrapError(domain.KindStoreUnavailable, ctx.Err(), "%s gave up after a version conflict", operation)
		case <-time.After(time.Duration(try+1) * ConflictBackoff):
		}
	}
}
