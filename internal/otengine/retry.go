package otengine

import (
	"context"
	"errors"
	"time"

	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otcodec"
)

// DefaultTimeout is the per-exchange receive deadline used when the
// caller doesn't need a tighter one. Spec §4.C names a 20-800ms legal
// window but tolerates up to 1s pragmatically.
const DefaultTimeout = time.Second

// RetryBackoff is the pause between retry attempts (spec §5
// "suspension point ... when the retry wrapper backs off between
// attempts").
var RetryBackoff = 50 * time.Millisecond

// ExchangeWithRetry retries a failed Exchange up to maxRetries
// additional times, but only for outcomes Outcome.Retryable reports
// true for (spec §4.C "Retry wrapper", §8 P5). DATA-INVALID and
// UNKNOWN-DATAID are returned to the caller unchanged after the first
// attempt; the caller can check errors.As to recover the *Error.
func ExchangeWithRetry(ctx context.Context, bus otbus.Bus, msgType otcodec.MsgType, dataID uint8, value uint16, timeout time.Duration, maxRetries int, recorder Recorder) (Response, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := Exchange(attemptCtx, bus, msgType, dataID, value, recorder)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var engineErr *Error
		if !errors.As(err, &engineErr) || !engineErr.Outcome.Retryable() {
			return Response{}, err
		}
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-time.After(RetryBackoff):
		}
	}
	return Response{}, lastErr
}
