package database

import (
	"context"
	"errors"
	"time"
)

// ErrConcurrentModification is returned when a compare-and-swap on a record
// version finds that someone else already changed the row.
var ErrConcurrentModification = errors.New("record was modified concurrently")

// TxManager runs fn inside one database transaction. The transaction travels
// in the context handed to fn; repositories pick it up from there. Nested
// calls join the outer transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IsRetryable reports whether err is worth retrying from the top.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// Retry calls fn up to attempts times while it fails with a retryable error,
// sleeping backoff times the attempt number in between. The last error is
// returned when attempts run out.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return err
}
