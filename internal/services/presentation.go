package services

import (
	"context"
	"time"
)

// Present holds only the calling request for d while the wheel animates.
// It returns early with the context error if the caller goes away.
func Present(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
