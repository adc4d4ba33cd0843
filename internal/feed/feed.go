package feed

import (
	"context"
	"time"

	"edupulse/internal/model"
)

// Send blocks until the record is accepted or the context ends. Records
// are never dropped on backpressure: a missing student would silently
// skew every population statistic computed after the course barrier.
func Send(ctx context.Context, out chan<- model.StudentActivity, act model.StudentActivity) bool {
	select {
	case out <- act:
		return true
	case <-ctx.Done():
		return false
	}
}

func BackoffSleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = 200 * time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
