package lib

import (
	"context"
	"time"
)

// WithOptionalTimeout applies the timeout only when it is positive
func WithOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
