package chat

import (
	"context"
	"time"
)

// Clock returns the current time. Tests swap it for a fixed or stepping clock.
type Clock func() time.Time

// DefaultQueryTimeout bounds each store round trip when none is configured
const DefaultQueryTimeout = 10 * time.Second

// storeContext derives the context used for one store round trip. It keeps
// the caller's values but not its cancellation, so a client hanging up never
// leaves an operation half applied.
func storeContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
