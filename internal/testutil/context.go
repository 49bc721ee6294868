package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds test calls that reach a database or a controller.
const DefaultTimeout = 30 * time.Second

// Context returns a context cancelled after DefaultTimeout or when the test ends.
func Context(tb testing.TB) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	tb.Cleanup(cancel)

	return ctx
}
