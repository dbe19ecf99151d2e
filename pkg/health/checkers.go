package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the process has more than limit
// goroutines, a cheap proxy for leaks and runaway load.
func GoroutineCountCheck(limit int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("too many goroutines: %d > %d", n, limit)
		}
		return nil
	}
}
