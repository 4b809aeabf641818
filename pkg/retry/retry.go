// pkg/retry/retry.go - retrying actions with exponential backoff.

package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/windowsadmins/appinstaller/pkg/logging"
)

// Config defines the retry attempts for an action. A zero Config runs the
// action once.
type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// sleep is replaced in tests.
var sleep = time.Sleep

// Do runs action until it succeeds, returns a Permanent error, or the
// attempts run out. The last error is returned wrapped with the attempt count.
func Do(cfg Config, what string, action func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	interval := cfg.InitialInterval

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = action(); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			logging.Debug("Non-retryable error", "action", what, "attempt", attempt, "error", perm.err)
			return perm.err
		}

		if attempt == attempts {
			break
		}
		logging.Warn(fmt.Sprintf("Attempt %d/%d failed. Retrying in %s...", attempt, attempts, interval),
			"action", what, "error", err)
		sleep(interval)
		if cfg.Multiplier > 0 {
			interval = time.Duration(float64(interval) * cfg.Multiplier)
		}
	}

	if attempts == 1 {
		return err
	}
	return fmt.Errorf("%s failed after %d attempts: %w", what, attempts, err)
}
