// Package confirm implements the timed Yes/No prompt shown before
// reinstalling a package that is already present.
package confirm

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"
	"unicode"

	"github.com/windowsadmins/appinstaller/pkg/logging"
)

// Decision is the answer to a reinstall prompt.
type Decision int

const (
	No Decision = iota
	Yes
	TimedOut
)

func (d Decision) String() string {
	switch d {
	case Yes:
		return "yes"
	case No:
		return "no"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// ctrlC arrives as a key while the console is in raw mode; it answers No.
const ctrlC = 0x03

// DefaultInterval is how often the countdown is redrawn and keys are polled.
const DefaultInterval = 250 * time.Millisecond

// KeyReader is a non-blocking source of single key presses.
type KeyReader interface {
	// StartKeys prepares the input for single-key reads. The returned stop
	// function restores it.
	StartKeys() (stop func(), err error)
	// PollKey returns the next pending key, if any, without blocking.
	PollKey() (rune, bool)
}

// Gate asks the user whether to reinstall and waits a bounded time for the answer.
type Gate struct {
	Keys     KeyReader
	Out      io.Writer
	Interval time.Duration
}

// Confirm shows the prompt for name and returns Yes only if the user presses
// Y before timeout elapses. Keys other than Y and N are ignored.
func (g *Gate) Confirm(ctx context.Context, name string, timeout time.Duration) Decision {
	interval := g.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	fmt.Fprintf(g.Out, "\n * %s is already installed.\n", name)

	stop, err := g.Keys.StartKeys()
	if err != nil {
		logging.Warn("Unable to read keyboard input", "error", err)
		fmt.Fprintln(g.Out)
		return TimedOut
	}
	defer stop()

	// The terminal may be in raw mode until stop runs, so lines end in \r\n.
	const eol = "\r\n"

	deadline := time.Now().Add(timeout)

	for {
		if d, ok := g.drainKeys(); ok {
			fmt.Fprint(g.Out, eol)
			return d
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			fmt.Fprint(g.Out, eol)
			return TimedOut
		}
		fmt.Fprintf(g.Out, "\r  Do you want to reinstall it? (Y/N) [Default: N] Timeout in %d seconds... ",
			int(math.Ceil(remaining.Seconds())))

		timer := time.NewTimer(min(interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			fmt.Fprint(g.Out, eol)
			return TimedOut
		case <-timer.C:
		}
	}
}

// drainKeys consumes pending keys until a Y or N is found.
func (g *Gate) drainKeys() (Decision, bool) {
	for {
		r, ok := g.Keys.PollKey()
		if !ok {
			return No, false
		}
		switch unicode.ToUpper(r) {
		case 'Y':
			return Yes, true
		case 'N', ctrlC:
			return No, true
		}
	}
}
