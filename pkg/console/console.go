// Package console reads menu lines and single key presses from the terminal.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotTerminal is returned by StartKeys when stdin is redirected.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// ReadLine returns the next input line with surrounding whitespace removed.
func (c *Console) ReadLine() (string, error) {
	line, err := c.readLine()
	return strings.TrimSpace(line), err
}

// Pause waits for the user to press Enter.
func (c *Console) Pause() {
	fmt.Fprintln(c.out, "\nPress Enter to continue...")
	_, _ = c.readLine()
}

func defaultOut(out io.Writer) io.Writer {
	if out == nil {
		return os.Stdout
	}
	return out
}
