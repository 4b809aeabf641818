//go:build !windows
// +build !windows

package console

import (
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Console owns stdin through a single reader goroutine so that line reads
// and raw key polling never compete for input.
type Console struct {
	out   io.Writer
	in    io.Reader
	fd    int
	once  sync.Once
	input chan byte
}

// New returns a Console writing prompts to out (os.Stdout when nil).
func New(out io.Writer) *Console {
	return newConsole(out, os.Stdin, int(os.Stdin.Fd()))
}

func newConsole(out io.Writer, in io.Reader, fd int) *Console {
	return &Console{
		out:   defaultOut(out),
		in:    in,
		fd:    fd,
		input: make(chan byte, 4096),
	}
}

func (c *Console) start() {
	c.once.Do(func() {
		go c.pump()
	})
}

func (c *Console) pump() {
	buf := make([]byte, 256)
	for {
		n, err := c.in.Read(buf)
		for _, b := range buf[:n] {
			c.input <- b
		}
		if err != nil {
			close(c.input)
			return
		}
	}
}

func (c *Console) readLine() (string, error) {
	c.start()
	var sb strings.Builder
	for b := range c.input {
		switch b {
		case '\n':
			return sb.String(), nil
		case '\r':
		default:
			sb.WriteByte(b)
		}
	}
	if sb.Len() > 0 {
		return sb.String(), nil
	}
	return "", io.EOF
}

// StartKeys puts the terminal in raw mode and discards pending input.
func (c *Console) StartKeys() (func(), error) {
	if !term.IsTerminal(c.fd) {
		return nil, ErrNotTerminal
	}
	c.start()
	state, err := term.MakeRaw(c.fd)
	if err != nil {
		return nil, err
	}
	for drained := false; !drained; {
		select {
		case _, ok := <-c.input:
			drained = !ok
		default:
			drained = true
		}
	}
	return func() { _ = term.Restore(c.fd, state) }, nil
}

// PollKey returns the next pending byte as a key, if any.
func (c *Console) PollKey() (rune, bool) {
	select {
	case b, ok := <-c.input:
		if !ok {
			return 0, false
		}
		return rune(b), true
	default:
		return 0, false
	}
}
