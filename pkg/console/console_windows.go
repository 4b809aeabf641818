//go:build windows
// +build windows

package console

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

var (
	msvcrt     = windows.NewLazySystemDLL("msvcrt.dll")
	procKbhit  = msvcrt.NewProc("_kbhit")
	procGetwch = msvcrt.NewProc("_getwch")
)

// Console reads lines through a buffered stdin reader and single keys
// through the C runtime's console functions.
type Console struct {
	out io.Writer
	in  *bufio.Reader
}

// New returns a Console writing prompts to out (os.Stdout when nil).
func New(out io.Writer) *Console {
	return &Console{out: defaultOut(out), in: bufio.NewReader(os.Stdin)}
}

func (c *Console) readLine() (string, error) {
	return c.in.ReadString('\n')
}

// StartKeys discards keys typed before the prompt appeared.
func (c *Console) StartKeys() (func(), error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	if err := procKbhit.Find(); err != nil {
		return nil, err
	}
	if err := procGetwch.Find(); err != nil {
		return nil, err
	}
	for kbhit() {
		procGetwch.Call()
	}
	return func() {}, nil
}

// PollKey returns a key press if one is waiting in the console buffer.
func (c *Console) PollKey() (rune, bool) {
	if !kbhit() {
		return 0, false
	}
	r, _, _ := procGetwch.Call()
	return rune(r), true
}

func kbhit() bool {
	r, _, _ := procKbhit.Call()
	return r != 0
}
