// pkg/logging/console.go - coloured user-facing console output.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger prints user-facing messages. Colours are dropped automatically when
// the writer is not a terminal.
type Logger struct {
	mu  sync.Mutex
	out io.Writer

	highlight lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	failure   lipgloss.Style
}

// New creates a console Logger writing to w (os.Stdout when nil).
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &Logger{
		out:       w,
		highlight: r.NewStyle().Foreground(lipgloss.Color("14")),
		success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		failure:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (l *Logger) println(style *lipgloss.Style, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if style != nil && msg != "" {
		msg = style.Render(msg)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, msg)
}

// Printf prints a plain message followed by a newline.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.println(nil, format, v...)
}

// Highlight prints a message in cyan.
func (l *Logger) Highlight(format string, v ...interface{}) {
	l.println(&l.highlight, format, v...)
}

// Success prints a message in green.
func (l *Logger) Success(format string, v ...interface{}) {
	l.println(&l.success, format, v...)
}

// Warning prints a message in yellow.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.println(&l.warning, format, v...)
}

// Error prints a message in red.
func (l *Logger) Error(format string, v ...interface{}) {
	l.println(&l.failure, format, v...)
}

// SuccessString renders s in the success colour without printing it.
func (l *Logger) SuccessString(s string) string {
	return l.success.Render(s)
}

// WarningString renders s in the warning colour without printing it.
func (l *Logger) WarningString(s string) string {
	return l.warning.Render(s)
}

// Separator prints a full-width rule.
func (l *Logger) Separator() {
	l.Highlight(strings.Repeat("=", 50))
}

// Header prints text between two separators.
func (l *Logger) Header(text string) {
	l.Separator()
	l.Highlight("%s", text)
	l.Separator()
}
