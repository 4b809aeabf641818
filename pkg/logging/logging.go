// pkg/logging/logging.go - structured file logging for appinstaller.
//
// Every run writes two files under the configured log directory:
// - appinstaller.log: human readable "[ts] LEVEL message key=value" lines
// - events.jsonl: one JSON LogEntry per line for external tooling

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration value to a LogLevel. Unknown values are INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogEntry is one line of events.jsonl.
type LogEntry struct {
	Time       int64                  `json:"time"`
	Timestamp  string                 `json:"timestamp"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component"`
	EventType  string                 `json:"event_type,omitempty"`
	Package    string                 `json:"package,omitempty"`
	Status     string                 `json:"status,omitempty"`
	PID        int                    `json:"pid"`
	Hostname   string                 `json:"hostname"`
	Version    string                 `json:"version"`
	SessionID  string                 `json:"session_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// LoggerConfig holds configuration for the file logger.
type LoggerConfig struct {
	BaseDir   string
	Level     LogLevel
	Component string
	Version   string
}

type fileLogger struct {
	mu        sync.Mutex
	config    LoggerConfig
	logger    *log.Logger
	logFile   *os.File
	jsonFile  *os.File
	hostname  string
	sessionID string
}

var (
	instanceMu sync.Mutex
	instance   *fileLogger
)

// Init opens the log files under cfg.BaseDir. Calling Init again closes the
// previous files and starts a new session.
func Init(cfg LoggerConfig) error {
	if cfg.Component == "" {
		cfg.Component = "appinstaller"
	}
	if err := os.MkdirAll(cfg.BaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", cfg.BaseDir, err)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.BaseDir, "appinstaller.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	jsonFile, err := os.OpenFile(filepath.Join(cfg.BaseDir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("failed to open events file: %w", err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	l := &fileLogger{
		config:    cfg,
		logger:    log.New(logFile, "", 0),
		logFile:   logFile,
		jsonFile:  jsonFile,
		hostname:  hostname,
		sessionID: uuid.NewString(),
	}

	instanceMu.Lock()
	prev := instance
	instance = l
	instanceMu.Unlock()

	if prev != nil {
		prev.close()
	}
	return nil
}

// CloseLogger flushes and closes the log files.
func CloseLogger() {
	instanceMu.Lock()
	l := instance
	instance = nil
	instanceMu.Unlock()

	if l != nil {
		l.close()
	}
}

// SessionID returns the identifier stamped on every entry of this run.
func SessionID() string {
	if l := current(); l != nil {
		return l.sessionID
	}
	return ""
}

// LogDir returns the directory the log files are written to.
func LogDir() string {
	if l := current(); l != nil {
		return l.config.BaseDir
	}
	return ""
}

func current() *fileLogger {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

func (l *fileLogger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range []*os.File{l.logFile, l.jsonFile} {
		if f == nil {
			continue
		}
		f.Sync()
		f.Close()
	}
	l.logFile, l.jsonFile = nil, nil
}

func (l *fileLogger) write(level LogLevel, entry LogEntry, keyValues []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.config.Level || l.logFile == nil {
		return
	}

	now := time.Now()
	entry.Time = now.Unix()
	entry.Timestamp = now.Format(time.RFC3339)
	entry.Level = level.String()
	entry.Component = l.config.Component
	entry.PID = os.Getpid()
	entry.Hostname = l.hostname
	entry.Version = l.config.Version
	entry.SessionID = l.sessionID

	l.logger.Println(formatLine(now, level, entry.Message, keyValues))

	if data, err := json.Marshal(entry); err == nil {
		l.jsonFile.Write(append(data, '\n'))
	}
}

// formatLine renders the traditional single-line format.
func formatLine(ts time.Time, level LogLevel, message string, keyValues []interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", ts.Format("2006-01-02 15:04:05"), level.String(), message)
	for i := 0; i+1 < len(keyValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyValues[i], keyValues[i+1])
	}
	return b.String()
}

func toProperties(keyValues []interface{}) map[string]interface{} {
	if len(keyValues) < 2 {
		return nil
	}
	properties := make(map[string]interface{}, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		val := keyValues[i+1]
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		properties[fmt.Sprintf("%v", keyValues[i])] = val
	}
	return properties
}

// fallback receives warnings and errors logged before Init.
var fallback io.Writer = os.Stderr

func logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l := current()
	if l == nil {
		if level <= LevelWarn {
			fmt.Fprintln(fallback, formatLine(time.Now(), level, message, keyValues))
		}
		return
	}
	l.write(level, LogEntry{Message: message, Properties: toProperties(keyValues)}, keyValues)
}

// Info logs informational messages.
func Info(message string, keyValues ...interface{}) {
	logMessage(LevelInfo, message, keyValues...)
}

// Debug logs debug messages.
func Debug(message string, keyValues ...interface{}) {
	logMessage(LevelDebug, message, keyValues...)
}

// Warn logs warning messages.
func Warn(message string, keyValues ...interface{}) {
	logMessage(LevelWarn, message, keyValues...)
}

// Error logs error messages.
func Error(message string, keyValues ...interface{}) {
	logMessage(LevelError, message, keyValues...)
}

// LogInstall records the result of one package install attempt as an
// install event. status is one of started, installed, failed, skipped.
func LogInstall(packageName, status, message string, keyValues ...interface{}) {
	level := LevelInfo
	if status == "failed" {
		level = LevelError
	}

	l := current()
	if l == nil {
		return
	}
	all := append([]interface{}{"package", packageName, "status", status}, keyValues...)
	l.write(level, LogEntry{
		Message:    message,
		EventType:  "install",
		Package:    packageName,
		Status:     status,
		Properties: toProperties(keyValues),
	}, all)
}
