package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestLogger(t *testing.T, level LogLevel) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(LoggerConfig{BaseDir: dir, Level: level, Version: "test"}))
	t.Cleanup(CloseLogger)
	return dir
}

func readEntries(t *testing.T, dir string) []LogEntry {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, "events.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"error":   LevelError,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"Info":    LevelInfo,
		" debug ": LevelDebug,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestFileLogging(t *testing.T) {
	dir := initTestLogger(t, LevelInfo)

	Info("Loaded packages", "count", 3)
	Debug("not written at INFO")
	Error("Install failed", "package", "7-Zip", "error", errors.New("boom"))

	raw, err := os.ReadFile(filepath.Join(dir, "appinstaller.log"))
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "INFO  Loaded packages count=3")
	assert.Contains(t, text, "ERROR Install failed package=7-Zip error=boom")
	assert.NotContains(t, text, "not written")

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "Loaded packages", entries[0].Message)
	assert.EqualValues(t, 3, entries[0].Properties["count"])
	assert.Equal(t, "boom", entries[1].Properties["error"])
	assert.Equal(t, SessionID(), entries[0].SessionID)
	assert.NotEmpty(t, entries[0].SessionID)
	assert.Equal(t, "appinstaller", entries[0].Component)
	assert.Equal(t, dir, LogDir())
}

func TestLogInstall(t *testing.T) {
	dir := initTestLogger(t, LevelDebug)

	LogInstall("Git", "failed", "installer exited with non-zero code", "exit_code", 1603)
	LogInstall("7-Zip", "installed", "installed successfully")

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "install", entries[0].EventType)
	assert.Equal(t, "Git", entries[0].Package)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "ERROR", entries[0].Level)
	assert.EqualValues(t, 1603, entries[0].Properties["exit_code"])
	assert.Equal(t, "INFO", entries[1].Level)
}

func TestLoggingBeforeInit(t *testing.T) {
	CloseLogger()

	var buf bytes.Buffer
	prev := fallback
	fallback = &buf
	t.Cleanup(func() { fallback = prev })

	Info("dropped")
	Warn("kept", "key", "value")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "WARN  kept key=value")
	assert.Empty(t, SessionID())
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Header("Package Installer Menu")
	l.Success(" + %s installed successfully!", "7-Zip")
	l.Error(" + ERROR: %s installation failed with code %d.", "Git", 1603)

	out := buf.String()
	assert.Contains(t, out, "Package Installer Menu\n")
	assert.Contains(t, out, " + 7-Zip installed successfully!\n")
	assert.Contains(t, out, " + ERROR: Git installation failed with code 1603.\n")
	assert.NotContains(t, out, "\x1b[", "no colour codes when the writer is not a terminal")
}
