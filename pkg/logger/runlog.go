// Package logger writes the per-run render log: a verbose, file-based
// trace of one video assembly run kept alongside the media storage for
// debugging failed encodes.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLogger records one pipeline run to <logs>/<video-id>/render.log.
type RunLogger struct {
	videoID   string
	logPath   string
	file      *os.File
	mu        sync.Mutex
	startTime time.Time
}

// NewRunLogger creates the log file for a run, replacing any log left by
// a previous attempt for the same video id.
func NewRunLogger(logsPath, videoID string) (*RunLogger, error) {
	logDir := filepath.Join(logsPath, videoID)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "render.log")
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	rl := &RunLogger{
		videoID:   videoID,
		logPath:   logPath,
		file:      file,
		startTime: time.Now(),
	}
	rl.writeHeader()
	return rl, nil
}

// Path returns the log file location.
func (rl *RunLogger) Path() string {
	return rl.logPath
}

func (rl *RunLogger) writeHeader() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	header := fmt.Sprintf(`================================================================================
STORYREEL - VIDEO ASSEMBLY LOG
Video ID: %s
Started: %s
================================================================================

`, rl.videoID, rl.startTime.Format("2006-01-02 15:04:05 MST"))

	rl.file.WriteString(header)
	rl.file.Sync()
}

// Phase logs the start of a pipeline phase.
func (rl *RunLogger) Phase(name string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	fmt.Fprintf(rl.file, "\n[%s] ========== PHASE: %s ==========\n", elapsed, name)
	rl.file.Sync()
}

// Info logs an informational message.
func (rl *RunLogger) Info(format string, args ...interface{}) {
	rl.log("INFO", format, args...)
}

// Error logs an error message.
func (rl *RunLogger) Error(format string, args ...interface{}) {
	rl.log("ERROR", format, args...)
}

// Property logs a key-value property of the run.
func (rl *RunLogger) Property(key string, value interface{}) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	fmt.Fprintf(rl.file, "[%s] PROPERTY: %s = %v\n", elapsed, key, value)
	rl.file.Sync()
}

func (rl *RunLogger) log(level, format string, args ...interface{}) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	fmt.Fprintf(rl.file, "[%s] %s: %s\n", elapsed, level, fmt.Sprintf(format, args...))
	rl.file.Sync()
}

// Close writes the final outcome footer and closes the file.
func (rl *RunLogger) Close(success bool, message string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	outcome := "FAILED"
	if success {
		outcome = "SUCCESS"
	}
	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	fmt.Fprintf(rl.file, `
================================================================================
RESULT: %s
Elapsed: %s
%s
================================================================================
`, outcome, elapsed, message)

	rl.file.Close()
}
