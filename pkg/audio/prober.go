// Package audio inspects narration audio files with ffprobe. The probed
// duration drives the whole video timeline, so it is always measured,
// never assumed.
package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its combined output.
// Injectable so tests can simulate tool failures.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Prober measures audio durations via ffprobe.
type Prober struct {
	Binary string
	Run    Runner
}

// NewProber creates a prober using the given ffprobe binary.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{Binary: binary, Run: runCommand}
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the audio file's duration in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("empty audio path")
	}

	output, err := p.Run(ctx, p.Binary,
		"-v", "error",
		"-show_format",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result probeFormat
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("malformed ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed ffprobe duration %q: %w", result.Format.Duration, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("non-positive audio duration %.3f", duration)
	}
	return duration, nil
}
