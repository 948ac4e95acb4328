// Package video drives ffmpeg to assemble timed frames and a narration
// track into the final vertical video file.
package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Output geometry and encoding targets for the final file.
const (
	OutputWidth  = 1080
	OutputHeight = 1920

	VideoBitrate = "2M"
	AudioBitrate = "160k"
)

// Runner executes an external command and returns its combined output.
// Injectable so tests can simulate encoder failures without ffmpeg.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// TimedFrame is one rendered frame and how long it stays on screen.
type TimedFrame struct {
	Path     string
	Duration float64
}

// Encoder orchestrates ffmpeg invocations for one pipeline run.
type Encoder struct {
	Binary string
	Run    Runner
}

// NewEncoder creates an encoder using the given ffmpeg binary.
func NewEncoder(binary string) *Encoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Encoder{Binary: binary, Run: runCommand}
}

// BuildSlideshow concatenates the frames into a silent video stream, each
// frame held for its duration, scaled and padded to the fixed vertical
// canvas with the source aspect ratio preserved.
func (e *Encoder) BuildSlideshow(ctx context.Context, frames []TimedFrame, workDir, outPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	listPath := filepath.Join(workDir, "frames.ffconcat")
	if err := writeConcatList(frames, listPath); err != nil {
		return err
	}

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		OutputWidth, OutputHeight, OutputWidth, OutputHeight,
	)

	output, err := e.Run(ctx, e.Binary,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "medium",
		"-pix_fmt", "yuv420p",
		"-fps_mode", "vfr",
		"-y",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg slideshow failed: %w\nOutput: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Mux combines the silent video stream with the narration audio and
// encodes the final file at the fixed bitrates.
func (e *Encoder) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	output, err := e.Run(ctx, e.Binary,
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-b:v", VideoBitrate,
		"-c:a", "aac",
		"-b:a", AudioBitrate,
		"-shortest",
		"-y",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w\nOutput: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// writeConcatList emits an ffconcat listing. The concat demuxer ignores
// the duration of the final entry, so the last frame is listed once more
// to hold it on screen.
func writeConcatList(frames []TimedFrame, listPath string) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, frame := range frames {
		fmt.Fprintf(&b, "file '%s'\nduration %.4f\n", escapeConcatPath(frame.Path), frame.Duration)
	}
	fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(frames[len(frames)-1].Path))

	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
