package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureRunner(calls *[][]string, err error) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		if err != nil {
			return []byte("ffmpeg: conversion failed"), err
		}
		return nil, nil
	}
}

func TestBuildSlideshowCommand(t *testing.T) {
	dir := t.TempDir()
	frames := []TimedFrame{
		{Path: filepath.Join(dir, "frame_000.png"), Duration: 7.0},
		{Path: filepath.Join(dir, "frame_001.png"), Duration: 7.0},
	}

	var calls [][]string
	e := NewEncoder("ffmpeg")
	e.Run = captureRunner(&calls, nil)

	outPath := filepath.Join(dir, "slideshow.mp4")
	if err := e.BuildSlideshow(context.Background(), frames, dir, outPath); err != nil {
		t.Fatalf("BuildSlideshow: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("got %d ffmpeg invocations, want 1", len(calls))
	}
	joined := strings.Join(calls[0], " ")
	if !strings.Contains(joined, "scale=1080:1920") || !strings.Contains(joined, "pad=1080:1920") {
		t.Errorf("command missing vertical canvas filter: %s", joined)
	}
	if calls[0][len(calls[0])-1] != outPath {
		t.Errorf("output path not last argument: %s", joined)
	}

	list, err := os.ReadFile(filepath.Join(dir, "frames.ffconcat"))
	if err != nil {
		t.Fatalf("concat list not written: %v", err)
	}
	content := string(list)
	if !strings.HasPrefix(content, "ffconcat version 1.0\n") {
		t.Error("concat list missing header")
	}
	if !strings.Contains(content, "duration 7.0000") {
		t.Error("concat list missing frame durations")
	}
	if strings.Count(content, "frame_001.png") != 2 {
		t.Error("final frame should be listed twice to hold its duration")
	}
}

func TestBuildSlideshowNoFrames(t *testing.T) {
	e := NewEncoder("ffmpeg")
	if err := e.BuildSlideshow(context.Background(), nil, t.TempDir(), "out.mp4"); err == nil {
		t.Fatal("expected error for empty frame list")
	}
}

func TestMuxCommand(t *testing.T) {
	var calls [][]string
	e := NewEncoder("ffmpeg")
	e.Run = captureRunner(&calls, nil)

	if err := e.Mux(context.Background(), "silent.mp4", "narration.mp3", "final.mp4"); err != nil {
		t.Fatalf("Mux: %v", err)
	}

	joined := strings.Join(calls[0], " ")
	for _, want := range []string{"-b:v 2M", "-b:a 160k", "-c:a aac", "silent.mp4", "narration.mp3"} {
		if !strings.Contains(joined, want) {
			t.Errorf("mux command missing %q: %s", want, joined)
		}
	}
}

// TestEncoderFailureCarriesOutput: a non-zero exit surfaces the tool's
// output in the returned error.
func TestEncoderFailureCarriesOutput(t *testing.T) {
	var calls [][]string
	e := NewEncoder("ffmpeg")
	e.Run = captureRunner(&calls, errors.New("exit status 1"))

	err := e.Mux(context.Background(), "a.mp4", "b.mp3", "c.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "conversion failed") {
		t.Errorf("error %q does not carry tool output", err)
	}
}
