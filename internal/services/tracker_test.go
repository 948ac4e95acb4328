package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"storyreel/internal/database"
	"storyreel/internal/models"
)

func newTestTracker(t *testing.T) (*Tracker, *database.VideoRepository) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.ExecSchema(db, filepath.Join("..", "..", "scripts", "schema.sql")); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	videos := database.NewVideoRepository(db)
	return NewTracker(database.NewJobRepository(db), videos, zerolog.Nop()), videos
}

func TestTrackerLifecycle(t *testing.T) {
	tracker, _ := newTestTracker(t)

	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	report, err := tracker.Status("vid-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollRunning || report.Progress != 0 {
		t.Fatalf("report = %+v, want running at 0", report)
	}

	tracker.SetProgress("vid-1", 10)
	tracker.SetProgress("vid-1", 50)

	report, _ = tracker.Status("vid-1")
	if report.Progress != 50 {
		t.Fatalf("progress = %d, want 50", report.Progress)
	}
}

// TestTrackerProgressIsMonotonic: pollers never observe a rollback, and
// progress never reaches 100 while running.
func TestTrackerProgressIsMonotonic(t *testing.T) {
	tracker, _ := newTestTracker(t)
	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	last := 0
	for _, p := range []int{10, 23, 17, 50, 50, 90, 120, 40} {
		tracker.SetProgress("vid-1", p)
		report, err := tracker.Status("vid-1")
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if report.Progress < last {
			t.Fatalf("progress rolled back from %d to %d", last, report.Progress)
		}
		if report.Progress > 99 {
			t.Fatalf("running progress = %d, want <= 99", report.Progress)
		}
		last = report.Progress
	}
}

// TestTrackerRejectsDuplicateRun: one run per story at a time. Every
// request mints a fresh video id, so the guard has to key on the story.
func TestTrackerRejectsDuplicateRun(t *testing.T) {
	tracker, _ := newTestTracker(t)
	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := tracker.Begin("vid-1", "story-1"); !errors.Is(err, ErrJobAlreadyRunning) {
		t.Fatalf("same video id: err = %v, want ErrJobAlreadyRunning", err)
	}
	if _, err := tracker.Begin("vid-2", "story-1"); !errors.Is(err, ErrJobAlreadyRunning) {
		t.Fatalf("fresh video id, same story: err = %v, want ErrJobAlreadyRunning", err)
	}

	// A different story is unaffected.
	if _, err := tracker.Begin("vid-3", "story-2"); err != nil {
		t.Fatalf("Begin for another story: %v", err)
	}

	// Once the run fails, the story can be retried.
	tracker.Fail("vid-1", "ffmpeg mux failed: exit status 1")
	if _, err := tracker.Begin("vid-4", "story-1"); err != nil {
		t.Fatalf("Begin after failure: %v", err)
	}
}

func TestTrackerFailureIsTerminal(t *testing.T) {
	tracker, _ := newTestTracker(t)
	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tracker.SetProgress("vid-1", 40)
	tracker.Fail("vid-1", "ffmpeg mux failed: exit status 1")

	// Progress is frozen and further updates are ignored.
	tracker.SetProgress("vid-1", 90)

	report, err := tracker.Status("vid-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollFailed {
		t.Fatalf("status = %s, want failed", report.Status)
	}
	if report.Progress != 40 {
		t.Errorf("progress = %d, want frozen at 40", report.Progress)
	}
	if report.Error == "" {
		t.Error("failed report has empty error message")
	}

	// A failed leftover does not block a retry.
	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Errorf("Begin after failure: %v", err)
	}
}

func TestTrackerCompletionDeletesJob(t *testing.T) {
	tracker, videos := newTestTracker(t)
	if _, err := tracker.Begin("vid-1", "story-1"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	asset := &models.Video{
		ID:        "vid-1",
		StoryID:   "story-1",
		Title:     "Video from story-1",
		Duration:  models.Duration30to60,
		VideoPath: "/media/videos/vid-1.mp4",
		VideoURL:  "/api/v1/media/videos/vid-1.mp4",
		CreatedAt: time.Now(),
	}
	if err := videos.Create(asset); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if err := tracker.Complete("vid-1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	report, err := tracker.Status("vid-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollCompleted {
		t.Fatalf("status = %s, want completed", report.Status)
	}
	if report.VideoURL == "" {
		t.Error("completed report has no video url")
	}
}

func TestTrackerUnknownVideo(t *testing.T) {
	tracker, _ := newTestTracker(t)

	report, err := tracker.Status("no-such-id")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Status != models.PollNotFound {
		t.Fatalf("status = %s, want not_found", report.Status)
	}
}
