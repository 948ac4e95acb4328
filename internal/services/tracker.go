package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"storyreel/internal/database"
	"storyreel/internal/models"
)

// ErrJobAlreadyRunning is returned when a second run is requested for a
// video id that already has an active job.
var ErrJobAlreadyRunning = errors.New("a run is already in progress for this video")

// Tracker is the single source of truth for job state. The run that owns
// a job is its only writer; pollers read through Status.
type Tracker struct {
	jobs   *database.JobRepository
	videos *database.VideoRepository
	log    zerolog.Logger
}

// NewTracker creates a job tracker over the job and video stores.
func NewTracker(jobs *database.JobRepository, videos *database.VideoRepository, log zerolog.Logger) *Tracker {
	return &Tracker{
		jobs:   jobs,
		videos: videos,
		log:    log.With().Str("component", "tracker").Logger(),
	}
}

// Begin creates the job record for a new run. A story with a run already
// in flight is rejected, whatever video id the new request minted; a
// failed leftover from an earlier attempt is replaced.
func (t *Tracker) Begin(videoID, storyID string) (*models.Job, error) {
	running, err := t.jobs.GetRunningByStoryID(storyID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, ErrJobAlreadyRunning
	}

	existing, err := t.jobs.GetByVideoID(videoID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := t.jobs.Delete(videoID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	job := &models.Job{
		VideoID:   videoID,
		StoryID:   storyID,
		Status:    models.StatusRunning,
		Progress:  0,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := t.jobs.Create(job); err != nil {
		return nil, err
	}

	t.log.Info().Str("video_id", videoID).Str("story_id", storyID).Msg("job started")
	return job, nil
}

// SetProgress records a progress milestone for a running job. Progress is
// monotonic: a value at or below the stored one is ignored, so pollers
// never observe a rollback. Values are capped at 99; 100 is implied by
// completion.
func (t *Tracker) SetProgress(videoID string, progress int) {
	job, err := t.jobs.GetByVideoID(videoID)
	if err != nil || job == nil {
		t.log.Warn().Err(err).Str("video_id", videoID).Msg("progress update for missing job")
		return
	}
	if job.Status != models.StatusRunning {
		return
	}
	if progress > 99 {
		progress = 99
	}
	if progress <= job.Progress {
		return
	}

	job.Progress = progress
	job.UpdatedAt = time.Now()
	if err := t.jobs.Update(job); err != nil {
		t.log.Warn().Err(err).Str("video_id", videoID).Msg("failed to persist progress")
		return
	}
	t.log.Debug().Str("video_id", videoID).Int("progress", progress).Msg("progress")
}

// Fail moves the job to its terminal failed state, freezing progress and
// recording the error message for pollers.
func (t *Tracker) Fail(videoID, message string) {
	job, err := t.jobs.GetByVideoID(videoID)
	if err != nil || job == nil {
		t.log.Warn().Err(err).Str("video_id", videoID).Msg("failure update for missing job")
		return
	}

	job.Status = models.StatusFailed
	job.ErrorMessage = message
	job.UpdatedAt = time.Now()
	if err := t.jobs.Update(job); err != nil {
		t.log.Warn().Err(err).Str("video_id", videoID).Msg("failed to persist job failure")
		return
	}
	t.log.Error().Str("video_id", videoID).Str("error", message).Msg("job failed")
}

// Complete deletes the job record. Success is signaled by the existence
// of the video asset, not by a completed job row.
func (t *Tracker) Complete(videoID string) error {
	if err := t.jobs.Delete(videoID); err != nil {
		return err
	}
	t.log.Info().Str("video_id", videoID).Msg("job completed")
	return nil
}

// Status answers a poll for a video id: completed if the asset exists,
// otherwise the job's running or failed state, otherwise not_found.
func (t *Tracker) Status(videoID string) (models.StatusReport, error) {
	video, err := t.videos.GetByID(videoID)
	if err != nil {
		return models.StatusReport{}, err
	}
	if video != nil {
		return models.StatusReport{Status: models.PollCompleted, VideoURL: video.VideoURL}, nil
	}

	job, err := t.jobs.GetByVideoID(videoID)
	if err != nil {
		return models.StatusReport{}, err
	}
	if job == nil {
		return models.StatusReport{Status: models.PollNotFound}, nil
	}
	if job.Status == models.StatusFailed {
		return models.StatusReport{
			Status:   models.PollFailed,
			Progress: job.Progress,
			Error:    job.ErrorMessage,
		}, nil
	}
	return models.StatusReport{Status: models.PollRunning, Progress: job.Progress}, nil
}
