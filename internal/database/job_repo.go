package database

import (
	"database/sql"
	"time"

	"storyreel/internal/models"
)

// JobRepository handles job tracking database operations
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job record
func (r *JobRepository) Create(job *models.Job) error {
	query := `INSERT INTO jobs (video_id, story_id, status, progress, error_message, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		job.VideoID, job.StoryID, job.Status, job.Progress, job.ErrorMessage,
		job.StartedAt.Format(time.RFC3339),
		job.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// GetByVideoID returns the job for a video id, or nil if it does not exist
func (r *JobRepository) GetByVideoID(videoID string) (*models.Job, error) {
	query := `SELECT video_id, story_id, status, progress, error_message, started_at, updated_at
		FROM jobs WHERE video_id = ?`

	var j models.Job
	var startedAt, updatedAt string

	err := r.db.QueryRow(query, videoID).Scan(
		&j.VideoID, &j.StoryID, &j.Status, &j.Progress, &j.ErrorMessage,
		&startedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	j.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

// GetRunningByStoryID returns a running job for the story, or nil if the
// story has no run in flight
func (r *JobRepository) GetRunningByStoryID(storyID string) (*models.Job, error) {
	query := `SELECT video_id, story_id, status, progress, error_message, started_at, updated_at
		FROM jobs WHERE story_id = ? AND status = ? LIMIT 1`

	var j models.Job
	var startedAt, updatedAt string

	err := r.db.QueryRow(query, storyID, models.StatusRunning).Scan(
		&j.VideoID, &j.StoryID, &j.Status, &j.Progress, &j.ErrorMessage,
		&startedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	j.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

// Update persists the job's status, progress and error message
func (r *JobRepository) Update(job *models.Job) error {
	query := `UPDATE jobs SET status = ?, progress = ?, error_message = ?, updated_at = ?
		WHERE video_id = ?`

	_, err := r.db.Exec(query,
		job.Status, job.Progress, job.ErrorMessage,
		job.UpdatedAt.Format(time.RFC3339),
		job.VideoID,
	)
	return err
}

// Delete removes a job record
func (r *JobRepository) Delete(videoID string) error {
	_, err := r.db.Exec("DELETE FROM jobs WHERE video_id = ?", videoID)
	return err
}
