package database

import (
	"database/sql"
	"time"

	"storyreel/internal/models"
)

// VideoRepository handles video asset database operations
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetAll returns all video assets, newest first
func (r *VideoRepository) GetAll() ([]models.Video, error) {
	query := `SELECT id, story_id, title, duration, video_path, video_url, created_at
		FROM videos ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		var createdAt string

		err := rows.Scan(&v.ID, &v.StoryID, &v.Title, &v.Duration, &v.VideoPath, &v.VideoURL, &createdAt)
		if err != nil {
			return nil, err
		}

		v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

// GetByID returns a video asset by ID, or nil if it does not exist
func (r *VideoRepository) GetByID(id string) (*models.Video, error) {
	query := `SELECT id, story_id, title, duration, video_path, video_url, created_at
		FROM videos WHERE id = ?`

	var v models.Video
	var createdAt string

	err := r.db.QueryRow(query, id).Scan(
		&v.ID, &v.StoryID, &v.Title, &v.Duration, &v.VideoPath, &v.VideoURL, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &v, nil
}

// Create inserts a new video asset record
func (r *VideoRepository) Create(video *models.Video) error {
	query := `INSERT INTO videos (id, story_id, title, duration, video_path, video_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		video.ID, video.StoryID, video.Title, video.Duration,
		video.VideoPath, video.VideoURL,
		video.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// Delete removes a video asset record
func (r *VideoRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM videos WHERE id = ?", id)
	return err
}
