package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"storyreel/internal/models"
)

// StoryRepository handles story database operations
type StoryRepository struct {
	db *sql.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create inserts a new story record
func (r *StoryRepository) Create(story *models.Story) error {
	images, err := json.Marshal(story.Images)
	if err != nil {
		return fmt.Errorf("failed to encode image list: %w", err)
	}

	query := `INSERT INTO stories (id, story, duration, images, audio_path, style, voice, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		story.ID, story.Story, story.Duration, string(images),
		story.AudioPath, story.Style, story.Voice,
		story.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetByID returns a story by ID, or nil if it does not exist
func (r *StoryRepository) GetByID(id string) (*models.Story, error) {
	query := `SELECT id, story, duration, images, audio_path, style, voice, created_at
		FROM stories WHERE id = ?`

	var s models.Story
	var images, createdAt string

	err := r.db.QueryRow(query, id).Scan(
		&s.ID, &s.Story, &s.Duration, &images,
		&s.AudioPath, &s.Style, &s.Voice, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &s.Images); err != nil {
		return nil, fmt.Errorf("failed to decode image list: %w", err)
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &s, nil
}

// Update stores the mutable fields of a story (image set, audio track,
// style and voice selections).
func (r *StoryRepository) Update(story *models.Story) error {
	images, err := json.Marshal(story.Images)
	if err != nil {
		return fmt.Errorf("failed to encode image list: %w", err)
	}

	query := `UPDATE stories SET images = ?, audio_path = ?, style = ?, voice = ? WHERE id = ?`
	_, err = r.db.Exec(query, string(images), story.AudioPath, story.Style, story.Voice, story.ID)
	return err
}
