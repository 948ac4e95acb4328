package models

import "time"

// Duration buckets supported for generated videos. The bucket controls how
// many scene images a story is illustrated with.
const (
	Duration30to60  = "30-60"
	Duration60to90  = "60-90"
	Duration90to120 = "90-120"
)

// ImageCountFor returns the scene image count for a duration bucket.
func ImageCountFor(bucket string) (int, bool) {
	switch bucket {
	case Duration30to60:
		return 6, true
	case Duration60to90:
		return 10, true
	case Duration90to120:
		return 15, true
	}
	return 0, false
}

// Story is a finalized upstream story: the text, its duration bucket, the
// ordered scene images, and the narration audio file.
type Story struct {
	ID        string    `json:"id" db:"id"`
	Story     string    `json:"story" db:"story"`
	Duration  string    `json:"duration" db:"duration"`
	Images    []string  `json:"images" db:"images"`
	AudioPath string    `json:"audio_path" db:"audio_path"`
	Style     string    `json:"style,omitempty" db:"style"`
	Voice     string    `json:"voice,omitempty" db:"voice"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Video is a finished video asset. A record exists only after the encoder
// has written the final file.
type Video struct {
	ID        string    `json:"id" db:"id"`
	StoryID   string    `json:"story_id" db:"story_id"`
	Title     string    `json:"title" db:"title"`
	Duration  string    `json:"duration" db:"duration"`
	VideoPath string    `json:"video_path" db:"video_path"`
	VideoURL  string    `json:"video_url" db:"video_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Job tracks one in-flight assembly run, keyed by the video id it will
// produce. Successful runs delete their job record; failed runs keep it
// with a frozen progress value and an error message.
type Job struct {
	VideoID      string    `json:"video_id" db:"video_id"`
	StoryID      string    `json:"story_id" db:"story_id"`
	Status       string    `json:"status" db:"status"`
	Progress     int       `json:"progress" db:"progress"`
	ErrorMessage string    `json:"error_message,omitempty" db:"error_message"`
	StartedAt    time.Time `json:"started_at" db:"started_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Job status constants
const (
	StatusRunning = "running"
	StatusFailed  = "failed"
)

// Poll status values reported to clients querying a video id.
const (
	PollCompleted = "completed"
	PollRunning   = "running"
	PollFailed    = "failed"
	PollNotFound  = "not_found"
)

// StatusReport is the answer to a video status poll.
type StatusReport struct {
	Status   string `json:"status"`
	Progress int    `json:"progress,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}
