package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storyreel/internal/database"
	"storyreel/internal/services"
	"storyreel/internal/worker"
	"storyreel/pkg/subtitle"
)

// VideoHandler triggers video assembly runs and serves asset records.
type VideoHandler struct {
	stories *database.StoryRepository
	videos  *database.VideoRepository
	tracker *services.Tracker
	pool    *worker.Pool
	log     zerolog.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(
	stories *database.StoryRepository,
	videos *database.VideoRepository,
	tracker *services.Tracker,
	pool *worker.Pool,
	log zerolog.Logger,
) *VideoHandler {
	return &VideoHandler{
		stories: stories,
		videos:  videos,
		tracker: tracker,
		pool:    pool,
		log:     log.With().Str("handler", "video").Logger(),
	}
}

type generateVideoRequest struct {
	StoryID   string         `json:"story_id" binding:"required"`
	Subtitles subtitle.Style `json:"subtitle_customization"`
}

// Generate validates the story's inputs and queues an assembly run. The
// call returns immediately with the video id; progress is polled through
// Status.
func (h *VideoHandler) Generate(c *gin.Context) {
	var req generateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Subtitles.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.stories.GetByID(req.StoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	// Input errors are rejected here, before any job exists or any
	// encoder work starts.
	if len(story.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images available for this story"})
		return
	}
	if story.AudioPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio available for this story"})
		return
	}
	if strings.TrimSpace(story.Story) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Story text is empty"})
		return
	}

	videoID := uuid.New().String()
	_, err = h.pool.Submit(worker.Request{
		VideoID: videoID,
		Story:   *story,
		Style:   req.Subtitles,
	})
	switch {
	case errors.Is(err, services.ErrJobAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, worker.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":  "Video generation started",
		"video_id": videoID,
		"story_id": story.ID,
	})
}

// Status reports the poll contract for a video id: completed with the
// asset location, running or failed with progress, or not_found.
func (h *VideoHandler) Status(c *gin.Context) {
	report, err := h.tracker.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAll returns all finished video assets
func (h *VideoHandler) GetAll(c *gin.Context) {
	videos, err := h.videos.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, videos)
}

// GetByID returns a single video asset
func (h *VideoHandler) GetByID(c *gin.Context) {
	video, err := h.videos.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if video == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// Delete removes a video asset and its file
func (h *VideoHandler) Delete(c *gin.Context) {
	video, err := h.videos.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if video == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	if err := os.Remove(video.VideoPath); err != nil && !os.IsNotExist(err) {
		h.log.Warn().Err(err).Str("video_id", video.ID).Msg("failed to remove video file")
	}
	if err := h.videos.Delete(video.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
