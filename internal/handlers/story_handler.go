package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storyreel/internal/database"
	"storyreel/internal/models"
)

// StoryHandler registers and serves finalized upstream stories.
type StoryHandler struct {
	repo *database.StoryRepository
	log  zerolog.Logger
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(repo *database.StoryRepository, log zerolog.Logger) *StoryHandler {
	return &StoryHandler{repo: repo, log: log.With().Str("handler", "story").Logger()}
}

type createStoryRequest struct {
	Story     string   `json:"story" binding:"required"`
	Duration  string   `json:"duration" binding:"required"`
	Images    []string `json:"images"`
	AudioPath string   `json:"audio_path"`
	Style     string   `json:"style"`
	Voice     string   `json:"voice"`
}

// Create registers a finalized story: its text, duration bucket, ordered
// scene images and narration audio.
func (h *StoryHandler) Create(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	want, ok := models.ImageCountFor(req.Duration)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid duration bucket %q", req.Duration)})
		return
	}
	if len(req.Images) > 0 && len(req.Images) != want {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("duration bucket %s requires %d images, got %d", req.Duration, want, len(req.Images)),
		})
		return
	}

	story := &models.Story{
		ID:        uuid.New().String(),
		Story:     req.Story,
		Duration:  req.Duration,
		Images:    req.Images,
		AudioPath: req.AudioPath,
		Style:     req.Style,
		Voice:     req.Voice,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(story); err != nil {
		h.log.Error().Err(err).Msg("failed to create story")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, story)
}

type attachMediaRequest struct {
	Images    []string `json:"images"`
	AudioPath string   `json:"audio_path"`
	Style     string   `json:"style"`
	Voice     string   `json:"voice"`
}

// AttachMedia records generated scene images and narration audio for a
// registered story once upstream generation finishes. Only supplied
// fields are replaced.
func (h *StoryHandler) AttachMedia(c *gin.Context) {
	var req attachMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	if len(req.Images) > 0 {
		want, _ := models.ImageCountFor(story.Duration)
		if len(req.Images) != want {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("duration bucket %s requires %d images, got %d", story.Duration, want, len(req.Images)),
			})
			return
		}
		story.Images = req.Images
	}
	if req.AudioPath != "" {
		story.AudioPath = req.AudioPath
	}
	if req.Style != "" {
		story.Style = req.Style
	}
	if req.Voice != "" {
		story.Voice = req.Voice
	}

	if err := h.repo.Update(story); err != nil {
		h.log.Error().Err(err).Str("story_id", story.ID).Msg("failed to update story media")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, story)
}

// GetByID returns a registered story
func (h *StoryHandler) GetByID(c *gin.Context) {
	story, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if story == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}

	c.JSON(http.StatusOK, story)
}
