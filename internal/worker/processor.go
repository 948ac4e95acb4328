package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"storyreel/config"
	"storyreel/internal/database"
	"storyreel/internal/models"
	"storyreel/internal/services"
	"storyreel/pkg/audio"
	"storyreel/pkg/logger"
	"storyreel/pkg/segment"
	"storyreel/pkg/subtitle"
	"storyreel/pkg/timeline"
	"storyreel/pkg/video"
)

// progressSampleInterval bounds how often frame rendering writes progress:
// at most one update per this many frames.
const progressSampleInterval = 3

// Processor executes one video assembly run end to end: probe, segment,
// frame rendering, slideshow, mux, asset persistence. All failures land in
// the job record; nothing is raised to the caller that triggered the run.
type Processor struct {
	cfg     *config.Config
	tracker *services.Tracker
	videos  *database.VideoRepository
	prober  *audio.Prober
	encoder *video.Encoder
	log     zerolog.Logger
}

// NewProcessor creates a processor wired to the external tools from the
// configuration.
func NewProcessor(cfg *config.Config, tracker *services.Tracker, videos *database.VideoRepository, log zerolog.Logger) *Processor {
	return &Processor{
		cfg:     cfg,
		tracker: tracker,
		videos:  videos,
		prober:  audio.NewProber(cfg.FFprobeBinary),
		encoder: video.NewEncoder(cfg.FFmpegBinary),
		log:     log.With().Str("component", "processor").Logger(),
	}
}

// Process runs the pipeline for one request and records the outcome in
// the Job Tracker.
func (p *Processor) Process(ctx context.Context, req Request) {
	runLog, err := logger.NewRunLogger(p.cfg.LogsPath, req.VideoID)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to create run log, continuing without it")
		runLog = nil
	}

	if err := p.run(ctx, req, runLog); err != nil {
		p.log.Error().Err(err).Str("video_id", req.VideoID).Msg("pipeline failed")
		p.tracker.Fail(req.VideoID, err.Error())
		if runLog != nil {
			runLog.Error("%v", err)
			runLog.Close(false, err.Error())
		}
		return
	}

	p.log.Info().Str("video_id", req.VideoID).Msg("pipeline completed")
	if runLog != nil {
		runLog.Close(true, "all phases completed")
	}
}

func (p *Processor) run(ctx context.Context, req Request, runLog *logger.RunLogger) error {
	story := req.Story
	imageCount := len(story.Images)

	if runLog != nil {
		runLog.Property("Story ID", story.ID)
		runLog.Property("Duration bucket", story.Duration)
		runLog.Property("Image count", imageCount)
	}

	// Scoped workspace: every intermediate file lives here and is removed
	// on every exit path. Only the final video file outlives the run.
	workDir, err := os.MkdirTemp("", "storyreel-"+req.VideoID+"-")
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	if runLog != nil {
		runLog.Phase("Audio probe")
	}
	audioDuration, err := p.prober.Duration(ctx, story.AudioPath)
	if err != nil {
		return fmt.Errorf("audio probe failed: %w", err)
	}
	p.tracker.SetProgress(req.VideoID, 10)
	if runLog != nil {
		runLog.Property("Audio duration", fmt.Sprintf("%.2fs", audioDuration))
	}

	perFrame, err := timeline.PerFrame(audioDuration, imageCount)
	if err != nil {
		return fmt.Errorf("timeline computation failed: %w", err)
	}

	if runLog != nil {
		runLog.Phase("Segmentation")
	}
	segments, err := segment.Split(story.Story, imageCount)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}
	if len(segments) != imageCount {
		// The segmenter's post-condition guarantees this never happens;
		// fail loudly rather than truncate the visual sequence.
		return fmt.Errorf("internal invariant violated: %d segments for %d images", len(segments), imageCount)
	}

	if runLog != nil {
		runLog.Phase("Frame rendering")
	}
	face := subtitle.ResolveFace(req.Style.Font, p.cfg.FontsPath)
	frames := make([]video.TimedFrame, 0, imageCount)
	for i, imagePath := range story.Images {
		if i%progressSampleInterval == 0 {
			progress := 10 + int(float64(i)/float64(imageCount)*40)
			p.tracker.SetProgress(req.VideoID, progress)
		}

		framePath := filepath.Join(workDir, fmt.Sprintf("frame_%03d.png", i))
		if err := subtitle.Render(imagePath, segments[i], req.Style, face, framePath); err != nil {
			return fmt.Errorf("frame %d render failed: %w", i, err)
		}
		frames = append(frames, video.TimedFrame{Path: framePath, Duration: perFrame})
	}
	p.tracker.SetProgress(req.VideoID, 50)
	if runLog != nil {
		runLog.Info("rendered %d frames at %.2fs each", len(frames), perFrame)
	}

	if runLog != nil {
		runLog.Phase("Slideshow")
	}
	slideshowPath := filepath.Join(workDir, "slideshow.mp4")
	if err := p.encoder.BuildSlideshow(ctx, frames, workDir, slideshowPath); err != nil {
		return err
	}

	p.tracker.SetProgress(req.VideoID, 90)
	if runLog != nil {
		runLog.Phase("Mux")
	}
	muxedPath := filepath.Join(workDir, "final.mp4")
	if err := p.encoder.Mux(ctx, slideshowPath, story.AudioPath, muxedPath); err != nil {
		return err
	}

	finalPath := filepath.Join(p.cfg.VideosPath, req.VideoID+".mp4")
	if err := moveFile(muxedPath, finalPath); err != nil {
		return fmt.Errorf("failed to move final video: %w", err)
	}

	asset := &models.Video{
		ID:        req.VideoID,
		StoryID:   story.ID,
		Title:     "Video from " + story.ID,
		Duration:  story.Duration,
		VideoPath: finalPath,
		VideoURL:  "/api/v1/media/videos/" + req.VideoID + ".mp4",
		CreatedAt: time.Now(),
	}
	if err := p.videos.Create(asset); err != nil {
		os.Remove(finalPath)
		return fmt.Errorf("failed to persist video record: %w", err)
	}

	if err := p.tracker.Complete(req.VideoID); err != nil {
		// The asset exists, so pollers already see completed; the stale
		// job row only costs a redundant lookup.
		p.log.Warn().Err(err).Str("video_id", req.VideoID).Msg("failed to delete job record")
	}
	return nil
}

// moveFile renames src to dst, copying when the rename crosses devices
// (the workspace usually lives on tmpfs).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
