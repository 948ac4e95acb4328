package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"storyreel/internal/models"
	"storyreel/internal/services"
	"storyreel/pkg/subtitle"
)

// ErrQueueFull is returned when the render queue cannot accept another
// request.
var ErrQueueFull = errors.New("render queue full")

// Request is one video assembly job handed to the pool.
type Request struct {
	VideoID string
	Story   models.Story
	Style   subtitle.Style
}

// Pool runs video assembly requests on a fixed set of workers consuming a
// buffered channel. The triggering call returns as soon as the request is
// queued; the Job Tracker is the source of truth for status from then on.
type Pool struct {
	requests  chan Request
	tracker   *services.Tracker
	processor *Processor
	log       zerolog.Logger

	wg   sync.WaitGroup
	quit chan struct{}
}

// NewPool creates a render pool with the given queue depth.
func NewPool(queueDepth int, tracker *services.Tracker, processor *Processor, log zerolog.Logger) *Pool {
	return &Pool{
		requests:  make(chan Request, queueDepth),
		tracker:   tracker,
		processor: processor,
		log:       log.With().Str("component", "worker").Logger(),
		quit:      make(chan struct{}),
	}
}

// Start launches count workers.
func (p *Pool) Start(count int) {
	for i := 0; i < count; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.log.Info().Int("workers", count).Msg("render pool started")
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case req := <-p.requests:
			// A run that has started is allowed to finish; shutdown only
			// stops the pickup of new work.
			p.log.Info().Int("worker", id).Str("video_id", req.VideoID).Msg("processing request")
			p.processor.Process(context.Background(), req)
		}
	}
}

// Submit registers the job and queues the request. Duplicate running jobs
// for the same video id are rejected; a full queue fails the job
// immediately so no orphaned running record is left behind.
func (p *Pool) Submit(req Request) (*models.Job, error) {
	job, err := p.tracker.Begin(req.VideoID, req.Story.ID)
	if err != nil {
		return nil, err
	}

	select {
	case p.requests <- req:
		return job, nil
	default:
		p.tracker.Fail(req.VideoID, "render queue full")
		return nil, ErrQueueFull
	}
}

// Stop signals the workers, waits for in-flight runs to finish, then
// fails any request still queued so no job is left running forever.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()

	for {
		select {
		case req := <-p.requests:
			p.log.Warn().Str("video_id", req.VideoID).Msg("request abandoned by shutdown")
			p.tracker.Fail(req.VideoID, "interrupted by server shutdown")
		default:
			p.log.Info().Msg("render pool stopped")
			return
		}
	}
}
