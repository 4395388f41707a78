package badges

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tourismcms/tourism-cms/internal/core/events"
	"github.com/tourismcms/tourism-cms/internal/navigation"
)

// BadgeJob asks one worker to recompute a single section's badge. A Count of
// zero with Clear unset writes an explicit zero badge; Clear removes the
// badge entirely.
type BadgeJob struct {
	SectionID string
	Count     int
	Clear     bool
}

// PendingCounter supplies the moderation queue depth per section. The
// content service implements it.
type PendingCounter interface {
	PendingCountBySection(ctx context.Context) (map[string]int64, error)
}

// BadgeWriter applies a computed badge to the navigation tree. The
// navigation service implements it.
type BadgeWriter interface {
	MergeBadge(ctx context.Context, itemID string, badge *navigation.Badge) (*navigation.Item, error)
	SectionExists(sectionID string) bool
}

type Worker struct {
	ID         int
	WorkerPool chan chan BadgeJob
	JobChannel chan BadgeJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan BadgeJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan BadgeJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(BadgeJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing badge job", "worker_id", w.ID, "section_id", job.SectionID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("badge worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	RefreshInterval time.Duration
	MaxWorkers      int
	JobQueueSize    int
}

// Refresher keeps moderation-queue badges on the sidebar current. It
// re-counts pending content on a timer and reacts immediately to workflow
// transitions published on the event bus.
type Refresher struct {
	counter  PendingCounter
	writer   BadgeWriter
	logger   *slog.Logger
	interval time.Duration

	jobQueue   chan BadgeJob
	workerPool chan chan BadgeJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	mu    sync.Mutex
	known map[string]bool
}

func NewRefresher(config Config, counter PendingCounter, writer BadgeWriter, bus *events.EventBus, logger *slog.Logger) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 64
	}

	interval := config.RefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}

	r := &Refresher{
		counter:  counter,
		writer:   writer,
		logger:   logger,
		interval: interval,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan BadgeJob, jobQueueSize),
		workerPool: make(chan chan BadgeJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
		known:      make(map[string]bool),
	}

	bus.Subscribe(events.EventTypeContentStatusChanged, r.onContentStatusChanged)

	return r
}

// Start spins up the worker pool, the dispatcher and the refresh ticker.
func (r *Refresher) Start() {
	r.once.Do(func() {
		for i := 0; i < r.maxWorkers; i++ {
			worker := NewWorker(i, r.workerPool, r.logger)
			worker.Start(r.ctx, &r.wg, r.processJob)
		}

		go r.dispatch()
		go r.tick()

		r.logger.Info("badge refresher started",
			"max_workers", r.maxWorkers,
			"interval", r.interval,
			"queue_size", cap(r.jobQueue))
	})
}

func (r *Refresher) dispatch() {
	r.wg.Add(1)
	defer r.wg.Done()

	for {
		select {
		case job := <-r.jobQueue:

			select {
			case jobChannel := <-r.workerPool:

				select {
				case jobChannel <- job:

				case <-r.ctx.Done():
					r.logger.Info("badge dispatcher shutting down")
					return
				}
			case <-r.ctx.Done():
				r.logger.Info("badge dispatcher shutting down")
				return
			}
		case <-r.ctx.Done():
			r.logger.Info("badge dispatcher shutting down")
			return
		}
	}
}

func (r *Refresher) tick() {
	r.wg.Add(1)
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.RefreshAll(r.ctx); err != nil {
		r.logger.Error("initial badge refresh failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := r.RefreshAll(r.ctx); err != nil {
				r.logger.Error("badge refresh failed", "error", err)
			}
		case <-r.ctx.Done():
			return
		}
	}
}

// RefreshAll re-counts every section's moderation queue and enqueues one job
// per section. Sections that had a badge but now count zero get a clear job.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	counts, err := r.counter.PendingCountBySection(ctx)
	if err != nil {
		return fmt.Errorf("count pending content: %w", err)
	}

	r.mu.Lock()
	jobs := make([]BadgeJob, 0, len(counts))
	for sectionID, count := range counts {
		jobs = append(jobs, BadgeJob{SectionID: sectionID, Count: int(count)})
		r.known[sectionID] = true
	}
	for sectionID := range r.known {
		if _, ok := counts[sectionID]; !ok {
			jobs = append(jobs, BadgeJob{SectionID: sectionID, Clear: true})
			delete(r.known, sectionID)
		}
	}
	r.mu.Unlock()

	for _, job := range jobs {
		r.enqueue(job)
	}
	return nil
}

func (r *Refresher) onContentStatusChanged(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.ContentStatusChangedEvent)
	if !ok {
		return nil
	}

	r.logger.Debug("content transition observed",
		"content_id", evt.ContentID,
		"section_id", evt.SectionID,
		"to", evt.ToStatus)

	// A single transition changes at most one section's queue depth; a full
	// recount keeps badges and queues consistent without tracking deltas.
	return r.RefreshAll(ctx)
}

func (r *Refresher) enqueue(job BadgeJob) {
	select {
	case r.jobQueue <- job:
	default:
		r.logger.Warn("badge job queue full, dropping job",
			"section_id", job.SectionID,
			"queue_capacity", cap(r.jobQueue))
	}
}

func (r *Refresher) processJob(job BadgeJob) {
	if !r.writer.SectionExists(job.SectionID) {
		r.logger.Warn("badge job for unknown section", "section_id", job.SectionID)
		return
	}

	var badge *navigation.Badge
	if !job.Clear {
		badge = &navigation.Badge{
			Count: job.Count,
			Type:  navigation.BadgeWarning,
		}
	}

	if _, err := r.writer.MergeBadge(r.ctx, job.SectionID, badge); err != nil {
		r.logger.Error("failed to apply badge",
			"error", err,
			"section_id", job.SectionID,
			"count", job.Count,
			"clear", job.Clear)
		return
	}

	r.logger.Debug("badge applied", "section_id", job.SectionID, "count", job.Count, "clear", job.Clear)
}

func (r *Refresher) Shutdown() {
	r.logger.Info("shutting down badge refresher")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("badge refresher shutdown complete")
}
