package cron

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc is the body of a periodic job.
type JobFunc func(ctx context.Context) error

// JobStats describes how a job has behaved since the scheduler was created.
type JobStats struct {
	Name      string
	Interval  time.Duration
	Runs      int
	Failures  int
	LastRun   time.Time
	LastError string
}

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc

	mu    sync.Mutex
	stats JobStats
}

func (j *job) record(at time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stats.Runs++
	j.stats.LastRun = at
	j.stats.LastError = ""
	if err != nil {
		j.stats.Failures++
		j.stats.LastError = err.Error()
	}
}

func (j *job) snapshot() JobStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

// Scheduler runs each registered job on its own ticker. Every job runs once
// as soon as the scheduler starts.
type Scheduler struct {
	logger *zap.Logger

	mu     sync.Mutex
	jobs   []*job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger.Named("cron")}
}

// AddJob registers fn under name. A non-positive interval disables the job.
// Jobs added after Start are not picked up.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	if interval <= 0 {
		s.logger.Warn("Cron job disabled", zap.String("name", name), zap.Duration("interval", interval))
		return
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, &job{
		name:     name,
		interval: interval,
		fn:       fn,
		stats:    JobStats{Name: name, Interval: interval},
	})
	s.mu.Unlock()

	s.logger.Info("Cron job registered", zap.String("name", name), zap.Duration("interval", interval))
}

// Start launches the jobs. They stop when ctx is cancelled or Stop is called.
// Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}

	s.logger.Info("Cron scheduler started", zap.Int("job_count", len(s.jobs)))
}

// Stop cancels all jobs and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("Cron scheduler stopped")
}

// RunOnce runs every job a single time in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]*job(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		s.run(ctx, j)
	}
}

// Stats returns a snapshot per job, sorted by name.
func (s *Scheduler) Stats() []JobStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStats, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.snapshot())
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	s.run(ctx, j)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cron job stopping", zap.String("name", j.name))
			return
		case <-ticker.C:
			s.run(ctx, j)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j *job) {
	start := time.Now()
	err := j.fn(ctx)
	j.record(start, err)

	fields := []zap.Field{zap.String("name", j.name), zap.Duration("duration", time.Since(start))}
	if err != nil {
		s.logger.Error("Cron job failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("Cron job completed", fields...)
}
