package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of a job run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of background work run on a cron schedule
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunRecorder persists job run history
type RunRecorder interface {
	RecordStart(ctx context.Context, jobName string) (string, error)
	RecordComplete(ctx context.Context, runID string, runErr error) error
}

// Config holds scheduler configuration
type Config struct {
	Enabled       bool
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	Location      *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		JobTimeout:    30 * time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Minute,
		Location:      time.UTC,
	}
}

// JobInfo describes a registered job
type JobInfo struct {
	Name       string     `json:"name"`
	Schedule   string     `json:"schedule"`
	Running    bool       `json:"running"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastStatus JobStatus  `json:"last_status,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
}

type entry struct {
	job      Job
	schedule string
	id       cron.EntryID
	running  atomic.Bool

	mu         sync.Mutex
	lastRunAt  *time.Time
	lastStatus JobStatus
	lastError  string
}

// CronScheduler runs registered jobs on cron expressions. A job never
// overlaps itself: a tick that fires while the previous run is still in
// progress is skipped.
type CronScheduler struct {
	config   Config
	recorder RunRecorder
	logger   *zap.Logger
	cron     *cron.Cron

	entries map[string]*entry

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronScheduler creates a scheduler; recorder may be nil
func NewCronScheduler(config Config, recorder RunRecorder, logger *zap.Logger) *CronScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	cronLog := cronLogger{logger: logger.Sugar()}
	return &CronScheduler{
		config:   config,
		recorder: recorder,
		logger:   logger,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		entries: make(map[string]*entry),
	}
}

// Register schedules job on a standard five-field cron expression
func (s *CronScheduler) Register(schedule string, job Job) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, job.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[job.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, job.Name())
	}
	e := &entry{job: job, schedule: schedule}
	id, err := s.cron.AddFunc(schedule, func() { s.tick(e) })
	if err != nil {
		return err
	}
	e.id = id
	s.entries[job.Name()] = e

	s.logger.Info("Scheduled job registered",
		zap.String("job", job.Name()),
		zap.String("schedule", schedule),
	)
	return nil
}

// Start starts the cron loop
func (s *CronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("Job scheduler disabled", zap.Int("jobs", len(s.entries)))
		return nil
	}
	s.isRunning = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()

	s.logger.Info("Job scheduler started",
		zap.Int("jobs", len(s.entries)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop stops scheduling and lets in-flight runs finish, retries included.
// When ctx expires first the runs are cancelled and ctx.Err() is returned.
func (s *CronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("Job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.cancel()
		s.logger.Warn("Job scheduler stop timed out, cancelling running jobs")
		return ctx.Err()
	}
}

// Trigger starts a run of the named job outside its schedule
func (s *CronScheduler) Trigger(name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	e, ok := s.entries[name]
	ctx := s.ctx
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrJobAlreadyRunning
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer e.running.Store(false)
		s.execute(ctx, e)
	}()
	return nil
}

// Jobs returns the registered jobs and their last outcome
func (s *CronScheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.entries))
	for name, e := range s.entries {
		info := JobInfo{Name: name, Schedule: e.schedule, Running: e.running.Load()}
		e.mu.Lock()
		info.LastRunAt = e.lastRunAt
		info.LastStatus = e.lastStatus
		info.LastError = e.lastError
		e.mu.Unlock()
		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			info.NextRunAt = &next
		}
		infos = append(infos, info)
	}
	return infos
}

func (s *CronScheduler) tick(e *entry) {
	if !e.running.CompareAndSwap(false, true) {
		s.logger.Warn("Skipping job run, previous run still in progress", zap.String("job", e.job.Name()))
		return
	}
	defer e.running.Store(false)

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}
	s.execute(ctx, e)
}

// execute runs the job with per-attempt timeout and bounded retries
func (s *CronScheduler) execute(ctx context.Context, e *entry) {
	name := e.job.Name()
	startedAt := time.Now()
	e.mu.Lock()
	e.lastRunAt = &startedAt
	e.lastStatus = JobStatusRunning
	e.lastError = ""
	e.mu.Unlock()

	runID := s.recordStart(ctx, name)
	s.logger.Info("Job started", zap.String("job", name))

	var err error
	for attempt := 0; ; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		err = e.job.Run(jobCtx)
		cancel()
		if err == nil || attempt >= s.config.RetryAttempts {
			break
		}
		s.logger.Warn("Job failed, retrying",
			zap.String("job", name),
			zap.Int("attempt", attempt+1),
			zap.Duration("retry_delay", s.config.RetryDelay),
			zap.Error(err),
		)
		if !waitRetry(ctx, s.config.RetryDelay) {
			break
		}
	}

	e.mu.Lock()
	if err != nil {
		e.lastStatus = JobStatusFailed
		e.lastError = err.Error()
	} else {
		e.lastStatus = JobStatusSuccess
	}
	e.mu.Unlock()

	s.recordComplete(ctx, runID, err)
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(startedAt)),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Job completed successfully",
		zap.String("job", name),
		zap.Duration("duration", time.Since(startedAt)),
	)
}

// waitRetry sleeps for delay and reports false when ctx is cancelled first
func waitRetry(ctx context.Context, delay time.Duration) bool {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *CronScheduler) recordStart(ctx context.Context, name string) string {
	if s.recorder == nil {
		return ""
	}
	runID, err := s.recorder.RecordStart(ctx, name)
	if err != nil {
		s.logger.Warn("Failed to record job start", zap.String("job", name), zap.Error(err))
		return ""
	}
	return runID
}

func (s *CronScheduler) recordComplete(ctx context.Context, runID string, runErr error) {
	if s.recorder == nil || runID == "" {
		return
	}
	if err := s.recorder.RecordComplete(context.WithoutCancel(ctx), runID, runErr); err != nil {
		s.logger.Warn("Failed to record job completion", zap.String("run_id", runID), zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
