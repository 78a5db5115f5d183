package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/ytget/soundpack/internal/model"
)

// Pool defaults
const (
	DefaultSize      = 4
	DefaultRetention = 10 * time.Minute
	JobIDPrefix      = "job-"
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("worker pool is closed")

// Pool runs jobs with at most size of them executing at once
type Pool struct {
	sem       *semaphore.Weighted
	size      int
	retention time.Duration
	log       logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[string]*Job
	closed bool
}

// NewPool creates a pool with the given number of slots
func NewPool(size int, log logrus.FieldLogger) *Pool {
	if size < 1 {
		size = DefaultSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		sem:       semaphore.NewWeighted(int64(size)),
		size:      size,
		retention: DefaultRetention,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]*Job),
	}
}

// Size returns the number of slots
func (p *Pool) Size() int {
	return p.size
}

// SetRetention sets how long finished jobs stay listed
func (p *Pool) SetRetention(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retention = d
}

// Submit queues fn and returns its handle immediately
func (p *Pool) Submit(kind string, fn Func) (*Job, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	p.pruneLocked()

	ctx, cancel := context.WithCancel(p.ctx)
	job := &Job{
		ID:          generateJobID(),
		Kind:        kind,
		status:      model.JobStatusPending,
		submittedAt: time.Now(),
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	p.jobs[job.ID] = job

	p.wg.Add(1)
	go p.run(ctx, job, fn)

	return job, nil
}

// Get returns a job by ID
func (p *Pool) Get(id string) (*Job, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	job, exists := p.jobs[id]
	return job, exists
}

// Jobs returns snapshots of all listed jobs, oldest first
func (p *Pool) Jobs() []Info {
	p.mu.RLock()
	infos := make([]Info, 0, len(p.jobs))
	for _, job := range p.jobs {
		infos = append(infos, job.Info())
	}
	p.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SubmittedAt.Before(infos[j].SubmittedAt)
	})
	return infos
}

// Close cancels every job and waits for the running ones to return
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, job *Job, fn Func) {
	defer p.wg.Done()
	defer job.cancel()

	log := p.log.WithFields(logrus.Fields{"job": job.ID, "kind": job.Kind})

	if err := p.sem.Acquire(ctx, 1); err != nil {
		log.Debug("Job cancelled before it started")
		job.finish(model.JobStatusCancelled, "", err)
		return
	}
	defer p.sem.Release(1)

	if ctx.Err() != nil || !job.start() {
		job.finish(model.JobStatusCancelled, "", context.Canceled)
		return
	}
	log.Debug("Job started")

	output, err := p.call(ctx, fn, job)

	switch {
	case ctx.Err() != nil:
		log.Debug("Job cancelled")
		job.finish(model.JobStatusCancelled, output, ctx.Err())
	case err != nil:
		log.WithError(err).Debug("Job failed")
		job.finish(model.JobStatusFailed, output, err)
	default:
		log.Debug("Job done")
		job.finish(model.JobStatusDone, output, nil)
	}
}

// call runs fn, turning a panic into a job failure so one bad job cannot take
// the process down
func (p *Pool) call(ctx context.Context, fn Func, job *Job) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(ctx, job.report)
}

func (p *Pool) pruneLocked() {
	cutoff := time.Now().Add(-p.retention)
	for id, job := range p.jobs {
		info := job.Info()
		if info.Status.IsFinished() && info.FinishedAt.Before(cutoff) {
			delete(p.jobs, id)
		}
	}
}

// generateJobID generates a unique job ID using UUID v7 for time ordering
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
