package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ytget/soundpack/internal/model"
)

// Func is the work run by a job. It reports progress through report and returns
// the path of the file it produced.
type Func func(ctx context.Context, report func(model.Progress)) (string, error)

// Job is the handle of one submitted piece of work
type Job struct {
	ID   string
	Kind string

	mu          sync.RWMutex
	status      model.JobStatus
	progress    model.Progress
	output      string
	err         error
	submittedAt time.Time
	startedAt   time.Time
	finishedAt  time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// Info is a read-only snapshot of a job for operators
type Info struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Status      model.JobStatus `json:"status"`
	Phase       string          `json:"phase,omitempty"`
	Percent     float64         `json:"percent"`
	Error       string          `json:"error,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	StartedAt   time.Time       `json:"started_at,omitzero"`
	FinishedAt  time.Time       `json:"finished_at,omitzero"`
}

// Status returns the current lifecycle state
func (j *Job) Status() model.JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Progress returns the latest progress snapshot
func (j *Job) Progress() model.Progress {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.progress
}

// Result returns the produced path and the job error. Only meaningful once Done
// is closed.
func (j *Job) Result() (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.output, j.err
}

// Done is closed when the job reaches a terminal state
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel asks the job to stop. A job that has not started yet never runs.
func (j *Job) Cancel() {
	j.cancel()
}

// Elapsed returns how long the job has been running, or ran
func (j *Job) Elapsed() time.Duration {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.startedAt.IsZero() {
		return 0
	}
	if j.finishedAt.IsZero() {
		return time.Since(j.startedAt)
	}
	return j.finishedAt.Sub(j.startedAt)
}

// Info returns a snapshot of the job
func (j *Job) Info() Info {
	j.mu.RLock()
	defer j.mu.RUnlock()
	info := Info{
		ID:          j.ID,
		Kind:        j.Kind,
		Status:      j.status,
		Phase:       j.progress.Phase,
		Percent:     j.progress.Percent,
		SubmittedAt: j.submittedAt,
		StartedAt:   j.startedAt,
		FinishedAt:  j.finishedAt,
	}
	if j.err != nil {
		info.Error = j.err.Error()
	}
	return info
}

func (j *Job) report(p model.Progress) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.IsFinished() {
		return
	}
	j.progress = p
}

func (j *Job) start() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != model.JobStatusPending {
		return false
	}
	j.status = model.JobStatusRunning
	j.startedAt = time.Now()
	return true
}

func (j *Job) finish(status model.JobStatus, output string, err error) {
	j.mu.Lock()
	if j.status.IsFinished() {
		j.mu.Unlock()
		return
	}
	j.status = status
	j.output = output
	j.err = err
	j.finishedAt = time.Now()
	j.mu.Unlock()

	close(j.done)
}
