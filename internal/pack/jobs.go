package pack

import (
	"context"
	"errors"
	"time"

	"github.com/ytget/soundpack/internal/worker"
)

var errJobTimeout = errors.New("job did not finish in time")

// await polls job until it finishes, timeout elapses or ctx is done. onTick
// runs every poll interval with the tick number; a non-nil error from it
// cancels the job. Timed out and aborted jobs are cancelled.
func await(ctx context.Context, job *worker.Job, timeout, poll time.Duration, onTick func(tick int) error) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for tick := 0; ; {
		select {
		case <-job.Done():
			return job.Result()
		case <-ticker.C:
			if onTick == nil {
				continue
			}
			if err := onTick(tick); err != nil {
				job.Cancel()
				return "", err
			}
			tick++
		case <-deadline.C:
			job.Cancel()
			return "", errJobTimeout
		case <-ctx.Done():
			job.Cancel()
			return "", ctx.Err()
		}
	}
}
