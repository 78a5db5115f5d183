package model

// JobStatus represents the lifecycle of a background job
type JobStatus string

const (
	// JobStatusPending means the job is queued and waiting for a worker slot
	JobStatusPending JobStatus = "Pending"

	// JobStatusRunning means the job holds a worker slot and is executing
	JobStatusRunning JobStatus = "Running"

	// JobStatusCancelled means the job was cancelled before or while running
	JobStatusCancelled JobStatus = "Cancelled"

	// JobStatusDone means the job finished successfully
	JobStatusDone JobStatus = "Done"

	// JobStatusFailed means the job returned an error
	JobStatusFailed JobStatus = "Failed"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job has not reached a terminal state
func (js JobStatus) IsActive() bool {
	return js == JobStatusPending || js == JobStatusRunning
}

// IsFinished returns true if the job is done, failed or cancelled
func (js JobStatus) IsFinished() bool {
	return js == JobStatusDone || js == JobStatusFailed || js == JobStatusCancelled
}

// Download phases reported by the extraction backend
const (
	PhaseStarting       = "starting"
	PhaseDownloading    = "downloading"
	PhasePostProcessing = "post_processing"
	PhaseFinished       = "finished"
	PhaseError          = "error"
)
