package worker

// Package worker runs blocking operations (downloads, audio transcoding) on a
// bounded pool. Every submission returns its own Job handle carrying an explicit
// lifecycle, a private progress snapshot and cooperative cancellation.
