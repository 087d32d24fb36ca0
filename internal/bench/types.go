// Package bench runs independent dataset generation jobs on a fixed-size
// worker pool and reports how long each one took.
package bench

import (
	"context"
	"time"
)

// Job is one unit of work. Run returns the job's textual output.
type Job struct {
	Label string
	Run   func(ctx context.Context) (string, error)
}

// Status represents the final state of a job.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result is reported for every submitted job.
type Result struct {
	RunID       string        `json:"run_id"`
	Label       string        `json:"label"`
	Duration    time.Duration `json:"duration"`
	Output      string        `json:"output"`
	Err         error         `json:"-"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

func (r Result) Status() Status {
	if r.Err != nil {
		return StatusFailed
	}
	return StatusCompleted
}

// ErrorMessage returns the error text, or "" for a successful job.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
