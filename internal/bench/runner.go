package bench

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alanceloth/datagen/pkg/logger"
)

// Runner executes jobs on a pool of Workers goroutines.
type Runner struct {
	workers int
	log     zerolog.Logger
}

// NewRunner creates a Runner. Fewer than one worker means one.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		workers: workers,
		log:     logger.Component("bench"),
	}
}

func (r *Runner) Workers() int {
	return r.workers
}

// Run executes every job and returns one Result per job in completion
// order. A failing or panicking job does not stop the others. Jobs picked
// up after ctx ended are not run and carry ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}
	runID := uuid.NewString()
	r.log.Info().Str("run_id", runID).Int("jobs", len(jobs)).Int("workers", r.workers).Msg("starting benchmark run")

	jobChan := make(chan Job, len(jobs))
	resultChan := make(chan Result, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				res := r.execute(ctx, job)
				res.RunID = runID
				if res.Err != nil {
					r.log.Error().Err(res.Err).Int("worker", workerID).Str("job", job.Label).Dur("duration", res.Duration).Msg("job failed")
				} else {
					r.log.Info().Int("worker", workerID).Str("job", job.Label).Dur("duration", res.Duration).Msg("job completed")
				}
				resultChan <- res
			}
		}(i)
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	wg.Wait()
	close(resultChan)

	results := make([]Result, 0, len(jobs))
	for res := range resultChan {
		results = append(results, res)
	}
	r.log.Info().Str("run_id", runID).Int("results", len(results)).Msg("benchmark run finished")
	return results
}

func (r *Runner) execute(ctx context.Context, job Job) (res Result) {
	res.Label = job.Label
	res.StartedAt = time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("job", job.Label).Bytes("stack", debug.Stack()).Msg("job panicked")
			res.Err = fmt.Errorf("job %s panicked: %v", job.Label, p)
		}
		res.CompletedAt = time.Now()
		res.Duration = res.CompletedAt.Sub(res.StartedAt)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if job.Run == nil {
		res.Err = fmt.Errorf("job %s has nothing to run", job.Label)
		return res
	}
	res.Output, res.Err = job.Run(ctx)
	return res
}
