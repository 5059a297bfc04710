package well

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"geowell/fluid"
	"geowell/formation"
)

// Job is one independent solve of a batch
type Job struct {
	ID       string
	Geometry Geometry
	State    InitialState
	Params   Parameters
}

// Result of one Job; Err holds the error of that job only
type Result struct {
	ID       string
	Solution *Solution
	Err      error
}

// SolveAll solves jobs on at most workers goroutines (GOMAXPROCS when workers < 1)
// and returns the results in job order. A failing job does not stop the others;
// a cancelled context stops the dispatch and marks the remaining jobs with its error.
func SolveAll(ctx context.Context, store formation.Store, oracle fluid.Oracle, jobs []Job, workers int, opts ...Option) ([]Result, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	results := make([]Result, len(jobs))
	for i := range jobs {
		results[i].ID = jobs[i].ID
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = err
			}
			break
		}
		i := i // per-iteration copy: module targets go 1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			job := jobs[i]
			solver, err := NewSolver(store, oracle, job.Geometry, job.State, job.Params, opts...)
			if err == nil {
				results[i].Solution, err = solver.ComputeSolution()
			}
			results[i].Err = err
			return nil
		})
	}
	// job errors go to the results, the workers never fail the group
	_ = g.Wait()

	log.WithFields(log.Fields{
		"jobs":    len(jobs),
		"workers": workers,
		"cost":    time.Since(start),
	}).Debug("batch solved")
	return results, ctx.Err()
}
