package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type ProcessFunc[T any] func(ctx context.Context, job T) error

// Fanout runs process for every job with at most numWorkers in flight and waits for all
// of them. A failing job never cancels its siblings; errs[i] holds the error of jobs[i].
// A panicking job is reported as an error for that job only.
func Fanout[T any](ctx context.Context, numWorkers int, jobs []T, process ProcessFunc[T]) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var g errgroup.Group
	g.SetLimit(numWorkers)

	for i, job := range jobs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("job %d panicked: %v", i, r)
				}
			}()
			errs[i] = process(ctx, job)
			return nil
		})
	}

	_ = g.Wait()
	return errs
}

// Failed counts the non-nil entries of errs.
func Failed(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
