package tabulate

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunBatch counts independent jobs concurrently, at most limit at a time
// (limit <= 0 means no cap). Each job runs on a private copy of its ballots,
// so jobs may share input. The first failure cancels the remaining jobs and
// is returned; outcomes keep the order of jobs.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, limit int) ([]*Outcome, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	r.logger.Debug("batch started", zap.Int("jobs", len(jobs)), zap.Int("limit", limit))

	outcomes := make([]*Outcome, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		job.Ballots = job.Ballots.Clone()
		job.Parties = slices.Clone(job.Parties)

		g.Go(func() error {
			out, err := r.Run(ctx, job)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
