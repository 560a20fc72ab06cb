package batch

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/report"
)

// DefaultWorkers returns the number of physical CPU cores, or 1 if it cannot
// be determined.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Run processes every sample and adds its outcome to rep.
//
// Up to workers samples are processed at once; workers < 1 means
// DefaultWorkers. Per-zone and per-map failures never stop the run; only a
// cancelled context does, in which case samples not yet started are skipped
// and the context error is returned. Everything finished before cancellation
// is already in rep.
func Run(ctx context.Context, p *Processor, samples []MapSample, workers int, rep *report.Report) error {
	if workers < 1 {
		workers = DefaultWorkers()
	}
	if workers > len(samples) && len(samples) > 0 {
		workers = len(samples)
	}

	logger().Info().Int("maps", len(samples)).Int("workers", workers).Msg("starting detection")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, s := range samples {
		if gctx.Err() != nil {
			break
		}
		s := s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, failures := p.ProcessMap(s)
			rep.Add(s.ID(), result, failures)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
