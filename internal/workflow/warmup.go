package workflow

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/freight-agent/internal/resolve"
)

// Warmup primes the city and material listings through the same resolvers
// Run reads, so the first misspelled query is served from cache. Listings
// run concurrently and every failure is collected; one collection failing
// does not cancel the other.
func (o *Orchestrator) Warmup(ctx context.Context) error {
	resolvers := []*resolve.Resolver{o.cities, o.materials}
	errs := make([]error, len(resolvers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, r := range resolvers {
		g.Go(func() error {
			if err := r.Warm(gCtx); err != nil {
				errs[i] = fmt.Errorf("warm up %s: %w", r.Collection(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
