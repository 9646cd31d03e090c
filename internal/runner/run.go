package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pagecrit/pagecrit/internal/cache"
	"github.com/pagecrit/pagecrit/internal/models"
)

// CachingProducer wraps a Producer with a result cache. Hits are marked
// Cached on their evaluations; misses are produced and stored.
type CachingProducer struct {
	Inner Producer
	Cache *cache.Cache
}

func (c *CachingProducer) Produce(ctx context.Context, req Request) ([]models.PersonaExperience, error) {
	key, err := cache.Key(req.URL, req.Personas, req.Options.toMap())
	if err != nil {
		return nil, err
	}

	if experiences, ok := c.Cache.Get(key); ok {
		for i := range experiences {
			if experiences[i].Evaluation != nil {
				experiences[i].Evaluation.Cached = true
			}
		}
		return experiences, nil
	}

	experiences, err := c.Inner.Produce(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Put(key, experiences); err != nil {
		return nil, err
	}
	return experiences, nil
}

// RunAll produces experiences for every request over a bounded worker pool.
// Output order matches input order. The first failure cancels the rest.
func RunAll(ctx context.Context, producer Producer, requests []Request, workers int) ([][]models.PersonaExperience, error) {
	if workers <= 0 {
		workers = 4
	}

	results := make([][]models.PersonaExperience, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range requests {
		g.Go(func() error {
			experiences, err := producer.Produce(ctx, req)
			if err != nil {
				return err
			}
			results[i] = experiences
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
