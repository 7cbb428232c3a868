package resource

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Update pairs an identifier with the body that replaces the resource.
type Update[K ID] struct {
	ID   K
	Data any
}

// BatchCreate creates every item concurrently. Results follow input order.
// If any call fails the batch fails with that error and no results are
// returned; resources created by the calls that succeeded are not rolled back.
func (s *Service[T, K]) BatchCreate(ctx context.Context, items []T) ([]*T, error) {
	return runBatch(ctx, s, "create", items, func(ctx context.Context, item T) (*T, error) {
		return s.Create(ctx, item)
	})
}

// BatchUpdate replaces every resource concurrently, with the same
// all-or-nothing contract as BatchCreate.
func (s *Service[T, K]) BatchUpdate(ctx context.Context, updates []Update[K]) ([]*T, error) {
	return runBatch(ctx, s, "update", updates, func(ctx context.Context, u Update[K]) (*T, error) {
		return s.Update(ctx, u.ID, u.Data)
	})
}

// BatchDelete deletes every id concurrently and fails if any delete fails.
func (s *Service[T, K]) BatchDelete(ctx context.Context, ids []K) error {
	_, err := runBatch(ctx, s, "delete", ids, func(ctx context.Context, id K) (struct{}, error) {
		return struct{}{}, s.Delete(ctx, id)
	})
	return err
}

// runBatch applies fn to every item on a pool of at most
// s.batchConcurrency goroutines. The first failure cancels the calls that
// have not started yet and is returned on its own.
func runBatch[T any, K ID, In any, Out any](
	ctx context.Context,
	s *Service[T, K],
	op string,
	items []In,
	fn func(context.Context, In) (Out, error),
) ([]Out, error) {
	if len(items) == 0 {
		return []Out{}, nil
	}

	start := time.Now()
	s.logger.Debug("starting batch",
		"op", op,
		"items", len(items),
		"concurrency", s.batchConcurrency)

	results := make([]Out, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if s.batchConcurrency > 0 {
		g.SetLimit(s.batchConcurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Debug("batch failed",
			"op", op,
			"items", len(items),
			"error", err)
		return nil, err
	}

	s.logger.Debug("batch completed",
		"op", op,
		"items", len(items),
		"duration", time.Since(start))
	return results, nil
}
