package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// BatchEvaluator evaluates independent bundles concurrently.
type BatchEvaluator struct {
	evaluator   EvaluatorService
	concurrency int
	log         *zap.Logger
}

func NewBatchEvaluator(evaluator EvaluatorService, concurrency int, log *zap.Logger) *BatchEvaluator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchEvaluator{evaluator: evaluator, concurrency: concurrency, log: log}
}

// EvaluateAll returns one record per ref, in input order. Cancellation is
// checked before each bundle starts; on cancellation the records finished so
// far are returned with ctx.Err().
func (b *BatchEvaluator) EvaluateAll(ctx context.Context, refs []BundleRef) ([]models.EvaluationRecord, error) {
	results := make([]*models.EvaluationRecord, len(refs))

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for i, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec := b.evaluator.EvaluateBundle(ctx, ref)
			// Each goroutine owns exactly one slot.
			results[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	records := make([]models.EvaluationRecord, 0, len(refs))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	b.log.Info("batch evaluated",
		zap.Int("requested", len(refs)),
		zap.Int("evaluated", len(records)),
	)

	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}
