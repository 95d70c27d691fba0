package provider

import (
	"context"
	"time"

	"github.com/kbukum/scribe/observability"
)

// WithMetrics counts Execute calls per provider and records their latency.
// A nil metrics set yields a pass-through middleware.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return Intercept[I, O](func(ctx context.Context, name string, input I, next func(context.Context, I) (O, error)) (O, error) {
		if metrics == nil {
			return next(ctx, input)
		}
		start := time.Now()
		output, err := next(ctx, input)
		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, "execute", name)
		}
		metrics.RecordOperation(ctx, name, "execute", status, time.Since(start))
		return output, err
	})
}
