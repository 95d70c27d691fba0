package provider

import (
	"context"
	"time"

	"github.com/kbukum/scribe/logger"
)

// WithLogging logs every Execute call with its provider and duration.
// Failures log at error level, successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return Intercept[I, O](func(ctx context.Context, name string, input I, next func(context.Context, I) (O, error)) (O, error) {
		start := time.Now()
		output, err := next(ctx, input)

		fields := logger.DurationFields("execute", time.Since(start))
		fields[logger.FieldProvider] = name
		if err != nil {
			fields[logger.FieldError] = err.Error()
			log.WithContext(ctx).Error("provider execute failed", fields)
			return output, err
		}
		log.WithContext(ctx).Debug("provider execute ok", fields)
		return output, nil
	})
}
