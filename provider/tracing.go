package provider

import (
	"context"

	"github.com/kbukum/scribe/observability"
)

// WithTracing opens a span named "{serviceName}.{providerName}" around each
// Execute call.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return Intercept[I, O](func(ctx context.Context, name string, input I, next func(context.Context, I) (O, error)) (O, error) {
		ctx, span := observability.StartSpan(ctx, serviceName+"."+name)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrServiceName, serviceName)
		observability.SetSpanAttribute(ctx, observability.AttrProvider, name)

		output, err := next(ctx, input)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return output, err
	})
}
