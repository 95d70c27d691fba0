package provider

import "context"

// Middleware wraps a RequestResponse provider with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares. The first one is outermost, so
// Chain(a, b, c)(p) is a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Interceptor runs around one Execute call. next invokes the wrapped
// provider; name is the wrapped provider's name.
type Interceptor[I, O any] func(ctx context.Context, name string, input I, next func(context.Context, I) (O, error)) (O, error)

// Intercept builds a middleware from an interceptor. The wrapped provider
// keeps its Name and IsAvailable.
func Intercept[I, O any](fn Interceptor[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &intercepted[I, O]{inner: inner, fn: fn}
	}
}

type intercepted[I, O any] struct {
	inner RequestResponse[I, O]
	fn    Interceptor[I, O]
}

func (w *intercepted[I, O]) Name() string                         { return w.inner.Name() }
func (w *intercepted[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }

func (w *intercepted[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.fn(ctx, w.inner.Name(), input, w.inner.Execute)
}
