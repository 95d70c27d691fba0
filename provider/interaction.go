package provider

import "context"

// RequestResponse takes one input and returns one output.
// HTTP calls and subprocess runs both fit this shape.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Sink accepts input with no meaningful output, such as a Kafka produce
// or a log line.
type Sink[I any] interface {
	Provider
	Send(ctx context.Context, input I) error
}
