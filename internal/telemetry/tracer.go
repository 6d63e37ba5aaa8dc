// Package telemetry traces verification runs.
package telemetry

import "context"

// Tracer starts one trace per run
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Trace)
}

// Trace is an open run trace
type Trace interface {
	// ID identifies the trace; empty when tracing is disabled
	ID() string
	// Annotate attaches a key/value pair to the run
	Annotate(key string, value any)
	// Stage opens a child span; the returned func closes it
	Stage(ctx context.Context, name string) (context.Context, func(err error))
	// Finish closes the trace
	Finish(err error)
}

// Noop returns a tracer that records nothing
func Noop() Tracer { return noopTracer{} }

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, Trace) {
	return ctx, noopTrace{}
}

type noopTrace struct{}

func (noopTrace) ID() string           { return "" }
func (noopTrace) Annotate(string, any) {}
func (noopTrace) Finish(error)         {}

func (noopTrace) Stage(ctx context.Context, _ string) (context.Context, func(error)) {
	return ctx, func(error) {}
}
