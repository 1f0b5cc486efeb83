// Package trace records what the lowering pipeline does: driver steps, pass
// boundaries, per-unit work and individual declaration synthesis.
//
// Tracers are threaded through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "lower:inner-classes", parentID)
//	defer span.End("")
//
// Levels select how much is emitted:
//
//   - LevelOff: nothing
//   - LevelPhase: driver and pass boundaries
//   - LevelUnit: plus per-unit events
//   - LevelDebug: plus every synthesized declaration
package trace
