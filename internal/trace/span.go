package trace

import (
	"sync/atomic"
	"time"
)

var (
	eventSeq atomic.Uint64
	spanSeq  atomic.Uint64
)

// NextSeq returns the next event sequence number. Sequence numbers are
// process-wide so events from concurrent units interleave in a total order.
func NextSeq() uint64 { return eventSeq.Add(1) }

// NextSpanID returns a fresh span id; zero is never returned.
func NextSpanID() uint64 { return spanSeq.Add(1) }

// admits reports whether t is live and wants events of scope.
func admits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span is an open begin/end pair. A span created under a tracer that drops
// its scope is inert: End and WithExtra do nothing and ID is zero.
type Span struct {
	tracer  Tracer
	head    Event
	started time.Time
}

// Begin opens a span under parent (0 for a root span) and emits its begin
// event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !admits(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer: t,
		head: Event{
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			Name:     name,
		},
		started: time.Now(),
	}
	begin := s.head
	begin.Time = s.started
	begin.Kind = KindSpanBegin
	t.Emit(&begin)
	return s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// End emits the end event with detail and any extras, and returns how long
// the span was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	end := s.head
	end.Time = time.Now()
	end.Kind = KindSpanEnd
	end.Detail = detail
	s.tracer.Emit(&end)
	return end.Time.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.head.Extra == nil {
		s.head.Extra = make(map[string]string, 2)
	}
	s.head.Extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.head.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64, extra map[string]string) {
	if !admits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
		Extra:    extra,
	})
}
