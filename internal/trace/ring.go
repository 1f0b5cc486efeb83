package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. The CLI dumps it after
// a failed run so the events leading to a failure are visible without
// streaming the whole trace.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	total  uint64 // events ever stored; the next slot is total % len(events)
	level  Level
}

// NewRingTracer keeps up to capacity events; capacity <= 0 means the
// default of 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	t.mu.Lock()
	stored.Seq = NextSeq()
	t.events[t.total%uint64(len(t.events))] = stored
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := uint64(len(t.events))
	if t.total <= size {
		return append([]Event(nil), t.events[:t.total]...)
	}
	head := t.total % size
	return append(append(make([]Event, 0, size), t.events[head:]...), t.events[:head]...)
}

// Dump writes the retained events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range t.Snapshot() {
		if format == FormatNDJSON {
			buf = appendJSON(buf[:0], &ev)
		} else {
			buf = appendText(buf[:0], &ev)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, looking through a MultiTracer,
// or nil when t keeps no ring.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		for _, inner := range tr.tracers {
			if ring := RingOf(inner); ring != nil {
				return ring
			}
		}
	}
	return nil
}
