package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("enum-entries")
	tm.End(a, 2)
	b := tm.Begin("objects")
	tm.End(b, 1)
	tm.End(99, 5)

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Synthesized != 3 {
		t.Fatalf("synthesized = %d", r.Synthesized)
	}
	if r.Phases[0].Name != "enum-entries" || r.Phases[1].Synthesized != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "objects") || !strings.Contains(s, "+3") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, 1)
	if len(tm.Report().Phases) != 0 || tm.Phases() != nil {
		t.Fatal("nil timer should record nothing")
	}
}
