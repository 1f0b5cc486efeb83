package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelUnit, ScopeUnit, true},
		{LevelUnit, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelUnit, FormatText)
	span := Begin(tr, ScopePass, "lower:enum-entries", 0)
	Point(tr, ScopeDecl, "synthesize", "dropped at unit level", span.ID(), nil)
	span.WithExtra("fields", "2").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ lower:enum-entries") {
		t.Errorf("missing begin line:\n%s", out)
	}
	if !strings.Contains(out, "← lower:enum-entries (ok) {fields=2}") {
		t.Errorf("missing end line:\n%s", out)
	}
	if strings.Contains(out, "synthesize") {
		t.Errorf("decl scope leaked at unit level:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeDecl, name, "", 0, nil)
	}
	events := tr.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", events)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 || !strings.Contains(buf.String(), `"name":"c"`) {
		t.Errorf("unexpected dump: %s", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context must yield Nop")
	}
	tr := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Error("tracer not propagated")
	}
	span := Begin(tr, ScopeDriver, "lower", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Errorf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
}

func TestRingOfKeepsTail(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	multi := NewMultiTracer(LevelDebug, NewStreamTracer(&bytes.Buffer{}, LevelDebug, FormatText), ring)
	if RingOf(multi) != ring || RingOf(ring) != ring || RingOf(Nop) != nil {
		t.Fatal("RingOf did not find the ring")
	}
	for _, name := range []string{"enum-entries", "inner-classes", "objects"} {
		Point(multi, ScopePass, name, "", 0, nil)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "inner-classes" || events[1].Name != "objects" {
		t.Fatalf("snapshot = %+v", events)
	}
	if events[0].Seq >= events[1].Seq {
		t.Fatalf("sequence not increasing: %d, %d", events[0].Seq, events[1].Seq)
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode     string
		wantRing bool
		streams  bool
	}{
		{"stream", false, true},
		{"Ring", true, false},
		{" both ", true, true},
	}
	for _, tt := range tests {
		buf.Reset()
		mode, err := ParseMode(tt.mode)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tt.mode, err)
		}
		tr, err := New(Config{Level: LevelPhase, Mode: mode, Output: &buf})
		if err != nil {
			t.Fatalf("New(%s): %v", mode, err)
		}
		Begin(tr, ScopePass, "lower:objects", 0).End("")
		if got := RingOf(tr) != nil; got != tt.wantRing {
			t.Errorf("%s: ring present = %v, want %v", mode, got, tt.wantRing)
		}
		if got := buf.Len() > 0; got != tt.streams {
			t.Errorf("%s: streamed = %v, want %v", mode, got, tt.streams)
		}
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestInertSpan(t *testing.T) {
	tr := NewRingTracer(4, LevelPhase)
	span := Begin(tr, ScopeDecl, "synthesize", 0)
	span.WithExtra("k", "v").End("ignored")
	if span.ID() != 0 || len(tr.Snapshot()) != 0 {
		t.Fatalf("decl span recorded at phase level: id=%d events=%d", span.ID(), len(tr.Snapshot()))
	}
}
