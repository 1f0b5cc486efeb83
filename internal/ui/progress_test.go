package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"jvmlower/internal/driver"
)

func TestApplyEventTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("lowering", []string{"a.unit.toml", "b.unit.toml"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.unit.toml", Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.items[0].state.label != "loading" {
		t.Fatalf("status = %q", m.items[0].state.label)
	}
	m.applyEvent(driver.Event{File: "a.unit.toml", Stage: driver.StageLower, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.unit.toml", Stage: driver.StageLower, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "b.unit.toml", Stage: driver.StageLower, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "unknown", Stage: driver.StageLower, Status: driver.StatusDone})

	if m.items[0].state.label != "done" || m.items[1].state.label != "error" {
		t.Fatalf("statuses = %q %q", m.items[0].state.label, m.items[1].state.label)
	}
	if m.failed != 1 || m.fraction() != 1 {
		t.Fatalf("failed=%d fraction=%v", m.failed, m.fraction())
	}
	if view := m.View(); !strings.Contains(view, "1 failed") || !strings.Contains(view, "b.unit.toml") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestCachedUnitIsFinal(t *testing.T) {
	m := NewProgressModel("lowering", []string{"a.unit.toml"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a.unit.toml", Stage: driver.StageLoad, Status: driver.StatusDone})
	if m.items[0].final {
		t.Fatal("load done is not final")
	}
	m.applyEvent(driver.Event{File: "a.unit.toml", Stage: driver.StageCache, Status: driver.StatusDone})
	if !m.items[0].final || m.items[0].state.label != "cached" || m.cached != 1 {
		t.Fatalf("item = %+v, cached = %d", m.items[0], m.cached)
	}
	if view := m.View(); !strings.Contains(view, "1 cached") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
	long := "src/app/very/deep/package/outer.unit.toml"
	for _, width := range []int{4, 6, 12, 20} {
		got := truncate(long, width)
		if runewidth.StringWidth(got) != width || !strings.HasSuffix(got, "...") {
			t.Errorf("truncate(%d) = %q", width, got)
		}
	}
	if got := truncate("ab", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
