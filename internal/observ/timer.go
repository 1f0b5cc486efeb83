// Package observ records how long lowering passes take and how many synthetic
// declarations each produced.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed pass over a unit.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	// Synthesized is the number of declarations the pass added.
	Synthesized int
}

// Timer collects phases in the order they ran. It is not safe for
// concurrent use; the driver keeps one per unit.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx.
func (t *Timer) End(idx, synthesized int) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Synthesized = synthesized
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	return append([]Phase(nil), t.phases...)
}

// Summary renders the phases as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("passes:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-16s %7.2f ms  +%d\n", p.Name, p.DurationMS, p.Synthesized)
	}
	fmt.Fprintf(&sb, "  %-16s %7.2f ms  +%d\n", "total", report.TotalMS, report.Synthesized)
	return sb.String()
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name        string  `json:"name" msgpack:"name"`
	DurationMS  float64 `json:"duration_ms" msgpack:"duration_ms"`
	Synthesized int     `json:"synthesized" msgpack:"synthesized"`
}

// Report aggregates all phases of one unit.
type Report struct {
	TotalMS     float64       `json:"total_ms" msgpack:"total_ms"`
	Synthesized int           `json:"synthesized" msgpack:"synthesized"`
	Phases      []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report builds the aggregate.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Synthesized += phase.Synthesized
		report.Phases[i] = PhaseReport{
			Name:        phase.Name,
			DurationMS:  durationToMillis(phase.Dur),
			Synthesized: phase.Synthesized,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
