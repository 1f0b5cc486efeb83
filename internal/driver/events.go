package driver

import "time"

// Stage is the step of a unit's pipeline an Event refers to.
type Stage string

const (
	StageLoad  Stage = "load"  // decode and build IR
	StageLower Stage = "lower" // lowering passes
	StageCache Stage = "cache" // served from the disk cache, no lowering ran
)

// Status is where a unit stands within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one unit file. Every unit ends with exactly
// one terminal event: StatusError at any stage, StatusDone at StageLower,
// or StatusDone at StageCache.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Terminal reports whether no further events follow for e.File.
func (e Event) Terminal() bool {
	return e.Status == StatusError || (e.Status == StatusDone && e.Stage != StageLoad)
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(e Event) { f(e) }

// ChannelSink sends events on Ch. A nil channel drops them.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(e Event) {
	if s.Ch != nil {
		s.Ch <- e
	}
}

// reporter emits the events of one unit.
type reporter struct {
	sink ProgressSink
	file string
}

func (r reporter) emit(stage Stage, status Status, err error, elapsed time.Duration) {
	if r.sink == nil {
		return
	}
	r.sink.OnEvent(Event{File: r.file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
