package trace

import "time"

// Kind is the shape of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event with no duration
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser; a Level
// admits every scope up to its finest.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI and driver operations
	ScopePass                    // lowering passes
	ScopeUnit                    // per compilation unit
	ScopeDecl                    // per synthesized declaration
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeUnit:   "unit",
	ScopeDecl:   "decl",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Seq is assigned by the tracer that stores or
// writes the event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // zero for points
	ParentID uint64
	Name     string // "lower_units", "lower:objects", "unit", "synthesize"
	Detail   string
	Extra    map[string]string
}
