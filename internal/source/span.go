package source

import (
	"fmt"
)

// NoOffset marks a position that has no counterpart in source text.
// Synthesized declarations carry it on both ends of their span.
const NoOffset = ^uint32(0)

// Span is a half-open byte range inside a single file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// Undefined is the span given to declarations with no source position.
var Undefined = Span{Start: NoOffset, End: NoOffset}

// IsUndefined reports whether the span has no source position.
func (s Span) IsUndefined() bool {
	return s.Start == NoOffset || s.End == NoOffset
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if s.IsUndefined() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	if s.IsUndefined() {
		return "?"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other. Undefined
// spans and spans from other files leave s unchanged.
func (s Span) Cover(other Span) Span {
	if other.IsUndefined() || s.File != other.File {
		return s
	}
	if s.IsUndefined() {
		return other
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
