package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits every scope up to and
// including its finest one.
type Level uint8

const (
	LevelOff Level = iota
	LevelPhase
	LevelUnit
	LevelDebug
)

var levels = [...]struct {
	name   string
	finest Scope
}{
	LevelOff:   {"off", 0},
	LevelPhase: {"phase", ScopePass},
	LevelUnit:  {"unit", ScopeUnit},
	LevelDebug: {"debug", ScopeDecl},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel converts a flag or config value to a Level. Empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, def := range levels {
		if def.name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|unit|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levels) {
		return false
	}
	return scope != 0 && scope <= levels[l].finest
}
