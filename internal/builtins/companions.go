// Package builtins knows which built-in classes have companion objects the
// JVM backend maps to intrinsics instead of ordinary singleton classes.
package builtins

import (
	"slices"
	"strings"
)

// Oracle answers whether a companion object is intrinsically mapped.
// fqName is the dotted name of the companion object itself, for example
// "kotlin.Int.Companion".
type Oracle interface {
	IsIntrinsicCompanion(fqName string) bool
}

// intrinsicOwners are the classes whose companions are mapped intrinsics.
var intrinsicOwners = []string{
	"kotlin.Int",
	"kotlin.Long",
	"kotlin.Short",
	"kotlin.Byte",
	"kotlin.Char",
	"kotlin.Float",
	"kotlin.Double",
	"kotlin.String",
	"kotlin.Enum",
}

// Table is a fixed set of intrinsic companion names.
type Table struct {
	names map[string]struct{}
}

// NewTable returns the default table extended with extra companion names.
// Extra names may be given either as the companion itself
// ("a.B.Companion") or as its owner ("a.B").
func NewTable(extra ...string) *Table {
	t := &Table{names: make(map[string]struct{}, len(intrinsicOwners)+len(extra))}
	for _, owner := range intrinsicOwners {
		t.names[owner+".Companion"] = struct{}{}
	}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".Companion") {
			name += ".Companion"
		}
		t.names[name] = struct{}{}
	}
	return t
}

// Default is the table with only the built-in entries.
var Default Oracle = NewTable()

// IsIntrinsicCompanion implements Oracle.
func (t *Table) IsIntrinsicCompanion(fqName string) bool {
	if t == nil {
		return false
	}
	_, ok := t.names[fqName]
	return ok
}

// Names returns the sorted companion names of t.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.names))
	for name := range t.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
