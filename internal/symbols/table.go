package symbols

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"jvmlower/internal/source"
)

// Table aggregates the symbol arena and the identifier interner of one
// compilation unit.
type Table struct {
	Symbols *Symbols
	Strings *source.Interner
}

// NewTable builds a fresh table. If strings is nil, a fresh interner is
// allocated.
func NewTable(capacity uint, strings *source.Interner) *Table {
	symCap, err := safecast.Conv[uint32](capacity)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Symbols: NewSymbols(symCap),
		Strings: strings,
	}
}

// Declare interns name and allocates a symbol for it.
func (t *Table) Declare(name string, sym Symbol) SymbolID {
	sym.Name = t.Strings.Intern(name)
	return t.Symbols.New(&sym)
}

// Get returns the symbol for id or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	return t.Symbols.Get(id)
}

// Name returns the simple name of id.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}

// FQName joins the names along the owner chain with dots.
func (t *Table) FQName(id SymbolID) string {
	var parts []string
	for depth := 0; id.IsValid() && depth < 64; depth++ {
		sym := t.Symbols.Get(id)
		if sym == nil {
			break
		}
		if name := t.Strings.MustLookup(sym.Name); name != "" {
			parts = append(parts, name)
		}
		id = sym.Owner
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Dump writes one line per symbol: id, kind, qualified name, access flags
// and a "synthetic" marker for compiler-created symbols. With onlySynth set,
// declared symbols are skipped.
func (t *Table) Dump(w io.Writer, onlySynth bool) error {
	for id, sym := range t.Symbols.All() {
		if onlySynth && !sym.Synthesized {
			continue
		}
		line := fmt.Sprintf("%4d %-15s %s", id, sym.Kind, t.FQName(id))
		if flags := sym.Flags.String(); flags != "" {
			line += " [" + flags + "]"
		}
		if sym.Synthesized {
			line += " synthetic"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
