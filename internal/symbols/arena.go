package symbols

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Symbols is the symbol arena of one unit. Slot 0 is never handed out so
// that the zero SymbolID means "no symbol".
type Symbols struct {
	data []Symbol
}

// NewSymbols creates an arena with room for capacity symbols; 0 picks a
// small default.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	data := make([]Symbol, 1, capacity+1)
	return &Symbols{data: data}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols: New with nil symbol")
	}
	n, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	s.data = append(s.data, *sym)
	return SymbolID(n)
}

// Get returns the symbol stored under id, nil for NoSymbolID or an id from
// another arena.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// All yields every symbol in allocation order.
func (s *Symbols) All() iter.Seq2[SymbolID, *Symbol] {
	return func(yield func(SymbolID, *Symbol) bool) {
		for i := 1; i < len(s.data); i++ {
			if !yield(SymbolID(i), &s.data[i]) {
				return
			}
		}
	}
}

// Len is the number of allocated symbols.
func (s *Symbols) Len() int { return len(s.data) - 1 }
