package source

import "strings"

// StringID names an interned identifier. NoStringID is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner stores each distinct declaration name once. Symbol tables of
// different units use different interners, so ids are only meaningful
// within one unit.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		names: []string{""},
		ids:   map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, adding it when missing. The stored copy does
// not alias the caller's backing array.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.ids[s]; ok {
		return id
	}
	s = strings.Clone(s)
	id := StringID(len(i.names))
	i.names = append(i.names, s)
	i.ids[s] = id
	return id
}

func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.names) {
		return "", false
	}
	return i.names[id], true
}

// MustLookup is Lookup for ids the caller obtained from this interner.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: string id out of range")
	}
	return s
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int { return len(i.names) }
