package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unit    TypeID
	Nothing TypeID
	Any     TypeID
	Bool    TypeID
	Char    TypeID
	Byte    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID
	String  TypeID
}

// Interner hands out one TypeID per structurally distinct type, so TypeIDs
// compare with ==. An interner belongs to one compilation unit and is not safe for concurrent
// use.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	classes  []ClassInfo
	params   []TypeParamInfo
	args     [][]TypeID
	argIndex map[string]uint32
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[typeKey]TypeID, 64),
		argIndex: make(map[string]uint32),
	}
	// slot 0 of every side table is the invalid sentinel
	in.classes = append(in.classes, ClassInfo{})
	in.params = append(in.params, TypeParamInfo{})
	in.args = append(in.args, nil)
	in.internRaw(Type{Kind: KindInvalid})
	b := &in.builtins
	for _, seed := range []struct {
		dst *TypeID
		t   Type
	}{
		{&b.Unit, Type{Kind: KindUnit}},
		{&b.Nothing, Type{Kind: KindNothing}},
		{&b.Any, Type{Kind: KindAny}},
		{&b.Bool, Type{Kind: KindBool}},
		{&b.Char, Type{Kind: KindChar}},
		{&b.Byte, MakeInt(Width8)},
		{&b.Short, MakeInt(Width16)},
		{&b.Int, MakeInt(Width32)},
		{&b.Long, MakeInt(Width64)},
		{&b.Float, MakeFloat(Width32)},
		{&b.Double, MakeFloat(Width64)},
		{&b.String, Type{Kind: KindString}},
	} {
		*seed.dst = in.Intern(seed.t)
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[typeKey(t)]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// MakeNullable returns the nullable variant of id.
func (in *Interner) MakeNullable(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Nullable {
		return id
	}
	tt.Nullable = true
	return in.Intern(tt)
}

// ArrayOf returns Array<elem>.
func (in *Interner) ArrayOf(elem TypeID) TypeID {
	return in.Intern(MakeArray(elem))
}

// internArgs stores a type argument list and returns its slot.
func (in *Interner) internArgs(args []TypeID) uint32 {
	if len(args) == 0 {
		return 0
	}
	var sb strings.Builder
	for _, a := range args {
		fmt.Fprintf(&sb, "%d,", a)
	}
	key := sb.String()
	if slot, ok := in.argIndex[key]; ok {
		return slot
	}
	slot, err := safecast.Conv[uint32](len(in.args))
	if err != nil {
		panic(fmt.Errorf("type argument table overflow: %w", err))
	}
	in.args = append(in.args, append([]TypeID(nil), args...))
	in.argIndex[key] = slot
	return slot
}

type typeKey struct {
	Kind     Kind
	Elem     TypeID
	Width    Width
	Nullable bool
	Payload  uint32
	Args     uint32
}
