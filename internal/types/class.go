package types

import (
	"fmt"

	"fortio.org/safecast"

	"jvmlower/internal/source"
)

// ClassInfo stores metadata for a nominal class type.
type ClassInfo struct {
	FQName     string
	Decl       source.Span
	TypeParams []TypeID
}

// TypeParamInfo stores metadata about a class type parameter.
type TypeParamInfo struct {
	Name  string
	Owner TypeID
	Index uint32
}

// RegisterClass allocates a nominal class slot and returns its raw TypeID.
// Every call creates a distinct class, even for equal names.
func (in *Interner) RegisterClass(fqName string, decl source.Span) TypeID {
	slot := appendSlot(&in.classes, ClassInfo{FQName: fqName, Decl: decl}, "class")
	return in.internRaw(Type{Kind: KindClass, Payload: slot})
}

// AddTypeParam declares the next type parameter of class cls.
func (in *Interner) AddTypeParam(cls TypeID, name string) TypeID {
	info := in.classInfo(cls)
	if info == nil {
		panic(fmt.Errorf("types: AddTypeParam on non-class type %d", cls))
	}
	index, err := safecast.Conv[uint32](len(info.TypeParams))
	if err != nil {
		panic(fmt.Errorf("type parameter index overflow: %w", err))
	}
	slot := appendSlot(&in.params, TypeParamInfo{Name: name, Owner: cls, Index: index}, "type parameter")
	id := in.internRaw(Type{Kind: KindTypeParam, Payload: slot})
	info.TypeParams = append(info.TypeParams, id)
	return id
}

// ClassInfo returns metadata for a class type, raw or applied.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	info := in.classInfo(id)
	return info, info != nil
}

// TypeParamInfo returns metadata for a type parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam || tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}

// Apply returns class cls applied to args. Nullability of cls is dropped.
func (in *Interner) Apply(cls TypeID, args []TypeID) TypeID {
	tt, ok := in.Lookup(cls)
	if !ok || tt.Kind != KindClass {
		panic(fmt.Errorf("types: Apply on non-class type %d", cls))
	}
	return in.Intern(Type{Kind: KindClass, Payload: tt.Payload, Args: in.internArgs(args)})
}

// Raw returns the unapplied, non-null class type for a class type.
func (in *Interner) Raw(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return NoTypeID
	}
	return in.Intern(Type{Kind: KindClass, Payload: tt.Payload})
}

// Args returns the type arguments of an applied class type.
func (in *Interner) Args(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass || tt.Args == 0 {
		return nil
	}
	return append([]TypeID(nil), in.args[tt.Args]...)
}

// DefaultType is the class applied to its own type parameters, the type of
// `this` inside the class body.
func (in *Interner) DefaultType(cls TypeID) TypeID {
	info := in.classInfo(cls)
	if info == nil {
		panic(fmt.Errorf("types: DefaultType on non-class type %d", cls))
	}
	return in.Apply(cls, info.TypeParams)
}

func (in *Interner) classInfo(id TypeID) *ClassInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.classes) {
		return nil
	}
	return &in.classes[tt.Payload]
}

func appendSlot[T any](table *[]T, v T, what string) uint32 {
	*table = append(*table, v)
	slot, err := safecast.Conv[uint32](len(*table) - 1)
	if err != nil {
		panic(fmt.Errorf("%s table overflow: %w", what, err))
	}
	return slot
}
