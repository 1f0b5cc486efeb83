package declfactory

import (
	"jvmlower/internal/ir"
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
)

const (
	outerThisFieldName = "this$0"
	instanceFieldName  = "INSTANCE"
)

// FieldForEnumEntry returns the static field that holds entry's instance.
// The field is declared in the enum class, named after the entry and typed
// as the entry's initializer.
func (f *Factory) FieldForEnumEntry(entry *ir.EnumEntry) *ir.Field {
	const op = "FieldForEnumEntry"
	if entry == nil {
		fault(op, nil, f.types, "enum entry is nil")
	}
	if field, ok := f.enumEntryFields[entry]; ok {
		return field
	}
	if entry.Initializer == nil {
		fault(op, entry, f.types, "enum entry %s has no initializer", entry.Name)
	}
	enum, ok := ir.ParentClass(entry)
	if !ok || enum.Kind != ir.ClassKindEnumClass {
		fault(op, entry, f.types, "enum entry %s is not declared in an enum class", entry.Name)
	}

	flags := symbols.AccPublic | symbols.AccStatic | symbols.AccFinal | symbols.AccEnum
	field := &ir.Field{
		Name:       entry.Name,
		Type:       entry.Initializer.Type,
		Visibility: symbols.VisibilityPublic,
		Flags:      flags,
		Backs:      entry,
	}
	field.Span = entry.Span
	field.Origin = ir.OriginFieldForEnumEntry
	field.Parent = enum
	field.Symbol = f.declare(entry.Name, symbols.Symbol{
		Kind:       symbols.SymbolField,
		Owner:      enum.Symbol,
		Visibility: symbols.VisibilityPublic,
		Modality:   symbols.ModalityFinal,
		Flags:      flags,
		Span:       entry.Span,
	})

	f.enumEntryFields[entry] = field
	f.created(field, enum)
	return field
}

// OuterThisField returns the field of inner that stores the enclosing
// instance. It is typed as the enclosing class's default type and is
// package-private so that lowered code in sibling classes can reach it.
func (f *Factory) OuterThisField(inner *ir.Class) *ir.Field {
	const op = "OuterThisField"
	if inner == nil {
		fault(op, nil, f.types, "class is nil")
	}
	if !inner.IsInner {
		fault(op, inner, f.types, "class is not inner: %s", inner.Name)
	}
	if field, ok := f.outerThisFields[inner]; ok {
		return field
	}
	outer, ok := ir.ParentClass(inner)
	if !ok {
		fault(op, inner, f.types, "no containing class for inner class %s", inner.Name)
	}

	flags := symbols.AccFinal | symbols.AccSynthetic
	field := &ir.Field{
		Name:       outerThisFieldName,
		Type:       outer.DefaultType(f.types),
		Visibility: symbols.VisibilityPackage,
		Flags:      flags,
		Backs:      inner,
	}
	field.Span = source.Undefined
	field.Origin = ir.OriginFieldForOuterThis
	field.Parent = inner
	field.Symbol = f.declare(outerThisFieldName, symbols.Symbol{
		Kind:       symbols.SymbolField,
		Owner:      inner.Symbol,
		Visibility: symbols.VisibilityPackage,
		Modality:   symbols.ModalityFinal,
		Flags:      flags,
		Span:       source.Undefined,
	})

	f.outerThisFields[inner] = field
	f.created(field, inner)
	return field
}

// ObjectInstanceField returns the static field holding the instance of a
// singleton. A companion object that is not an intrinsic built-in companion
// gets a field named after itself in its containing declaration; every other
// object gets an INSTANCE field of its own.
func (f *Factory) ObjectInstanceField(singleton *ir.Class) *ir.Field {
	const op = "ObjectInstanceField"
	if singleton == nil {
		fault(op, nil, f.types, "class is nil")
	}
	if !singleton.IsObject() {
		fault(op, singleton, f.types, "class is not an object: %s (%s)", singleton.Name, singleton.Kind)
	}
	if field, ok := f.objectFields[singleton]; ok {
		return field
	}

	name := instanceFieldName
	var owner ir.Parent = singleton
	if singleton.IsCompanion && !f.oracle.IsIntrinsicCompanion(f.symbols.FQName(singleton.Symbol)) {
		container := singleton.Parent
		if container == nil {
			fault(op, singleton, f.types, "companion object %s has no containing declaration", singleton.Name)
		}
		name = singleton.Name
		owner = container
	}

	flags := symbols.AccPublic | symbols.AccStatic | symbols.AccFinal
	field := &ir.Field{
		Name:       name,
		Type:       singleton.DefaultType(f.types),
		Visibility: symbols.VisibilityPublic,
		Flags:      flags,
		Backs:      singleton,
	}
	field.Span = source.Undefined
	field.Origin = ir.OriginFieldForObjectInstance
	field.Parent = owner
	field.Symbol = f.declare(name, symbols.Symbol{
		Kind:       symbols.SymbolField,
		Owner:      owner.Decl().Symbol,
		Visibility: symbols.VisibilityPublic,
		Modality:   symbols.ModalityFinal,
		Flags:      flags,
		Span:       source.Undefined,
	})

	f.objectFields[singleton] = field
	f.created(field, owner)
	return field
}
