package ir

// Origin records why a declaration exists. Code generation and diagnostics
// key off it; the set is closed.
type Origin uint8

const (
	// OriginDefined is a declaration written in source.
	OriginDefined Origin = iota
	// OriginFieldForEnumEntry is the static field holding an enum entry.
	OriginFieldForEnumEntry
	// OriginFieldForOuterThis is the field, and the constructor parameter,
	// carrying an inner class's enclosing instance.
	OriginFieldForOuterThis
	// OriginFieldForObjectInstance is the static field holding a singleton.
	OriginFieldForObjectInstance
	// OriginFileClass is the facade class for a file's top-level members.
	OriginFileClass
)

func (o Origin) String() string {
	switch o {
	case OriginDefined:
		return "DEFINED"
	case OriginFieldForEnumEntry:
		return "FIELD_FOR_ENUM_ENTRY"
	case OriginFieldForOuterThis:
		return "FIELD_FOR_OUTER_THIS"
	case OriginFieldForObjectInstance:
		return "FIELD_FOR_OBJECT_INSTANCE"
	case OriginFileClass:
		return "FILE_CLASS"
	default:
		return "UNKNOWN"
	}
}

// IsSynthetic reports whether the origin denotes a compiler-made declaration.
func (o Origin) IsSynthetic() bool {
	return o != OriginDefined
}
