package symbols

import (
	"strings"

	"jvmlower/internal/source"
)

// SymbolID indexes the table arena. NoSymbolID is never allocated and
// stands for "no owner" on top-level declarations.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies what a symbol names.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolPackage
	SymbolClass
	SymbolEnumEntry
	SymbolField
	SymbolConstructor
	SymbolValueParameter
	SymbolFunction
	SymbolProperty
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolPackage:
		return "package"
	case SymbolClass:
		return "class"
	case SymbolEnumEntry:
		return "enum-entry"
	case SymbolField:
		return "field"
	case SymbolConstructor:
		return "constructor"
	case SymbolValueParameter:
		return "value-parameter"
	case SymbolFunction:
		return "function"
	case SymbolProperty:
		return "property"
	default:
		return "invalid"
	}
}

// Visibility is the source-level visibility of a declaration.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityInternal
	VisibilityPrivate
	// VisibilityPackage is JVM package-private access. Synthetic members that
	// must stay reachable from sibling classes of the same module use it.
	VisibilityPackage
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	case VisibilityPackage:
		return "package"
	default:
		return "unknown"
	}
}

// Modality is the inheritance modality of a declaration.
type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// AccessFlags are the JVM access_flags a declaration will be emitted with.
type AccessFlags uint16

const (
	AccPublic    AccessFlags = 0x0001
	AccPrivate   AccessFlags = 0x0002
	AccProtected AccessFlags = 0x0004
	AccStatic    AccessFlags = 0x0008
	AccFinal     AccessFlags = 0x0010
	AccVarargs   AccessFlags = 0x0080
	AccAbstract  AccessFlags = 0x0400
	AccSynthetic AccessFlags = 0x1000
	AccEnum      AccessFlags = 0x4000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }
func (f AccessFlags) IsStatic() bool            { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool             { return f&AccFinal != 0 }
func (f AccessFlags) IsSynthetic() bool         { return f&AccSynthetic != 0 }
func (f AccessFlags) IsEnum() bool              { return f&AccEnum != 0 }

// Strings returns a slice of textual flag labels.
func (f AccessFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	for _, e := range accessLabels {
		if f&e.flag != 0 {
			labels = append(labels, e.label)
		}
	}
	return labels
}

func (f AccessFlags) String() string {
	return strings.Join(f.Strings(), " ")
}

var accessLabels = []struct {
	flag  AccessFlags
	label string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccVarargs, "varargs"},
	{AccAbstract, "abstract"},
	{AccSynthetic, "synthetic"},
	{AccEnum, "enum"},
}

// Symbol describes a named declaration. Owner is the containing declaration's
// symbol (NoSymbolID for packages and top-level declarations of the default
// package).
type Symbol struct {
	Name       source.StringID
	Kind       SymbolKind
	Owner      SymbolID
	Visibility Visibility
	Modality   Modality
	Flags      AccessFlags
	Span       source.Span
	// Synthesized marks declarations created by the compiler rather than
	// declared in source.
	Synthesized bool
}
