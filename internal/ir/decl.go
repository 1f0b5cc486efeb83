package ir

import (
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
	"jvmlower/internal/types"
)

// ClassKind distinguishes the flavours of class-like declarations.
type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnumClass
	ClassKindEnumEntry
	ClassKindObject
	ClassKindAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindClass:
		return "CLASS"
	case ClassKindInterface:
		return "INTERFACE"
	case ClassKindEnumClass:
		return "ENUM_CLASS"
	case ClassKindEnumEntry:
		return "ENUM_ENTRY"
	case ClassKindObject:
		return "OBJECT"
	case ClassKindAnnotation:
		return "ANNOTATION_CLASS"
	default:
		return "UNKNOWN"
	}
}

// File is one source file of a module.
type File struct {
	DeclBase
	Entry   *source.FileEntry
	Package string
	// JvmName overrides the generated file class name when non-empty.
	JvmName      string
	Declarations []Declaration
}

// Module groups the files of one compilation unit.
type Module struct {
	Name  string
	Files []*File
}

// Class is a class, interface, enum class, object or enum entry body.
type Class struct {
	DeclBase
	Name       string
	Kind       ClassKind
	Visibility symbols.Visibility
	Modality   symbols.Modality
	// IsInner marks a nested class that captures an instance of its parent.
	IsInner     bool
	IsCompanion bool
	// Type is the raw nominal type; use DefaultType for `this`.
	Type         types.TypeID
	Supertypes   []types.TypeID
	Declarations []Declaration
}

// IsObject reports whether c is a singleton declaration.
func (c *Class) IsObject() bool { return c.Kind == ClassKindObject }

// DefaultType returns the type of `this` inside c.
func (c *Class) DefaultType(in *types.Interner) types.TypeID {
	return in.DefaultType(c.Type)
}

// Constructors returns the constructors declared directly in c.
func (c *Class) Constructors() []*Constructor {
	var out []*Constructor
	for _, d := range c.Declarations {
		if ctor, ok := d.(*Constructor); ok {
			out = append(out, ctor)
		}
	}
	return out
}

// EnumEntries returns the entries of an enum class in declaration order.
func (c *Class) EnumEntries() []*EnumEntry {
	var out []*EnumEntry
	for _, d := range c.Declarations {
		if e, ok := d.(*EnumEntry); ok {
			out = append(out, e)
		}
	}
	return out
}

// AddDeclaration appends d to c and reparents it.
func (c *Class) AddDeclaration(d Declaration) {
	d.Decl().Parent = c
	c.Declarations = append(c.Declarations, d)
}

// AddDeclaration appends d to f and reparents it.
func (f *File) AddDeclaration(d Declaration) {
	d.Decl().Parent = f
	f.Declarations = append(f.Declarations, d)
}

// EnumEntry is one entry of an enum class. Initializer is the call of the
// enum constructor that creates the entry's instance.
type EnumEntry struct {
	DeclBase
	Name        string
	Initializer *Expr
	// Body holds the entry's own class body when it overrides members.
	Body *Class
}

// Field is a JVM field, declared or synthesized.
type Field struct {
	DeclBase
	Name       string
	Type       types.TypeID
	Visibility symbols.Visibility
	Flags      symbols.AccessFlags
	// Backs is the declaration a synthesized field stands in for: the enum
	// entry, the inner class whose outer instance it holds, or the singleton.
	Backs       Declaration
	Initializer *Expr
}

// IsStatic reports whether the field is static.
func (f *Field) IsStatic() bool { return f.Flags.IsStatic() }

// Constructor is a class constructor.
type Constructor struct {
	DeclBase
	IsPrimary  bool
	Visibility symbols.Visibility
	ReturnType types.TypeID
	TypeParams []types.TypeID
	Params     []*ValueParameter
	Body       []*Expr
}

// ValueParameter is a parameter of a constructor or function.
type ValueParameter struct {
	DeclBase
	Name  string
	Index int
	Type  types.TypeID
	// VarargElem is the element type of a vararg parameter, NoTypeID otherwise.
	VarargElem types.TypeID
	Default    *Expr
}

// IsVararg reports whether the parameter collects trailing arguments.
func (p *ValueParameter) IsVararg() bool { return p.VarargElem != types.NoTypeID }

// Function is a member or top-level function.
type Function struct {
	DeclBase
	Name       string
	Visibility symbols.Visibility
	IsStatic   bool
	Params     []*ValueParameter
	ReturnType types.TypeID
	Body       []*Expr
}

// Property is a top-level or member property; lowering turns top-level ones
// into static fields of the file class.
type Property struct {
	DeclBase
	Name        string
	Type        types.TypeID
	Visibility  symbols.Visibility
	IsVar       bool
	Initializer *Expr
}
