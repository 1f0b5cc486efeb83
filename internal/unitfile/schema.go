// Package unitfile reads compilation units: declarative descriptions of a
// module's declaration tree, stored as TOML (.unit.toml) or MessagePack
// (.unit.mp), and builds the IR they describe.
package unitfile

// Unit is the on-disk form of one compilation unit.
type Unit struct {
	Module string `toml:"module" msgpack:"module"`
	// Companions lists extra intrinsic companion objects for this unit.
	Companions []string `toml:"intrinsic_companions" msgpack:"intrinsic_companions,omitempty"`
	Files      []File   `toml:"files" msgpack:"files"`
}

// File is one source file of the unit.
type File struct {
	Path       string     `toml:"path" msgpack:"path"`
	Package    string     `toml:"package" msgpack:"package,omitempty"`
	JvmName    string     `toml:"jvm_name" msgpack:"jvm_name,omitempty"`
	Classes    []Class    `toml:"classes" msgpack:"classes,omitempty"`
	Functions  []Function `toml:"functions" msgpack:"functions,omitempty"`
	Properties []Property `toml:"properties" msgpack:"properties,omitempty"`
}

// Class is a class-like declaration. Kind is one of class, interface, enum,
// object or annotation; empty means class.
type Class struct {
	Name         string        `toml:"name" msgpack:"name"`
	Kind         string        `toml:"kind" msgpack:"kind,omitempty"`
	Visibility   string        `toml:"visibility" msgpack:"visibility,omitempty"`
	Modality     string        `toml:"modality" msgpack:"modality,omitempty"`
	Inner        bool          `toml:"inner" msgpack:"inner,omitempty"`
	Companion    bool          `toml:"companion" msgpack:"companion,omitempty"`
	TypeParams   []string      `toml:"type_params" msgpack:"type_params,omitempty"`
	Span         []uint32      `toml:"span" msgpack:"span,omitempty"`
	Constructors []Constructor `toml:"constructors" msgpack:"constructors,omitempty"`
	Entries      []Entry       `toml:"entries" msgpack:"entries,omitempty"`
	Classes      []Class       `toml:"classes" msgpack:"classes,omitempty"`
	Functions    []Function    `toml:"functions" msgpack:"functions,omitempty"`
	Properties   []Property    `toml:"properties" msgpack:"properties,omitempty"`
}

// Constructor is a constructor declaration.
type Constructor struct {
	Primary    bool     `toml:"primary" msgpack:"primary,omitempty"`
	Visibility string   `toml:"visibility" msgpack:"visibility,omitempty"`
	Span       []uint32 `toml:"span" msgpack:"span,omitempty"`
	Params     []Param  `toml:"params" msgpack:"params,omitempty"`
	Body       []Expr   `toml:"body" msgpack:"body,omitempty"`
}

// Param is a value parameter. For a vararg parameter Type is the element
// type.
type Param struct {
	Name    string   `toml:"name" msgpack:"name"`
	Type    string   `toml:"type" msgpack:"type"`
	Vararg  bool     `toml:"vararg" msgpack:"vararg,omitempty"`
	Default *Expr    `toml:"default" msgpack:"default,omitempty"`
	Span    []uint32 `toml:"span" msgpack:"span,omitempty"`
}

// Entry is an enum entry. Its initializer calls the enum constructor at
// index Constructor with Args.
type Entry struct {
	Name        string   `toml:"name" msgpack:"name"`
	Constructor int      `toml:"constructor" msgpack:"constructor,omitempty"`
	Args        []Expr   `toml:"args" msgpack:"args,omitempty"`
	Span        []uint32 `toml:"span" msgpack:"span,omitempty"`
}

// Function is a function declaration.
type Function struct {
	Name       string   `toml:"name" msgpack:"name"`
	Returns    string   `toml:"returns" msgpack:"returns,omitempty"`
	Visibility string   `toml:"visibility" msgpack:"visibility,omitempty"`
	Params     []Param  `toml:"params" msgpack:"params,omitempty"`
	Body       []Expr   `toml:"body" msgpack:"body,omitempty"`
	Span       []uint32 `toml:"span" msgpack:"span,omitempty"`
}

// Property is a property declaration.
type Property struct {
	Name       string   `toml:"name" msgpack:"name"`
	Type       string   `toml:"type" msgpack:"type"`
	Var        bool     `toml:"var" msgpack:"var,omitempty"`
	Visibility string   `toml:"visibility" msgpack:"visibility,omitempty"`
	Init       *Expr    `toml:"init" msgpack:"init,omitempty"`
	Span       []uint32 `toml:"span" msgpack:"span,omitempty"`
}

// Expr is an expression. Kind selects the meaning of the other fields:
//
//	const   Value of Type (Int when empty)
//	param   read of parameter Ref
//	this    receiver of class Ref, or of the enclosing class
//	enum    entry Ref, written Class.ENTRY
//	object  singleton Ref
//	new     call of constructor Index of class Ref with Args; Outer is the
//	        outer instance for inner classes
//	call    call of function Ref with Args
//	return  return of Result
type Expr struct {
	Kind   string `toml:"kind" msgpack:"kind"`
	Value  string `toml:"value" msgpack:"value,omitempty"`
	Type   string `toml:"type" msgpack:"type,omitempty"`
	Ref    string `toml:"ref" msgpack:"ref,omitempty"`
	Index  int    `toml:"index" msgpack:"index,omitempty"`
	Outer  *Expr  `toml:"outer" msgpack:"outer,omitempty"`
	Args   []Expr `toml:"args" msgpack:"args,omitempty"`
	Result *Expr  `toml:"result" msgpack:"result,omitempty"`
}
