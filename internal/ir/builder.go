package ir

import (
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
	"jvmlower/internal/types"
)

// Builder creates well-formed source-level declarations: each node gets a
// symbol owned by its parent's symbol, a span and a parent link. Class
// declarations also get a nominal type.
type Builder struct {
	Types   *types.Interner
	Symbols *symbols.Table
	Files   *source.FileSet
}

// NewBuilder returns a builder over fresh per-unit tables.
func NewBuilder() *Builder {
	return &Builder{
		Types:   types.NewInterner(),
		Symbols: symbols.NewTable(0, nil),
		Files:   source.NewFileSet(),
	}
}

// ClassOptions tune Builder.Class.
type ClassOptions struct {
	Visibility  symbols.Visibility
	Modality    symbols.Modality
	IsInner     bool
	IsCompanion bool
	TypeParams  []string
	Span        source.Span
}

// File adds a file entry and returns its root node.
func (b *Builder) File(path, pkg string, content []byte) *File {
	id := b.Files.Add(path, content)
	f := &File{Entry: b.Files.Get(id), Package: pkg}
	f.Span = source.Span{File: id}
	if pkg != "" {
		f.Symbol = b.Symbols.Declare(pkg, symbols.Symbol{Kind: symbols.SymbolPackage})
	}
	return f
}

// Class declares a class-like node inside parent.
func (b *Builder) Class(parent Parent, name string, kind ClassKind, opts ClassOptions) *Class {
	sym := b.Symbols.Declare(name, symbols.Symbol{
		Kind:       symbols.SymbolClass,
		Owner:      parent.Decl().Symbol,
		Visibility: opts.Visibility,
		Modality:   opts.Modality,
		Span:       opts.Span,
	})
	c := &Class{
		Name:        name,
		Kind:        kind,
		Visibility:  opts.Visibility,
		Modality:    opts.Modality,
		IsInner:     opts.IsInner,
		IsCompanion: opts.IsCompanion,
		Type:        b.Types.RegisterClass(b.Symbols.FQName(sym), opts.Span),
	}
	c.Span = opts.Span
	c.Symbol = sym
	for _, tp := range opts.TypeParams {
		b.Types.AddTypeParam(c.Type, tp)
	}
	if kind != ClassKindInterface && kind != ClassKindAnnotation {
		c.Supertypes = []types.TypeID{b.Types.Builtins().Any}
	}
	addTo(parent, c)
	return c
}

// Constructor declares a constructor of c returning c's default type.
func (b *Builder) Constructor(c *Class, primary bool, span source.Span) *Constructor {
	ctor := &Constructor{
		IsPrimary:  primary,
		Visibility: symbols.VisibilityPublic,
		ReturnType: c.DefaultType(b.Types),
	}
	ctor.Span = span
	ctor.Symbol = b.Symbols.Declare("<init>", symbols.Symbol{
		Kind:  symbols.SymbolConstructor,
		Owner: c.Symbol,
		Span:  span,
	})
	c.AddDeclaration(ctor)
	return ctor
}

// Param appends a value parameter to a constructor or function.
func (b *Builder) Param(owner Parent, name string, typ types.TypeID, span source.Span) *ValueParameter {
	p := &ValueParameter{Name: name, Type: typ}
	p.Span = span
	p.Parent = owner
	p.Symbol = b.Symbols.Declare(name, symbols.Symbol{
		Kind:  symbols.SymbolValueParameter,
		Owner: owner.Decl().Symbol,
		Span:  span,
	})
	switch o := owner.(type) {
	case *Constructor:
		p.Index = len(o.Params)
		o.Params = append(o.Params, p)
	case *Function:
		p.Index = len(o.Params)
		o.Params = append(o.Params, p)
	}
	return p
}

// VarargParam appends a vararg parameter typed Array<elem>.
func (b *Builder) VarargParam(owner Parent, name string, elem types.TypeID, span source.Span) *ValueParameter {
	p := b.Param(owner, name, b.Types.ArrayOf(elem), span)
	p.VarargElem = elem
	if sym := b.Symbols.Get(p.Symbol); sym != nil {
		sym.Flags |= symbols.AccVarargs
	}
	return p
}

// EnumEntry declares an entry of enum class whose initializer calls ctor
// with args. A nil ctor leaves the entry without initializer.
func (b *Builder) EnumEntry(enum *Class, name string, ctor *Constructor, span source.Span, args ...*Expr) *EnumEntry {
	e := &EnumEntry{Name: name}
	e.Span = span
	e.Symbol = b.Symbols.Declare(name, symbols.Symbol{
		Kind:  symbols.SymbolEnumEntry,
		Owner: enum.Symbol,
		Span:  span,
	})
	if ctor != nil {
		e.Initializer = b.ConstructorCall(ctor, nil, span, args...)
	}
	enum.AddDeclaration(e)
	return e
}

// Function declares a function inside parent.
func (b *Builder) Function(parent Parent, name string, ret types.TypeID, span source.Span) *Function {
	fn := &Function{Name: name, ReturnType: ret, Visibility: symbols.VisibilityPublic}
	fn.Span = span
	fn.Symbol = b.Symbols.Declare(name, symbols.Symbol{
		Kind:  symbols.SymbolFunction,
		Owner: parent.Decl().Symbol,
		Span:  span,
	})
	addTo(parent, fn)
	return fn
}

// Property declares a property inside parent.
func (b *Builder) Property(parent Parent, name string, typ types.TypeID, init *Expr, span source.Span) *Property {
	p := &Property{Name: name, Type: typ, Initializer: init, Visibility: symbols.VisibilityPublic}
	p.Span = span
	p.Symbol = b.Symbols.Declare(name, symbols.Symbol{
		Kind:  symbols.SymbolProperty,
		Owner: parent.Decl().Symbol,
		Span:  span,
	})
	addTo(parent, p)
	return p
}

// Const builds a literal.
func (b *Builder) Const(kind LiteralKind, typ types.TypeID, text string) *Expr {
	return &Expr{Kind: ExprConst, Type: typ, Span: source.Undefined, Data: ConstData{Kind: kind, Text: text}}
}

// IntConst builds an Int literal.
func (b *Builder) IntConst(text string) *Expr {
	return b.Const(LiteralInt, b.Types.Builtins().Int, text)
}

// ConstructorCall builds a call of ctor typed as its return type.
func (b *Builder) ConstructorCall(ctor *Constructor, dispatch *Expr, span source.Span, args ...*Expr) *Expr {
	return &Expr{
		Kind: ExprConstructorCall,
		Type: ctor.ReturnType,
		Span: span,
		Data: ConstructorCallData{Constructor: ctor, Dispatch: dispatch, Args: args},
	}
}

// This builds a reference to the receiver of c.
func (b *Builder) This(c *Class) *Expr {
	return &Expr{Kind: ExprThis, Type: c.DefaultType(b.Types), Span: source.Undefined, Data: ThisData{Class: c}}
}

// GetValue builds a read of p.
func (b *Builder) GetValue(p *ValueParameter) *Expr {
	return &Expr{Kind: ExprGetValue, Type: p.Type, Span: source.Undefined, Data: GetValueData{Param: p}}
}

// GetObject builds a reference to a singleton.
func (b *Builder) GetObject(c *Class) *Expr {
	return &Expr{Kind: ExprGetObjectValue, Type: c.DefaultType(b.Types), Span: source.Undefined, Data: GetObjectValueData{Class: c}}
}

// GetEnum builds a reference to an enum entry typed as its enum class.
func (b *Builder) GetEnum(entry *EnumEntry) *Expr {
	typ := types.NoTypeID
	if enum, ok := ParentClass(entry); ok {
		typ = enum.DefaultType(b.Types)
	}
	return &Expr{Kind: ExprGetEnumValue, Type: typ, Span: source.Undefined, Data: GetEnumValueData{Entry: entry}}
}

// Return builds a return of value.
func (b *Builder) Return(value *Expr) *Expr {
	return &Expr{Kind: ExprReturn, Type: b.Types.Builtins().Nothing, Span: source.Undefined, Data: ReturnData{Value: value}}
}

func addTo(parent Parent, d Declaration) {
	switch p := parent.(type) {
	case *File:
		p.AddDeclaration(d)
	case *Class:
		p.AddDeclaration(d)
	default:
		d.Decl().Parent = parent
	}
}
