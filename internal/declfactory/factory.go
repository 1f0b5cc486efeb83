package declfactory

import (
	"jvmlower/internal/builtins"
	"jvmlower/internal/ir"
	"jvmlower/internal/symbols"
	"jvmlower/internal/trace"
	"jvmlower/internal/types"
)

// Factory is the single source of synthetic declarations for one unit.
type Factory struct {
	types   *types.Interner
	symbols *symbols.Table
	oracle  builtins.Oracle

	tracer     trace.Tracer
	parentSpan uint64

	enumEntryFields map[*ir.EnumEntry]*ir.Field
	outerThisFields map[*ir.Class]*ir.Field
	objectFields    map[*ir.Class]*ir.Field
	innerCtors      map[*ir.Constructor]*ir.Constructor
	fileClasses     map[*ir.File]*ir.Class
}

// Option configures a Factory.
type Option func(*Factory)

// WithCompanionOracle replaces the intrinsic companion table.
func WithCompanionOracle(o builtins.Oracle) Option {
	return func(f *Factory) {
		if o != nil {
			f.oracle = o
		}
	}
}

// WithTracer reports created declarations as ScopeDecl points under parent.
func WithTracer(t trace.Tracer, parent uint64) Option {
	return func(f *Factory) {
		if t != nil {
			f.tracer = t
			f.parentSpan = parent
		}
	}
}

// New returns a factory allocating symbols in syms and types in in. Both
// must be the tables the unit's IR was built with.
func New(in *types.Interner, syms *symbols.Table, opts ...Option) *Factory {
	f := &Factory{
		types:           in,
		symbols:         syms,
		oracle:          builtins.Default,
		tracer:          trace.Nop,
		enumEntryFields: make(map[*ir.EnumEntry]*ir.Field),
		outerThisFields: make(map[*ir.Class]*ir.Field),
		objectFields:    make(map[*ir.Class]*ir.Field),
		innerCtors:      make(map[*ir.Constructor]*ir.Constructor),
		fileClasses:     make(map[*ir.File]*ir.Class),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Stats counts the declarations a factory has created.
type Stats struct {
	EnumEntryFields   int
	OuterThisFields   int
	ObjectFields      int
	InnerConstructors int
	FileClasses       int
}

// Total is the number of synthetic declarations.
func (s Stats) Total() int {
	return s.EnumEntryFields + s.OuterThisFields + s.ObjectFields + s.InnerConstructors + s.FileClasses
}

// Stats reports cache sizes.
func (f *Factory) Stats() Stats {
	return Stats{
		EnumEntryFields:   len(f.enumEntryFields),
		OuterThisFields:   len(f.outerThisFields),
		ObjectFields:      len(f.objectFields),
		InnerConstructors: len(f.innerCtors),
		FileClasses:       len(f.fileClasses),
	}
}

func (f *Factory) declare(name string, sym symbols.Symbol) symbols.SymbolID {
	sym.Synthesized = true
	return f.symbols.Declare(name, sym)
}

func (f *Factory) created(d ir.Declaration, owner ir.Declaration) {
	if !f.tracer.Enabled() {
		return
	}
	trace.Point(f.tracer, trace.ScopeDecl, "synthesize", d.Decl().Origin.String(), f.parentSpan, map[string]string{
		"name":  ir.Name(d),
		"owner": ir.Name(owner),
	})
}
