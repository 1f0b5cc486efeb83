// Package lower rewrites a unit's declaration tree into its JVM shape using
// the synthetic declarations of a declfactory.Factory.
package lower

import (
	"context"
	"fmt"
	"slices"

	"jvmlower/internal/declfactory"
	"jvmlower/internal/ir"
	"jvmlower/internal/observ"
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
	"jvmlower/internal/trace"
	"jvmlower/internal/types"
)

// Unit is everything the passes need for one compilation unit.
type Unit struct {
	Module  *ir.Module
	Types   *types.Interner
	Symbols *symbols.Table
	Factory *declfactory.Factory
}

// NewUnit wraps m and creates a factory over its tables.
func NewUnit(m *ir.Module, in *types.Interner, syms *symbols.Table, opts ...declfactory.Option) *Unit {
	return &Unit{
		Module:  m,
		Types:   in,
		Symbols: syms,
		Factory: declfactory.New(in, syms, opts...),
	}
}

// Pass is one lowering step.
type Pass struct {
	Name string
	Run  func(*Unit) error
}

// Passes is the fixed pass order. Inner classes go before objects so that a
// companion of an inner class sees its final constructors; file classes go
// last so that they pick up only what is still top level.
var Passes = []Pass{
	{Name: "enum-entries", Run: EnumEntries},
	{Name: "inner-classes", Run: InnerClasses},
	{Name: "objects", Run: Objects},
	{Name: "file-classes", Run: FileClasses},
}

// Run applies every pass to u. Each pass runs inside a ScopePass trace span
// and, when timer is non-nil, a timer phase. A factory fault panics through
// Run; the driver recovers it.
func Run(ctx context.Context, u *Unit, timer *observ.Timer) error {
	if u == nil || u.Module == nil {
		return fmt.Errorf("lower: missing unit")
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	for _, pass := range Passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := u.Factory.Stats().Total()
		span := trace.Begin(tracer, trace.ScopePass, pass.Name, parent)
		phase := timer.Begin(pass.Name)

		err := pass.Run(u)

		added := u.Factory.Stats().Total() - before
		timer.End(phase, added)
		span.WithExtra("module", u.Module.Name)
		span.End(fmt.Sprintf("synthesized=%d", added))
		if err != nil {
			return fmt.Errorf("%s: %w", pass.Name, err)
		}
	}
	return nil
}

// classes returns every class of m in pre-order, enum entry bodies included.
func classes(m *ir.Module) []*ir.Class {
	var out []*ir.Class
	for _, f := range m.Files {
		ir.WalkDeclarations(f, func(d ir.Declaration) bool {
			if c, ok := d.(*ir.Class); ok {
				out = append(out, c)
			}
			return true
		})
	}
	return out
}

func transformModule(m *ir.Module, fn func(*ir.Expr) *ir.Expr) {
	for _, f := range m.Files {
		ir.TransformBodies(f, fn)
	}
}

// attach adds d to parent unless it is already there.
func attach(parent ir.Parent, d ir.Declaration) {
	switch p := parent.(type) {
	case *ir.Class:
		if !slices.Contains(p.Declarations, d) {
			p.AddDeclaration(d)
		}
	case *ir.File:
		if !slices.Contains(p.Declarations, d) {
			p.AddDeclaration(d)
		}
	}
}

func staticGet(field *ir.Field, typ types.TypeID, span source.Span) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprGetField, Type: typ, Span: span, Data: ir.GetFieldData{Field: field}}
}
