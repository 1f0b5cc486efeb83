package declfactory_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
	"jvmlower/internal/types"
)

// paramShape bit 0: has default, bit 1: vararg.
const (
	shapeDefault = 1 << iota
	shapeVararg
)

func TestEnumEntryFieldsAreStableAndDistinctProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("one field per entry, same field on every request", prop.ForAll(
		func(n int) bool {
			u := newUnit()
			enum := u.class(u.file, "E", ir.ClassKindEnumClass, ir.ClassOptions{})
			ctor := u.b.Constructor(enum, true, source.Undefined)
			entries := make([]*ir.EnumEntry, n)
			for i := range entries {
				entries[i] = u.b.EnumEntry(enum, fmt.Sprintf("E%d", i), ctor, source.Undefined)
			}
			f := u.factory()
			seen := make(map[*ir.Field]bool, n)
			for _, e := range entries {
				first := f.FieldForEnumEntry(e)
				if f.FieldForEnumEntry(e) != first || seen[first] {
					return false
				}
				if first.Type != enum.DefaultType(u.b.Types) {
					return false
				}
				seen[first] = true
			}
			return f.Stats().EnumEntryFields == n
		},
		gen.IntRange(1, 24),
	))

	properties.TestingRun(t)
}

func TestInnerConstructorShapeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 80
	properties := gopter.NewProperties(parameters)

	properties.Property("outer parameter first, originals shifted by one", prop.ForAll(
		func(shapes []uint8) bool {
			u := newUnit()
			outer, inner := u.innerPair()
			old := u.b.Constructor(inner, false, source.Undefined)
			for i, shape := range shapes {
				name := fmt.Sprintf("p%d", i)
				var p *ir.ValueParameter
				if shape&shapeVararg != 0 {
					p = u.b.VarargParam(old, name, u.b.Types.Builtins().Long, source.Undefined)
				} else {
					p = u.b.Param(old, name, u.b.Types.Builtins().Int, source.Undefined)
				}
				if shape&shapeDefault != 0 {
					p.Default = u.b.IntConst(fmt.Sprint(i))
				}
			}

			ctor := u.factory().InnerConstructorWithOuterParameter(old)
			if len(ctor.Params) != len(old.Params)+1 {
				return false
			}
			if ctor.Params[0].Type != outer.DefaultType(u.b.Types) || ctor.Params[0].Name != "$outer" {
				return false
			}
			for i, orig := range old.Params {
				got := ctor.Params[i+1]
				if got.Name != orig.Name || got.Index != i+1 || got.Default != orig.Default {
					return false
				}
				if got.VarargElem != orig.VarargElem || got.IsVararg() != (shapes[i]&shapeVararg != 0) {
					return false
				}
				if got.Parent != ir.Parent(ctor) {
					return false
				}
			}
			return ctor.ReturnType != types.NoTypeID
		},
		gen.SliceOf(gen.UInt8Range(0, 3)),
	))

	properties.TestingRun(t)
}
