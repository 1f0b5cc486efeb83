package testkit

import (
	"strings"
	"testing"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
)

func sample() (*ir.Module, *ir.Class, *ir.Constructor) {
	b := ir.NewBuilder()
	file := b.File("src/app/main.kt", "app", []byte("package app"))
	outer := b.Class(file, "Outer", ir.ClassKindClass, ir.ClassOptions{})
	ctor := b.Constructor(outer, true, source.Span{Start: 10, End: 20})
	b.Param(ctor, "x", b.Types.Builtins().Int, source.Undefined)
	return &ir.Module{Name: "app", Files: []*ir.File{file}}, outer, ctor
}

func TestCheckModuleAcceptsBuilderTree(t *testing.T) {
	m, _, _ := sample()
	if err := CheckModule(m); err != nil {
		t.Fatalf("CheckModule: %v", err)
	}
}

func TestCheckModuleFindsViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor)
		want   string
	}{
		{"parent", func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor) {
			ctor.Params[0].Parent = outer
		}, "is not its container"},
		{"duplicate", func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor) {
			outer.Declarations = append(outer.Declarations, ctor)
		}, "listed twice"},
		{"index", func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor) {
			ctor.Params[0].Index = 3
		}, "has index 3 at position 0"},
		{"span", func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor) {
			ctor.Params[0].Span = source.Span{Start: 5, End: 25}
		}, "is outside"},
		{"backs", func(m *ir.Module, outer *ir.Class, ctor *ir.Constructor) {
			f := &ir.Field{Name: "INSTANCE"}
			f.Origin = ir.OriginFieldForObjectInstance
			f.Span = source.Undefined
			outer.AddDeclaration(f)
		}, "backs nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, outer, ctor := sample()
			tt.mutate(m, outer, ctor)
			err := CheckModule(m)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
