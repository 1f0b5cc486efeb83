package declfactory_test

import (
	"jvmlower/internal/declfactory"
	"jvmlower/internal/ir"
	"jvmlower/internal/source"
)

// unit is a small hand-built compilation unit.
type unit struct {
	b    *ir.Builder
	file *ir.File
}

func newUnit() *unit {
	b := ir.NewBuilder()
	return &unit{b: b, file: b.File("src/app/main.kt", "app", []byte("package app"))}
}

func (u *unit) factory(opts ...declfactory.Option) *declfactory.Factory {
	return declfactory.New(u.b.Types, u.b.Symbols, opts...)
}

func (u *unit) class(parent ir.Parent, name string, kind ir.ClassKind, opts ir.ClassOptions) *ir.Class {
	return u.b.Class(parent, name, kind, opts)
}

// colorEnum builds `enum class Color(val rgb: Int) { RED(0xFF0000), GREEN(0x00FF00) }`.
func (u *unit) colorEnum() (*ir.Class, *ir.EnumEntry, *ir.EnumEntry) {
	color := u.class(u.file, "Color", ir.ClassKindEnumClass, ir.ClassOptions{})
	ctor := u.b.Constructor(color, true, source.Span{Start: 10, End: 30})
	u.b.Param(ctor, "rgb", u.b.Types.Builtins().Int, source.Span{Start: 12, End: 20})
	red := u.b.EnumEntry(color, "RED", ctor, source.Span{Start: 40, End: 53}, u.b.IntConst("0xFF0000"))
	green := u.b.EnumEntry(color, "GREEN", ctor, source.Span{Start: 55, End: 70}, u.b.IntConst("0x00FF00"))
	return color, red, green
}

// innerPair builds `class Outer { inner class Inner }`.
func (u *unit) innerPair() (*ir.Class, *ir.Class) {
	outer := u.class(u.file, "Outer", ir.ClassKindClass, ir.ClassOptions{})
	inner := u.class(outer, "Inner", ir.ClassKindClass, ir.ClassOptions{IsInner: true})
	return outer, inner
}
