package lower_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"jvmlower/internal/declfactory"
	"jvmlower/internal/ir"
	"jvmlower/internal/lower"
	"jvmlower/internal/observ"
	"jvmlower/internal/source"
	"jvmlower/internal/testkit"
	"jvmlower/internal/trace"
)

type fixture struct {
	b      *ir.Builder
	file   *ir.File
	color  *ir.Class
	red    *ir.EnumEntry
	outer  *ir.Class
	inner  *ir.Class
	ctor   *ir.Constructor
	x      *ir.ValueParameter
	host   *ir.Class
	comp   *ir.Class
	make   *ir.Function
	paint  *ir.Function
	answer *ir.Property
}

// newFixture builds:
//
//	enum class Color(val rgb: Int) { RED(0xFF0000) }
//	class Outer { inner class Inner(x: Int) { init { consume(x, this@Outer) } }
//	              fun make() = Inner(1) }
//	class Host { companion object }
//	fun paint() = Color.RED to Host.Companion
//	val answer = 42
func newFixture() *fixture {
	b := ir.NewBuilder()
	fx := &fixture{b: b}
	fx.file = b.File("src/app/main.kt", "app", []byte("package app"))
	intType := b.Types.Builtins().Int

	fx.color = b.Class(fx.file, "Color", ir.ClassKindEnumClass, ir.ClassOptions{})
	colorCtor := b.Constructor(fx.color, true, source.Undefined)
	b.Param(colorCtor, "rgb", intType, source.Undefined)
	fx.red = b.EnumEntry(fx.color, "RED", colorCtor, source.Span{Start: 3, End: 16}, b.IntConst("0xFF0000"))

	fx.outer = b.Class(fx.file, "Outer", ir.ClassKindClass, ir.ClassOptions{})
	fx.inner = b.Class(fx.outer, "Inner", ir.ClassKindClass, ir.ClassOptions{IsInner: true})
	fx.ctor = b.Constructor(fx.inner, true, source.Span{Start: 40, End: 60})
	fx.x = b.Param(fx.ctor, "x", intType, source.Undefined)
	consume := b.Function(fx.file, "consume", b.Types.Builtins().Unit, source.Undefined)
	fx.ctor.Body = []*ir.Expr{{
		Kind: ir.ExprCall,
		Type: b.Types.Builtins().Unit,
		Data: ir.CallData{Function: consume, Args: []*ir.Expr{b.GetValue(fx.x), b.This(fx.outer)}},
	}}
	fx.make = b.Function(fx.outer, "make", fx.inner.DefaultType(b.Types), source.Undefined)
	fx.make.Body = []*ir.Expr{b.Return(b.ConstructorCall(fx.ctor, b.This(fx.outer), source.Span{Start: 70, End: 78}, b.IntConst("1")))}

	fx.host = b.Class(fx.file, "Host", ir.ClassKindClass, ir.ClassOptions{})
	fx.comp = b.Class(fx.host, "Companion", ir.ClassKindObject, ir.ClassOptions{IsCompanion: true})

	fx.paint = b.Function(fx.file, "paint", b.Types.Builtins().Unit, source.Undefined)
	fx.paint.Body = []*ir.Expr{b.GetEnum(fx.red), b.GetObject(fx.comp)}
	fx.answer = b.Property(fx.file, "answer", intType, b.IntConst("42"), source.Undefined)
	return fx
}

func (fx *fixture) unit() *lower.Unit {
	m := &ir.Module{Name: "app", Files: []*ir.File{fx.file}}
	return lower.NewUnit(m, fx.b.Types, fx.b.Symbols)
}

func TestEnumEntries(t *testing.T) {
	fx := newFixture()
	u := fx.unit()
	require.NoError(t, lower.EnumEntries(u))

	field := u.Factory.FieldForEnumEntry(fx.red)
	require.Contains(t, fx.color.Declarations, ir.Declaration(field))
	require.Equal(t, fx.red.Initializer, field.Initializer)
	require.NotSame(t, fx.red.Initializer, field.Initializer, "entry and field must not share one tree")

	get := fx.paint.Body[0]
	require.Equal(t, ir.ExprGetField, get.Kind)
	data := get.Data.(ir.GetFieldData)
	require.Same(t, field, data.Field)
	require.Nil(t, data.Receiver)
}

func TestInnerClasses(t *testing.T) {
	fx := newFixture()
	u := fx.unit()
	require.NoError(t, lower.InnerClasses(u))

	ctors := fx.inner.Constructors()
	require.Len(t, ctors, 1)
	ctor := ctors[0]
	require.Same(t, u.Factory.InnerConstructorWithOuterParameter(fx.ctor), ctor)
	require.Equal(t, "$outer", ctor.Params[0].Name)
	require.Nil(t, fx.ctor.Body)

	outerField := u.Factory.OuterThisField(fx.inner)
	require.Contains(t, fx.inner.Declarations, ir.Declaration(outerField))

	require.Len(t, ctor.Body, 2)
	store := ctor.Body[0].Data.(ir.SetFieldData)
	require.Same(t, outerField, store.Field)
	require.Same(t, ctor.Params[0], store.Value.Data.(ir.GetValueData).Param)

	call := ctor.Body[1].Data.(ir.CallData)
	require.Same(t, ctor.Params[1], call.Args[0].Data.(ir.GetValueData).Param)
	require.Same(t, ctor.Params[0], call.Args[1].Data.(ir.GetValueData).Param)

	site := fx.make.Body[0].Data.(ir.ReturnData).Value.Data.(ir.ConstructorCallData)
	require.Same(t, ctor, site.Constructor)
	require.Nil(t, site.Dispatch)
	require.Len(t, site.Args, 2)
	require.Equal(t, ir.ExprThis, site.Args[0].Kind)
	require.Equal(t, ir.ExprConst, site.Args[1].Kind)
}

func TestInnerClassesLeavesOriginalDefaults(t *testing.T) {
	fx := newFixture()
	y := fx.b.Param(fx.ctor, "y", fx.b.Types.Builtins().Int, source.Undefined)
	y.Default = fx.b.GetValue(fx.x)
	u := fx.unit()
	require.NoError(t, lower.InnerClasses(u))

	ctor := u.Factory.InnerConstructorWithOuterParameter(fx.ctor)
	require.Len(t, ctor.Params, 3)
	require.Same(t, ctor.Params[1], ctor.Params[2].Default.Data.(ir.GetValueData).Param)
	require.Same(t, fx.x, y.Default.Data.(ir.GetValueData).Param, "original default was rewritten")
	require.NotSame(t, y.Default, ctor.Params[2].Default)
}

func TestEnumEntriesCopiesInitializer(t *testing.T) {
	fx := newFixture()
	other := fx.b.EnumEntry(fx.color, "GREEN", fx.color.Constructors()[0], source.Undefined, fx.b.GetEnum(fx.red))
	u := fx.unit()
	require.NoError(t, lower.EnumEntries(u))

	redField := u.Factory.FieldForEnumEntry(fx.red)
	field := u.Factory.FieldForEnumEntry(other)
	require.NotSame(t, other.Initializer, field.Initializer)
	for _, init := range []*ir.Expr{field.Initializer, other.Initializer} {
		arg := init.Data.(ir.ConstructorCallData).Args[0]
		require.Equal(t, ir.ExprGetField, arg.Kind)
		require.Same(t, redField, arg.Data.(ir.GetFieldData).Field)
	}
}

func TestInnerClassesRewritesOuterThisInMembers(t *testing.T) {
	fx := newFixture()
	peek := fx.b.Function(fx.inner, "peek", fx.outer.DefaultType(fx.b.Types), source.Undefined)
	peek.Body = []*ir.Expr{fx.b.Return(fx.b.This(fx.outer))}
	u := fx.unit()
	require.NoError(t, lower.InnerClasses(u))

	read := peek.Body[0].Data.(ir.ReturnData).Value
	require.Equal(t, ir.ExprGetField, read.Kind)
	data := read.Data.(ir.GetFieldData)
	require.Same(t, u.Factory.OuterThisField(fx.inner), data.Field)
	require.Same(t, fx.inner, data.Receiver.Data.(ir.ThisData).Class)
}

func TestInnerClassesWithoutDispatch(t *testing.T) {
	fx := newFixture()
	fx.paint.Body = append(fx.paint.Body, fx.b.ConstructorCall(fx.ctor, nil, source.Span{Start: 90, End: 95}))
	err := lower.InnerClasses(fx.unit())
	require.Error(t, err)
	require.True(t, errors.Is(err, lower.ErrMissingOuterInstance))
	require.Contains(t, err.Error(), "Inner at 0:90-95")
}

func TestObjects(t *testing.T) {
	fx := newFixture()
	registry := fx.b.Class(fx.file, "Registry", ir.ClassKindObject, ir.ClassOptions{})
	fx.b.Constructor(registry, true, source.Undefined)
	u := fx.unit()
	require.NoError(t, lower.Objects(u))

	compField := u.Factory.ObjectInstanceField(fx.comp)
	require.Equal(t, "Companion", compField.Name)
	require.Contains(t, fx.host.Declarations, ir.Declaration(compField))
	require.NotContains(t, fx.comp.Declarations, ir.Declaration(compField))

	instance := u.Factory.ObjectInstanceField(registry)
	require.Equal(t, "INSTANCE", instance.Name)
	require.Contains(t, registry.Declarations, ir.Declaration(instance))
	require.NotNil(t, instance.Initializer)
	require.Equal(t, ir.ExprConstructorCall, instance.Initializer.Kind)

	get := fx.paint.Body[1].Data.(ir.GetFieldData)
	require.Same(t, compField, get.Field)
}

func TestFileClasses(t *testing.T) {
	fx := newFixture()
	u := fx.unit()
	require.NoError(t, lower.FileClasses(u))

	cls := u.Factory.FileClass(fx.file)
	require.Equal(t, "MainKt", cls.Name)
	require.Contains(t, fx.file.Declarations, ir.Declaration(cls))
	require.NotContains(t, fx.file.Declarations, ir.Declaration(fx.paint))
	require.Same(t, cls, fx.paint.Parent)
	require.True(t, fx.paint.IsStatic)
	require.Equal(t, cls.Symbol, fx.b.Symbols.Get(fx.paint.Symbol).Owner)

	var answer *ir.Field
	for _, d := range cls.Declarations {
		if f, ok := d.(*ir.Field); ok && f.Name == "answer" {
			answer = f
		}
	}
	require.NotNil(t, answer)
	require.True(t, answer.IsStatic())
	require.True(t, answer.Flags.IsFinal())
	require.Same(t, fx.answer.Initializer, answer.Initializer)
}

func TestRunIsIdempotent(t *testing.T) {
	fx := newFixture()
	u := fx.unit()
	timer := observ.NewTimer()
	require.NoError(t, lower.Run(context.Background(), u, timer))
	require.NoError(t, testkit.CheckModule(u.Module))
	first := ir.DumpString(fx.file, fx.b.Types)
	stats := u.Factory.Stats()
	require.Equal(t, declfactory.Stats{
		EnumEntryFields:   1,
		OuterThisFields:   1,
		ObjectFields:      1,
		InnerConstructors: 1,
		FileClasses:       1,
	}, stats)
	require.Equal(t, stats.Total(), timer.Report().Synthesized)
	require.Len(t, timer.Phases(), len(lower.Passes))

	require.NoError(t, lower.Run(context.Background(), u, nil))
	require.Equal(t, stats, u.Factory.Stats())
	require.Equal(t, first, ir.DumpString(fx.file, fx.b.Types))
	require.NoError(t, testkit.CheckModule(u.Module))
}

func TestRunTracesPasses(t *testing.T) {
	fx := newFixture()
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	require.NoError(t, lower.Run(ctx, fx.unit(), nil))

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	require.Equal(t, []string{"enum-entries", "inner-classes", "objects", "file-classes"}, names)
}

func TestRunPropagatesFactoryFaults(t *testing.T) {
	fx := newFixture()
	fx.b.Class(fx.file, "Loose", ir.ClassKindClass, ir.ClassOptions{IsInner: true})
	u := fx.unit()
	ie := declfactory.Catch(func() { _ = lower.Run(context.Background(), u, nil) })
	require.NotNil(t, ie)
	require.Equal(t, "OuterThisField", ie.Op)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lower.Run(ctx, newFixture().unit(), nil)
	require.ErrorIs(t, err, context.Canceled)
}
