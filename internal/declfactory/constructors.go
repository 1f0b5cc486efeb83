package declfactory

import (
	"slices"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
)

const outerParameterName = "$outer"

// InnerConstructorWithOuterParameter returns the JVM form of a constructor
// of an inner class: the same constructor with a leading `$outer` parameter
// carrying the enclosing instance. The original parameters follow, shifted by
// one index, with their default values and vararg element types intact.
//
// The returned constructor has no body; the lowering pass that swaps it in
// moves the body over and remaps parameter reads.
func (f *Factory) InnerConstructorWithOuterParameter(ctor *ir.Constructor) *ir.Constructor {
	const op = "InnerConstructorWithOuterParameter"
	if ctor == nil {
		fault(op, nil, f.types, "constructor is nil")
	}
	inner, ok := ir.ParentClass(ctor)
	if !ok {
		fault(op, ctor, f.types, "constructor is not declared in a class")
	}
	if !inner.IsInner {
		fault(op, inner, f.types, "class is not inner: %s", inner.Name)
	}
	if newCtor, ok := f.innerCtors[ctor]; ok {
		return newCtor
	}
	newCtor := f.createInnerConstructor(op, inner, ctor)
	f.innerCtors[ctor] = newCtor
	f.created(newCtor, inner)
	return newCtor
}

func (f *Factory) createInnerConstructor(op string, inner *ir.Class, old *ir.Constructor) *ir.Constructor {
	outer, ok := ir.ParentClass(inner)
	if !ok {
		fault(op, inner, f.types, "no containing class for inner class %s", inner.Name)
	}
	outerType := outer.DefaultType(f.types)

	ctor := &ir.Constructor{
		IsPrimary:  old.IsPrimary,
		Visibility: old.Visibility,
		ReturnType: old.ReturnType,
		TypeParams: slices.Clone(old.TypeParams),
	}
	ctor.Span = old.Span
	ctor.Origin = old.Origin
	ctor.Parent = old.Parent
	ctor.Symbol = f.declare("<init>", symbols.Symbol{
		Kind:       symbols.SymbolConstructor,
		Owner:      inner.Symbol,
		Visibility: old.Visibility,
		Flags:      f.flagsOf(old.Symbol),
		Span:       old.Span,
	})

	outerParam := &ir.ValueParameter{Name: outerParameterName, Index: 0, Type: outerType}
	outerParam.Span = source.Undefined
	outerParam.Origin = ir.OriginFieldForOuterThis
	outerParam.Parent = ctor
	outerParam.Symbol = f.declare(outerParameterName, symbols.Symbol{
		Kind:  symbols.SymbolValueParameter,
		Owner: ctor.Symbol,
		Flags: symbols.AccFinal | symbols.AccSynthetic,
		Span:  source.Undefined,
	})

	params := make([]*ir.ValueParameter, 0, len(old.Params)+1)
	params = append(params, outerParam)
	for i, oldParam := range old.Params {
		p := &ir.ValueParameter{
			Name:       oldParam.Name,
			Index:      i + 1,
			Type:       oldParam.Type,
			VarargElem: oldParam.VarargElem,
			Default:    oldParam.Default,
		}
		p.Span = oldParam.Span
		p.Origin = oldParam.Origin
		p.Parent = ctor
		p.Symbol = f.declare(oldParam.Name, symbols.Symbol{
			Kind:  symbols.SymbolValueParameter,
			Owner: ctor.Symbol,
			Flags: f.flagsOf(oldParam.Symbol),
			Span:  oldParam.Span,
		})
		params = append(params, p)
	}
	ctor.Params = params
	return ctor
}

func (f *Factory) flagsOf(id symbols.SymbolID) symbols.AccessFlags {
	if sym := f.symbols.Get(id); sym != nil {
		return sym.Flags
	}
	return 0
}
