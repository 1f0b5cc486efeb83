package lower

import (
	"errors"
	"fmt"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
)

// ErrMissingOuterInstance is returned when an inner class is constructed
// without a dispatch receiver to pass as its outer instance.
var ErrMissingOuterInstance = errors.New("inner class constructed without outer instance")

// InnerClasses gives every inner class its outer-instance field, swaps its
// constructors for ones taking the outer instance first and rewrites every
// constructor call to pass the dispatch receiver as argument 0.
func InnerClasses(u *Unit) error {
	replaced := make(map[*ir.Constructor]*ir.Constructor)
	for _, c := range classes(u.Module) {
		if !c.IsInner {
			continue
		}
		outerField := u.Factory.OuterThisField(c)
		attach(c, outerField)
		for i, d := range c.Declarations {
			old, ok := d.(*ir.Constructor)
			if !ok || takesOuter(old) {
				continue
			}
			ctor := u.Factory.InnerConstructorWithOuterParameter(old)
			moveBody(u, c, old, ctor, outerField)
			c.Declarations[i] = ctor
			replaced[old] = ctor
		}
		rewriteOuterThis(u, c, outerField)
	}
	if len(replaced) == 0 {
		return nil
	}

	var err error
	transformModule(u.Module, func(e *ir.Expr) *ir.Expr {
		data, ok := e.Data.(ir.ConstructorCallData)
		if !ok {
			return e
		}
		ctor, ok := replaced[data.Constructor]
		if !ok {
			return e
		}
		if data.Dispatch == nil {
			if err == nil {
				cls, _ := ir.ParentClass(ctor)
				err = fmt.Errorf("%s at %s: %w", cls.Name, e.Span, ErrMissingOuterInstance)
			}
			return e
		}
		args := make([]*ir.Expr, 0, len(data.Args)+1)
		args = append(args, data.Dispatch)
		args = append(args, data.Args...)
		e.Data = ir.ConstructorCallData{Constructor: ctor, Args: args}
		return e
	})
	return err
}

// takesOuter reports whether ctor already has the outer instance parameter.
func takesOuter(ctor *ir.Constructor) bool {
	return len(ctor.Params) > 0 && ctor.Params[0].Origin == ir.OriginFieldForOuterThis
}

// moveBody hands old's body to ctor, storing $outer into the outer field
// first and redirecting parameter reads to the shifted parameters.
func moveBody(u *Unit, inner *ir.Class, old, ctor *ir.Constructor, outerField *ir.Field) {
	params := make(map[*ir.ValueParameter]*ir.ValueParameter, len(old.Params))
	for i, p := range old.Params {
		params[p] = ctor.Params[i+1]
	}
	outerParam := ctor.Params[0]
	outer, _ := ir.ParentClass(inner)
	remap := func(e *ir.Expr) *ir.Expr {
		switch data := e.Data.(type) {
		case ir.GetValueData:
			if p, ok := params[data.Param]; ok {
				return getValue(p, e.Span)
			}
		case ir.ThisData:
			if data.Class == outer {
				return getValue(outerParam, e.Span)
			}
		}
		return e
	}

	body := make([]*ir.Expr, 0, len(old.Body)+1)
	body = append(body, &ir.Expr{
		Kind: ir.ExprSetField,
		Type: u.Types.Builtins().Unit,
		Span: source.Undefined,
		Data: ir.SetFieldData{
			Field:    outerField,
			Receiver: thisOf(u, inner),
			Value:    getValue(outerParam, source.Undefined),
		},
	})
	for _, e := range old.Body {
		body = append(body, ir.Transform(e, remap))
	}
	for _, p := range ctor.Params[1:] {
		// the original constructor's parameters still hold these defaults
		p.Default = ir.Transform(ir.CloneExpr(p.Default), remap)
	}
	ctor.Body = body
	old.Body = nil
}

// rewriteOuterThis turns `this@Outer` in the members of inner into a read of
// the outer-instance field. Constructors were handled by moveBody and nested
// classes keep their own receivers.
func rewriteOuterThis(u *Unit, inner *ir.Class, outerField *ir.Field) {
	outer, ok := ir.ParentClass(inner)
	if !ok {
		return
	}
	fn := func(e *ir.Expr) *ir.Expr {
		data, ok := e.Data.(ir.ThisData)
		if !ok || data.Class != outer {
			return e
		}
		return &ir.Expr{
			Kind: ir.ExprGetField,
			Type: outerField.Type,
			Span: e.Span,
			Data: ir.GetFieldData{Field: outerField, Receiver: thisOf(u, inner)},
		}
	}
	for _, d := range inner.Declarations {
		switch d.(type) {
		case *ir.Class, *ir.Constructor:
			continue
		}
		ir.TransformBodies(d, fn)
	}
}

func getValue(p *ir.ValueParameter, span source.Span) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprGetValue, Type: p.Type, Span: span, Data: ir.GetValueData{Param: p}}
}

func thisOf(u *Unit, c *ir.Class) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprThis, Type: c.DefaultType(u.Types), Span: source.Undefined, Data: ir.ThisData{Class: c}}
}
