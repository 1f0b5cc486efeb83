package lower

import (
	"jvmlower/internal/ir"
	"jvmlower/internal/source"
)

// Objects declares the instance field of every singleton in the class that
// owns it and turns singleton references into static field reads.
func Objects(u *Unit) error {
	for _, c := range classes(u.Module) {
		if !c.IsObject() {
			continue
		}
		field := u.Factory.ObjectInstanceField(c)
		if field.Initializer == nil {
			if ctors := c.Constructors(); len(ctors) > 0 {
				field.Initializer = &ir.Expr{
					Kind: ir.ExprConstructorCall,
					Type: ctors[0].ReturnType,
					Span: source.Undefined,
					Data: ir.ConstructorCallData{Constructor: ctors[0]},
				}
			}
		}
		attach(field.Parent, field)
	}
	transformModule(u.Module, func(e *ir.Expr) *ir.Expr {
		data, ok := e.Data.(ir.GetObjectValueData)
		if !ok {
			return e
		}
		return staticGet(u.Factory.ObjectInstanceField(data.Class), e.Type, e.Span)
	})
	return nil
}
