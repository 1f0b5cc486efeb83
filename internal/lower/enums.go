package lower

import "jvmlower/internal/ir"

// EnumEntries gives every enum entry its static field, initialized with the
// entry's constructor call, and turns entry references into field reads.
func EnumEntries(u *Unit) error {
	for _, c := range classes(u.Module) {
		if c.Kind != ir.ClassKindEnumClass {
			continue
		}
		for _, entry := range c.EnumEntries() {
			field := u.Factory.FieldForEnumEntry(entry)
			if field.Initializer == nil {
				field.Initializer = ir.CloneExpr(entry.Initializer)
			}
			attach(c, field)
		}
	}
	transformModule(u.Module, func(e *ir.Expr) *ir.Expr {
		data, ok := e.Data.(ir.GetEnumValueData)
		if !ok {
			return e
		}
		return staticGet(u.Factory.FieldForEnumEntry(data.Entry), e.Type, e.Span)
	})
	return nil
}
