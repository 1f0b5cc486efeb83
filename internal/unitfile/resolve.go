package unitfile

import (
	"fmt"
	"strings"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
	"jvmlower/internal/types"
)

// resolveType parses names like "Int", "String?", "Array<Long>",
// "Box<T>" or "app.Outer.Inner". Type parameters of cls and of its
// enclosing classes are in scope.
func (l *loader) resolveType(name string, cls *ir.Class) (types.TypeID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.NoTypeID, fmt.Errorf("missing type: %w", ErrUnknownType)
	}
	in := l.b.Types
	if base, ok := strings.CutSuffix(name, "?"); ok {
		id, err := l.resolveType(base, cls)
		if err != nil {
			return types.NoTypeID, err
		}
		return in.MakeNullable(id), nil
	}
	if open := strings.IndexByte(name, '<'); open >= 0 {
		if !strings.HasSuffix(name, ">") {
			return types.NoTypeID, fmt.Errorf("%q: %w", name, ErrUnknownType)
		}
		var args []types.TypeID
		for _, part := range splitArgs(name[open+1 : len(name)-1]) {
			id, err := l.resolveType(part, cls)
			if err != nil {
				return types.NoTypeID, err
			}
			args = append(args, id)
		}
		return l.applyClass(name[:open], args)
	}
	if id, ok := builtinType(in, name); ok {
		return id, nil
	}
	for c := cls; c != nil; c, _ = ir.ParentClass(c) {
		info, ok := in.ClassInfo(c.Type)
		if !ok {
			continue
		}
		for _, tp := range info.TypeParams {
			if p, ok := in.TypeParamInfo(tp); ok && p.Name == name {
				return tp, nil
			}
		}
	}
	return l.applyClass(name, nil)
}

func (l *loader) applyClass(name string, args []types.TypeID) (types.TypeID, error) {
	in := l.b.Types
	if name == "Array" {
		if len(args) != 1 {
			return types.NoTypeID, fmt.Errorf("Array takes one type argument: %w", ErrUnknownType)
		}
		return in.ArrayOf(args[0]), nil
	}
	cls, err := l.lookupClass(name)
	if err != nil {
		return types.NoTypeID, fmt.Errorf("%q: %w", name, ErrUnknownType)
	}
	info, _ := in.ClassInfo(cls.Type)
	if len(args) != len(info.TypeParams) {
		return types.NoTypeID, fmt.Errorf("%s expects %d type arguments, got %d: %w", name, len(info.TypeParams), len(args), ErrInvalid)
	}
	if len(args) == 0 {
		return cls.Type, nil
	}
	return in.Apply(cls.Type, args), nil
}

func builtinType(in *types.Interner, name string) (types.TypeID, bool) {
	b := in.Builtins()
	switch name {
	case "Unit":
		return b.Unit, true
	case "Nothing":
		return b.Nothing, true
	case "Any":
		return b.Any, true
	case "Boolean":
		return b.Bool, true
	case "Char":
		return b.Char, true
	case "Byte":
		return b.Byte, true
	case "Short":
		return b.Short, true
	case "Int":
		return b.Int, true
	case "Long":
		return b.Long, true
	case "Float":
		return b.Float, true
	case "Double":
		return b.Double, true
	case "String":
		return b.String, true
	}
	return types.NoTypeID, false
}

// splitArgs splits a type argument list at top-level commas.
func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func (l *loader) exprs(list []Expr, scope *exprScope) ([]*ir.Expr, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*ir.Expr, 0, len(list))
	for i := range list {
		e, err := l.expr(&list[i], scope)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *loader) expr(e *Expr, scope *exprScope) (*ir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	b := l.b
	switch e.Kind {
	case "const":
		return l.constant(e, scope)
	case "param":
		p, ok := scope.params[e.Ref]
		if !ok {
			return nil, fmt.Errorf("parameter %s: %w", e.Ref, ErrUnresolved)
		}
		return b.GetValue(p), nil
	case "this":
		if scope.cls == nil {
			return nil, fmt.Errorf("this outside a class: %w", ErrInvalid)
		}
		if e.Ref == "" {
			return b.This(scope.cls), nil
		}
		target, err := l.lookupClass(e.Ref)
		if err != nil {
			return nil, err
		}
		for c := scope.cls; c != nil; c, _ = ir.ParentClass(c) {
			if c == target {
				return b.This(target), nil
			}
		}
		return nil, fmt.Errorf("this@%s is not an enclosing class of %s: %w", target.Name, scope.cls.Name, ErrInvalid)
	case "enum":
		dot := strings.LastIndexByte(e.Ref, '.')
		if dot < 0 {
			return nil, fmt.Errorf("enum reference %q needs Class.ENTRY: %w", e.Ref, ErrInvalid)
		}
		enum, err := l.lookupClass(e.Ref[:dot])
		if err != nil {
			return nil, err
		}
		for _, entry := range enum.EnumEntries() {
			if entry.Name == e.Ref[dot+1:] {
				return b.GetEnum(entry), nil
			}
		}
		return nil, fmt.Errorf("enum entry %s: %w", e.Ref, ErrUnresolved)
	case "object":
		cls, err := l.lookupClass(e.Ref)
		if err != nil {
			return nil, err
		}
		if !cls.IsObject() {
			return nil, fmt.Errorf("%s is not an object: %w", e.Ref, ErrInvalid)
		}
		return b.GetObject(cls), nil
	case "new":
		cls, err := l.lookupClass(e.Ref)
		if err != nil {
			return nil, err
		}
		ctors := cls.Constructors()
		if e.Index < 0 || e.Index >= len(ctors) {
			return nil, fmt.Errorf("%s has no constructor %d: %w", e.Ref, e.Index, ErrUnresolved)
		}
		outer, err := l.expr(e.Outer, scope)
		if err != nil {
			return nil, err
		}
		args, err := l.exprs(e.Args, scope)
		if err != nil {
			return nil, err
		}
		return b.ConstructorCall(ctors[e.Index], outer, source.Undefined, args...), nil
	case "call":
		fn, ok := l.functions[e.Ref]
		if !ok {
			return nil, fmt.Errorf("function %s: %w", e.Ref, ErrUnresolved)
		}
		recv, err := l.expr(e.Outer, scope)
		if err != nil {
			return nil, err
		}
		args, err := l.exprs(e.Args, scope)
		if err != nil {
			return nil, err
		}
		return &ir.Expr{
			Kind: ir.ExprCall,
			Type: fn.ReturnType,
			Span: source.Undefined,
			Data: ir.CallData{Function: fn, Receiver: recv, Args: args},
		}, nil
	case "return":
		value, err := l.expr(e.Result, scope)
		if err != nil {
			return nil, err
		}
		return b.Return(value), nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q: %w", e.Kind, ErrInvalid)
	}
}

func (l *loader) constant(e *Expr, scope *exprScope) (*ir.Expr, error) {
	typeName := e.Type
	if typeName == "" {
		typeName = "Int"
	}
	typ, err := l.resolveType(typeName, scope.cls)
	if err != nil {
		return nil, err
	}
	if e.Value == "null" {
		return l.b.Const(ir.LiteralNull, l.b.Types.MakeNullable(typ), "null"), nil
	}
	var kind ir.LiteralKind
	switch strings.TrimSuffix(typeName, "?") {
	case "Int", "Short", "Byte":
		kind = ir.LiteralInt
	case "Long":
		kind = ir.LiteralLong
	case "Float", "Double":
		kind = ir.LiteralFloat
	case "Boolean":
		kind = ir.LiteralBool
	case "Char":
		kind = ir.LiteralChar
	case "String":
		kind = ir.LiteralString
	default:
		return nil, fmt.Errorf("no literals of type %s: %w", typeName, ErrInvalid)
	}
	return l.b.Const(kind, typ, e.Value), nil
}
