package ir

import (
	"fmt"
	"io"
	"strings"

	"jvmlower/internal/types"
)

// Printer renders declarations as an indented structural dump, one node per
// line. The format is meant for tests and internal error reports.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a printer; interner may be nil, types then print as "?".
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes d and everything below it.
func Dump(w io.Writer, d Declaration, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	p.PrintDecl(d)
	return p.err
}

// DumpString is Dump into a string. A nil declaration renders as "<nil>".
func DumpString(d Declaration, interner *types.Interner) string {
	if d == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if err := Dump(&sb, d, interner); err != nil {
		return fmt.Sprintf("<dump failed: %v>", err)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// DumpModule writes every file of m.
func DumpModule(w io.Writer, m *Module, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	p.printf("MODULE %s\n", m.Name)
	p.indent++
	for _, f := range m.Files {
		p.PrintDecl(f)
	}
	p.indent--
	return p.err
}

// PrintDecl prints one declaration subtree.
func (p *Printer) PrintDecl(d Declaration) {
	switch n := d.(type) {
	case *File:
		p.line("FILE fqName:%s fileName:%s", n.Package, Name(n))
		p.nested(n.Declarations)
	case *Class:
		p.line("CLASS %s %s name:%s modality:%s visibility:%s%s superTypes:[%s]",
			n.Origin, n.Kind, n.Name, strings.ToUpper(n.Modality.String()), n.Visibility,
			classAttrs(n), p.typeList(n.Supertypes))
		p.nested(n.Declarations)
	case *EnumEntry:
		p.line("ENUM_ENTRY %s name:%s", n.Origin, n.Name)
		if n.Initializer != nil {
			p.indent++
			p.line("init:")
			p.expr(n.Initializer, 1)
			p.indent--
		}
		if n.Body != nil {
			p.nested([]Declaration{n.Body})
		}
	case *Field:
		p.line("FIELD %s name:%s type:%s visibility:%s%s", n.Origin, n.Name, p.typeStr(n.Type), n.Visibility, flagAttrs(n.Flags.Strings()))
		if n.Initializer != nil {
			p.indent++
			p.line("initializer:")
			p.expr(n.Initializer, 1)
			p.indent--
		}
	case *Constructor:
		attrs := ""
		if n.IsPrimary {
			attrs = " [primary]"
		}
		p.line("CONSTRUCTOR %s visibility:%s (%s) returnType:%s%s", n.Origin, n.Visibility, p.paramList(n.Params), p.typeStr(n.ReturnType), attrs)
		p.params(n.Params)
		p.body(n.Body)
	case *ValueParameter:
		p.param(n)
	case *Function:
		static := ""
		if n.IsStatic {
			static = " [static]"
		}
		p.line("FUN %s name:%s visibility:%s (%s) returnType:%s%s", n.Origin, n.Name, n.Visibility, p.paramList(n.Params), p.typeStr(n.ReturnType), static)
		p.params(n.Params)
		p.body(n.Body)
	case *Property:
		kind := "val"
		if n.IsVar {
			kind = "var"
		}
		p.line("PROPERTY %s name:%s type:%s visibility:%s [%s]", n.Origin, n.Name, p.typeStr(n.Type), n.Visibility, kind)
		if n.Initializer != nil {
			p.expr(n.Initializer, 1)
		}
	case nil:
		p.line("<nil>")
	default:
		p.line("<unknown %T>", d)
	}
}

func (p *Printer) nested(decls []Declaration) {
	p.indent++
	for _, d := range decls {
		p.PrintDecl(d)
	}
	p.indent--
}

func (p *Printer) params(params []*ValueParameter) {
	p.indent++
	for _, v := range params {
		p.param(v)
	}
	p.indent--
}

func (p *Printer) param(v *ValueParameter) {
	vararg := ""
	if v.IsVararg() {
		vararg = " varargElementType:" + p.typeStr(v.VarargElem)
	}
	p.line("VALUE_PARAMETER %s name:%s index:%d type:%s%s", v.Origin, v.Name, v.Index, p.typeStr(v.Type), vararg)
	if v.Default != nil {
		p.indent++
		p.line("default:")
		p.expr(v.Default, 1)
		p.indent--
	}
}

func (p *Printer) body(body []*Expr) {
	if len(body) == 0 {
		return
	}
	p.indent++
	p.line("BLOCK_BODY")
	for _, e := range body {
		p.expr(e, 1)
	}
	p.indent--
}

func (p *Printer) expr(e *Expr, depth int) {
	p.indent += depth
	defer func() { p.indent -= depth }()
	if e == nil {
		p.line("<nil>")
		return
	}
	switch d := e.Data.(type) {
	case ConstData:
		p.line("CONST type=%s value=%s", p.typeStr(e.Type), d.Text)
	case GetValueData:
		p.line("GET_VAR '%s' type=%s", d.Param.Name, p.typeStr(e.Type))
	case ThisData:
		p.line("THIS '%s' type=%s", d.Class.Name, p.typeStr(e.Type))
	case GetFieldData:
		p.line("GET_FIELD '%s' type=%s", d.Field.Name, p.typeStr(e.Type))
		if d.Receiver != nil {
			p.expr(d.Receiver, 1)
		}
	case SetFieldData:
		p.line("SET_FIELD '%s'", d.Field.Name)
		if d.Receiver != nil {
			p.expr(d.Receiver, 1)
		}
		p.expr(d.Value, 1)
	case GetObjectValueData:
		p.line("GET_OBJECT '%s' type=%s", d.Class.Name, p.typeStr(e.Type))
	case GetEnumValueData:
		p.line("GET_ENUM '%s' type=%s", d.Entry.Name, p.typeStr(e.Type))
	case ConstructorCallData:
		owner := "?"
		if cls, ok := ParentClass(d.Constructor); ok {
			owner = cls.Name
		}
		p.line("CONSTRUCTOR_CALL '%s.<init>' type=%s", owner, p.typeStr(e.Type))
		if d.Dispatch != nil {
			p.indent++
			p.line("$outer:")
			p.expr(d.Dispatch, 1)
			p.indent--
		}
		for _, a := range d.Args {
			p.expr(a, 1)
		}
	case CallData:
		p.line("CALL '%s' type=%s", d.Function.Name, p.typeStr(e.Type))
		if d.Receiver != nil {
			p.expr(d.Receiver, 1)
		}
		for _, a := range d.Args {
			p.expr(a, 1)
		}
	case ReturnData:
		p.line("RETURN")
		if d.Value != nil {
			p.expr(d.Value, 1)
		}
	default:
		p.line("%s type=%s", e.Kind, p.typeStr(e.Type))
	}
}

func (p *Printer) paramList(params []*ValueParameter) string {
	parts := make([]string, len(params))
	for i, v := range params {
		parts[i] = v.Name + ":" + p.typeStr(v.Type)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) typeList(ids []types.TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.typeStr(id)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) typeStr(id types.TypeID) string {
	return types.Label(p.interner, id)
}

func classAttrs(c *Class) string {
	var attrs []string
	if c.IsInner {
		attrs = append(attrs, "inner")
	}
	if c.IsCompanion {
		attrs = append(attrs, "companion")
	}
	return flagAttrs(attrs)
}

func flagAttrs(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ",") + "]"
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.printIndent()
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
