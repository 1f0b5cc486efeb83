package unitfile

import (
	"errors"
	"fmt"
	"strings"

	"jvmlower/internal/ir"
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
	"jvmlower/internal/types"
)

var (
	// ErrUnknownType is returned for type names that resolve to nothing.
	ErrUnknownType = errors.New("unknown type")
	// ErrDuplicateClass is returned when two classes share a qualified name.
	ErrDuplicateClass = errors.New("duplicate class")
	// ErrUnresolved is returned for expression references that resolve to nothing.
	ErrUnresolved = errors.New("unresolved reference")
	// ErrInvalid is returned for malformed declarations.
	ErrInvalid = errors.New("invalid declaration")
)

// Loaded is the IR of a unit together with the tables it was built with.
type Loaded struct {
	Module     *ir.Module
	Types      *types.Interner
	Symbols    *symbols.Table
	Files      *source.FileSet
	Companions []string
}

type loader struct {
	b *ir.Builder

	// classes is keyed by qualified name, local by name within the
	// package; a nil local entry is ambiguous.
	classes   map[string]*ir.Class
	local     map[string]*ir.Class
	functions map[string]*ir.Function

	// bodies run after every signature is known.
	bodies []func() error
}

type declaredClass struct {
	schema *Class
	cls    *ir.Class
	file   *ir.File
}

// exprScope is what an expression can refer to.
type exprScope struct {
	cls    *ir.Class
	params map[string]*ir.ValueParameter
	file   source.FileID
}

// Build turns u into IR. Every class gets a primary constructor if it
// declares none.
func Build(u *Unit) (*Loaded, error) {
	if u == nil || u.Module == "" {
		return nil, ErrMissingModule
	}
	l := &loader{
		b:         ir.NewBuilder(),
		classes:   make(map[string]*ir.Class),
		local:     make(map[string]*ir.Class),
		functions: make(map[string]*ir.Function),
	}
	m := &ir.Module{Name: u.Module}

	var declared []declaredClass
	for i := range u.Files {
		sf := &u.Files[i]
		if strings.TrimSpace(sf.Path) == "" {
			return nil, fmt.Errorf("file %d: missing path: %w", i, ErrInvalid)
		}
		file := l.b.File(sf.Path, sf.Package, nil)
		file.JvmName = sf.JvmName
		m.Files = append(m.Files, file)
		out, err := l.declareClasses(file, file, sf.Package, "", sf.Classes, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sf.Path, err)
		}
		declared = append(declared, out...)
	}

	for i, file := range m.Files {
		sf := &u.Files[i]
		if err := l.declareMembers(file, file, nil, sf.Functions, sf.Properties); err != nil {
			return nil, fmt.Errorf("%s: %w", sf.Path, err)
		}
	}
	for _, d := range declared {
		if err := l.declareClassMembers(d); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", d.file.Entry.Path, d.cls.Name, err)
		}
	}
	for _, body := range l.bodies {
		if err := body(); err != nil {
			return nil, err
		}
	}

	return &Loaded{
		Module:     m,
		Types:      l.b.Types,
		Symbols:    l.b.Symbols,
		Files:      l.b.Files,
		Companions: append([]string(nil), u.Companions...),
	}, nil
}

func (l *loader) declareClasses(file *ir.File, parent ir.Parent, pkg, prefix string, list []Class, out []declaredClass) ([]declaredClass, error) {
	for i := range list {
		sc := &list[i]
		if sc.Name == "" {
			return nil, fmt.Errorf("class %d: missing name: %w", i, ErrInvalid)
		}
		kind, err := parseKind(sc.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Name, err)
		}
		vis, err := parseVisibility(sc.Visibility)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Name, err)
		}
		mod, err := parseModality(sc.Modality)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Name, err)
		}
		if sc.Companion && kind != ir.ClassKindObject {
			return nil, fmt.Errorf("%s: companion must be an object: %w", sc.Name, ErrInvalid)
		}
		cls := l.b.Class(parent, sc.Name, kind, ir.ClassOptions{
			Visibility:  vis,
			Modality:    mod,
			IsInner:     sc.Inner,
			IsCompanion: sc.Companion,
			TypeParams:  sc.TypeParams,
			Span:        spanOf(file.Span.File, sc.Span),
		})
		path := sc.Name
		if prefix != "" {
			path = prefix + "." + sc.Name
		}
		if err := l.registerClass(pkg, path, cls); err != nil {
			return nil, err
		}
		out = append(out, declaredClass{schema: sc, cls: cls, file: file})
		out, err = l.declareClasses(file, cls, pkg, path, sc.Classes, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *loader) registerClass(pkg, path string, cls *ir.Class) error {
	fq := path
	if pkg != "" {
		fq = pkg + "." + path
	}
	if _, ok := l.classes[fq]; ok {
		return fmt.Errorf("%s: %w", fq, ErrDuplicateClass)
	}
	l.classes[fq] = cls
	if fq == path {
		return nil
	}
	if _, ok := l.local[path]; ok {
		l.local[path] = nil
		return nil
	}
	l.local[path] = cls
	return nil
}

// lookupClass resolves a qualified name, or a name relative to its package
// when that is unique in the unit.
func (l *loader) lookupClass(ref string) (*ir.Class, error) {
	if cls, ok := l.classes[ref]; ok {
		return cls, nil
	}
	cls, ok := l.local[ref]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", ref, ErrUnresolved)
	}
	if cls == nil {
		return nil, fmt.Errorf("class %s is ambiguous, qualify it with its package: %w", ref, ErrUnresolved)
	}
	return cls, nil
}

func (l *loader) declareClassMembers(d declaredClass) error {
	sc, cls := d.schema, d.cls
	fileID := d.file.Span.File
	for i := range sc.Constructors {
		if err := l.declareConstructor(cls, fileID, &sc.Constructors[i]); err != nil {
			return fmt.Errorf("constructor %d: %w", i, err)
		}
	}
	if len(sc.Constructors) == 0 && cls.Kind != ir.ClassKindInterface && cls.Kind != ir.ClassKindAnnotation {
		l.b.Constructor(cls, true, source.Undefined)
	}
	if len(sc.Entries) > 0 && cls.Kind != ir.ClassKindEnumClass {
		return fmt.Errorf("entries outside an enum class: %w", ErrInvalid)
	}
	for i := range sc.Entries {
		if err := l.declareEntry(cls, fileID, &sc.Entries[i]); err != nil {
			return fmt.Errorf("entry %s: %w", sc.Entries[i].Name, err)
		}
	}
	return l.declareMembers(d.file, cls, cls, sc.Functions, sc.Properties)
}

func (l *loader) declareConstructor(cls *ir.Class, fileID source.FileID, sc *Constructor) error {
	vis, err := parseVisibility(sc.Visibility)
	if err != nil {
		return err
	}
	ctor := l.b.Constructor(cls, sc.Primary, spanOf(fileID, sc.Span))
	ctor.Visibility = vis
	if sym := l.b.Symbols.Get(ctor.Symbol); sym != nil {
		sym.Visibility = vis
	}
	scope, err := l.declareParams(ctor, cls, fileID, sc.Params)
	if err != nil {
		return err
	}
	body := sc.Body
	l.bodies = append(l.bodies, func() error {
		exprs, err := l.exprs(body, scope)
		if err != nil {
			return fmt.Errorf("%s constructor: %w", cls.Name, err)
		}
		ctor.Body = exprs
		return nil
	})
	return nil
}

func (l *loader) declareEntry(enum *ir.Class, fileID source.FileID, se *Entry) error {
	if se.Name == "" {
		return fmt.Errorf("missing name: %w", ErrInvalid)
	}
	entry := l.b.EnumEntry(enum, se.Name, nil, spanOf(fileID, se.Span))
	ctors := enum.Constructors()
	if se.Constructor < 0 || se.Constructor >= len(ctors) {
		return fmt.Errorf("constructor index %d out of range: %w", se.Constructor, ErrInvalid)
	}
	ctor := ctors[se.Constructor]
	args := se.Args
	scope := &exprScope{cls: enum, file: fileID}
	l.bodies = append(l.bodies, func() error {
		exprs, err := l.exprs(args, scope)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", enum.Name, entry.Name, err)
		}
		entry.Initializer = l.b.ConstructorCall(ctor, nil, entry.Span, exprs...)
		return nil
	})
	return nil
}

// declareMembers declares functions and properties in parent; cls is the
// class providing `this` and type parameters, nil at top level.
func (l *loader) declareMembers(file *ir.File, parent ir.Parent, cls *ir.Class, fns []Function, props []Property) error {
	fileID := file.Span.File
	for i := range fns {
		sf := &fns[i]
		if sf.Name == "" {
			return fmt.Errorf("function %d: missing name: %w", i, ErrInvalid)
		}
		ret := l.b.Types.Builtins().Unit
		if sf.Returns != "" {
			var err error
			if ret, err = l.resolveType(sf.Returns, cls); err != nil {
				return fmt.Errorf("function %s: %w", sf.Name, err)
			}
		}
		vis, err := parseVisibility(sf.Visibility)
		if err != nil {
			return fmt.Errorf("function %s: %w", sf.Name, err)
		}
		fn := l.b.Function(parent, sf.Name, ret, spanOf(fileID, sf.Span))
		fn.Visibility = vis
		l.registerFunction(file, fn)
		scope, err := l.declareParams(fn, cls, fileID, sf.Params)
		if err != nil {
			return fmt.Errorf("function %s: %w", sf.Name, err)
		}
		body := sf.Body
		l.bodies = append(l.bodies, func() error {
			exprs, err := l.exprs(body, scope)
			if err != nil {
				return fmt.Errorf("function %s: %w", fn.Name, err)
			}
			fn.Body = exprs
			return nil
		})
	}
	for i := range props {
		sp := &props[i]
		if sp.Name == "" {
			return fmt.Errorf("property %d: missing name: %w", i, ErrInvalid)
		}
		typ, err := l.resolveType(sp.Type, cls)
		if err != nil {
			return fmt.Errorf("property %s: %w", sp.Name, err)
		}
		vis, err := parseVisibility(sp.Visibility)
		if err != nil {
			return fmt.Errorf("property %s: %w", sp.Name, err)
		}
		prop := l.b.Property(parent, sp.Name, typ, nil, spanOf(fileID, sp.Span))
		prop.IsVar = sp.Var
		prop.Visibility = vis
		if sp.Init == nil {
			continue
		}
		init := sp.Init
		scope := &exprScope{cls: cls, file: fileID}
		l.bodies = append(l.bodies, func() error {
			e, err := l.expr(init, scope)
			if err != nil {
				return fmt.Errorf("property %s: %w", prop.Name, err)
			}
			prop.Initializer = e
			return nil
		})
	}
	return nil
}

func (l *loader) registerFunction(file *ir.File, fn *ir.Function) {
	l.functions[l.b.Symbols.FQName(fn.Symbol)] = fn
	local := fn.Name
	if cls, ok := ir.ParentClass(fn); ok {
		local = strings.TrimPrefix(l.b.Symbols.FQName(cls.Symbol), file.Package+".") + "." + fn.Name
	}
	if _, ok := l.functions[local]; !ok {
		l.functions[local] = fn
	}
}

func (l *loader) declareParams(owner ir.Parent, cls *ir.Class, fileID source.FileID, params []Param) (*exprScope, error) {
	scope := &exprScope{cls: cls, params: make(map[string]*ir.ValueParameter, len(params)), file: fileID}
	for i := range params {
		sp := &params[i]
		if sp.Name == "" {
			return nil, fmt.Errorf("parameter %d: missing name: %w", i, ErrInvalid)
		}
		if _, dup := scope.params[sp.Name]; dup {
			return nil, fmt.Errorf("parameter %s declared twice: %w", sp.Name, ErrInvalid)
		}
		typ, err := l.resolveType(sp.Type, cls)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", sp.Name, err)
		}
		var p *ir.ValueParameter
		if sp.Vararg {
			p = l.b.VarargParam(owner, sp.Name, typ, spanOf(fileID, sp.Span))
		} else {
			p = l.b.Param(owner, sp.Name, typ, spanOf(fileID, sp.Span))
		}
		scope.params[sp.Name] = p
		if sp.Default == nil {
			continue
		}
		def := sp.Default
		l.bodies = append(l.bodies, func() error {
			e, err := l.expr(def, scope)
			if err != nil {
				return fmt.Errorf("default of %s: %w", p.Name, err)
			}
			p.Default = e
			return nil
		})
	}
	return scope, nil
}

func spanOf(file source.FileID, raw []uint32) source.Span {
	if len(raw) != 2 || raw[1] < raw[0] {
		return source.Undefined
	}
	return source.Span{File: file, Start: raw[0], End: raw[1]}
}

func parseKind(s string) (ir.ClassKind, error) {
	switch strings.ToLower(s) {
	case "", "class":
		return ir.ClassKindClass, nil
	case "interface":
		return ir.ClassKindInterface, nil
	case "enum":
		return ir.ClassKindEnumClass, nil
	case "object":
		return ir.ClassKindObject, nil
	case "annotation":
		return ir.ClassKindAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown class kind %q: %w", s, ErrInvalid)
	}
}

func parseVisibility(s string) (symbols.Visibility, error) {
	switch strings.ToLower(s) {
	case "", "public":
		return symbols.VisibilityPublic, nil
	case "protected":
		return symbols.VisibilityProtected, nil
	case "internal":
		return symbols.VisibilityInternal, nil
	case "private":
		return symbols.VisibilityPrivate, nil
	default:
		return 0, fmt.Errorf("unknown visibility %q: %w", s, ErrInvalid)
	}
}

func parseModality(s string) (symbols.Modality, error) {
	switch strings.ToLower(s) {
	case "", "final":
		return symbols.ModalityFinal, nil
	case "open":
		return symbols.ModalityOpen, nil
	case "abstract":
		return symbols.ModalityAbstract, nil
	case "sealed":
		return symbols.ModalitySealed, nil
	default:
		return 0, fmt.Errorf("unknown modality %q: %w", s, ErrInvalid)
	}
}
