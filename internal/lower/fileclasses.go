package lower

import (
	"jvmlower/internal/ir"
	"jvmlower/internal/symbols"
)

// FileClasses moves the top-level functions and properties of each file into
// the file's facade class. Functions become static methods; properties
// become static fields carrying their initializer. Files without top-level
// callables get no facade.
func FileClasses(u *Unit) error {
	for _, file := range u.Module.Files {
		var keep, move []ir.Declaration
		for _, d := range file.Declarations {
			switch d.(type) {
			case *ir.Function, *ir.Property:
				move = append(move, d)
			default:
				keep = append(keep, d)
			}
		}
		if len(move) == 0 {
			continue
		}
		cls := u.Factory.FileClass(file)
		for _, d := range move {
			switch n := d.(type) {
			case *ir.Function:
				n.IsStatic = true
				reown(u, n.Symbol, cls, symbols.AccStatic)
				cls.AddDeclaration(n)
			case *ir.Property:
				cls.AddDeclaration(staticField(u, cls, n))
			}
		}
		file.Declarations = keep
		attach(file, cls)
	}
	return nil
}

func staticField(u *Unit, cls *ir.Class, p *ir.Property) *ir.Field {
	flags := symbols.AccStatic | accessOf(p.Visibility)
	if !p.IsVar {
		flags |= symbols.AccFinal
	}
	field := &ir.Field{
		Name:        p.Name,
		Type:        p.Type,
		Visibility:  p.Visibility,
		Flags:       flags,
		Backs:       p,
		Initializer: p.Initializer,
	}
	field.Span = p.Span
	field.Origin = p.Origin
	field.Symbol = u.Symbols.Declare(p.Name, symbols.Symbol{
		Kind:       symbols.SymbolField,
		Owner:      cls.Symbol,
		Visibility: p.Visibility,
		Flags:      flags,
		Span:       p.Span,
	})
	return field
}

func reown(u *Unit, id symbols.SymbolID, cls *ir.Class, flags symbols.AccessFlags) {
	if sym := u.Symbols.Get(id); sym != nil {
		sym.Owner = cls.Symbol
		sym.Flags |= flags
	}
}

func accessOf(v symbols.Visibility) symbols.AccessFlags {
	switch v {
	case symbols.VisibilityPublic:
		return symbols.AccPublic
	case symbols.VisibilityProtected:
		return symbols.AccProtected
	case symbols.VisibilityPrivate:
		return symbols.AccPrivate
	default:
		return 0
	}
}
