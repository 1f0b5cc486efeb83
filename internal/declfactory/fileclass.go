package declfactory

import (
	"strings"
	"unicode"

	"jvmlower/internal/ir"
	"jvmlower/internal/symbols"
	"jvmlower/internal/types"
)

// FileClass returns the facade class that holds file's top-level functions
// and properties. It is named by the file's JvmName override, or by the file
// stem turned into a class identifier with a "Kt" suffix. The class is not
// added to the file; the caller decides when to do that.
func (f *Factory) FileClass(file *ir.File) *ir.Class {
	const op = "FileClass"
	if file == nil {
		fault(op, nil, f.types, "file is nil")
	}
	if cls, ok := f.fileClasses[file]; ok {
		return cls
	}
	if file.Entry == nil {
		fault(op, file, f.types, "file has no source entry")
	}

	name := file.JvmName
	if name == "" {
		name = fileClassName(file.Entry.Stem())
	}
	fqName := name
	if file.Package != "" {
		fqName = file.Package + "." + name
	}

	cls := &ir.Class{
		Name:       name,
		Kind:       ir.ClassKindClass,
		Visibility: symbols.VisibilityPublic,
		Modality:   symbols.ModalityFinal,
		Type:       f.types.RegisterClass(fqName, file.Span),
		Supertypes: []types.TypeID{f.types.Builtins().Any},
	}
	cls.Span = file.Span
	cls.Origin = ir.OriginFileClass
	cls.Parent = file
	cls.Symbol = f.declare(name, symbols.Symbol{
		Kind:       symbols.SymbolClass,
		Owner:      file.Symbol,
		Visibility: symbols.VisibilityPublic,
		Modality:   symbols.ModalityFinal,
		Flags:      symbols.AccPublic | symbols.AccFinal,
		Span:       file.Span,
	})

	f.fileClasses[file] = cls
	f.created(cls, file)
	return cls
}

// fileClassName turns "my-utils" into "My_utilsKt".
func fileClassName(stem string) string {
	var sb strings.Builder
	for i, r := range stem {
		switch {
		case i == 0 && unicode.IsLetter(r):
			sb.WriteRune(unicode.ToUpper(r))
		case i == 0 && unicode.IsDigit(r):
			sb.WriteRune('_')
			sb.WriteRune(r)
		case unicode.IsLetter(r) || r == '_' || r == '$' || (i > 0 && unicode.IsDigit(r)):
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String() + "Kt"
}
