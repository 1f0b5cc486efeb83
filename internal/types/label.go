package types

import (
	"strings"
)

// Label returns a readable rendering of a TypeID for dumps and errors.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	s := baseLabel(typesIn, tt, depth)
	if tt.Nullable {
		s += "?"
	}
	return s
}

func baseLabel(typesIn *Interner, tt Type, depth int) string {
	switch tt.Kind {
	case KindUnit:
		return "Unit"
	case KindNothing:
		return "Nothing"
	case KindAny:
		return "Any"
	case KindBool:
		return "Boolean"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindInt:
		switch tt.Width {
		case Width8:
			return "Byte"
		case Width16:
			return "Short"
		case Width64:
			return "Long"
		default:
			return "Int"
		}
	case KindFloat:
		if tt.Width == Width32 {
			return "Float"
		}
		return "Double"
	case KindArray:
		return "Array<" + labelDepth(typesIn, tt.Elem, depth+1) + ">"
	case KindTypeParam:
		if int(tt.Payload) < len(typesIn.params) {
			return typesIn.params[tt.Payload].Name
		}
		return "?"
	case KindClass:
		if int(tt.Payload) >= len(typesIn.classes) {
			return "?"
		}
		name := shortName(typesIn.classes[tt.Payload].FQName)
		if tt.Args == 0 {
			return name
		}
		args := typesIn.args[tt.Args]
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = labelDepth(typesIn, a, depth+1)
		}
		return name + "<" + strings.Join(parts, ", ") + ">"
	default:
		return tt.Kind.String()
	}
}

func shortName(fq string) string {
	if i := strings.LastIndexByte(fq, '.'); i >= 0 {
		return fq[i+1:]
	}
	return fq
}
