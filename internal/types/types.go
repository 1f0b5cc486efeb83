package types

import "fmt"

// TypeID identifies a type inside one unit's interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindNothing
	KindAny
	KindBool
	KindChar
	KindInt
	KindFloat
	KindString
	KindArray
	// KindClass is a nominal class, either raw or applied to type arguments.
	KindClass
	// KindTypeParam is a type parameter of a class or constructor.
	KindTypeParam
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindUnit:      "unit",
	KindNothing:   "nothing",
	KindAny:       "any",
	KindBool:      "bool",
	KindChar:      "char",
	KindInt:       "int",
	KindFloat:     "float",
	KindString:    "string",
	KindArray:     "array",
	KindClass:     "class",
	KindTypeParam: "typeparam",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Width is the bit width of a numeric primitive: Byte 8, Short 16, Int and
// Float 32, Long and Double 64.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind     Kind
	Elem     TypeID // array element
	Width    Width  // numeric primitives
	Nullable bool
	Payload  uint32 // class or type parameter slot
	Args     uint32 // type argument list slot for applied classes (0 = raw)
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeArray describes Array<elem>.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}
