package ir

import (
	"jvmlower/internal/source"
	"jvmlower/internal/types"
)

// ExprKind enumerates IR expression kinds.
type ExprKind uint8

const (
	// ExprConst is a literal constant.
	ExprConst ExprKind = iota
	// ExprGetValue reads a value parameter.
	ExprGetValue
	// ExprThis is the dispatch receiver of a class.
	ExprThis
	// ExprGetField reads a field; Receiver is nil for static fields.
	ExprGetField
	// ExprSetField writes a field.
	ExprSetField
	// ExprGetObjectValue is a reference to a singleton object.
	ExprGetObjectValue
	// ExprGetEnumValue is a reference to an enum entry.
	ExprGetEnumValue
	// ExprConstructorCall creates an instance. Dispatch carries the outer
	// instance when the constructed class is inner.
	ExprConstructorCall
	// ExprCall invokes a function.
	ExprCall
	// ExprReturn leaves the enclosing function.
	ExprReturn
)

func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "CONST"
	case ExprGetValue:
		return "GET_VAR"
	case ExprThis:
		return "THIS"
	case ExprGetField:
		return "GET_FIELD"
	case ExprSetField:
		return "SET_FIELD"
	case ExprGetObjectValue:
		return "GET_OBJECT"
	case ExprGetEnumValue:
		return "GET_ENUM"
	case ExprConstructorCall:
		return "CONSTRUCTOR_CALL"
	case ExprCall:
		return "CALL"
	case ExprReturn:
		return "RETURN"
	default:
		return "UNKNOWN"
	}
}

// Expr is an IR expression with its type.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the kind-specific payload of an Expr.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralBool
	LiteralChar
	LiteralString
	LiteralNull
)

// ConstData holds data for ExprConst.
type ConstData struct {
	Kind LiteralKind
	Text string
}

func (ConstData) exprData() {}

// GetValueData holds data for ExprGetValue.
type GetValueData struct {
	Param *ValueParameter
}

func (GetValueData) exprData() {}

// ThisData holds data for ExprThis.
type ThisData struct {
	Class *Class
}

func (ThisData) exprData() {}

// GetFieldData holds data for ExprGetField.
type GetFieldData struct {
	Field    *Field
	Receiver *Expr
}

func (GetFieldData) exprData() {}

// SetFieldData holds data for ExprSetField.
type SetFieldData struct {
	Field    *Field
	Receiver *Expr
	Value    *Expr
}

func (SetFieldData) exprData() {}

// GetObjectValueData holds data for ExprGetObjectValue.
type GetObjectValueData struct {
	Class *Class
}

func (GetObjectValueData) exprData() {}

// GetEnumValueData holds data for ExprGetEnumValue.
type GetEnumValueData struct {
	Entry *EnumEntry
}

func (GetEnumValueData) exprData() {}

// ConstructorCallData holds data for ExprConstructorCall.
type ConstructorCallData struct {
	Constructor *Constructor
	Dispatch    *Expr
	Args        []*Expr
}

func (ConstructorCallData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Function *Function
	Receiver *Expr
	Args     []*Expr
}

func (CallData) exprData() {}

// ReturnData holds data for ExprReturn.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) exprData() {}
