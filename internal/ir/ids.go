// Package ir is the declaration-level intermediate representation consumed by
// the JVM lowering passes.
//
// Declarations form a tree: files own classes, functions and properties;
// classes own members. Every declaration points back to its structural
// parent. Declarations are compared by pointer identity: two distinct nodes
// are two distinct slots even when they print identically.
package ir

import (
	"jvmlower/internal/source"
	"jvmlower/internal/symbols"
)

// Parent is a declaration that can contain other declarations.
type Parent interface {
	Declaration
	isParent()
}

// Declaration is any node of the declaration tree.
type Declaration interface {
	Decl() *DeclBase
}

// DeclBase carries the attributes every declaration has.
type DeclBase struct {
	Span   source.Span
	Origin Origin
	Symbol symbols.SymbolID
	Parent Parent
}

// Decl gives access to the common attributes.
func (d *DeclBase) Decl() *DeclBase { return d }

func (*File) isParent()        {}
func (*Class) isParent()       {}
func (*Constructor) isParent() {}
func (*Function) isParent()    {}

// ParentClass returns the parent of d when it is a class.
func ParentClass(d Declaration) (*Class, bool) {
	if d == nil {
		return nil, false
	}
	cls, ok := d.Decl().Parent.(*Class)
	return cls, ok && cls != nil
}

// Name returns the declared name of d, or "" for nodes without one.
func Name(d Declaration) string {
	switch n := d.(type) {
	case *File:
		if n.Entry == nil {
			return ""
		}
		return n.Entry.Path
	case *Class:
		return n.Name
	case *EnumEntry:
		return n.Name
	case *Field:
		return n.Name
	case *Constructor:
		return "<init>"
	case *ValueParameter:
		return n.Name
	case *Function:
		return n.Name
	case *Property:
		return n.Name
	default:
		return ""
	}
}
