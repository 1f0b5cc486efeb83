// Package testkit holds structural checks shared by the IR, loader and
// lowering tests.
package testkit

import (
	"fmt"

	"jvmlower/internal/ir"
)

// CheckModule verifies the tree invariants every pass must keep:
//  1. each declaration's Parent is the node that lists it
//  2. no declaration is listed twice
//  3. defined spans are ordered and lie inside their parent's span, unless
//     the parent's span is empty
//  4. parameter indices match their position
//  5. synthesized fields record the declaration they back
func CheckModule(m *ir.Module) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	seen := make(map[ir.Declaration]struct{})
	for _, f := range m.Files {
		if f == nil {
			return fmt.Errorf("module %s: nil file", m.Name)
		}
		if err := checkTree(f, seen); err != nil {
			return fmt.Errorf("%s: %w", ir.Name(f), err)
		}
	}
	return nil
}

func checkTree(root ir.Declaration, seen map[ir.Declaration]struct{}) error {
	var err error
	ir.WalkDeclarations(root, func(d ir.Declaration) bool {
		if err != nil {
			return false
		}
		if _, dup := seen[d]; dup {
			err = fmt.Errorf("%s listed twice", describe(d))
			return false
		}
		seen[d] = struct{}{}
		err = checkNode(d)
		return err == nil
	})
	return err
}

func checkNode(d ir.Declaration) error {
	base := d.Decl()
	sp := base.Span
	if !sp.IsUndefined() && sp.End < sp.Start {
		return fmt.Errorf("%s: inverted span %v", describe(d), sp)
	}
	for _, child := range listed(d) {
		cb := child.Decl()
		if cb.Parent == nil || cb.Parent.Decl() != base {
			return fmt.Errorf("%s: parent of %s is not its container", describe(d), describe(child))
		}
		if sp.IsUndefined() || sp.Empty() || cb.Span.IsUndefined() || cb.Span.File != sp.File {
			continue
		}
		if cb.Span.Start < sp.Start || cb.Span.End > sp.End {
			return fmt.Errorf("%s span %v is outside %s span %v", describe(child), cb.Span, describe(d), sp)
		}
	}
	switch n := d.(type) {
	case *ir.Constructor:
		return checkParams(d, n.Params)
	case *ir.Function:
		return checkParams(d, n.Params)
	case *ir.Field:
		if n.Origin.IsSynthetic() && n.Origin != ir.OriginFileClass && n.Backs == nil {
			return fmt.Errorf("%s: synthesized field backs nothing", describe(d))
		}
	}
	return nil
}

func checkParams(owner ir.Declaration, params []*ir.ValueParameter) error {
	for i, p := range params {
		if p.Index != i {
			return fmt.Errorf("%s: parameter %s has index %d at position %d", describe(owner), p.Name, p.Index, i)
		}
	}
	return nil
}

// listed returns the declarations d owns directly. Enum entry bodies are
// skipped: their parent is the enum class, not the entry.
func listed(d ir.Declaration) []ir.Declaration {
	switch n := d.(type) {
	case *ir.File:
		return n.Declarations
	case *ir.Class:
		return n.Declarations
	case *ir.Constructor:
		out := make([]ir.Declaration, 0, len(n.Params))
		for _, p := range n.Params {
			out = append(out, p)
		}
		return out
	case *ir.Function:
		out := make([]ir.Declaration, 0, len(n.Params))
		for _, p := range n.Params {
			out = append(out, p)
		}
		return out
	}
	return nil
}

func describe(d ir.Declaration) string {
	return fmt.Sprintf("%T %s", d, ir.Name(d))
}
