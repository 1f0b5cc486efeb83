package ir

// WalkDeclarations visits root and every declaration below it in
// pre-order. Returning false from visit skips the children of that node.
// The children slice is snapshotted before descending, so visit may append
// declarations to the node it is given.
func WalkDeclarations(root Declaration, visit func(Declaration) bool) {
	if root == nil {
		return
	}
	kids := children(root)
	if !visit(root) {
		return
	}
	for _, child := range kids {
		WalkDeclarations(child, visit)
	}
}

func children(d Declaration) []Declaration {
	switch n := d.(type) {
	case *File:
		return append([]Declaration(nil), n.Declarations...)
	case *Class:
		return append([]Declaration(nil), n.Declarations...)
	case *EnumEntry:
		if n.Body != nil {
			return []Declaration{n.Body}
		}
	case *Constructor:
		out := make([]Declaration, 0, len(n.Params))
		for _, p := range n.Params {
			out = append(out, p)
		}
		return out
	case *Function:
		out := make([]Declaration, 0, len(n.Params))
		for _, p := range n.Params {
			out = append(out, p)
		}
		return out
	}
	return nil
}

// CloneExpr copies the expression tree rooted at e. Declarations the tree
// refers to (fields, parameters, classes, constructors) are shared, not
// copied. Transform edits nodes in place, so a tree reachable from two
// owners must be cloned before one of them rewrites it.
func CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	cp := *e
	switch d := e.Data.(type) {
	case GetFieldData:
		d.Receiver = CloneExpr(d.Receiver)
		cp.Data = d
	case SetFieldData:
		d.Receiver = CloneExpr(d.Receiver)
		d.Value = CloneExpr(d.Value)
		cp.Data = d
	case ConstructorCallData:
		d.Dispatch = CloneExpr(d.Dispatch)
		d.Args = cloneAll(d.Args)
		cp.Data = d
	case CallData:
		d.Receiver = CloneExpr(d.Receiver)
		d.Args = cloneAll(d.Args)
		cp.Data = d
	case ReturnData:
		d.Value = CloneExpr(d.Value)
		cp.Data = d
	}
	return &cp
}

func cloneAll(list []*Expr) []*Expr {
	if list == nil {
		return nil
	}
	out := make([]*Expr, len(list))
	for i, e := range list {
		out[i] = CloneExpr(e)
	}
	return out
}

// Transform rewrites e bottom-up: children first, then fn on the node
// itself. fn returns the replacement (or its argument unchanged).
func Transform(e *Expr, fn func(*Expr) *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch d := e.Data.(type) {
	case GetFieldData:
		d.Receiver = Transform(d.Receiver, fn)
		e.Data = d
	case SetFieldData:
		d.Receiver = Transform(d.Receiver, fn)
		d.Value = Transform(d.Value, fn)
		e.Data = d
	case ConstructorCallData:
		d.Dispatch = Transform(d.Dispatch, fn)
		d.Args = transformAll(d.Args, fn)
		e.Data = d
	case CallData:
		d.Receiver = Transform(d.Receiver, fn)
		d.Args = transformAll(d.Args, fn)
		e.Data = d
	case ReturnData:
		d.Value = Transform(d.Value, fn)
		e.Data = d
	}
	return fn(e)
}

func transformAll(list []*Expr, fn func(*Expr) *Expr) []*Expr {
	for i, e := range list {
		list[i] = Transform(e, fn)
	}
	return list
}

// TransformBodies applies Transform to every expression reachable from the
// declarations under root: bodies, initializers and parameter defaults.
func TransformBodies(root Declaration, fn func(*Expr) *Expr) {
	WalkDeclarations(root, func(d Declaration) bool {
		switch n := d.(type) {
		case *EnumEntry:
			n.Initializer = Transform(n.Initializer, fn)
		case *Field:
			n.Initializer = Transform(n.Initializer, fn)
		case *Property:
			n.Initializer = Transform(n.Initializer, fn)
		case *ValueParameter:
			n.Default = Transform(n.Default, fn)
		case *Constructor:
			n.Body = transformAll(n.Body, fn)
		case *Function:
			n.Body = transformAll(n.Body, fn)
		}
		return true
	})
}
