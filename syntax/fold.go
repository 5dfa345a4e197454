package syntax

// Folder rewrites a tree bottom-up. Implementations usually call the
// matching Fold*Children function first and then rewrite the result. A folder
// that wants to leave nested items alone returns them unchanged from FoldItem.
//
// The Fold*Children functions return the original node when none of its
// children changed, so callers can detect rewrites by pointer comparison.
type Folder interface {
	FoldItem(Item) (Item, error)
	FoldStmt(Stmt) (Stmt, error)
	FoldExpr(Expr) (Expr, error)
}

type folding struct {
	f       Folder
	changed bool
	err     error
}

func (st *folding) expr(x Expr) Expr {
	if x == nil || st.err != nil {
		return x
	}
	out, err := st.f.FoldExpr(x)
	if err != nil {
		st.err = err
		return x
	}
	if out != x {
		st.changed = true
	}
	return out
}

func (st *folding) exprs(xs []Expr) []Expr {
	var out []Expr
	for i, x := range xs {
		y := st.expr(x)
		if y != x && out == nil {
			out = make([]Expr, len(xs))
			copy(out, xs[:i])
		}
		if out != nil {
			out[i] = y
		}
	}
	if out == nil {
		return xs
	}
	return out
}

func (st *folding) block(b *Block) *Block {
	if b == nil || st.err != nil {
		return b
	}
	nb, err := FoldBlock(st.f, b)
	if err != nil {
		st.err = err
		return b
	}
	if nb != b {
		st.changed = true
	}
	return nb
}

func (st *folding) item(it Item) Item {
	if it == nil || st.err != nil {
		return it
	}
	out, err := st.f.FoldItem(it)
	if err != nil {
		st.err = err
		return it
	}
	if out != it {
		st.changed = true
	}
	return out
}

func (st *folding) items(its []Item) []Item {
	var out []Item
	for i, it := range its {
		y := st.item(it)
		if y != it && out == nil {
			out = make([]Item, len(its))
			copy(out, its[:i])
		}
		if out != nil {
			out[i] = y
		}
	}
	if out == nil {
		return its
	}
	return out
}

// FoldBlock folds every statement of b.
func FoldBlock(f Folder, b *Block) (*Block, error) {
	if b == nil {
		return nil, nil
	}
	var out []Stmt
	for i, s := range b.Stmts {
		ns, err := f.FoldStmt(s)
		if err != nil {
			return b, err
		}
		if ns != s && out == nil {
			out = make([]Stmt, len(b.Stmts))
			copy(out, b.Stmts[:i])
		}
		if out != nil {
			out[i] = ns
		}
	}
	if out == nil {
		return b, nil
	}
	return &Block{Spanned: b.Spanned, Stmts: out, Comments: b.Comments}, nil
}

// FoldFile folds every top-level item of file.
func FoldFile(f Folder, file *File) (*File, error) {
	st := &folding{f: f}
	items := st.items(file.Items)
	if st.err != nil {
		return file, st.err
	}
	if !st.changed {
		return file, nil
	}
	nf := *file
	nf.Items = items
	return &nf, nil
}

// FoldItemChildren folds the bodies of functions and the members of impls
// and modules.
func FoldItemChildren(f Folder, it Item) (Item, error) {
	st := &folding{f: f}
	var out Item = it
	switch it := it.(type) {
	case *FnItem:
		body := st.block(it.Body)
		if st.changed {
			n := *it
			n.Body = body
			out = &n
		}
	case *ImplItem:
		items := st.items(it.Items)
		if st.changed {
			n := *it
			n.Items = items
			out = &n
		}
	case *ModItem:
		items := st.items(it.Items)
		if st.changed {
			n := *it
			n.Items = items
			out = &n
		}
	}
	if st.err != nil {
		return it, st.err
	}
	return out, nil
}

// FoldStmtChildren folds the expressions and items held by s.
func FoldStmtChildren(f Folder, s Stmt) (Stmt, error) {
	st := &folding{f: f}
	var out Stmt = s
	switch s := s.(type) {
	case *LocalStmt:
		init := st.expr(s.Init)
		if st.changed {
			n := *s
			n.Init = init
			out = &n
		}
	case *ExprStmt:
		x := st.expr(s.X)
		if st.changed {
			n := *s
			n.X = x
			out = &n
		}
	case *ItemStmt:
		item := st.item(s.Item)
		if st.changed {
			n := *s
			n.Item = item
			out = &n
		}
	}
	if st.err != nil {
		return s, st.err
	}
	return out, nil
}

// FoldExprChildren folds the direct sub-expressions and blocks of x.
// Patterns and types are left untouched.
func FoldExprChildren(f Folder, x Expr) (Expr, error) {
	st := &folding{f: f}
	var out Expr = x
	switch x := x.(type) {
	case *CallExpr:
		fn, args := st.expr(x.Func), st.exprs(x.Args)
		if st.changed {
			n := *x
			n.Func, n.Args = fn, args
			out = &n
		}
	case *MethodCallExpr:
		recv, args := st.expr(x.Receiver), st.exprs(x.Args)
		if st.changed {
			n := *x
			n.Receiver, n.Args = recv, args
			out = &n
		}
	case *FieldExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *IndexExpr:
		inner, idx := st.expr(x.X), st.expr(x.Index)
		if st.changed {
			n := *x
			n.X, n.Index = inner, idx
			out = &n
		}
	case *UnaryExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *RefExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *BinaryExpr:
		l, r := st.expr(x.X), st.expr(x.Y)
		if st.changed {
			n := *x
			n.X, n.Y = l, r
			out = &n
		}
	case *AssignExpr:
		l, r := st.expr(x.LHS), st.expr(x.RHS)
		if st.changed {
			n := *x
			n.LHS, n.RHS = l, r
			out = &n
		}
	case *RangeExpr:
		from, to := st.expr(x.From), st.expr(x.To)
		if st.changed {
			n := *x
			n.From, n.To = from, to
			out = &n
		}
	case *CastExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *ParenExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *TupleExpr:
		elems := st.exprs(x.Elems)
		if st.changed {
			n := *x
			n.Elems = elems
			out = &n
		}
	case *ArrayExpr:
		elems := st.exprs(x.Elems)
		if st.changed {
			n := *x
			n.Elems = elems
			out = &n
		}
	case *BlockExpr:
		b := st.block(x.Block)
		if st.changed {
			n := *x
			n.Block = b
			out = &n
		}
	case *IfExpr:
		cond, then, els := st.expr(x.Cond), st.block(x.Then), st.expr(x.Else)
		if st.changed {
			n := *x
			n.Cond, n.Then, n.Else = cond, then, els
			out = &n
		}
	case *IfLetExpr:
		scrut, then, els := st.expr(x.X), st.block(x.Then), st.expr(x.Else)
		if st.changed {
			n := *x
			n.X, n.Then, n.Else = scrut, then, els
			out = &n
		}
	case *WhileExpr:
		cond, body := st.expr(x.Cond), st.block(x.Body)
		if st.changed {
			n := *x
			n.Cond, n.Body = cond, body
			out = &n
		}
	case *WhileLetExpr:
		scrut, body := st.expr(x.X), st.block(x.Body)
		if st.changed {
			n := *x
			n.X, n.Body = scrut, body
			out = &n
		}
	case *LoopExpr:
		body := st.block(x.Body)
		if st.changed {
			n := *x
			n.Body = body
			out = &n
		}
	case *ForExpr:
		iter, body := st.expr(x.X), st.block(x.Body)
		if st.changed {
			n := *x
			n.X, n.Body = iter, body
			out = &n
		}
	case *MatchExpr:
		scrut := st.expr(x.X)
		arms := make([]*Arm, len(x.Arms))
		for i, a := range x.Arms {
			before := st.changed
			st.changed = false
			guard, body := st.expr(a.Guard), st.expr(a.Body)
			if st.changed {
				na := *a
				na.Guard, na.Body = guard, body
				arms[i] = &na
			} else {
				arms[i] = a
			}
			st.changed = st.changed || before
		}
		if st.changed {
			n := *x
			n.X, n.Arms = scrut, arms
			out = &n
		}
	case *ClosureExpr:
		body := st.expr(x.Body)
		if st.changed {
			n := *x
			n.Body = body
			out = &n
		}
	case *YieldExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *ReturnExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *BreakExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *TryExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	case *CatchExpr:
		b := st.block(x.Block)
		if st.changed {
			n := *x
			n.Block = b
			out = &n
		}
	case *MacroCall:
		args, body := st.exprs(x.Args), st.block(x.Body)
		if st.changed {
			n := *x
			n.Args, n.Body = args, body
			out = &n
		}
	case *AttributedExpr:
		inner := st.expr(x.X)
		if st.changed {
			n := *x
			n.X = inner
			out = &n
		}
	}
	if st.err != nil {
		return x, st.err
	}
	return out, nil
}
