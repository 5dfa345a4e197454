package syntax

// Inspect traverses the items, blocks, statements and expressions of a tree
// in depth-first order. fn is called for every node; if it returns false the
// children of that node are skipped. Patterns and types are not visited.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	visit := func(c Node) {
		if c != nil {
			Inspect(c, fn)
		}
	}
	switch n := n.(type) {
	case *File:
		for _, it := range n.Items {
			visit(it)
		}
	case *FnItem:
		if n.Body != nil {
			visit(n.Body)
		}
	case *ImplItem:
		for _, it := range n.Items {
			visit(it)
		}
	case *ModItem:
		for _, it := range n.Items {
			visit(it)
		}
	case *Block:
		for _, s := range n.Stmts {
			visit(s)
		}
	case *LocalStmt:
		if n.Init != nil {
			visit(n.Init)
		}
	case *ItemStmt:
		visit(n.Item)
	case *ExprStmt:
		visit(n.X)
	case *CallExpr:
		visit(n.Func)
		visitExprs(n.Args, fn)
	case *MethodCallExpr:
		visit(n.Receiver)
		visitExprs(n.Args, fn)
	case *FieldExpr:
		visit(n.X)
	case *IndexExpr:
		visit(n.X)
		visit(n.Index)
	case *UnaryExpr:
		visit(n.X)
	case *RefExpr:
		visit(n.X)
	case *BinaryExpr:
		visit(n.X)
		visit(n.Y)
	case *AssignExpr:
		visit(n.LHS)
		visit(n.RHS)
	case *RangeExpr:
		visitExprs([]Expr{n.From, n.To}, fn)
	case *CastExpr:
		visit(n.X)
	case *ParenExpr:
		visit(n.X)
	case *TupleExpr:
		visitExprs(n.Elems, fn)
	case *ArrayExpr:
		visitExprs(n.Elems, fn)
	case *BlockExpr:
		visit(n.Block)
	case *IfExpr:
		visit(n.Cond)
		visit(n.Then)
		visitExprs([]Expr{n.Else}, fn)
	case *IfLetExpr:
		visit(n.X)
		visit(n.Then)
		visitExprs([]Expr{n.Else}, fn)
	case *WhileExpr:
		visit(n.Cond)
		visit(n.Body)
	case *WhileLetExpr:
		visit(n.X)
		visit(n.Body)
	case *LoopExpr:
		visit(n.Body)
	case *ForExpr:
		visit(n.X)
		visit(n.Body)
	case *MatchExpr:
		visit(n.X)
		for _, a := range n.Arms {
			visit(a)
		}
	case *Arm:
		visitExprs([]Expr{n.Guard, n.Body}, fn)
	case *ClosureExpr:
		visit(n.Body)
	case *YieldExpr:
		visitExprs([]Expr{n.X}, fn)
	case *ReturnExpr:
		visitExprs([]Expr{n.X}, fn)
	case *BreakExpr:
		visitExprs([]Expr{n.X}, fn)
	case *TryExpr:
		visit(n.X)
	case *CatchExpr:
		visit(n.Block)
	case *MacroCall:
		visitExprs(n.Args, fn)
		if n.Body != nil {
			visit(n.Body)
		}
	case *AttributedExpr:
		visit(n.X)
	}
}

func visitExprs(xs []Expr, fn func(Node) bool) {
	for _, x := range xs {
		if x != nil {
			Inspect(x, fn)
		}
	}
}
