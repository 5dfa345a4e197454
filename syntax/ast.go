// Package syntax defines the tree representation of the Rust subset that the
// desugaring engine reads and writes.
//
// Nodes are tagged unions in the go/ast style: every category (Item, Stmt,
// Expr, Pat, Type) is an interface with an unexported marker method, and every
// concrete node embeds Spanned. Trees are treated as values. Transformations
// build new nodes instead of mutating shared ones, so a subtree may appear in
// both the input and the output of a rewrite.
package syntax

// Node is implemented by every tree node.
type Node interface {
	Span() Span
	SetSpan(Span)
}

// Item is a top-level or nested declaration.
type Item interface {
	Node
	itemNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	Comments() *Trivia
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Pat is a pattern used by let bindings, parameters, match arms and for loops.
type Pat interface {
	Node
	patNode()
}

// Type is a type expression.
type Type interface {
	Node
	typeNode()
}

// File is a parsed source file.
type File struct {
	Spanned
	Name  string
	Attrs []*Attribute // inner attributes (#![...])
	Items []Item
}

// ----------------------------------------------------------------------------
// Attributes and paths

// Attribute is #[path] or #[path(args)] or #[path = value]. Args holds the raw
// text between the delimiters; Value holds the raw text after '='.
type Attribute struct {
	Spanned
	Inner   bool
	Path    *Path
	HasArgs bool
	Args    string
	Value   string
}

// Path is a, a::b, ::a::b<T>::c and friends.
type Path struct {
	Spanned
	Global   bool
	Segments []*PathSegment
}

// PathSegment is a single path component with optional generic arguments.
type PathSegment struct {
	Spanned
	Name string
	Args []GenericArg
	// Parenthesized is set for Fn(A, B) -> C style segments. Args then holds
	// the inputs and Output the return type.
	Parenthesized bool
	Output        Type
}

// GenericArg is an argument inside <...>.
type GenericArg interface {
	Node
	genericArgNode()
}

// TypeArg is a type argument.
type TypeArg struct {
	Spanned
	Type Type
}

// LifetimeArg is a lifetime argument such as 'a.
type LifetimeArg struct {
	Spanned
	Name string
}

// BindingArg is an associated type binding such as Item = T.
type BindingArg struct {
	Spanned
	Name string
	Type Type
}

// ----------------------------------------------------------------------------
// Items

// FnItem is a function or method.
type FnItem struct {
	Spanned
	Comments []string // line comments emitted above the item, including "//"
	Attrs    []*Attribute
	Vis      string
	Const    bool
	Unsafe   bool
	Extern   bool
	ABI      string // quoted, e.g. "\"C\"", empty for the default ABI
	Name     string
	Generics *Generics
	Inputs   []FnArg
	Variadic bool
	Output   Type // nil when no return type is declared
	Body     *Block
}

// ImplItem is an impl block.
type ImplItem struct {
	Spanned
	Attrs    []*Attribute
	Unsafe   bool
	Generics *Generics
	Trait    *Path
	SelfTy   Type
	Items    []Item
}

// ModItem is an inline module.
type ModItem struct {
	Spanned
	Attrs []*Attribute
	Vis   string
	Name  string
	Items []Item
}

// ExternCrateItem is extern crate name [as rename];
type ExternCrateItem struct {
	Spanned
	Attrs  []*Attribute
	Vis    string
	Name   string
	Rename string
}

// VerbatimItem is any item the engine does not need to look into, kept as
// source text.
type VerbatimItem struct {
	Spanned
	Attrs []*Attribute
	Text  string
}

func (*FnItem) itemNode()          {}
func (*ImplItem) itemNode()        {}
func (*ModItem) itemNode()         {}
func (*ExternCrateItem) itemNode() {}
func (*VerbatimItem) itemNode()    {}

// Generics holds generic parameters and the where clause.
type Generics struct {
	Spanned
	Params []GenericParam
	Where  []*WherePredicate
}

// GenericParam is a lifetime, type or const parameter.
type GenericParam interface {
	Node
	genericParamNode()
}

// LifetimeParam is 'a: 'b + 'c.
type LifetimeParam struct {
	Spanned
	Name   string
	Bounds []string
}

// TypeParam is T: Bound + 'a = Default.
type TypeParam struct {
	Spanned
	Name    string
	Bounds  []TypeBound
	Default Type
}

// ConstParam is const N: usize.
type ConstParam struct {
	Spanned
	Name string
	Type Type
}

func (*LifetimeParam) genericParamNode() {}
func (*TypeParam) genericParamNode()     {}
func (*ConstParam) genericParamNode()    {}

// WherePredicate is one entry of a where clause: either 'a: 'b or T: Bounds.
type WherePredicate struct {
	Spanned
	Lifetime       string
	LifetimeBounds []string
	Bounded        Type
	Bounds         []TypeBound
}

// TypeBound is a trait or lifetime bound.
type TypeBound interface {
	Node
	typeBoundNode()
}

// TraitBound is Path or ?Path.
type TraitBound struct {
	Spanned
	Maybe bool
	Path  *Path
}

// LifetimeBound is 'a used as a bound.
type LifetimeBound struct {
	Spanned
	Name string
}

func (*TraitBound) typeBoundNode()    {}
func (*LifetimeBound) typeBoundNode() {}

// FnArg is a function parameter.
type FnArg interface {
	Node
	fnArgNode()
}

// Receiver is self, mut self, &self, &'a mut self.
type Receiver struct {
	Spanned
	Ref      bool
	Lifetime string
	Mut      bool
}

// TypedArg is pat: Type.
type TypedArg struct {
	Spanned
	Pat  Pat
	Type Type
}

func (*Receiver) fnArgNode() {}
func (*TypedArg) fnArgNode() {}

// ----------------------------------------------------------------------------
// Statements

// Block is { stmts }.
type Block struct {
	Spanned
	Stmts    []Stmt
	Comments []string // comments after the last statement
}

// Trivia holds the comments written around a statement, delimiters included.
type Trivia struct {
	Leading  []string // comments on their own lines above the statement
	Trailing string   // comment after the statement on its last line
}

// Comments returns the comments of the statement.
func (t *Trivia) Comments() *Trivia { return t }

// LocalStmt is let pat [: Type] [= init];
type LocalStmt struct {
	Spanned
	Trivia
	Attrs []*Attribute
	Pat   Pat
	Type  Type
	Init  Expr
}

// ItemStmt is an item declared inside a block.
type ItemStmt struct {
	Spanned
	Trivia
	Item Item
}

// ExprStmt is an expression statement. Semi reports a trailing semicolon.
type ExprStmt struct {
	Spanned
	Trivia
	X    Expr
	Semi bool
}

func (*LocalStmt) stmtNode() {}
func (*ItemStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()  {}

// ----------------------------------------------------------------------------
// Expressions

// LitKind classifies literals.
type LitKind uint8

const (
	IntLit LitKind = iota
	FloatLit
	StrLit
	CharLit
	BoolLit
)

// PathExpr is a path used as a value, including plain identifiers.
type PathExpr struct {
	Spanned
	Path *Path
}

// Lit is a literal. Value holds the literal exactly as written.
type Lit struct {
	Spanned
	Kind  LitKind
	Value string
}

// CallExpr is f(args).
type CallExpr struct {
	Spanned
	Func Expr
	Args []Expr
}

// MethodCallExpr is recv.method::<T>(args).
type MethodCallExpr struct {
	Spanned
	Receiver Expr
	Method   string
	Generics []GenericArg
	Args     []Expr
}

// FieldExpr is x.name or x.0.
type FieldExpr struct {
	Spanned
	X    Expr
	Name string
}

// IndexExpr is x[i].
type IndexExpr struct {
	Spanned
	X     Expr
	Index Expr
}

// UnaryExpr is !x, -x or *x.
type UnaryExpr struct {
	Spanned
	Op string
	X  Expr
}

// RefExpr is &x or &mut x.
type RefExpr struct {
	Spanned
	Mut bool
	X   Expr
}

// BinaryExpr is x op y.
type BinaryExpr struct {
	Spanned
	Op string
	X  Expr
	Y  Expr
}

// AssignExpr is lhs = rhs or a compound assignment.
type AssignExpr struct {
	Spanned
	Op  string
	LHS Expr
	RHS Expr
}

// RangeExpr is from..to or from..=to; either end may be nil.
type RangeExpr struct {
	Spanned
	From      Expr
	To        Expr
	Inclusive bool
}

// CastExpr is x as T.
type CastExpr struct {
	Spanned
	X    Expr
	Type Type
}

// ParenExpr is (x).
type ParenExpr struct {
	Spanned
	X Expr
}

// TupleExpr is (a, b) or ().
type TupleExpr struct {
	Spanned
	Elems []Expr
}

// ArrayExpr is [a, b].
type ArrayExpr struct {
	Spanned
	Elems []Expr
}

// BlockExpr is a block used as an expression, optionally labeled or unsafe.
type BlockExpr struct {
	Spanned
	Attrs  []*Attribute
	Label  string
	Unsafe bool
	Block  *Block
}

// IfExpr is if cond { } else ... Else is nil, *BlockExpr, *IfExpr or *IfLetExpr.
type IfExpr struct {
	Spanned
	Cond Expr
	Then *Block
	Else Expr
}

// IfLetExpr is if let pat = x { } else ...
type IfLetExpr struct {
	Spanned
	Pat  Pat
	X    Expr
	Then *Block
	Else Expr
}

// WhileExpr is while cond { }.
type WhileExpr struct {
	Spanned
	Label string
	Cond  Expr
	Body  *Block
}

// WhileLetExpr is while let pat = x { }.
type WhileLetExpr struct {
	Spanned
	Label string
	Pat   Pat
	X     Expr
	Body  *Block
}

// LoopExpr is loop { }.
type LoopExpr struct {
	Spanned
	Label string
	Body  *Block
}

// ForExpr is for pat in x { }. The async marker is carried in Attrs.
type ForExpr struct {
	Spanned
	Attrs []*Attribute
	Label string
	Pat   Pat
	X     Expr
	Body  *Block
}

// MatchExpr is match x { arms }.
type MatchExpr struct {
	Spanned
	X    Expr
	Arms []*Arm
}

// Arm is pat [if guard] => body.
type Arm struct {
	Spanned
	Pat   Pat
	Guard Expr
	Body  Expr
}

// ClosureExpr is [move] |params| [-> T] body.
type ClosureExpr struct {
	Spanned
	Move   bool
	Params []*ClosureParam
	Output Type
	Body   Expr
}

// ClosureParam is a closure parameter with an optional type.
type ClosureParam struct {
	Spanned
	Pat  Pat
	Type Type
}

// YieldExpr is yield [x].
type YieldExpr struct {
	Spanned
	X Expr
}

// ReturnExpr is return [x].
type ReturnExpr struct {
	Spanned
	X Expr
}

// BreakExpr is break ['label] [x].
type BreakExpr struct {
	Spanned
	Label string
	X     Expr
}

// ContinueExpr is continue ['label].
type ContinueExpr struct {
	Spanned
	Label string
}

// TryExpr is x?.
type TryExpr struct {
	Spanned
	X Expr
}

// CatchExpr is do catch { }, a block in which ? short-circuits to the block.
type CatchExpr struct {
	Spanned
	Block *Block
}

// MacroDelim is the delimiter used by a macro invocation.
type MacroDelim uint8

const (
	ParenDelim MacroDelim = iota
	BracketDelim
	BraceDelim
)

// MacroCall is name!(args). Args is used when the arguments parse as an
// expression list separated by commas, or by semicolons when Semi is set as in
// vec![x; n]. Body is used when the macro takes a block, and Raw keeps the
// source text of anything else.
type MacroCall struct {
	Spanned
	Path  *Path
	Delim MacroDelim
	Args  []Expr
	Semi  bool
	Body  *Block
	Raw   string
	IsRaw bool
}

// AttributedExpr is an expression carrying outer attributes that have no
// dedicated slot on the node.
type AttributedExpr struct {
	Spanned
	Attrs []*Attribute
	X     Expr
}

func (*PathExpr) exprNode()       {}
func (*Lit) exprNode()            {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*UnaryExpr) exprNode()      {}
func (*RefExpr) exprNode()        {}
func (*BinaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()     {}
func (*RangeExpr) exprNode()      {}
func (*CastExpr) exprNode()       {}
func (*ParenExpr) exprNode()      {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*BlockExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*IfLetExpr) exprNode()      {}
func (*WhileExpr) exprNode()      {}
func (*WhileLetExpr) exprNode()   {}
func (*LoopExpr) exprNode()       {}
func (*ForExpr) exprNode()        {}
func (*MatchExpr) exprNode()      {}
func (*ClosureExpr) exprNode()    {}
func (*YieldExpr) exprNode()      {}
func (*ReturnExpr) exprNode()     {}
func (*BreakExpr) exprNode()      {}
func (*ContinueExpr) exprNode()   {}
func (*TryExpr) exprNode()        {}
func (*CatchExpr) exprNode()      {}
func (*MacroCall) exprNode()      {}
func (*AttributedExpr) exprNode() {}

// ----------------------------------------------------------------------------
// Patterns

// IdentPat is [ref] [mut] name [@ sub].
type IdentPat struct {
	Spanned
	ByRef bool
	Mut   bool
	Name  string
	Sub   Pat
}

// WildPat is _.
type WildPat struct {
	Spanned
}

// RestPat is .. inside tuple patterns.
type RestPat struct {
	Spanned
}

// TuplePat is (a, b).
type TuplePat struct {
	Spanned
	Elems []Pat
}

// TupleStructPat is Path(a, b).
type TupleStructPat struct {
	Spanned
	Path  *Path
	Elems []Pat
}

// PathPat is a multi-segment path used as a pattern, such as Async::NotReady.
type PathPat struct {
	Spanned
	Path *Path
}

// LitPat is a literal pattern, optionally negated.
type LitPat struct {
	Spanned
	Neg bool
	Lit *Lit
}

// RefPat is &pat or &mut pat.
type RefPat struct {
	Spanned
	Mut bool
	Pat Pat
}

// OrPat is a | b.
type OrPat struct {
	Spanned
	Alts []Pat
}

func (*IdentPat) patNode()       {}
func (*WildPat) patNode()        {}
func (*RestPat) patNode()        {}
func (*TuplePat) patNode()       {}
func (*TupleStructPat) patNode() {}
func (*PathPat) patNode()        {}
func (*LitPat) patNode()         {}
func (*RefPat) patNode()         {}
func (*OrPat) patNode()          {}

// ----------------------------------------------------------------------------
// Types

// PathType is a path type. When QSelf is set the type is <QSelf as QTrait>::Path.
type PathType struct {
	Spanned
	QSelf  Type
	QTrait *Path
	Path   *Path
}

// RefType is &'a mut T.
type RefType struct {
	Spanned
	Lifetime string
	Mut      bool
	Elem     Type
}

// PtrType is *const T or *mut T.
type PtrType struct {
	Spanned
	Mut  bool
	Elem Type
}

// TupleType is (A, B) or ().
type TupleType struct {
	Spanned
	Elems []Type
}

// SliceType is [T].
type SliceType struct {
	Spanned
	Elem Type
}

// ArrayType is [T; N].
type ArrayType struct {
	Spanned
	Elem Type
	Len  Expr
}

// ImplTraitType is impl Bounds.
type ImplTraitType struct {
	Spanned
	Bounds []TypeBound
}

// DynTraitType is dyn Bounds.
type DynTraitType struct {
	Spanned
	Bounds []TypeBound
}

// NeverType is !.
type NeverType struct {
	Spanned
}

// InferType is _.
type InferType struct {
	Spanned
}

func (*PathType) typeNode()      {}
func (*RefType) typeNode()       {}
func (*PtrType) typeNode()       {}
func (*TupleType) typeNode()     {}
func (*SliceType) typeNode()     {}
func (*ArrayType) typeNode()     {}
func (*ImplTraitType) typeNode() {}
func (*DynTraitType) typeNode()  {}
func (*NeverType) typeNode()     {}
func (*InferType) typeNode()     {}

func (*TypeArg) genericArgNode()     {}
func (*LifetimeArg) genericArgNode() {}
func (*BindingArg) genericArgNode()  {}
