package ast

import "github.com/mna/bryony/lang/token"

type (
	// ExprStmt is an expression used as a statement; its value, if any, is
	// discarded by the generator.
	ExprStmt struct {
		X Expr
	}

	// AssignStmt is an assignment statement: "lhs = rhs" (spec §4.5
	// Assignment). Left is an Ident or a DotExpr; any other left-hand side
	// is rejected by the generator with InvalidAssignment.
	AssignStmt struct {
		Left   Expr
		Assign token.Pos
		Right  Expr
	}

	// VarDecl is a "var"/"let" declaration, covering the identDefs grammar
	// "Ident {',' Ident} [':' type] ['=' expr]": one or more names sharing a
	// single optional type annotation and a single initializing expression.
	VarDecl struct {
		DeclPos token.Pos
		Let     bool // true for "let", false for "var"
		Names   []*Ident
		Type    Expr // nil if not annotated
		Value   Expr // nil only transiently; the generator rejects a missing value
	}

	// ProcDecl is a named procedure declaration.
	ProcDecl struct {
		ProcPos    token.Pos
		Name       *Ident
		Generics   []*Ident
		Params     []*Param
		ReturnType Expr // nil for a void procedure
		Body       *Block
	}

	// IteratorDecl is a named iterator declaration. Unlike ProcDecl its body
	// is not code-generated at declaration time; it is spliced into every
	// "for" loop that consumes it (spec §4.6).
	IteratorDecl struct {
		IterPos   token.Pos
		Name      *Ident
		Generics  []*Ident
		Params    []*Param
		YieldType Expr
		Body      *Block
	}

	// Field is an object field declaration, "name: type".
	Field struct {
		Name *Ident
		Type Expr
	}

	// ObjectDecl is a named object type declaration.
	ObjectDecl struct {
		ObjectPos token.Pos
		Name      *Ident
		Generics  []*Ident
		Fields    []*Field
	}

	// WhileStmt is a "while" loop.
	WhileStmt struct {
		WhilePos token.Pos
		Cond     Expr
		Body     *Block
	}

	// ForStmt is a "for x in iter_expr(args) { body }" loop, lowered by the
	// generator via iterator splicing (spec §4.6) rather than a real
	// iterator object.
	ForStmt struct {
		ForPos token.Pos
		Var    *Ident
		Iter   *CallExpr // the "iter_expr(args)" call
		Body   *Block
	}

	// BreakStmt exits the nearest enclosing loop outer flow block.
	BreakStmt struct {
		BreakPos token.Pos
	}

	// ContinueStmt jumps to the nearest enclosing loop iter flow block.
	ContinueStmt struct {
		ContinuePos token.Pos
	}

	// ReturnStmt is valid only inside a procedure body.
	ReturnStmt struct {
		ReturnPos token.Pos
		Value     Expr // nil for a bare "return"
	}

	// YieldStmt is valid only inside an iterator body, and only when the
	// generator's current context differs from the enclosing for-loop's
	// context (spec §4.5/§4.6).
	YieldStmt struct {
		YieldPos token.Pos
		Value    Expr
	}
)

func (*ExprStmt) stmt()     {}
func (*AssignStmt) stmt()   {}
func (*VarDecl) stmt()      {}
func (*ProcDecl) stmt()     {}
func (*IteratorDecl) stmt() {}
func (*ObjectDecl) stmt()   {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*ReturnStmt) stmt()   {}
func (*YieldStmt) stmt()    {}

// Block also satisfies Stmt so it can appear directly in a statement list
// (a bare nested block, per the grammar's "stmt = block | ...").
func (*Block) stmt() {}

func (n *ExprStmt) Pos() token.Pos     { return n.X.Pos() }
func (n *AssignStmt) Pos() token.Pos   { return n.Left.Pos() }
func (n *VarDecl) Pos() token.Pos      { return n.DeclPos }
func (n *ProcDecl) Pos() token.Pos     { return n.ProcPos }
func (n *IteratorDecl) Pos() token.Pos { return n.IterPos }
func (n *ObjectDecl) Pos() token.Pos   { return n.ObjectPos }
func (n *WhileStmt) Pos() token.Pos    { return n.WhilePos }
func (n *ForStmt) Pos() token.Pos      { return n.ForPos }
func (n *BreakStmt) Pos() token.Pos    { return n.BreakPos }
func (n *ContinueStmt) Pos() token.Pos { return n.ContinuePos }
func (n *ReturnStmt) Pos() token.Pos   { return n.ReturnPos }
func (n *YieldStmt) Pos() token.Pos    { return n.YieldPos }

func (n *ExprStmt) Walk(v Visitor) { Walk(v, n.X) }
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *VarDecl) Walk(v Visitor) {
	for _, name := range n.Names {
		Walk(v, name)
	}
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ProcDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, g := range n.Generics {
		Walk(v, g)
	}
	for _, p := range n.Params {
		if p.Type != nil {
			Walk(v, p.Type)
		}
	}
	if n.ReturnType != nil {
		Walk(v, n.ReturnType)
	}
	Walk(v, n.Body)
}
func (n *IteratorDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, g := range n.Generics {
		Walk(v, g)
	}
	for _, p := range n.Params {
		if p.Type != nil {
			Walk(v, p.Type)
		}
	}
	if n.YieldType != nil {
		Walk(v, n.YieldType)
	}
	Walk(v, n.Body)
}
func (n *ObjectDecl) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, g := range n.Generics {
		Walk(v, g)
	}
	for _, f := range n.Fields {
		Walk(v, f.Name)
		if f.Type != nil {
			Walk(v, f.Type)
		}
	}
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.Var)
	Walk(v, n.Iter)
	Walk(v, n.Body)
}
func (n *BreakStmt) Walk(v Visitor)    {}
func (n *ContinueStmt) Walk(v Visitor) {}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *YieldStmt) Walk(v Visitor) { Walk(v, n.Value) }
