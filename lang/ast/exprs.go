package ast

import "github.com/mna/bryony/lang/token"

// Unwrap removes any number of enclosing ParenExpr wrappers.
func Unwrap(e Expr) Expr {
	for {
		pe, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = pe.X
	}
}

// IsAssignable reports whether e is a valid assignment target: an Ident or
// a DotExpr whose receiver is itself assignable (spec §4.5 Assignment).
func IsAssignable(e Expr) bool {
	switch e := Unwrap(e).(type) {
	case *Ident:
		return true
	case *DotExpr:
		return IsAssignable(e.X)
	default:
		return false
	}
}

type (
	// Ident is an identifier reference.
	Ident struct {
		NamePos token.Pos
		Name    string
	}

	// NumberLit is a numeric literal, always f64-valued.
	NumberLit struct {
		ValPos token.Pos
		Raw    string
		Value  float64
	}

	// StringLit is a string literal.
	StringLit struct {
		ValPos token.Pos
		Raw    string
		Value  string
	}

	// BoolLit is the "true" or "false" literal.
	BoolLit struct {
		ValPos token.Pos
		Value  bool
	}

	// NullLit is the "null" literal.
	NullLit struct {
		ValPos token.Pos
	}

	// ParenExpr is a parenthesized expression, kept in the tree so that
	// round-tripped source reproduces the original grouping.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// UnaryExpr is a prefix operator application, e.g. "-x" or "not b".
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Value // the operator token's Value (Raw/Op set by the parser)
		X     Expr
	}

	// BinaryExpr is an infix operator application, e.g. "x + y".
	BinaryExpr struct {
		X     Expr
		OpPos token.Pos
		Op    token.Value
		Y     Expr
	}

	// DotExpr is a field access, e.g. "x.y".
	DotExpr struct {
		X    Expr
		Dot  token.Pos
		Name *Ident
	}

	// IndexExpr is either a value index ("x[y]") or a generic argument list
	// applied to a name ("name[A, B]"); the symbol model distinguishes the
	// two once X resolves to a generic template.
	IndexExpr struct {
		X      Expr
		Lbrack token.Pos
		Args   []Expr
		Rbrack token.Pos
	}

	// ColonExpr is a "name: value" pair, valid only as an object constructor
	// field initializer (spec §4.5 Object constructor).
	ColonExpr struct {
		Name  *Ident
		Colon token.Pos
		Value Expr
	}

	// CallExpr is either a procedure call or, when Fn resolves to a type, an
	// object constructor invocation.
	CallExpr struct {
		Fn     Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// IfExpr is the language's only conditional form; it is always an
	// expression (spec §4.1 grammar lists "if" under prefix, not stmt).
	// Bodies is one per condition (the "if" condition plus each "elif"), in
	// source order; Else is nil when no else clause is present.
	IfExpr struct {
		IfPos   token.Pos
		Conds   []Expr
		Bodies  []*Block
		ElsePos token.Pos // zero if no else clause
		Else    *Block
	}

	// ProcLit is an anonymous procedure literal used in expression position.
	ProcLit struct {
		ProcPos    token.Pos
		Params     []*Param
		ReturnType Expr // nil for a void-returning literal
		Body       *Block
	}

	// ProcType is a procedure type signature used in type-annotation
	// position, e.g. "proc(number) -> number" (spec §4.1 "proc anonProcHead").
	ProcType struct {
		ProcPos    token.Pos
		ParamTypes []Expr
		ReturnType Expr
	}
)

func (*Ident) expr()      {}
func (*NumberLit) expr()  {}
func (*StringLit) expr()  {}
func (*BoolLit) expr()    {}
func (*NullLit) expr()    {}
func (*ParenExpr) expr()  {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*DotExpr) expr()    {}
func (*IndexExpr) expr()  {}
func (*ColonExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*IfExpr) expr()     {}
func (*ProcLit) expr()    {}
func (*ProcType) expr()   {}

func (n *Ident) Pos() token.Pos      { return n.NamePos }
func (n *NumberLit) Pos() token.Pos  { return n.ValPos }
func (n *StringLit) Pos() token.Pos  { return n.ValPos }
func (n *BoolLit) Pos() token.Pos    { return n.ValPos }
func (n *NullLit) Pos() token.Pos    { return n.ValPos }
func (n *ParenExpr) Pos() token.Pos  { return n.Lparen }
func (n *UnaryExpr) Pos() token.Pos  { return n.OpPos }
func (n *BinaryExpr) Pos() token.Pos { return n.X.Pos() }
func (n *DotExpr) Pos() token.Pos    { return n.X.Pos() }
func (n *IndexExpr) Pos() token.Pos  { return n.X.Pos() }
func (n *ColonExpr) Pos() token.Pos  { return n.Name.NamePos }
func (n *CallExpr) Pos() token.Pos   { return n.Fn.Pos() }
func (n *IfExpr) Pos() token.Pos     { return n.IfPos }
func (n *ProcLit) Pos() token.Pos    { return n.ProcPos }
func (n *ProcType) Pos() token.Pos   { return n.ProcPos }

func (n *Ident) Walk(v Visitor)     {}
func (n *NumberLit) Walk(v Visitor) {}
func (n *StringLit) Walk(v Visitor) {}
func (n *BoolLit) Walk(v Visitor)   {}
func (n *NullLit) Walk(v Visitor)   {}
func (n *ParenExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.X) }
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Y)
}
func (n *DotExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Name)
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.X)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *ColonExpr) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Value)
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *IfExpr) Walk(v Visitor) {
	for i, c := range n.Conds {
		Walk(v, c)
		Walk(v, n.Bodies[i])
	}
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *ProcLit) Walk(v Visitor) {
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
func (n *ProcType) Walk(v Visitor) {
	for _, t := range n.ParamTypes {
		Walk(v, t)
	}
	if n.ReturnType != nil {
		Walk(v, n.ReturnType)
	}
}
