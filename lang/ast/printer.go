package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps an AST as an indented tree, one node per line, for tests
// and the parse CLI subcommand.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// WithPos includes each node's (file, line, col) on its line.
	WithPos bool
}

// Print walks n and writes its indented tree representation.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, withPos: p.WithPos}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	withPos bool
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		p.depth--
		return nil
	}
	if p.err != nil {
		return nil
	}

	indent := strings.Repeat(". ", p.depth)
	p.depth++
	if p.withPos {
		_, p.err = fmt.Fprintf(p.w, "%s%s [%s]\n", indent, label(n), n.Pos())
	} else {
		_, p.err = fmt.Fprintf(p.w, "%s%s\n", indent, label(n))
	}
	return p
}

// label returns a short, human-readable description of n's own content,
// without descending into its children (those are printed by the recursive
// Visit calls as the walk continues).
func label(n Node) string {
	switch n := n.(type) {
	case *Chunk:
		return fmt.Sprintf("chunk %q", n.Name)
	case *Block:
		return fmt.Sprintf("block {%d stmts}", len(n.Stmts))
	case *Ident:
		return fmt.Sprintf("ident %s", n.Name)
	case *NumberLit:
		return fmt.Sprintf("number %s", n.Raw)
	case *StringLit:
		return fmt.Sprintf("string %q", n.Value)
	case *BoolLit:
		return fmt.Sprintf("bool %v", n.Value)
	case *NullLit:
		return "null"
	case *ParenExpr:
		return "paren"
	case *UnaryExpr:
		return fmt.Sprintf("unary %s", n.Op.Raw)
	case *BinaryExpr:
		return fmt.Sprintf("binary %s", n.Op.Raw)
	case *DotExpr:
		return fmt.Sprintf("dot .%s", n.Name.Name)
	case *IndexExpr:
		return fmt.Sprintf("index {%d args}", len(n.Args))
	case *ColonExpr:
		return fmt.Sprintf("field-init %s:", n.Name.Name)
	case *CallExpr:
		return fmt.Sprintf("call {%d args}", len(n.Args))
	case *IfExpr:
		return fmt.Sprintf("if {%d branches, else=%v}", len(n.Conds), n.Else != nil)
	case *ProcLit:
		return "proc-lit"
	case *ProcType:
		return "proc-type"
	case *ExprStmt:
		return "expr-stmt"
	case *AssignStmt:
		return "assign"
	case *VarDecl:
		kw := "var"
		if n.Let {
			kw = "let"
		}
		return fmt.Sprintf("%s-decl {%d names}", kw, len(n.Names))
	case *ProcDecl:
		return fmt.Sprintf("proc %s", n.Name.Name)
	case *IteratorDecl:
		return fmt.Sprintf("iterator %s", n.Name.Name)
	case *ObjectDecl:
		return fmt.Sprintf("object %s {%d fields}", n.Name.Name, len(n.Fields))
	case *WhileStmt:
		return "while"
	case *ForStmt:
		return fmt.Sprintf("for %s", n.Var.Name)
	case *BreakStmt:
		return "break"
	case *ContinueStmt:
		return "continue"
	case *ReturnStmt:
		return "return"
	case *YieldStmt:
		return "yield"
	default:
		return fmt.Sprintf("%T", n)
	}
}
