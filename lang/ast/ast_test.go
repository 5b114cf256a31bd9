package ast_test

import (
	"strings"
	"testing"

	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/token"
	"github.com/stretchr/testify/require"
)

func pos(line, col int) token.Pos { return token.Pos{File: "t.bry", Line: line, Col: col} }

func TestWalkOrder(t *testing.T) {
	chunk := &ast.Chunk{
		Name: "t.bry",
		Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.BinaryExpr{
				X:     &ast.NumberLit{ValPos: pos(1, 1), Raw: "2", Value: 2},
				OpPos: pos(1, 3),
				Op:    token.Value{Raw: "+"},
				Y:     &ast.NumberLit{ValPos: pos(1, 5), Raw: "3", Value: 3},
			}},
		},
	}

	var entered, exited []ast.Node
	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitEnter {
			entered = append(entered, n)
			return visit
		}
		exited = append(exited, n)
		return nil
	}
	ast.Walk(visit, chunk)

	require.Len(t, entered, 5) // Chunk, ExprStmt, BinaryExpr, NumberLit(2), NumberLit(3)
	require.IsType(t, &ast.Chunk{}, entered[0])
	require.IsType(t, &ast.BinaryExpr{}, entered[2])
	require.ElementsMatch(t, entered, exited) // every entered node also exits exactly once
	require.IsType(t, &ast.NumberLit{}, exited[0])
	require.IsType(t, &ast.Chunk{}, exited[len(exited)-1]) // parents exit last, after all children
}

func TestIsAssignable(t *testing.T) {
	ident := &ast.Ident{Name: "x"}
	require.True(t, ast.IsAssignable(ident))

	dot := &ast.DotExpr{X: ident, Name: &ast.Ident{Name: "y"}}
	require.True(t, ast.IsAssignable(dot))

	lit := &ast.NumberLit{Value: 1}
	require.False(t, ast.IsAssignable(lit))

	paren := &ast.ParenExpr{X: ident}
	require.True(t, ast.IsAssignable(paren))
}

func TestUnwrap(t *testing.T) {
	ident := &ast.Ident{Name: "x"}
	wrapped := &ast.ParenExpr{X: &ast.ParenExpr{X: ident}}
	require.Same(t, ast.Expr(ident), ast.Unwrap(wrapped))
}

func TestPrinter(t *testing.T) {
	chunk := &ast.Chunk{
		Name: "t.bry",
		Stmts: []ast.Stmt{
			&ast.VarDecl{
				Let:   true,
				Names: []*ast.Ident{{Name: "x"}},
				Value: &ast.NumberLit{Raw: "1", Value: 1},
			},
		},
	}

	var sb strings.Builder
	p := &ast.Printer{Output: &sb}
	require.NoError(t, p.Print(chunk))

	out := sb.String()
	require.Contains(t, out, "chunk")
	require.Contains(t, out, "let-decl")
	require.Contains(t, out, "ident x")
	require.Contains(t, out, "number 1")
}
