package sym_test

import (
	"testing"

	"github.com/mna/bryony/lang/sym"
	"github.com/stretchr/testify/require"
)

func TestScopeDeclareAndLookup(t *testing.T) {
	root := sym.NewScope(nil, 1)
	v := &sym.VarSym{Name: "x", Type: &sym.TypeSym{Kind: sym.Number}}
	require.False(t, root.Declare("x", v))
	require.True(t, root.Declare("x", v)) // redeclared

	got, scope, ok := root.Lookup("x")
	require.True(t, ok)
	require.Same(t, root, scope)
	require.Same(t, sym.Sym(v), got)
}

func TestScopeLookupThroughParent(t *testing.T) {
	root := sym.NewScope(nil, 1)
	v := &sym.VarSym{Name: "x"}
	root.Declare("x", v)

	child := sym.NewScope(root, 2)
	got, scope, ok := child.Lookup("x")
	require.True(t, ok)
	require.Same(t, root, scope)
	require.Same(t, sym.Sym(v), got)

	_, ok = child.LookupLocal("x")
	require.False(t, ok)
}

func TestScopeShadowing(t *testing.T) {
	root := sym.NewScope(nil, 1)
	outer := &sym.VarSym{Name: "x", Type: &sym.TypeSym{Kind: sym.Number}}
	root.Declare("x", outer)

	child := sym.NewScope(root, 2)
	inner := &sym.VarSym{Name: "x", Type: &sym.TypeSym{Kind: sym.String}}
	require.False(t, child.Declare("x", inner)) // no redeclaration, shadows outer

	got, scope, _ := child.Lookup("x")
	require.Same(t, child, scope)
	require.Same(t, sym.Sym(inner), got)
}

func TestModuleNewContextIncreasing(t *testing.T) {
	m := sym.NewModule("t.bry")
	a := m.NewContext()
	b := m.NewContext()
	require.Less(t, a, b)
}
