package errors_test

import (
	"testing"

	bryerrs "github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/token"
	"github.com/stretchr/testify/require"
)

func TestSyntaxErrorFormat(t *testing.T) {
	err := bryerrs.Syntaxf(token.Pos{File: "a.bry", Line: 3, Col: 5}, "unexpected %s", "}")
	require.Equal(t, "a.bry(3, 5): unexpected }", err.Error())
}

func TestCompileErrorFormat(t *testing.T) {
	err := bryerrs.Compilef(token.Pos{File: "a.bry", Line: 2, Col: 1}, bryerrs.LetReassignment,
		"'%s' cannot be reassigned", "x")
	require.Equal(t, "a.bry(2, 1): 'x' cannot be reassigned", err.Error())
	require.Equal(t, bryerrs.LetReassignment, err.Kind)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "LetReassignment", bryerrs.LetReassignment.String())
	require.Equal(t, "RecursiveGenericInstantiation", bryerrs.RecursiveGenericInstantiation.String())
	require.Equal(t, "UnknownKind", bryerrs.Kind(999).String())
}
