package chunk_test

import (
	"strings"
	"testing"

	"github.com/mna/bryony/lang/chunk"
	"github.com/stretchr/testify/require"
)

func TestOpcodeString(t *testing.T) {
	for op := chunk.Halt; op <= chunk.ConstrObj; op++ {
		s := op.String()
		require.NotContains(t, s, "illegal", "opcode %d missing a name", op)
	}
	require.Contains(t, chunk.Opcode(255).String(), "illegal")
}

func TestOperandSize(t *testing.T) {
	cases := []struct {
		op   chunk.Opcode
		size int
	}{
		{chunk.Halt, 0},
		{chunk.PushTrue, 0},
		{chunk.PushN, 8},
		{chunk.PushS, 2},
		{chunk.PushNil, 2},
		{chunk.PushG, 2},
		{chunk.PopG, 2},
		{chunk.PushL, 1},
		{chunk.PopL, 1},
		{chunk.PushF, 1},
		{chunk.PopF, 1},
		{chunk.NDiscard, 1},
		{chunk.JumpFwd, 2},
		{chunk.JumpFwdT, 2},
		{chunk.JumpFwdF, 2},
		{chunk.JumpBack, 2},
		{chunk.CallD, 2},
		{chunk.ConstrObj, 3},
		{chunk.ReturnVal, 0},
		{chunk.ReturnVoid, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.size, chunk.OperandSize(c.op), "opcode %s", c.op)
	}
}
