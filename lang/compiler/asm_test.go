package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/compiler"
	"github.com/mna/bryony/lang/parser"
	"github.com/stretchr/testify/require"
)

func compileForAsm(t *testing.T, src string) *chunk.Script {
	t.Helper()
	ch, err := parser.ParseChunk("t.bry", []byte(src))
	require.NoError(t, err)
	c := compiler.NewCompiler("t.bry")
	require.NoError(t, c.CompileChunk(ch))
	return c.Script
}

func TestDumpAsmArithmetic(t *testing.T) {
	s := compileForAsm(t, "let x = 1 + 2 * 3")
	var buf strings.Builder
	require.NoError(t, compiler.DumpAsm(&buf, s))
	out := buf.String()
	require.Contains(t, out, "pushN 1")
	require.Contains(t, out, "pushN 2")
	require.Contains(t, out, "pushN 3")
	require.Contains(t, out, "multN")
	require.Contains(t, out, "addN")
	require.Contains(t, out, "halt")
}

func TestDumpAsmIfJumps(t *testing.T) {
	s := compileForAsm(t, "if true { var x = 1 }")
	var buf strings.Builder
	require.NoError(t, compiler.DumpAsm(&buf, s))
	out := buf.String()
	require.Contains(t, out, "jumpFwdF")
	require.Contains(t, out, "discard")
}

func TestDumpAsmProcCall(t *testing.T) {
	s := compileForAsm(t, "proc add(a: number, b: number) -> number { return a + b }\nlet x = add(1, 2)")
	var buf strings.Builder
	require.NoError(t, compiler.DumpAsm(&buf, s))
	out := buf.String()
	require.Contains(t, out, "proc 0: main")
	require.Contains(t, out, "proc 1: add")
	require.Contains(t, out, "callD 1")
	require.Contains(t, out, "returnVal")
}
