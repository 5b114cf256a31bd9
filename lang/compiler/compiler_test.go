package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/compiler"
	bryerrs "github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/parser"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *chunk.Script {
	t.Helper()
	ch, err := parser.ParseChunk("t.bry", []byte(src))
	require.NoError(t, err)
	c := compiler.NewCompiler("t.bry")
	require.NoError(t, c.CompileChunk(ch))
	return c.Script
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	ch, err := parser.ParseChunk("t.bry", []byte(src))
	require.NoError(t, err)
	c := compiler.NewCompiler("t.bry")
	return c.CompileChunk(ch)
}

func asmOf(t *testing.T, s *chunk.Script) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, compiler.DumpAsm(&buf, s))
	return buf.String()
}

func requireKind(t *testing.T, err error, kind bryerrs.Kind) {
	t.Helper()
	require.Error(t, err)
	var ce *bryerrs.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, kind, ce.Kind, "got message %q", ce.Message)
}

func TestVarDeclMultiName(t *testing.T) {
	// a single identDefs group shares one value across all its names; at the
	// top level both are globals ("a" is string id 0, "b" is string id 1)
	out := asmOf(t, mustCompile(t, "let a, b = 1"))
	require.Contains(t, out, "pushN 1")
	require.Contains(t, out, "popG 0")
	require.Contains(t, out, "pushG 0")
	require.Contains(t, out, "popG 1")
}

func TestVarDeclGlobal(t *testing.T) {
	out := asmOf(t, mustCompile(t, "var x = 1"))
	require.Contains(t, out, "popG")
}

func TestVarDeclWithoutValueIsError(t *testing.T) {
	requireKind(t, compileErr(t, "var x: number"), bryerrs.VarMustHaveValue)
}

func TestLetReassignmentIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = 1\nx = 2"), bryerrs.LetReassignment)
}

func TestLocalRedeclarationIsError(t *testing.T) {
	requireKind(t, compileErr(t, "proc f() {\n  let x = 1\n  let x = 2\n}"), bryerrs.LocalRedeclaration)
}

func TestGlobalRedeclarationIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = 1\nlet x = 2"), bryerrs.GlobalRedeclaration)
}

func TestAssignTypeMismatchIsError(t *testing.T) {
	requireKind(t, compileErr(t, "var x = 1\nx = true"), bryerrs.TypeMismatch)
}

func TestUndefinedReferenceIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = y"), bryerrs.UndefinedReference)
}

func TestWhileFalseBodySkipped(t *testing.T) {
	out := asmOf(t, mustCompile(t, "while false {\n  let x = 1\n}"))
	require.NotContains(t, out, "pushN 1")
}

func TestWhileLoopJumpBack(t *testing.T) {
	out := asmOf(t, mustCompile(t, "while true {\n  break\n}"))
	require.Contains(t, out, "jumpBack")
	require.Contains(t, out, "jumpFwd")
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	requireKind(t, compileErr(t, "break"), bryerrs.OnlyUsableInALoop)
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	requireKind(t, compileErr(t, "continue"), bryerrs.OnlyUsableInALoop)
}

func TestReturnOutsideProcIsError(t *testing.T) {
	requireKind(t, compileErr(t, "return"), bryerrs.OnlyUsableInAProc)
}

func TestProcReturnValue(t *testing.T) {
	out := asmOf(t, mustCompile(t, "proc f() -> number {\n  return 1\n}"))
	require.Contains(t, out, "proc 1: f (0 params, result=true)")
	require.Contains(t, out, "returnVal")
}

func TestProcVoidReturn(t *testing.T) {
	out := asmOf(t, mustCompile(t, "proc f() {\n  return\n}"))
	require.Contains(t, out, "returnVoid")
}

func TestProcReturnWrongTypeIsError(t *testing.T) {
	requireKind(t, compileErr(t, "proc f() -> number {\n  return true\n}"), bryerrs.TypeMismatch)
}

func TestObjectDeclAndConstruct(t *testing.T) {
	out := asmOf(t, mustCompile(t, "object Point { x, y: number }\nlet p = Point(x: 1, y: 2)"))
	require.Contains(t, out, "constrObj")
}

func TestObjectMissingFieldIsError(t *testing.T) {
	requireKind(t, compileErr(t, "object Point { x, y: number }\nlet p = Point(x: 1)"),
		bryerrs.ObjectFieldsMustBeInitialized)
}

func TestObjectUnknownFieldIsError(t *testing.T) {
	requireKind(t, compileErr(t, "object Point { x, y: number }\nlet p = Point(x: 1, y: 2, z: 3)"),
		bryerrs.NoSuchField)
}

func TestObjectFieldAccessAndAssign(t *testing.T) {
	out := asmOf(t, mustCompile(t, "object Point { x, y: number }\nvar p = Point(x: 1, y: 2)\np.x = 3\nlet q = p.y"))
	require.Contains(t, out, "pushF")
	require.Contains(t, out, "popF")
}

func TestObjectFieldAccessOnNonObjectIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = 1\nlet y = x.z"), bryerrs.TypeIsNotAnObject)
}

func TestForLoopSplicesIteratorBody(t *testing.T) {
	src := "iterator upto(n: number) -> number {\n" +
		"  var i = 0\n" +
		"  while i < n {\n" +
		"    yield i\n" +
		"    i = i + 1\n" +
		"  }\n" +
		"}\n" +
		"proc sum(n: number) -> number {\n" +
		"  var total = 0\n" +
		"  for v in upto(n) {\n" +
		"    total = total + v\n" +
		"  }\n" +
		"  return total\n" +
		"}"
	out := asmOf(t, mustCompile(t, src))
	// splicing means the for loop's body is inlined directly into sum's
	// chunk: no callD to the iterator appears anywhere.
	require.NotContains(t, out, "callD")
	require.Contains(t, out, "jumpBack")
}

func TestOverloadedProcsCompile(t *testing.T) {
	src := "proc add(x: number) -> number {\n  return x + 1\n}\n" +
		"proc add(x: string) -> string {\n  return x\n}\n" +
		"let a = add(1)\n" +
		"let b = add(\"hi\")"
	out := asmOf(t, mustCompile(t, src))
	require.Contains(t, out, "proc 1: add")
	require.Contains(t, out, "proc 2: add")
	require.Contains(t, out, "callD 1")
	require.Contains(t, out, "callD 2")
}

func TestOverloadedProcsIdenticalSignatureIsError(t *testing.T) {
	requireKind(t, compileErr(t, "proc add(x: number) -> number {\n  return x\n}\n"+
		"proc add(x: number) -> number {\n  return x\n}"), bryerrs.GlobalRedeclaration)
}

func TestOverloadedProcsDifferByArityOnly(t *testing.T) {
	src := "proc f(x: number) -> number {\n  return x\n}\n" +
		"proc f(x: number, y: number) -> number {\n  return x + y\n}\n" +
		"let a = f(1)\n" +
		"let b = f(1, 2)"
	out := asmOf(t, mustCompile(t, src))
	require.Contains(t, out, "callD 1")
	require.Contains(t, out, "callD 2")
}

func TestProcVarNameCollisionIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let add = 1\nproc add(x: number) -> number {\n  return x\n}"),
		bryerrs.GlobalRedeclaration)
}

func TestYieldOutsideIteratorIsError(t *testing.T) {
	requireKind(t, compileErr(t, "proc f() {\n  yield 1\n}"), bryerrs.OnlyUsableInAnIterator)
}

func TestIteratorWithoutYieldTypeIsError(t *testing.T) {
	requireKind(t, compileErr(t, "iterator bad(n: number) {\n  yield n\n}"), bryerrs.IterMustHaveYieldType)
}

func TestGenericProcInstantiation(t *testing.T) {
	src := "proc identity[T](x: T) -> T {\n  return x\n}\n" +
		"let a = identity[number](1)\n" +
		"let b = identity[string](\"hi\")"
	out := asmOf(t, mustCompile(t, src))
	require.Contains(t, out, "proc 1: identity")
	require.Contains(t, out, "proc 2: identity")
	require.Contains(t, out, "callD 1")
	require.Contains(t, out, "callD 2")
}

func TestGenericBareReferenceIsError(t *testing.T) {
	requireKind(t, compileErr(t, "proc identity[T](x: T) -> T {\n  return x\n}\nlet a = identity(1)"),
		bryerrs.CouldNotInferGeneric)
}

func TestIfExpression(t *testing.T) {
	out := asmOf(t, mustCompile(t, "let x = if true { 1 } else { 2 }"))
	require.Contains(t, out, "jumpFwdF")
	require.Contains(t, out, "jumpFwd ")
}

func TestIfExpressionWithoutElseIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = if true { 1 }"), bryerrs.TypeMismatch)
}

func TestIfExpressionBranchMismatchIsError(t *testing.T) {
	requireKind(t, compileErr(t, "let x = if true { 1 } else { true }"), bryerrs.TypeMismatch)
}
