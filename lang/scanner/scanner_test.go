package scanner_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/bryony/internal/filetest"
	"github.com/mna/bryony/internal/maincmd"
	"github.com/mna/bryony/lang/scanner"
	"github.com/mna/bryony/lang/token"
	"github.com/stretchr/testify/require"
)

var testUpdateScannerTests = flag.Bool("test.update-scanner-tests", false, "If set, replace expected scanner test results with actual results.")

// TestScanGolden runs the tokenize CLI command, which wraps the scanner,
// over every .bry file in testdata/in and diffs the printed token stream
// against the golden file of the same name in testdata/out.
func TestScanGolden(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".bry") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			// error is ignored, we just want it printed to ebuf
			_ = maincmd.TokenizeFiles(ctx, stdio, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateScannerTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateScannerTests)
		})
	}
}

func scanKinds(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := scanner.ScanAll("test.bry", []byte(src))
	require.NoError(t, err)
	kinds := make([]token.Token, len(toks))
	for i, tv := range toks {
		kinds[i] = tv.Token
	}
	return kinds
}

func TestScanIdentsAndKeywords(t *testing.T) {
	kinds := scanKinds(t, "let x = foo\nif y {}")
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.ASSIGN, token.IDENT, token.NEWLINE,
		token.IF, token.IDENT, token.LBRACE, token.RBRACE, token.EOF,
	}, kinds)
}

func TestScanNumber(t *testing.T) {
	toks, err := scanner.ScanAll("test.bry", []byte("2 + 3.5e1"))
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, toks[0].Token)
	require.Equal(t, float64(2), toks[0].Value.Number)
	require.Equal(t, token.OP, toks[1].Token)
	require.Equal(t, "+", toks[1].Value.Raw)
	require.Equal(t, token.NUMBER, toks[2].Token)
	require.Equal(t, 35.0, toks[2].Value.Number)
}

func TestScanLeadingDotNumber(t *testing.T) {
	toks, err := scanner.ScanAll("test.bry", []byte(".5"))
	require.NoError(t, err)
	require.Equal(t, token.NUMBER, toks[0].Token)
	require.Equal(t, 0.5, toks[0].Value.Number)
}

func TestScanString(t *testing.T) {
	toks, err := scanner.ScanAll("test.bry", []byte(`"hi\nthere"`))
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Token)
	require.Equal(t, "hi\nthere", toks[0].Value.String)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := scanner.ScanAll("test.bry", []byte(`"hi`))
	require.Error(t, err)
}

func TestScanDotVsOperator(t *testing.T) {
	kinds := scanKinds(t, "a.b")
	require.Equal(t, []token.Token{token.IDENT, token.DOT, token.IDENT, token.EOF}, kinds)
}

func TestScanColonReserved(t *testing.T) {
	kinds := scanKinds(t, "a: number")
	require.Equal(t, []token.Token{token.IDENT, token.COLON, token.IDENT, token.EOF}, kinds)
}

func TestScanDoubleColonIllegal(t *testing.T) {
	_, err := scanner.ScanAll("test.bry", []byte("a::b"))
	require.Error(t, err)
}

func TestScanLineComment(t *testing.T) {
	kinds := scanKinds(t, "let x = 1 // trailing comment\n")
	require.Equal(t, []token.Token{
		token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.NEWLINE, token.EOF,
	}, kinds)
}

func TestScanBlockCommentNested(t *testing.T) {
	kinds := scanKinds(t, "/* outer /* inner */ still-outer */ let")
	require.Equal(t, []token.Token{token.LET, token.EOF}, kinds)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, err := scanner.ScanAll("test.bry", []byte("/* never closes"))
	require.Error(t, err)
}

func TestScanNewlineSuppressedInsideParens(t *testing.T) {
	kinds := scanKinds(t, "foo(1,\n2)\n")
	require.Equal(t, []token.Token{
		token.IDENT, token.LPAREN, token.NUMBER, token.COMMA, token.NUMBER,
		token.RPAREN, token.NEWLINE, token.EOF,
	}, kinds)
}

func TestScanUserOperators(t *testing.T) {
	kinds := scanKinds(t, "a <=> b")
	require.Equal(t, []token.Token{token.IDENT, token.OP, token.IDENT, token.EOF}, kinds)
}

func TestScanPosition(t *testing.T) {
	toks, err := scanner.ScanAll("test.bry", []byte("let\n  x"))
	require.NoError(t, err)
	require.Equal(t, token.Pos{File: "test.bry", Line: 1, Col: 1}, toks[0].Value.Pos)
	require.Equal(t, token.Pos{File: "test.bry", Line: 2, Col: 3}, toks[2].Value.Pos)
}
