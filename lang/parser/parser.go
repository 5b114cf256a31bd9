// Package parser implements the parser that transforms bryony source code
// into an abstract syntax tree (AST): recursive descent for statements, a
// Pratt precedence climb for expressions.
package parser

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/errors"
	"github.com/mna/bryony/lang/scanner"
	"github.com/mna/bryony/lang/token"
)

// ParseChunk tokenizes and parses src as a single source file named
// filename, returning the root AST node. Parsing aborts at the first error
// encountered (spec §4.1 "no recovery"); the returned error, when non-nil,
// is always a *errors.SyntaxError.
func ParseChunk(filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	if err := p.init(filename, src); err != nil {
		return nil, err
	}
	return p.parseChunk()
}

// parser turns a token stream into an AST, one token of lookahead at a
// time. Unlike a best-effort parser there is no panic/resync machinery:
// every parse method returns (node, error), and the first non-nil error
// unwinds straight back to ParseChunk.
type parser struct {
	scanner scanner.Scanner
	file    string

	tok token.Token
	val token.Value

	scanErr error // first scanning error encountered, if any

	// prevWasRBrace records whether the token just consumed by the most
	// recent advance() was a '}': a statement whose own body closes with a
	// brace terminates itself, no linefeed or ';' required (spec §4.1).
	prevWasRBrace bool
}

func (p *parser) init(filename string, src []byte) error {
	p.file = filename
	p.scanner.Init(filename, src, func(pos token.Pos, msg string) {
		if p.scanErr == nil {
			p.scanErr = errors.Syntaxf(pos, "%s", msg)
		}
	})
	return p.advance()
}

// advance consumes the current token and scans the next one, returning the
// first scanning error encountered, if any.
func (p *parser) advance() error {
	p.prevWasRBrace = p.tok == token.RBRACE
	p.tok = p.scanner.Scan(&p.val)
	return p.scanErr
}

// expect reports a syntax error unless the current token is tok; otherwise
// it advances past it and returns its position.
func (p *parser) expect(tok token.Token) (token.Pos, error) {
	if p.tok != tok {
		return token.Pos{}, p.errorExpected(tok.GoString())
	}
	pos := p.val.Pos
	if err := p.advance(); err != nil {
		return token.Pos{}, err
	}
	return pos, nil
}

// errorExpected builds a SyntaxError naming what was expected and what was
// actually found at the current position.
func (p *parser) errorExpected(want string) error {
	found := p.tok.GoString()
	if p.val.Raw != "" {
		found = p.val.Raw
	}
	return errors.Syntaxf(p.val.Pos, "expected %s, found %s", want, found)
}

func (p *parser) syntaxf(pos token.Pos, format string, args ...any) error {
	return errors.Syntaxf(pos, format, args...)
}

// canStartExpr reports whether the current token can begin an expression,
// used to tell a bare "return" from one followed by a value.
func (p *parser) canStartExpr() bool {
	switch p.tok {
	case token.NEWLINE, token.SEMI, token.RBRACE, token.EOF:
		return false
	default:
		return true
	}
}

func (p *parser) skipSeparators() error {
	for p.tok == token.NEWLINE || p.tok == token.SEMI {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// parseChunk parses "script = {stmt linefeed} [stmt]" followed by EOF.
func (p *parser) parseChunk() (*ast.Chunk, error) {
	stmts, err := p.parseStmtList(token.EOF)
	if err != nil {
		return nil, err
	}
	eofPos, err := p.expect(token.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Chunk{Name: p.file, Stmts: stmts, EOF: eofPos}, nil
}

// parseBlock parses "block = '{' {stmt linefeed} [stmt] '}'".
func (p *parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList(token.RBRACE)
	if err != nil {
		return nil, err
	}
	rbrace, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Lbrace: lbrace, Stmts: stmts, Rbrace: rbrace}, nil
}

// parseStmtList parses a statement sequence up to (but not including) end
// or EOF, honoring the line-sensitive terminator rule: a statement must be
// followed by a linefeed, a ';', the end token itself, EOF, or have just
// closed its own body with '}'.
func (p *parser) parseStmtList(end token.Token) ([]ast.Stmt, error) {
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	for p.tok != end && p.tok != token.EOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)

		if p.tok == end || p.tok == token.EOF {
			break
		}
		switch {
		case p.tok == token.NEWLINE || p.tok == token.SEMI:
			if err := p.skipSeparators(); err != nil {
				return nil, err
			}
		case p.prevWasRBrace:
			// self-terminated by the statement's own closing brace.
		default:
			return nil, p.errorExpected("end of statement")
		}
	}
	return stmts, nil
}

func (p *parser) parseIdent() (*ast.Ident, error) {
	if p.tok != token.IDENT {
		return nil, p.errorExpected("identifier")
	}
	id := &ast.Ident{NamePos: p.val.Pos, Name: p.val.Raw}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return id, nil
}

// parseGenerics parses an optional "[A, B, ...]" type-parameter list.
func (p *parser) parseGenerics() ([]*ast.Ident, error) {
	if p.tok != token.LBRACK {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var gens []*ast.Ident
	for p.tok != token.RBRACK {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		gens = append(gens, id)
		if p.tok == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return gens, nil
}

// parseParams parses a "(name: type, ...)" parameter list, trailing comma
// allowed.
func (p *parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for p.tok != token.RPAREN {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Name: name, Type: ty})
		if p.tok == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// isArrow reports whether the current token is the "->" return-type arrow.
// "->"/"=>"/"~>" all share precedence level 0 (spec §6.2); only "->" is
// wired to any grammar production, so this checks the lexeme, not just the
// precedence class.
func (p *parser) isArrow() bool {
	return p.tok == token.OP && p.val.Raw == "->"
}

// parseArrowType parses an optional "-> type" suffix.
func (p *parser) parseArrowType() (ast.Expr, error) {
	if !p.isArrow() {
		return nil, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseType()
}
