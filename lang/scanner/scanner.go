// Package scanner tokenizes bryony source text. It has no knowledge of
// grammar or semantics: it is a token-stream oracle consumed by the parser,
// reporting linefeeds as a significant token and otherwise classifying
// characters into the kinds declared by package token.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/bryony/lang/token"
)

// TokenAndValue combines a token kind with its scanned payload.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanAll tokenizes src in its entirety, returning every token up to and
// including EOF, or the first error encountered.
func ScanAll(file string, src []byte) ([]TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		first  error
	)
	s.Init(file, src, func(pos token.Pos, msg string) {
		if first == nil {
			first = &Error{Pos: pos, Msg: msg}
		}
	})

	var out []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		out = append(out, TokenAndValue{Token: tok, Value: tokVal})
		if first != nil {
			return out, first
		}
		if tok == token.EOF {
			return out, nil
		}
	}
}

// Error is a scanning error: an illegal character, an unterminated literal,
// or an unterminated comment.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	file string
	src  []byte
	err  func(pos token.Pos, msg string)

	sb strings.Builder // reused scratch buffer for decoded string literals

	cur  rune // current character, -1 at end of file
	off  int  // byte offset of cur
	roff int  // byte offset immediately after cur

	line int
	col  int

	// parenDepth tracks nesting of () and [] so that a linefeed inside an
	// open grouping is not reported as a statement-terminating NEWLINE. It
	// excludes {} on purpose: blocks use linefeed as a statement separator
	// (spec's block = "{" { stmt linefeed } [stmt] "}"), so a linefeed
	// between a block's statements must still be reported.
	parenDepth int
}

// Init (re)initializes the scanner to tokenize src, reporting its origin as
// file in every position it produces.
func (s *Scanner) Init(file string, src []byte, errHandler func(token.Pos, string)) {
	s.file = file
	s.src = src
	s.err = errHandler

	s.sb.Reset()
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.parenDepth = 0

	s.advance()
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{File: s.file, Line: s.line, Col: s.col}
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next rune into s.cur, or sets s.cur to -1 at EOF.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		if s.cur != -1 {
			// EOF sits one column past the last rune (column 1 after a newline).
			s.col++
		}
		s.off = len(s.src)
		s.cur = -1
		return
	}

	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.errorf(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.col++
	s.cur = r
}

// advanceIf advances past cur and returns true if cur equals want.
func (s *Scanner) advanceIf(want rune) bool {
	if s.cur == want {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(off int, msg string) {
	_ = off
	if s.err != nil {
		s.err(s.pos(), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// Scan returns the next token, filling tokVal with its payload.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	for {
		s.skipSpacesAndComments()
		if s.cur != '\n' {
			break
		}
		pos := s.pos()
		s.advance()
		*tokVal = token.Value{Pos: pos, Raw: "\n"}
		if s.parenDepth > 0 {
			continue
		}
		return token.NEWLINE
	}

	pos := s.pos()
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok := token.LookupKw(lit)
		switch tok {
		case token.AND, token.OR, token.IS, token.IN:
			// these keywords double as infix operators (spec §6.2); give them
			// the same Op metadata a symbol operator would carry so the parser
			// can drive its precedence climb off Value.Op uniformly.
			*tokVal = token.Value{Pos: pos, Raw: lit, Op: token.OperatorPrecedence(lit)}
		default:
			*tokVal = token.Value{Pos: pos, Raw: lit}
		}
		return tok

	case isDigit(cur) || (cur == '.' && isDigit(rune(s.peek()))):
		lit, val := s.number()
		*tokVal = token.Value{Pos: pos, Raw: lit, Number: val}
		return token.NUMBER

	case cur == '"' || cur == '\'':
		lit, val := s.shortString(cur)
		*tokVal = token.Value{Pos: pos, Raw: lit, String: val}
		return token.STRING
	}

	cur := s.cur
	s.advance()
	switch cur {
	case -1:
		*tokVal = token.Value{Pos: pos}
		return token.EOF

	case '(':
		s.parenDepth++
		*tokVal = token.Value{Pos: pos, Raw: "("}
		return token.LPAREN
	case ')':
		s.parenDepth--
		*tokVal = token.Value{Pos: pos, Raw: ")"}
		return token.RPAREN
	case '[':
		s.parenDepth++
		*tokVal = token.Value{Pos: pos, Raw: "["}
		return token.LBRACK
	case ']':
		s.parenDepth--
		*tokVal = token.Value{Pos: pos, Raw: "]"}
		return token.RBRACK
	case '{':
		*tokVal = token.Value{Pos: pos, Raw: "{"}
		return token.LBRACE
	case '}':
		*tokVal = token.Value{Pos: pos, Raw: "}"}
		return token.RBRACE
	case ',':
		*tokVal = token.Value{Pos: pos, Raw: ","}
		return token.COMMA
	case ';':
		*tokVal = token.Value{Pos: pos, Raw: ";"}
		return token.SEMI
	}

	// Everything else built from the operator character class: the maximal
	// munch is taken first, then dispatched by the resulting lexeme. The
	// reserved lexemes (".", "=", ":") denote dedicated punctuation rather
	// than a user-definable operator; "::" is reserved but unassigned to any
	// token kind and so is rejected.
	if strings.ContainsRune(token.OperatorChars, cur) {
		lit := s.operatorLexeme(start)
		switch lit {
		case ".":
			*tokVal = token.Value{Pos: pos, Raw: lit}
			return token.DOT
		case "=":
			*tokVal = token.Value{Pos: pos, Raw: lit}
			return token.ASSIGN
		case ":":
			*tokVal = token.Value{Pos: pos, Raw: lit}
			return token.COLON
		case "::":
			s.errorf(start, "reserved lexeme '::' is not a valid token")
			*tokVal = token.Value{Pos: pos, Raw: lit}
			return token.ILLEGAL
		}
		op := token.OperatorPrecedence(lit)
		*tokVal = token.Value{Pos: pos, Raw: lit, Op: op}
		return token.OP
	}

	if cur == utf8.RuneError {
		*tokVal = token.Value{Pos: pos, Raw: string(cur)}
		return token.ILLEGAL
	}
	s.errorf(start, "illegal character %#U", cur)
	*tokVal = token.Value{Pos: pos, Raw: string(cur)}
	return token.ILLEGAL
}

// operatorLexeme consumes the run of operator-class characters beginning at
// byte offset start (s.cur already holds the character following the first
// rune of the lexeme) and returns the full matched lexeme.
func (s *Scanner) operatorLexeme(start int) string {
	for s.cur != -1 && strings.ContainsRune(token.OperatorChars, s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipSpacesAndComments() {
	for {
		switch {
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r':
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			s.blockComment()
		default:
			return
		}
	}
}

// blockComment consumes a nestable /* ... */ comment, cur positioned on the
// opening '/'.
func (s *Scanner) blockComment() {
	startOff := s.off
	s.advance() // '/'
	s.advance() // '*'
	depth := 1
	for depth > 0 {
		switch {
		case s.cur == -1:
			s.errorf(startOff, "comment not terminated")
			return
		case s.cur == '/' && s.peek() == '*':
			s.advance()
			s.advance()
			depth++
		case s.cur == '*' && s.peek() == '/':
			s.advance()
			s.advance()
			depth--
		default:
			s.advance()
		}
	}
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
