package token

// Value carries the payload scanned along with a Token: its position, the
// raw source text, and (for literals and operators) the decoded value.
type Value struct {
	Pos Pos
	Raw string // exact source text of the token

	Number float64 // valid when Token == NUMBER
	String string  // valid when Token == STRING (decoded, unescaped value)

	// Op carries the operator metadata for a Token == OP value, computed once
	// by the scanner from the lexeme per the precedence table in §6.2.
	Op Operator
}

// Operator describes an operator token's parsing metadata: its lexeme, the
// precedence level used by the Pratt parser, and its associativity.
type Operator struct {
	Lexeme     string
	Precedence int
	LeftAssoc  bool
}
