package token

import "fmt"

// Pos is a source position: a filename plus a 1-based line and column. Every
// AST node, token and diagnostic carries one so that any of them can be
// reported without consulting a separate file table.
//
// A zero value Pos (Line == 0) is "unknown" and is only ever used as a
// placeholder before a node's position is filled in.
type Pos struct {
	File string
	Line int
	Col  int
}

// Unknown reports whether p has not been assigned a line/col.
func (p Pos) Unknown() bool { return p.Line == 0 || p.Col == 0 }

// String formats p using the canonical "file(line, col)" diagnostic prefix.
func (p Pos) String() string { return fmt.Sprintf("%s(%d, %d)", p.File, p.Line, p.Col) }
