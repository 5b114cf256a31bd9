package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, c.WithPos, args...)
}

// ParseFiles parses each file and prints its AST as an indented tree. It
// stops at the first file that fails to parse.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, withPos bool, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout, WithPos: withPos}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}

		chunk, err := parser.ParseChunk(file, src)
		if err != nil {
			return printError(stdio, err)
		}
		if err := printer.Print(chunk); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
