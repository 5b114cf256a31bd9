package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bryony/lang/compiler"
	"github.com/mna/bryony/lang/parser"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

// CompileFiles parses and compiles each file, printing the emitted
// bytecode as a readable instruction listing (see compiler.DumpAsm). It
// stops at the first file that fails to parse or compile.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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

		comp := compiler.NewCompiler(file)
		if err := comp.CompileChunk(chunk); err != nil {
			return printError(stdio, err)
		}
		if err := compiler.DumpAsm(stdio.Stdout, comp.Script); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
