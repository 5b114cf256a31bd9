package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bryony/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans each file and prints its tokens, one per line, in
// "file(line, col): token [literal]" form. It stops at the first file that
// fails to scan.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}

		toks, err := scanner.ScanAll(file, src)
		for _, tv := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tv.Value.Pos, tv.Token)
			if tv.Token.HasLiteral() {
				fmt.Fprintf(stdio.Stdout, " %s", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
