package maincmd

import (
	"context"
	"fmt"
	gotoken "go/token"
	"os"

	"github.com/mna/mainer"

	"github.com/Valkyrja-Design/holo/lang/scanner"
	"github.com/Valkyrja-Design/holo/lang/token"
)

// Tokenize runs only the scanner phase over the named source file and
// prints each token, one per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var sc scanner.Scanner
	var scanErrs scanner.ErrorList
	sc.Init(args[0], src, func(pos gotoken.Position, msg string) {
		scanErrs.Add(pos, msg)
	})

	for {
		tv := sc.Scan()
		fmt.Fprintf(stdio.Stdout, "%d:%d: %s", tv.Line, tv.Col, tv.Tok)
		if tv.Tok == token.STRING || tv.Tok == token.NUMBER || tv.Tok == token.IDENT {
			fmt.Fprintf(stdio.Stdout, " %s", tv.Lexeme)
		}
		fmt.Fprintln(stdio.Stdout)
		if tv.Tok == token.EOF {
			break
		}
	}

	if len(scanErrs) > 0 {
		scanner.PrintError(stdio.Stderr, scanErrs.Err())
		return scanErrs.Err()
	}
	return nil
}
