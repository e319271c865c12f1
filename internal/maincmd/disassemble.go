package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/Valkyrja-Design/holo/lang/compiler"
	"github.com/Valkyrja-Design/holo/lang/gc"
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/scanner"
)

// Disassemble compiles the named source file and prints a human-readable
// bytecode listing of its top-level function and every function nested in
// it, instead of running the program.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	heap := gc.New()
	intern := gc.NewIntern(heap)
	symtab := gc.NewSymTab()

	fn, cerr := compiler.Compile(heap, intern, symtab, args[0], src)
	if cerr != nil {
		scanner.PrintError(stdio.Stderr, cerr)
		return cerr
	}

	disassembleFunction(stdio.Stdout, fn, "<script>")
	return nil
}

// disassembleFunction prints fn's chunk, then recurses into every nested
// ObjFunction referenced from its constant pool, so a single invocation
// shows every function body compiled from the file, not just the top level.
func disassembleFunction(w io.Writer, fn *object.ObjFunction, label string) {
	fn.Chunk.Disassemble(w, label)
	fmt.Fprintln(w)
	for _, k := range fn.Chunk.Constants {
		if nested, ok := k.(*object.ObjFunction); ok {
			name := nested.Name
			if name == "" {
				name = "<anonymous>"
			}
			disassembleFunction(w, nested, name)
		}
	}
}
