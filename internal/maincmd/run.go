package maincmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mna/mainer"

	"github.com/Valkyrja-Design/holo/lang/compiler"
	"github.com/Valkyrja-Design/holo/lang/gc"
	"github.com/Valkyrja-Design/holo/lang/scanner"
	"github.com/Valkyrja-Design/holo/lang/vm"
)

// Run compiles and executes the named source file: compile errors are
// printed to stderr and the run aborts with no program output at all;
// runtime errors print their stack trace and abort execution at the point
// of failure, matching spec.md's error-handling contract for both phases.
// Both kinds of error are reported on stderr and the command still exits 0;
// only configuration and source-file read errors make it fail.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := LoadRuntimeConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	logger := newLogger(stdio.Stderr, c.Verbose)

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	heap := gc.NewWithPolicy(cfg.GCInitialBytes, cfg.GCGrowthFactor)
	intern := gc.NewIntern(heap)
	symtab := gc.NewSymTab()

	start := time.Now()
	fn, cerr := compiler.Compile(heap, intern, symtab, args[0], src)
	logger.DebugContext(ctx, "compiled", "file", args[0], "duration", time.Since(start))
	if cerr != nil {
		scanner.PrintError(stdio.Stderr, cerr)
		return nil
	}

	machine := vm.New(heap, intern, symtab, cfg.StackMax)
	machine.Stdout = stdio.Stdout
	machine.Stderr = stdio.Stderr
	machine.DefineStandardNatives()

	if err := machine.Interpret(ctx, fn); err != nil {
		fmt.Fprint(stdio.Stderr, err.Error())
		logGCCycle(ctx, logger, heap.Collections(), heap.BytesAllocated())
		return nil
	}
	logGCCycle(ctx, logger, heap.Collections(), heap.BytesAllocated())
	return nil
}
