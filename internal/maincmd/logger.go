package maincmd

import (
	"context"
	"io"
	"log/slog"
)

// newLogger builds the operational logger --verbose enables: compilation timing
// and GC cycle counts, written to stderr as structured key/value lines.
// This logger never touches the pinned `Runtime error: ...` / `[line L]
// Error at ...` formats the VM and compiler produce on their own — those
// are program output, not log records, and must stay byte-for-byte stable
// regardless of --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

func logGCCycle(ctx context.Context, logger *slog.Logger, collections, bytesAllocated int) {
	logger.DebugContext(ctx, "gc cycle", "collections", collections, "bytes_allocated", bytesAllocated)
}
