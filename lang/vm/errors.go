package vm

import (
	"fmt"
	"strings"
)

// maxTraceFrames bounds how many call frames a runtime error's stack trace
// prints, innermost first, so a deep or runaway recursion doesn't flood
// stderr.
const maxTraceFrames = 10

// runtimeError formats msg (in the same style as a standard Go error
// message, no trailing punctuation requirements) into the full
// "Runtime error: ...\n[line L] in name()\n..." report spec.md's runtime
// error contract describes, built from the live call stack at the point of
// failure.
func (vm *VM) runtimeError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)

	var b strings.Builder
	fmt.Fprintf(&b, "Runtime error: %s\n", msg)

	n := len(vm.frames)
	shown := n
	if shown > maxTraceFrames {
		shown = maxTraceFrames
	}
	for i := 0; i < shown; i++ {
		fr := vm.frames[n-1-i]
		line := fr.closure.Function.Chunk.LineAt(fr.ip - 1)
		name := fr.closure.Function.Name
		if name == "" {
			fmt.Fprintf(&b, "[line %d] in <main>\n", line)
		} else {
			fmt.Fprintf(&b, "[line %d] in %s()\n", line, name)
		}
	}
	if n > maxTraceFrames {
		fmt.Fprintf(&b, "... %d more frames\n", n-maxTraceFrames)
	}

	return fmt.Errorf("%s", b.String())
}
