package vm

import "github.com/Valkyrja-Design/holo/lang/object"

// frame is one call's activation record: the closure being executed, the
// instruction pointer into its chunk, and the base stack slot its locals
// (including the receiver/callee slot 0) start at.
type frame struct {
	closure   *object.ObjClosure
	ip        int
	stackBase int
}

const maxFrames = 256
