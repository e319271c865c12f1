package object

import (
	"fmt"

	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/value"
)

// ObjFunction is a compiled function body: its arity, its upvalue count (how
// many free variables its closures must capture) and the Chunk produced by
// the compiler. Functions are always wrapped in an ObjClosure before being
// called; the bare ObjFunction only ever appears as a Constant referenced by
// an OP_CLOSURE instruction.
type ObjFunction struct {
	value.Header
	Name         string // empty for the top-level script body
	Arity        int
	Upvalues     int
	Chunk        bytecode.Chunk
}

var _ value.Obj = (*ObjFunction)(nil)

func (fn *ObjFunction) String() string {
	if fn.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", fn.Name)
}
func (*ObjFunction) TypeName() string         { return "function" }
func (fn *ObjFunction) GCHeader() *value.Header { return &fn.Header }

// UpvalueCount reports how many upvalues closures over fn must capture; read
// by the bytecode disassembler to know how many descriptor pairs follow an
// OP_CLOSURE instruction.
func (fn *ObjFunction) UpvalueCount() int { return fn.Upvalues }

func (fn *ObjFunction) Children(mark func(value.Value)) {
	for _, c := range fn.Chunk.Constants {
		mark(c)
	}
}
