package compiler

import (
	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/value"
)

func (c *compiler) chunk() *bytecode.Chunk { return &c.fc.function.Chunk }

func (c *compiler) line() int { return c.previous.Line }

func (c *compiler) emitByte(b byte) { c.chunk().Write(b, c.line()) }

func (c *compiler) emitOp(op bytecode.OpCode) { c.chunk().WriteOp(op, c.line()) }

func (c *compiler) emitOps(a, b bytecode.OpCode) {
	c.emitOp(a)
	c.emitOp(b)
}

// emitIndexed picks the short (u8-operand) or long (u24-operand) form of op
// depending on whether idx still fits in a byte, the same short/long split
// spec.md's instruction catalogue uses throughout.
func (c *compiler) emitIndexed(short bytecode.OpCode, idx int) {
	if idx < 256 {
		c.emitOp(short)
		c.emitByte(byte(idx))
		return
	}
	long, ok := bytecode.LongForm(short)
	if !ok || idx >= 1<<24 {
		c.error("too many constants/locals/globals in one chunk")
		return
	}
	c.emitOp(long)
	c.chunk().WriteU24(uint32(idx), c.line())
}

// makeConstant adds v to the current function's constant pool and returns
// its index.
func (c *compiler) makeConstant(v value.Value) int {
	return c.chunk().AddConstant(v)
}

// emitConstant emits the instructions to push v.
func (c *compiler) emitConstant(v value.Value) {
	c.emitIndexed(bytecode.Constant, c.makeConstant(v))
}

// emitJump emits a jump instruction with a placeholder 16-bit offset and
// returns the offset of that placeholder, to be filled in later by
// patchJump once the target address is known.
func (c *compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	return c.chunk().WriteU16(0xFFFF, c.line())
}

// patchJump backfills the jump instruction whose operand starts at offset
// so it lands just after the most recently emitted instruction.
func (c *compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - (offset + 2)
	if jump > 1<<16-1 {
		c.error("too much code to jump over")
		return
	}
	c.chunk().PatchU16(offset, uint16(jump))
}

// emitLoop emits OP_LOOP with the backward offset to loopStart.
func (c *compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.Loop)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 1<<16-1 {
		c.error("loop body too large")
	}
	c.chunk().WriteU16(uint16(offset), c.line())
}

// emitReturn emits the implicit `return;` every function body ends with: a
// bare `return nil;` for ordinary functions, `return this;` for
// initializers (init() always returns the instance being constructed,
// regardless of what it explicitly returns).
func (c *compiler) emitReturn() {
	if c.fc.typ == typeInitializer {
		c.emitIndexed(bytecode.GetLocal, 0)
	} else {
		c.emitOp(bytecode.Nil)
	}
	c.emitOp(bytecode.Return)
}

// beginScope enters a new block scope.
func (c *compiler) beginScope() { c.fc.scopeDepth++ }

// endScope leaves the current block scope, popping every local declared in
// it. Locals captured by a still-live closure are closed with
// OP_CLOSE_UPVALUE instead of simply popped, so the closure keeps its own
// copy after the stack slot is reused.
func (c *compiler) endScope() {
	c.fc.scopeDepth--

	popped := 0
	for len(c.fc.locals) > 0 && c.fc.locals[len(c.fc.locals)-1].depth > c.fc.scopeDepth {
		last := c.fc.locals[len(c.fc.locals)-1]
		if last.isCaptured {
			if popped > 0 {
				c.emitPopN(popped)
				popped = 0
			}
			c.emitOp(bytecode.CloseUpvalue)
		} else {
			popped++
		}
		c.fc.locals = c.fc.locals[:len(c.fc.locals)-1]
	}
	if popped > 0 {
		c.emitPopN(popped)
	}
}

func (c *compiler) emitPopN(n int) {
	if n == 1 {
		c.emitOp(bytecode.Pop)
		return
	}
	c.emitIndexed(bytecode.PopN, n)
}
