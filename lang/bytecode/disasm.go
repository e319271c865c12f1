package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, labelled name. It is used by the `disassemble` CLI command.
func (c *Chunk) Disassemble(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction writes the single instruction at offset to w and
// returns the offset of the next instruction.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	line := c.LineAt(offset)
	if offset > 0 && line == c.LineAt(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	switch op {
	case Nil, True, False, Pop, CloseUpvalue,
		Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
		Add, Subtract, Multiply, Divide, Not, Negate, Ternary,
		Print, Return, Inherit:
		return c.simpleInstruction(w, op, offset)

	case Constant, DefineGlobal, GetGlobal, SetGlobal, GetLocal, SetLocal,
		GetUpvalue, SetUpvalue, GetProperty, SetProperty, GetSuper,
		PopN, Call, Class, Method:
		return c.byteInstruction(w, op, offset)

	case ConstantLong, DefineGlobalLong, GetGlobalLong, SetGlobalLong,
		GetLocalLong, SetLocalLong, GetPropertyLong, SetPropertyLong,
		GetSuperLong, PopNLong, MethodLong:
		return c.u24Instruction(w, op, offset)

	case Jump, JumpIfFalse, JumpIfTrue:
		return c.jumpInstruction(w, op, offset, +1)
	case Loop:
		return c.jumpInstruction(w, op, offset, -1)

	case Invoke, SuperInvoke:
		return c.invokeInstruction(w, op, offset)
	case InvokeLong, SuperInvokeLong:
		return c.invokeLongInstruction(w, op, offset)

	case Closure:
		return c.closureInstruction(w, op, offset, false)
	case ClosureLong:
		return c.closureInstruction(w, op, offset, true)

	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func (c *Chunk) simpleInstruction(w io.Writer, op OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func (c *Chunk) byteInstruction(w io.Writer, op OpCode, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d", op, idx)
	if opUsesConstant(op) && int(idx) < len(c.Constants) {
		fmt.Fprintf(w, " '%s'", c.Constants[idx].String())
	}
	fmt.Fprintln(w)
	return offset + 2
}

func (c *Chunk) u24Instruction(w io.Writer, op OpCode, offset int) int {
	idx := ReadU24(c.Code, offset+1)
	fmt.Fprintf(w, "%-18s %4d", op, idx)
	if opUsesConstant(op) && int(idx) < len(c.Constants) {
		fmt.Fprintf(w, " '%s'", c.Constants[idx].String())
	}
	fmt.Fprintln(w)
	return offset + 4
}

func (c *Chunk) jumpInstruction(w io.Writer, op OpCode, offset int, sign int) int {
	jump := ReadU16(c.Code, offset+1)
	target := offset + 3 + sign*int(jump)
	fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func (c *Chunk) invokeInstruction(w io.Writer, op OpCode, offset int) int {
	nameIdx := c.Code[offset+1]
	argCount := c.Code[offset+2]
	name := ""
	if int(nameIdx) < len(c.Constants) {
		name = c.Constants[nameIdx].String()
	}
	fmt.Fprintf(w, "%-18s (%d args) %4d '%s'\n", op, argCount, nameIdx, name)
	return offset + 3
}

func (c *Chunk) invokeLongInstruction(w io.Writer, op OpCode, offset int) int {
	nameIdx := ReadU24(c.Code, offset+1)
	argCount := c.Code[offset+4]
	name := ""
	if int(nameIdx) < len(c.Constants) {
		name = c.Constants[nameIdx].String()
	}
	fmt.Fprintf(w, "%-18s (%d args) %4d '%s'\n", op, argCount, nameIdx, name)
	return offset + 5
}

// hasUpvalueCount is implemented by *object.ObjFunction; declared locally to
// read a closure's upvalue count without bytecode importing lang/object
// (which itself imports bytecode for its Chunk field).
type hasUpvalueCount interface {
	UpvalueCount() int
}

func (c *Chunk) closureInstruction(w io.Writer, op OpCode, offset int, long bool) int {
	pos := offset + 1
	var idx uint32
	if long {
		idx = ReadU24(c.Code, pos)
		pos += 3
	} else {
		idx = uint32(c.Code[pos])
		pos++
	}
	name := ""
	upvalueCount := 0
	if int(idx) < len(c.Constants) {
		name = c.Constants[idx].String()
		if fn, ok := c.Constants[idx].(hasUpvalueCount); ok {
			upvalueCount = fn.UpvalueCount()
		}
	}
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, name)

	for i := 0; i < upvalueCount; i++ {
		isLocal := c.Code[pos]
		index := c.Code[pos+1]
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", pos, kind, index)
		pos += 2
	}
	return pos
}

// opUsesConstant reports whether op's operand indexes the constant pool
// (as opposed to a local slot, global slot or upvalue index).
func opUsesConstant(op OpCode) bool {
	switch op {
	case Constant, ConstantLong, DefineGlobal, DefineGlobalLong,
		GetGlobal, GetGlobalLong, SetGlobal, SetGlobalLong,
		GetProperty, GetPropertyLong, SetProperty, SetPropertyLong,
		GetSuper, GetSuperLong, Class, Method, MethodLong:
		return true
	default:
		return false
	}
}
