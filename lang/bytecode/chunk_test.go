package bytecode_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/value"
)

func TestWriteAndLineAt(t *testing.T) {
	var c bytecode.Chunk
	c.WriteOp(bytecode.Nil, 1)
	c.WriteOp(bytecode.True, 1)
	c.WriteOp(bytecode.Pop, 2)

	require.Equal(t, 1, c.LineAt(0))
	require.Equal(t, 1, c.LineAt(1))
	require.Equal(t, 2, c.LineAt(2))
}

func TestLineTableMonotonic(t *testing.T) {
	var c bytecode.Chunk
	lines := []int{1, 1, 1, 3, 3, 7}
	for _, l := range lines {
		c.WriteOp(bytecode.Nil, l)
	}
	for i, want := range lines {
		require.Equal(t, want, c.LineAt(i))
	}
}

func TestU16RoundTrip(t *testing.T) {
	var c bytecode.Chunk
	off := c.WriteU16(0, 1)
	c.PatchU16(off, 0xBEEF)
	require.Equal(t, uint16(0xBEEF), bytecode.ReadU16(c.Code, off))
}

func TestU24RoundTrip(t *testing.T) {
	var c bytecode.Chunk
	c.WriteU24(0x0102FE, 1)
	require.Equal(t, uint32(0x0102FE), bytecode.ReadU24(c.Code, 0))
}

func TestAddConstant(t *testing.T) {
	var c bytecode.Chunk
	i0 := c.AddConstant(value.Number(1))
	i1 := c.AddConstant(value.Number(2))
	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, value.Number(2), c.Constants[i1])
}

func TestDisassembleSimpleChunk(t *testing.T) {
	var c bytecode.Chunk
	idx := c.AddConstant(value.Number(7))
	c.WriteOp(bytecode.Constant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(bytecode.Print, 1)
	c.WriteOp(bytecode.Return, 1)

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")
	out := buf.String()
	require.Contains(t, out, "== test ==")
	require.Contains(t, out, "CONSTANT")
	require.Contains(t, out, "'7'")
	require.Contains(t, out, "PRINT")
	require.Contains(t, out, "RETURN")
}
