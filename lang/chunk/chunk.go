// Package chunk holds the data produced by code generation: the per-proc
// bytecode buffer with its run-length-encoded position table, the
// constant pools, and the script-level table of procedures and object
// type ids. Nothing in this package interprets bytecode; it only stores
// it (the textual dump lives in compiler.DumpAsm).
package chunk

import (
	"encoding/binary"
	"math"

	"github.com/dolthub/swiss"
	"github.com/mna/bryony/lang/token"
)

// posRun is one entry of a chunk's run-length-encoded line table: the next
// run bytes of Code all belong to Pos.
type posRun struct {
	Pos token.Pos
	Run int
}

// Chunk is the bytecode and constant pools for a single procedure body.
// Emission is append-only and linear: statements and expressions are
// lowered directly to bytes as they are visited, with forward jumps left
// as holes that get patched once their target offset is known (spec §4.2).
type Chunk struct {
	File string

	Code    []byte
	runs    []posRun
	Strings []string
	strIdx  *swiss.Map[string, uint16]

	pos token.Pos // position attributed to the next emitted byte
}

// NewChunk returns an empty chunk for the named source file.
func NewChunk(file string) *Chunk {
	return &Chunk{
		File:   file,
		strIdx: swiss.NewMap[string, uint16](uint32(8)),
	}
}

// SetPos updates the position attributed to subsequently emitted bytes.
// Callers set this once per statement/expression before emitting its
// instructions.
func (c *Chunk) SetPos(pos token.Pos) { c.pos = pos }

// Offset returns the current length of the code buffer, i.e. the address
// the next emitted byte will occupy.
func (c *Chunk) Offset() int { return len(c.Code) }

func (c *Chunk) appendByte(b byte) {
	c.Code = append(c.Code, b)
	if n := len(c.runs); n > 0 && c.runs[n-1].Pos == c.pos {
		c.runs[n-1].Run++
		return
	}
	c.runs = append(c.runs, posRun{Pos: c.pos, Run: 1})
}

// EmitOp appends a single opcode byte.
func (c *Chunk) EmitOp(op Opcode) {
	c.appendByte(byte(op))
}

// EmitU8 appends a single byte operand.
func (c *Chunk) EmitU8(v uint8) {
	c.appendByte(v)
}

// EmitU16 appends a little-endian 16-bit operand.
func (c *Chunk) EmitU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	c.appendByte(buf[0])
	c.appendByte(buf[1])
}

// EmitI16 appends a little-endian signed 16-bit operand, used for forward
// jump distances.
func (c *Chunk) EmitI16(v int16) {
	c.EmitU16(uint16(v))
}

// EmitF64 appends a little-endian 64-bit float operand.
func (c *Chunk) EmitF64(v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	for _, b := range buf {
		c.appendByte(b)
	}
}

// EmitHole reserves n zero bytes at the current offset and returns the
// offset they start at, to be filled in later by PatchHoleU16 once the
// jump target is known.
func (c *Chunk) EmitHole(n int) int {
	start := c.Offset()
	for i := 0; i < n; i++ {
		c.appendByte(0)
	}
	return start
}

// PatchHoleU16 patches a 2-byte hole previously reserved at offset with the
// forward distance from the byte after the hole to the current end of the
// code buffer (spec §6.1: jumpFwd/jumpFwdT/jumpFwdF distances are measured
// from the byte immediately following the operand).
func (c *Chunk) PatchHoleU16(offset int) {
	dist := len(c.Code) - (offset + 2)
	binary.LittleEndian.PutUint16(c.Code[offset:offset+2], uint16(int16(dist)))
}

// BackJumpDistance computes the u16 operand for a jumpBack targeting loopPC,
// measured from the byte immediately following the operand that will sit at
// the current offset (spec §6.1).
func (c *Chunk) BackJumpDistance(loopPC int) uint16 {
	// jumpBack's operand occupies 2 bytes right after the opcode byte that
	// will be emitted at c.Offset(); the distance is measured from the byte
	// after that operand.
	from := c.Offset() + 1 + 2
	return uint16(from - loopPC)
}

// InternString returns the stable id for s, interning it on first use.
func (c *Chunk) InternString(s string) uint16 {
	if id, ok := c.strIdx.Get(s); ok {
		return id
	}
	id := uint16(len(c.Strings))
	c.Strings = append(c.Strings, s)
	c.strIdx.Put(s, id)
	return id
}

// PosAt returns the source position attributed to the byte at pc, used by
// diagnostics and disassembly.
func (c *Chunk) PosAt(pc int) token.Pos {
	i := 0
	for _, r := range c.runs {
		if pc < i+r.Run {
			return r.Pos
		}
		i += r.Run
	}
	return token.Pos{File: c.File}
}
