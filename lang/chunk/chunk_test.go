package chunk_test

import (
	"testing"

	"github.com/mna/bryony/lang/chunk"
	"github.com/mna/bryony/lang/token"
	"github.com/stretchr/testify/require"
)

func TestEmitPrimitives(t *testing.T) {
	c := chunk.NewChunk("t.bry")
	c.SetPos(token.Pos{File: "t.bry", Line: 1, Col: 1})
	c.EmitOp(chunk.PushTrue)
	c.EmitOp(chunk.PushN)
	c.EmitF64(3.5)
	c.EmitOp(chunk.PushL)
	c.EmitU8(2)

	require.Equal(t, chunk.PushTrue, chunk.Opcode(c.Code[0]))
	require.Len(t, c.Code, 1+1+8+1+1)
}

func TestInternStringDedup(t *testing.T) {
	c := chunk.NewChunk("t.bry")
	id1 := c.InternString("hello")
	id2 := c.InternString("world")
	id3 := c.InternString("hello")
	require.Equal(t, id1, id3)
	require.NotEqual(t, id1, id2)
	require.Equal(t, []string{"hello", "world"}, c.Strings)
}

func TestHolePatching(t *testing.T) {
	c := chunk.NewChunk("t.bry")
	c.SetPos(token.Pos{File: "t.bry", Line: 1, Col: 1})
	c.EmitOp(chunk.JumpFwdF)
	hole := c.EmitHole(2)
	c.EmitOp(chunk.PushTrue)
	c.EmitOp(chunk.Discard)
	target := c.Offset()
	c.PatchHoleU16(hole)

	dist := int(int16(uint16(c.Code[hole]) | uint16(c.Code[hole+1])<<8))
	require.Equal(t, target-(hole+2), dist)
}

func TestBackJumpDistance(t *testing.T) {
	c := chunk.NewChunk("t.bry")
	c.SetPos(token.Pos{File: "t.bry", Line: 1, Col: 1})
	loopTop := c.Offset()
	c.EmitOp(chunk.PushTrue)
	c.EmitOp(chunk.Discard)

	dist := c.BackJumpDistance(loopTop)
	c.EmitOp(chunk.JumpBack)
	c.EmitU16(dist)

	from := c.Offset()
	require.Equal(t, loopTop, from-int(dist))
}

func TestPosAt(t *testing.T) {
	c := chunk.NewChunk("t.bry")
	p1 := token.Pos{File: "t.bry", Line: 1, Col: 1}
	p2 := token.Pos{File: "t.bry", Line: 2, Col: 1}

	c.SetPos(p1)
	c.EmitOp(chunk.PushTrue)
	c.EmitOp(chunk.PushFalse)
	c.SetPos(p2)
	c.EmitOp(chunk.Discard)

	require.Equal(t, p1, c.PosAt(0))
	require.Equal(t, p1, c.PosAt(1))
	require.Equal(t, p2, c.PosAt(2))
}

func TestScriptProcTable(t *testing.T) {
	s := chunk.NewScript("t.bry")
	c := chunk.NewChunk("t.bry")
	id := s.AddProc("main", 0, false, c)
	require.EqualValues(t, 0, id)
	require.Same(t, c, s.Procs[id].Chunk)

	fid := s.AddForeignProc("print", 1, false, func(args []any) (any, error) { return nil, nil })
	require.EqualValues(t, 1, fid)
	require.Equal(t, chunk.Foreign, s.Procs[fid].Kind)
}

func TestReserveThenSetProcChunk(t *testing.T) {
	s := chunk.NewScript("t.bry")
	id := s.ReserveProc("fact", 1, true)
	require.Nil(t, s.Procs[id].Chunk)

	c := chunk.NewChunk("t.bry")
	s.SetProcChunk(id, c)
	require.Same(t, c, s.Procs[id].Chunk)
}

func TestNextObjectID(t *testing.T) {
	s := chunk.NewScript("t.bry")
	first := s.NextObjectID()
	second := s.NextObjectID()
	require.EqualValues(t, chunk.TyFirstObject, first)
	require.Equal(t, first+1, second)
}
