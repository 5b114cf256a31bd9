package compiler

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/mna/bryony/lang/chunk"
)

// DumpAsm renders every procedure of s as a human-readable instruction
// listing, one line per opcode with its decoded operand, for use in
// compiler tests (spec §4.2, §6.1) and the CLI's compile subcommand. It
// is render-only: unlike the teacher's Asm/Dasm pair there is no text
// format fed back into a Chunk, nothing in this module needs to
// round-trip bytecode through assembly source.
func DumpAsm(w io.Writer, s *chunk.Script) error {
	for id, p := range s.Procs {
		if err := dumpProc(w, uint16(id), p); err != nil {
			return err
		}
	}
	return nil
}

func dumpProc(w io.Writer, id uint16, p *chunk.Proc) error {
	if p.Kind == chunk.Foreign {
		_, err := fmt.Fprintf(w, "proc %d: %s (foreign, %d params)\n", id, p.Name, p.ParamCount)
		return err
	}

	if _, err := fmt.Fprintf(w, "proc %d: %s (%d params, result=%t)\n", id, p.Name, p.ParamCount, p.HasResult); err != nil {
		return err
	}
	if len(p.Chunk.Strings) > 0 {
		if _, err := fmt.Fprintln(w, "  strings:"); err != nil {
			return err
		}
		for i, s := range p.Chunk.Strings {
			if _, err := fmt.Fprintf(w, "    %03d %q\n", i, s); err != nil {
				return err
			}
		}
	}
	return dumpCode(w, p.Chunk)
}

func dumpCode(w io.Writer, c *chunk.Chunk) error {
	code := c.Code
	for pc := 0; pc < len(code); {
		op := chunk.Opcode(code[pc])
		sz := chunk.OperandSize(op)
		operandStart := pc + 1

		line := fmt.Sprintf("    %04d: %s", pc, op)
		if sz > 0 {
			if operandStart+sz > len(code) {
				return fmt.Errorf("truncated operand for %s at pc %d", op, pc)
			}
			operand := decodeOperand(op, code[operandStart:operandStart+sz])
			line += " " + operand
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		pc += 1 + sz
	}
	return nil
}

// decodeOperand renders op's raw operand bytes per the encoding spec §6.1
// assigns it: a bare number for most operands; jumpFwd* print their signed
// distance (measured from the byte right after the operand) and jumpBack
// prints its distance with a leading '-'. Neither is resolved to a target pc.
func decodeOperand(op chunk.Opcode, b []byte) string {
	switch op {
	case chunk.PushN:
		bits := binary.LittleEndian.Uint64(b)
		return fmt.Sprintf("%g", math.Float64frombits(bits))
	case chunk.PushS, chunk.PushNil, chunk.PushG, chunk.PopG:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint16(b))
	case chunk.PushL, chunk.PopL, chunk.PushF, chunk.PopF, chunk.NDiscard:
		return fmt.Sprintf("%d", b[0])
	case chunk.JumpFwd, chunk.JumpFwdT, chunk.JumpFwdF:
		dist := int16(binary.LittleEndian.Uint16(b))
		return fmt.Sprintf("%+d", dist)
	case chunk.JumpBack:
		dist := binary.LittleEndian.Uint16(b)
		return fmt.Sprintf("-%d", dist)
	case chunk.CallD:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint16(b))
	case chunk.ConstrObj:
		ty := binary.LittleEndian.Uint16(b[0:2])
		n := b[2]
		return fmt.Sprintf("%d %d", ty, n)
	default:
		return fmt.Sprintf("% x", b)
	}
}
