package bytecode

import "encoding/binary"

// Op is the dense opcode space for the instruction tape — narrower than
// registry.Op, since Const/SolverVar/Constraint never emit instructions.
// Numeric order is part of the binary format (spec.md §6); do not
// reorder.
type Op uint16

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpPrev // reserved variant: P2 carries an immediate lag, not a row index.
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpNeg:
		return "Neg"
	case OpPrev:
		return "Prev"
	default:
		return "Unknown"
	}
}

// NoOperand is the sentinel written into P2 for unary instructions
// (spec.md §4.4).
const NoOperand uint32 = 0xFFFFFFFF

// Instruction is the fixed 16-byte record of spec.md §3/§6: a little-endian
// {op uint16, _pad uint16, target uint32, p1 uint32, p2 uint32} quintuple
// of fields summing to 16 bytes. target/p1/p2 are ledger row indices
// (== NodeId) except for Prev, where p2 is the immediate lag k.
type Instruction struct {
	Op     Op
	_      uint16
	Target uint32
	P1     uint32
	P2     uint32
}

// const instructionSize documents the wire size; Encode/Decode enforce it.
const instructionSize = 16

// Encode writes the instruction's canonical 16-byte little-endian form.
func (in Instruction) Encode() [instructionSize]byte {
	var buf [instructionSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(in.Op))
	binary.LittleEndian.PutUint16(buf[2:4], 0)
	binary.LittleEndian.PutUint32(buf[4:8], in.Target)
	binary.LittleEndian.PutUint32(buf[8:12], in.P1)
	binary.LittleEndian.PutUint32(buf[12:16], in.P2)
	return buf
}

// DecodeInstruction reads a 16-byte little-endian record produced by
// Encode. Programs are never persisted across versions (spec.md §6); this
// exists for in-process serialization/testing, not a stable file format.
func DecodeInstruction(buf [instructionSize]byte) Instruction {
	return Instruction{
		Op:     Op(binary.LittleEndian.Uint16(buf[0:2])),
		Target: binary.LittleEndian.Uint32(buf[4:8]),
		P1:     binary.LittleEndian.Uint32(buf[8:12]),
		P2:     binary.LittleEndian.Uint32(buf[12:16]),
	}
}
