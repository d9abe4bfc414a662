package filter

import "encoding/binary"

// riscvCoder implements the RISC-V BCJ filter: it rewrites the 20-bit,
// word-granularity displacement of JAL instructions (opcode 0x6f).
//
// The retrieval pack's original_source tree did not include a riscv.c
// to ground this on directly; the immediate layout below follows the
// JAL encoding from the RISC-V unprivileged ISA manual (bits reordered
// as imm[20|10:1|11|19:12]) rather than a liblzma source file.
type riscvCoder struct{}

func (riscvCoder) code(pos uint32, isEncoder bool, buf []byte) int {
	n := len(buf) &^ 3
	for i := 0; i+4 <= n; i += 4 {
		instr := binary.LittleEndian.Uint32(buf[i:])
		if instr&0x7f != 0x6f {
			continue
		}

		imm := ((instr >> 31) & 0x1) << 20
		imm |= ((instr >> 12) & 0xff) << 12
		imm |= ((instr >> 20) & 0x1) << 11
		imm |= ((instr >> 21) & 0x3ff) << 1

		var dest uint32
		if isEncoder {
			dest = imm + (pos + uint32(i))
		} else {
			dest = imm - (pos + uint32(i))
		}
		dest &= 0x1fffff

		instr &= 0xfff
		instr |= ((dest >> 20) & 0x1) << 31
		instr |= ((dest >> 12) & 0xff) << 12
		instr |= ((dest >> 11) & 0x1) << 20
		instr |= ((dest >> 1) & 0x3ff) << 21
		binary.LittleEndian.PutUint32(buf[i:], instr)
	}
	return n
}
