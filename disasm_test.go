package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	cases := []struct {
		word uint32
		want string
	}{
		{0x00000013, "addi x0, x0, 0"},
		{0x000012b7, "lui x5, 1"},
		{0xfffff097, "auipc x1, -1"},
		{0xffdff0ef, "jal x1, -4"},
		{0x000280e7, "jalr x1, 0(x5)"},
		{0x00208463, "beq x1, x2, 8"},
		{0xfe000ee3, "beq x0, x0, -4"},
		{encB(-16, 4, 3, 0b001), "bne x3, x4, -16"},
		{encB(12, 4, 3, 0b100), "blt x3, x4, 12"},
		{encB(12, 4, 3, 0b101), "bge x3, x4, 12"},
		{encB(12, 4, 3, 0b110), "bltu x3, x4, 12"},
		{encB(4094, 4, 3, 0b111), "bgeu x3, x4, 4094"},
		{encI(-1, 2, 0b000, 5, opLoad), "lb x5, -1(x2)"},
		{encI(2, 2, 0b001, 5, opLoad), "lh x5, 2(x2)"},
		{0xffc12283, "lw x5, -4(x2)"},
		{encI(3, 2, 0b100, 5, opLoad), "lbu x5, 3(x2)"},
		{encI(2, 2, 0b101, 5, opLoad), "lhu x5, 2(x2)"},
		{encS(-2048, 7, 1, 0b000), "sb x7, -2048(x1)"},
		{encS(6, 7, 1, 0b001), "sh x7, 6(x1)"},
		{0x0020a423, "sw x2, 8(x1)"},
		{0x00500093, "addi x1, x0, 5"},
		{encI(-7, 3, 0b010, 4, opImm), "slti x4, x3, -7"},
		{encI(-1, 3, 0b011, 4, opImm), "sltiu x4, x3, -1"},
		{encI(0xff, 3, 0b100, 4, opImm), "xori x4, x3, 255"},
		{encI(16, 3, 0b110, 4, opImm), "ori x4, x3, 16"},
		{encI(2047, 3, 0b111, 4, opImm), "andi x4, x3, 2047"},
		{encI(31, 3, 0b001, 4, opImm), "slli x4, x3, 31"},
		{encI(4, 3, 0b101, 4, opImm), "srli x4, x3, 4"},
		{0x40315093, "srai x1, x2, 3"},
		{0x002081b3, "add x3, x1, x2"},
		{0x402081b3, "sub x3, x1, x2"},
		{encR(0, 2, 1, 0b001, 3, opReg), "sll x3, x1, x2"},
		{encR(0, 2, 1, 0b010, 3, opReg), "slt x3, x1, x2"},
		{encR(0, 2, 1, 0b011, 3, opReg), "sltu x3, x1, x2"},
		{encR(0, 2, 1, 0b100, 3, opReg), "xor x3, x1, x2"},
		{encR(0, 2, 1, 0b101, 3, opReg), "srl x3, x1, x2"},
		{encR(0b0100000, 2, 1, 0b101, 3, opReg), "sra x3, x1, x2"},
		{encR(0, 2, 1, 0b110, 3, opReg), "or x3, x1, x2"},
		{encR(0, 2, 1, 0b111, 3, opReg), "and x3, x1, x2"},
		{0x00000073, "unknown instruction"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Disassemble(c.word), "word %08x", c.word)
	}
}

func TestDisassembleProgram(t *testing.T) {
	var out bytes.Buffer
	words := Words(append(image(0x00500093, 0x00108113, 0xffffffff), 0x13, 0x00))
	require.NoError(t, DisassembleProgram(&out, words))
	require.Equal(t,
		"inst 0: 00500093 addi x1, x0, 5\n"+
			"inst 1: 00108113 addi x2, x1, 1\n"+
			"inst 2: ffffffff unknown instruction\n",
		out.String())
}
