package main

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

// instruction encoders, the inverse of the decodeXtype functions

func encR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encI(imm int32, rs1, funct3, rd, opcode uint32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encS(imm int32, rs2, rs1, funct3 uint32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opStore
}

func encB(imm int32, rs2, rs1, funct3 uint32) uint32 {
	u := uint32(imm)
	return ((u>>12)&1)<<31 | ((u>>5)&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		((u>>1)&0xf)<<8 | ((u>>11)&1)<<7 | opBranch
}

func encU(imm20 int32, rd, opcode uint32) uint32 {
	return (uint32(imm20)&0xfffff)<<12 | rd<<7 | opcode
}

func encJ(imm int32, rd uint32) uint32 {
	u := uint32(imm)
	return ((u>>20)&1)<<31 | ((u>>1)&0x3ff)<<21 | ((u>>11)&1)<<20 | ((u>>12)&0xff)<<12 | rd<<7 | opJAL
}

// image packs words into a little endian instruction image
func image(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// fakeConsole serves queued integers and records written characters
type fakeConsole struct {
	input  []int32
	output bytes.Buffer
	err    error
}

func (c *fakeConsole) ReadInt() (int32, error) {
	if c.err != nil {
		return 0, c.err
	}
	if len(c.input) == 0 {
		return 0, ErrConsoleInput
	}
	n := c.input[0]
	c.input = c.input[1:]
	return n, nil
}

func (c *fakeConsole) WriteChar(ch uint8) error {
	if c.err != nil {
		return c.err
	}
	return c.output.WriteByte(ch)
}

// newTestEmulator returns an emulator running words with a line console fed
// from stdin and a logger whose entries can be inspected.
func newTestEmulator(t *testing.T, stdin string, words ...uint32) (*Emulator, *bytes.Buffer, *logtest.Hook) {
	t.Helper()
	var stdout bytes.Buffer
	emu := NewEmulator(NewConsole(strings.NewReader(stdin), &stdout))
	logger, hook := logtest.NewNullLogger()
	emu.SetLogger(logger)
	emu.LoadProgram(image(words...))
	return emu, &stdout, hook
}
