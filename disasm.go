package main

import (
	"fmt"
	"io"
)

// String renders the instruction as assembly, destination operand first.
func (i Inst) String() string {
	name := i.Op.String()
	switch i.Op.layout() {
	case layoutUpper:
		return fmt.Sprintf("%s %s, %d", name, i.Rd, i.Imm>>12)
	case layoutJump:
		return fmt.Sprintf("%s %s, %d", name, i.Rd, i.Imm)
	case layoutOffset:
		return fmt.Sprintf("%s %s, %d(%s)", name, i.Rd, i.Imm, i.Rs1)
	case layoutBranch:
		return fmt.Sprintf("%s %s, %s, %d", name, i.Rs1, i.Rs2, i.Imm)
	case layoutStore:
		return fmt.Sprintf("%s %s, %d(%s)", name, i.Rs2, i.Imm, i.Rs1)
	case layoutImm:
		return fmt.Sprintf("%s %s, %s, %d", name, i.Rd, i.Rs1, i.Imm)
	case layoutReg:
		return fmt.Sprintf("%s %s, %s, %s", name, i.Rd, i.Rs1, i.Rs2)
	}
	return name
}

// Disassemble decodes a single instruction word into assembly text.
func Disassemble(word uint32) string { return Decode(word).String() }

// DisassembleProgram writes one listing line per instruction word.
func DisassembleProgram(w io.Writer, words []uint32) error {
	for i, word := range words {
		if _, err := fmt.Fprintf(w, "inst %d: %08x %s\n", i, word, Disassemble(word)); err != nil {
			return err
		}
	}
	return nil
}
