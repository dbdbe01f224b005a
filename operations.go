// RISC-V instruction operation logic - functions that perform the operation
// of the instruction
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func b2u(cond bool) uint32 {
	if cond {
		return 1
	}
	return 0
}

// execute performs inst at the current pc and returns the next pc.
func (e *Emulator) execute(inst Inst) (uint32, error) {
	pc := e.pc
	next := pc + 4

	switch inst.Op {
	case LUI:
		e.SetReg(inst.Rd, uint32(inst.Imm))
	case AUIPC:
		e.SetReg(inst.Rd, pc+uint32(inst.Imm))
	case JAL:
		e.SetReg(inst.Rd, pc+4)
		next = pc + uint32(inst.Imm)
	case JALR:
		// target is computed before rd is written, rd may equal rs1
		target := (e.Reg(inst.Rs1) + uint32(inst.Imm)) &^ 1
		e.SetReg(inst.Rd, pc+4)
		next = target
	case BEQ, BNE, BLT, BGE, BLTU, BGEU:
		if e.branchTaken(inst) {
			next = pc + uint32(inst.Imm)
		}
	case LB, LH, LW, LBU, LHU:
		if err := e.execLoad(inst); err != nil {
			return pc, err
		}
	case SB, SH, SW:
		if err := e.execStore(inst); err != nil {
			return pc, err
		}
	case ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI:
		e.execImmArith(inst)
	case ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND:
		e.execRegArith(inst)
	default:
		e.log.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("%#x", pc),
			"word": fmt.Sprintf("%08x", inst.Word),
		}).Warn("unknown instruction")
	}
	return next, nil
}

// conditional branches
func (e *Emulator) branchTaken(inst Inst) bool {
	rs1 := e.Reg(inst.Rs1)
	rs2 := e.Reg(inst.Rs2)

	switch inst.Op {
	case BEQ:
		return rs1 == rs2
	case BNE:
		return rs1 != rs2
	case BLT:
		return int32(rs1) < int32(rs2)
	case BGE:
		return int32(rs1) >= int32(rs2)
	case BLTU:
		return rs1 < rs2
	case BGEU:
		return rs1 >= rs2
	}
	return false
}

// register-register arithmetic operations
func (e *Emulator) execRegArith(inst Inst) {
	rs1 := e.Reg(inst.Rs1)
	rs2 := e.Reg(inst.Rs2)
	shamt := rs2 & 0b11111

	switch inst.Op {
	case ADD:
		e.SetReg(inst.Rd, rs1+rs2)
	case SUB:
		e.SetReg(inst.Rd, rs1-rs2)
	case XOR:
		e.SetReg(inst.Rd, rs1^rs2)
	case OR:
		e.SetReg(inst.Rd, rs1|rs2)
	case AND:
		e.SetReg(inst.Rd, rs1&rs2)
	case SLL:
		e.SetReg(inst.Rd, rs1<<shamt)
	case SRL:
		e.SetReg(inst.Rd, rs1>>shamt)
	case SRA:
		e.SetReg(inst.Rd, uint32(int32(rs1)>>shamt))
	case SLT:
		e.SetReg(inst.Rd, b2u(int32(rs1) < int32(rs2)))
	case SLTU:
		e.SetReg(inst.Rd, b2u(rs1 < rs2))
	}
}

// register-immediate arithmetic operations
func (e *Emulator) execImmArith(inst Inst) {
	rs1 := e.Reg(inst.Rs1)
	imm := uint32(inst.Imm)

	switch inst.Op {
	case ADDI:
		e.SetReg(inst.Rd, rs1+imm)
	case XORI:
		e.SetReg(inst.Rd, rs1^imm)
	case ORI:
		e.SetReg(inst.Rd, rs1|imm)
	case ANDI:
		e.SetReg(inst.Rd, rs1&imm)
	case SLLI:
		e.SetReg(inst.Rd, rs1<<imm)
	case SRLI:
		e.SetReg(inst.Rd, rs1>>imm)
	case SRAI:
		e.SetReg(inst.Rd, uint32(int32(rs1)>>imm))
	case SLTI:
		e.SetReg(inst.Rd, b2u(int32(rs1) < inst.Imm))
	case SLTIU:
		e.SetReg(inst.Rd, b2u(rs1 < imm))
	}
}

// perform load operations, sign or zero extending into rd
func (e *Emulator) execLoad(inst Inst) error {
	addr := VirtAddr(e.Reg(inst.Rs1) + uint32(inst.Imm))

	var (
		val uint32
		err error
	)
	switch inst.Op {
	case LB:
		var v int8
		v, err = ReadIntoVal[int8](e.Mmu, addr)
		val = uint32(int32(v))
	case LH:
		var v int16
		v, err = ReadIntoVal[int16](e.Mmu, addr)
		val = uint32(int32(v))
	case LW:
		val, err = ReadIntoVal[uint32](e.Mmu, addr)
	case LBU:
		var v uint8
		v, err = ReadIntoVal[uint8](e.Mmu, addr)
		val = uint32(v)
	case LHU:
		var v uint16
		v, err = ReadIntoVal[uint16](e.Mmu, addr)
		val = uint32(v)
	}
	if err != nil {
		return err
	}
	e.SetReg(inst.Rd, val)
	return nil
}

// perform store operations
func (e *Emulator) execStore(inst Inst) error {
	addr := VirtAddr(e.Reg(inst.Rs1) + uint32(inst.Imm))
	val := e.Reg(inst.Rs2)

	switch inst.Op {
	case SB:
		return WriteFromVal(e.Mmu, addr, uint8(val))
	case SH:
		return WriteFromVal(e.Mmu, addr, uint16(val))
	case SW:
		return WriteFromVal(e.Mmu, addr, val)
	}
	return nil
}
