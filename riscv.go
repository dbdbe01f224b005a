// This file contains the decoding side of the rv32i instruction set: register
// names, instruction formats and the single decode step shared by the
// disassembler and the execution engine.
package main

import "fmt"

// Register represents a single riscv register file
type Register uint8

// variants of the risc-v register
const (
	Zero Register = iota
	Ra
	Sp
	Gp
	Tp
	T0
	T1
	T2
	S0 // also FP
	S1
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	S2
	S3
	S4
	S5
	S6
	S7
	S8
	S9
	S10
	S11
	T3
	T4
	T5
	T6
)

func (r Register) String() string { return fmt.Sprintf("x%d", uint8(r)) }

// GetReg converts a 5 bit register field into a Register.
func GetReg(reg uint32) Register {
	return Register(uint8(reg & 0b11111))
}

// major opcodes of the supported rv32i subset
const (
	opLUI    = 0b0110111
	opAUIPC  = 0b0010111
	opJAL    = 0b1101111
	opJALR   = 0b1100111
	opBranch = 0b1100011
	opLoad   = 0b0000011
	opStore  = 0b0100011
	opImm    = 0b0010011
	opReg    = 0b0110011
)

// signExtend treats bit (bits-1) of val as the sign bit and widens the value
// to a signed 32 bit integer.
func signExtend(val uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(val<<shift) >> shift
}

func opcodeOf(inst uint32) uint8 { return uint8(inst & 0b1111111) }

// opcodeString renders a major opcode as exactly 7 binary digits
func opcodeString(opcode uint8) string { return fmt.Sprintf("0b%07b", opcode) }

// Rtype instructions represent register to register computations
type Rtype struct {
	rd     Register
	funct3 uint32
	rs1    Register
	rs2    Register
	funct7 uint32
}

func decodeRtype(inst uint32) Rtype {
	return Rtype{
		rd:     GetReg(inst >> 7),
		funct3: (inst >> 12) & 0b111,
		rs1:    GetReg(inst >> 15),
		rs2:    GetReg(inst >> 20),
		funct7: (inst >> 25) & 0b1111111,
	}
}

// Itype for loads, jalr and short immediate operations
type Itype struct {
	rd     Register
	funct3 uint32
	rs1    Register
	imm    int32
	// shamt and funct7 only mean something for the shift immediates
	shamt  uint32
	funct7 uint32
}

func decodeItype(inst uint32) Itype {
	return Itype{
		rd:     GetReg(inst >> 7),
		funct3: (inst >> 12) & 0b111,
		rs1:    GetReg(inst >> 15),
		imm:    signExtend(inst>>20, 12),
		shamt:  (inst >> 20) & 0b11111,
		funct7: (inst >> 25) & 0b1111111,
	}
}

// Stype for stores
type Stype struct {
	funct3 uint32
	rs1    Register
	rs2    Register
	imm    int32
}

func decodeStype(inst uint32) Stype {
	imm115 := (inst >> 25) & 0b1111111
	imm40 := (inst >> 7) & 0b11111
	return Stype{
		funct3: (inst >> 12) & 0b111,
		rs1:    GetReg(inst >> 15),
		rs2:    GetReg(inst >> 20),
		imm:    signExtend((imm115<<5)|imm40, 12),
	}
}

// Btype for conditional branch operation
type Btype struct {
	imm    int32
	funct3 uint32
	rs1    Register
	rs2    Register
}

func decodeBtype(inst uint32) Btype {
	imm12 := (inst >> 31) & 0b1
	imm105 := (inst >> 25) & 0b111111
	imm41 := (inst >> 8) & 0b1111
	imm11 := (inst >> 7) & 0b1
	// pieceing them all together
	imm := (imm12 << 12) | (imm11 << 11) | (imm105 << 5) | (imm41 << 1)
	return Btype{
		rs1:    GetReg(inst >> 15),
		rs2:    GetReg(inst >> 20),
		funct3: (inst >> 12) & 0b111,
		imm:    signExtend(imm, 13),
	}
}

// Utype for long immediate operations. imm already sits in the upper 20 bits.
type Utype struct {
	rd  Register
	imm int32
}

func decodeUtype(inst uint32) Utype {
	return Utype{
		rd:  GetReg(inst >> 7),
		imm: signExtend(inst>>12, 20) << 12,
	}
}

// Jtype for unconditional jump operations
type Jtype struct {
	rd  Register
	imm int32
}

func decodeJtype(inst uint32) Jtype {
	imm20 := (inst >> 31) & 0b1
	imm101 := (inst >> 21) & 0b1111111111
	imm11 := (inst >> 20) & 0b1
	imm1912 := (inst >> 12) & 0b11111111

	// shift bits to their position
	imm := (imm20 << 20) | (imm1912 << 12) | (imm11 << 11) | (imm101 << 1)
	return Jtype{
		rd:  GetReg(inst >> 7),
		imm: signExtend(imm, 21),
	}
}

// Op identifies a single supported instruction.
type Op uint8

const (
	OpUnknown Op = iota
	LUI
	AUIPC
	JAL
	JALR
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU
	LB
	LH
	LW
	LBU
	LHU
	SB
	SH
	SW
	ADDI
	SLTI
	SLTIU
	XORI
	ORI
	ANDI
	SLLI
	SRLI
	SRAI
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND
	numOps
)

// operand layout of an instruction, used for rendering
type layout uint8

const (
	layoutNone   layout = iota
	layoutUpper         // rd, imm20
	layoutJump          // rd, offset
	layoutOffset        // rd, imm(rs1)
	layoutBranch        // rs1, rs2, offset
	layoutStore         // rs2, imm(rs1)
	layoutImm           // rd, rs1, imm
	layoutReg           // rd, rs1, rs2
)

var opInfo = [numOps]struct {
	name   string
	layout layout
}{
	OpUnknown: {"unknown instruction", layoutNone},
	LUI:       {"lui", layoutUpper},
	AUIPC:     {"auipc", layoutUpper},
	JAL:       {"jal", layoutJump},
	JALR:      {"jalr", layoutOffset},
	BEQ:       {"beq", layoutBranch},
	BNE:       {"bne", layoutBranch},
	BLT:       {"blt", layoutBranch},
	BGE:       {"bge", layoutBranch},
	BLTU:      {"bltu", layoutBranch},
	BGEU:      {"bgeu", layoutBranch},
	LB:        {"lb", layoutOffset},
	LH:        {"lh", layoutOffset},
	LW:        {"lw", layoutOffset},
	LBU:       {"lbu", layoutOffset},
	LHU:       {"lhu", layoutOffset},
	SB:        {"sb", layoutStore},
	SH:        {"sh", layoutStore},
	SW:        {"sw", layoutStore},
	ADDI:      {"addi", layoutImm},
	SLTI:      {"slti", layoutImm},
	SLTIU:     {"sltiu", layoutImm},
	XORI:      {"xori", layoutImm},
	ORI:       {"ori", layoutImm},
	ANDI:      {"andi", layoutImm},
	SLLI:      {"slli", layoutImm},
	SRLI:      {"srli", layoutImm},
	SRAI:      {"srai", layoutImm},
	ADD:       {"add", layoutReg},
	SUB:       {"sub", layoutReg},
	SLL:       {"sll", layoutReg},
	SLT:       {"slt", layoutReg},
	SLTU:      {"sltu", layoutReg},
	XOR:       {"xor", layoutReg},
	SRL:       {"srl", layoutReg},
	SRA:       {"sra", layoutReg},
	OR:        {"or", layoutReg},
	AND:       {"and", layoutReg},
}

func (op Op) String() string {
	if op >= numOps {
		return opInfo[OpUnknown].name
	}
	return opInfo[op].name
}

func (op Op) layout() layout {
	if op >= numOps {
		return layoutNone
	}
	return opInfo[op].layout
}

// funct3 tables, zero value means the encoding is not supported
var (
	branchOps = [8]Op{0b000: BEQ, 0b001: BNE, 0b100: BLT, 0b101: BGE, 0b110: BLTU, 0b111: BGEU}
	loadOps   = [8]Op{0b000: LB, 0b001: LH, 0b010: LW, 0b100: LBU, 0b101: LHU}
	storeOps  = [8]Op{0b000: SB, 0b001: SH, 0b010: SW}
	immOps    = [8]Op{0b000: ADDI, 0b010: SLTI, 0b011: SLTIU, 0b100: XORI, 0b110: ORI, 0b111: ANDI}
)

// register-register ops keyed by funct7<<3 | funct3
var regOps = map[uint32]Op{
	0x000: ADD,
	0x100: SUB,
	0x001: SLL,
	0x002: SLT,
	0x003: SLTU,
	0x004: XOR,
	0x005: SRL,
	0x105: SRA,
	0x006: OR,
	0x007: AND,
}

// Inst is a decoded instruction. Only the fields meaningful for Op are set;
// Imm is always sign-extended, holds the shifted value for lui/auipc and the
// shift amount for the shift immediates.
type Inst struct {
	Op   Op
	Rd   Register
	Rs1  Register
	Rs2  Register
	Imm  int32
	Word uint32
}

// Opcode returns the 7 bit major opcode of the raw word.
func (i Inst) Opcode() uint8 { return opcodeOf(i.Word) }

// Decode maps a raw instruction word to its Inst. Words outside the
// supported subset decode to an Inst with Op == OpUnknown.
func Decode(word uint32) Inst {
	inst := Inst{Word: word}

	switch opcodeOf(word) {
	case opLUI, opAUIPC:
		u := decodeUtype(word)
		inst.Rd, inst.Imm = u.rd, u.imm
		inst.Op = LUI
		if opcodeOf(word) == opAUIPC {
			inst.Op = AUIPC
		}
	case opJAL:
		j := decodeJtype(word)
		inst.Op, inst.Rd, inst.Imm = JAL, j.rd, j.imm
	case opJALR:
		i := decodeItype(word)
		if i.funct3 == 0 {
			inst.Op, inst.Rd, inst.Rs1, inst.Imm = JALR, i.rd, i.rs1, i.imm
		}
	case opBranch:
		b := decodeBtype(word)
		inst.Op, inst.Rs1, inst.Rs2, inst.Imm = branchOps[b.funct3], b.rs1, b.rs2, b.imm
	case opLoad:
		i := decodeItype(word)
		inst.Op, inst.Rd, inst.Rs1, inst.Imm = loadOps[i.funct3], i.rd, i.rs1, i.imm
	case opStore:
		s := decodeStype(word)
		inst.Op, inst.Rs1, inst.Rs2, inst.Imm = storeOps[s.funct3], s.rs1, s.rs2, s.imm
	case opImm:
		i := decodeItype(word)
		inst.Rd, inst.Rs1, inst.Imm = i.rd, i.rs1, i.imm
		switch i.funct3 {
		case 0b001:
			if i.funct7 == 0 {
				inst.Op, inst.Imm = SLLI, int32(i.shamt)
			}
		case 0b101:
			switch i.funct7 {
			case 0b0000000:
				inst.Op, inst.Imm = SRLI, int32(i.shamt)
			case 0b0100000:
				inst.Op, inst.Imm = SRAI, int32(i.shamt)
			}
		default:
			inst.Op = immOps[i.funct3]
		}
	case opReg:
		r := decodeRtype(word)
		inst.Op = regOps[r.funct7<<3|r.funct3]
		inst.Rd, inst.Rs1, inst.Rs2 = r.rd, r.rs1, r.rs2
	}

	if inst.Op == OpUnknown {
		return Inst{Word: word}
	}
	return inst
}
