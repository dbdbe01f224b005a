// emulator logic - loads the instruction and data images and runs the
// fetch-decode-execute loop
package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

var ErrProgramEnd = errors.New("pc is past the end of the program")

// Emulator keeps the state of the emulated system in this case a machine of
// RV32I architecture. Create a fresh one for every run.
type Emulator struct {
	*Mmu
	program   []uint32
	registers [32]uint32
	pc        uint32
	log       logrus.FieldLogger
}

// create a new emulator talking to console through the memory mapped port
func NewEmulator(console Console) *Emulator {
	return &Emulator{
		Mmu: NewMmu(console),
		log: logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger diagnostics are reported to
func (e *Emulator) SetLogger(log logrus.FieldLogger) { e.log = log }

// Words splits an instruction image into little endian words. A trailing
// partial word is dropped.
func Words(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words
}

// LoadProgram installs the instruction stream and resets pc to its start.
func (e *Emulator) LoadProgram(code []byte) {
	e.program = Words(code)
	e.pc = 0
}

// LoadData places the initial data image at DataBase
func (e *Emulator) LoadData(data []byte) {
	e.LoadImage(DataBase, data)
}

// Set the specified registers value
func (e *Emulator) SetReg(reg Register, val uint32) {
	if reg == Zero {
		return
	}
	e.registers[reg] = val
}

// Reg returns the value in the specified register.
func (e *Emulator) Reg(reg Register) uint32 { return e.registers[reg] }

// Registers returns a copy of the register file.
func (e *Emulator) Registers() [32]uint32 { return e.registers }

// Pc returns the address of the next instruction to execute
func (e *Emulator) Pc() uint32 { return e.pc }

// Halted reports whether pc has run off the end of the instruction stream.
func (e *Emulator) Halted() bool {
	return uint64(e.pc) >= uint64(len(e.program))*4
}

// NextInst gets the instruction pc points at
func (e *Emulator) NextInst() (uint32, error) {
	if e.Halted() {
		return 0, ErrProgramEnd
	}
	return e.program[e.pc/4], nil
}

// EmuExit signals an early end of execution by the emulator
type EmuExit struct {
	cause  error
	opcode uint8
	pc     uint32
}

func (e EmuExit) Error() string {
	return fmt.Sprintf("emu exit at pc %#x (opcode %s): %v", e.pc, opcodeString(e.opcode), e.cause)
}

func (e EmuExit) Unwrap() error { return e.cause }

// Pc returns the address of the instruction that stopped execution
func (e EmuExit) Pc() uint32 { return e.pc }

// Step fetches, decodes and executes a single instruction.
func (e *Emulator) Step() error {
	word, err := e.NextInst()
	if err != nil {
		return err
	}
	pc := e.pc
	inst := Decode(word)

	if VERBOSE_PC_OPCODE {
		e.log.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("%#x", pc),
			"opcode": opcodeString(inst.Opcode()),
			"inst":   inst.String(),
		}).Debug("step")
	}

	next, err := e.execute(inst)
	if err != nil {
		return EmuExit{err, inst.Opcode(), pc}
	}
	e.pc = next
	return nil
}

// Run is the fetch - decode - execute loop. It stops after budget
// instructions or as soon as pc leaves the program and returns how many
// instructions were executed.
func (e *Emulator) Run(budget int) (int, error) {
	executed := 0
	for executed < budget && !e.Halted() {
		if err := e.Step(); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

// String dumps the register file, one register per line
func (e *Emulator) String() string {
	var b strings.Builder
	for i, reg := range e.Registers() {
		fmt.Fprintf(&b, "x%d: 0x%08x\n", i, reg)
	}
	return b.String()
}

var stateDumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// DumpState renders the whole machine state for debugging
func (e *Emulator) DumpState() string {
	return stateDumper.Sdump(struct {
		Pc        uint32
		Program   int
		Registers [32]uint32
		Touched   int
		Memory    map[VirtAddr]uint8
	}{e.pc, len(e.program), e.Registers(), e.Touched(), e.memory})
}
