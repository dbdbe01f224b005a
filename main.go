package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var (
	// verbose output with pc and opcode of every executed instruction
	VERBOSE_PC_OPCODE = false

	// log emulator state on error
	LOG_STATE = false
)

func usage() {
	fmt.Fprint(flag.CommandLine.Output(),
		"Usage: rv32i [flags] <inst.bin> [data.bin] <count>\n"+
			"       rv32i -d <inst.bin>\n")
	flag.PrintDefaults()
}

func main() {
	disasm := flag.Bool("d", false, "disassemble the instruction image instead of executing it")
	flag.BoolVar(&VERBOSE_PC_OPCODE, "v", false, "trace pc and opcode of every executed instruction")
	flag.BoolVar(&LOG_STATE, "state", false, "dump the machine state when execution stops on an error")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()

	if VERBOSE_PC_OPCODE {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *disasm {
		if len(args) != 1 {
			flag.Usage()
			os.Exit(2)
		}
		code, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatal(err)
		}
		if err := DisassembleProgram(os.Stdout, Words(code)); err != nil {
			logrus.Fatal(err)
		}
		return
	}

	if len(args) != 2 && len(args) != 3 {
		flag.Usage()
		os.Exit(2)
	}
	budget, err := strconv.Atoi(args[len(args)-1])
	if err != nil || budget < 0 {
		logrus.Fatalf("instruction count must be a non-negative integer, got %q", args[len(args)-1])
	}
	code, err := os.ReadFile(args[0])
	if err != nil {
		logrus.Fatal(err)
	}

	emu := NewEmulator(NewConsole(os.Stdin, os.Stdout))
	emu.LoadProgram(code)
	if len(args) == 3 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			logrus.Fatal(err)
		}
		emu.LoadData(data)
	}

	_, err = emu.Run(budget)
	fmt.Print(emu.String())
	if err != nil {
		handleErrors(emu, err)
	}
}

// handle emulator execution errors
func handleErrors(emu *Emulator, err error) {
	var exit EmuExit
	if errors.As(err, &exit) {
		logrus.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("%#x", exit.pc),
			"opcode": opcodeString(exit.opcode),
		}).Error(exit.cause)
	} else {
		logrus.Error(err)
	}
	if LOG_STATE {
		fmt.Fprintln(os.Stderr, emu.DumpState())
	}
	os.Exit(1)
}
