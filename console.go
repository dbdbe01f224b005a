package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrConsoleInput = errors.New("console: no integer available")

// Console is the device sitting behind the memory mapped port. Word loads
// from the port read an integer, word stores write a character.
type Console interface {
	ReadInt() (int32, error)
	WriteChar(c uint8) error
}

// LineConsole reads one decimal integer per line and writes characters
// through unbuffered.
type LineConsole struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole reads integers from in and writes characters to out
func NewConsole(in io.Reader, out io.Writer) *LineConsole {
	return &LineConsole{in: bufio.NewScanner(in), out: out}
}

// ReadInt blocks until a full line is available. Values wider than 32 bits
// are truncated the way a register write would truncate them.
func (c *LineConsole) ReadInt() (int32, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrConsoleInput, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrConsoleInput, io.EOF)
	}
	text := strings.TrimSpace(c.in.Text())
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrConsoleInput, text)
	}
	return int32(n), nil
}

// WriteChar writes ch straight to the output
func (c *LineConsole) WriteChar(ch uint8) error {
	_, err := c.out.Write([]byte{ch})
	return err
}
