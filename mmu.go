package main

import (
	"unsafe"
)

const (
	// DataBase is where an initial data image gets loaded
	DataBase VirtAddr = 0x10000000

	// ConsolePort is the memory mapped console, see Console
	ConsolePort VirtAddr = 0x20000000

	// Sentinel is what a never written byte reads as
	Sentinel uint8 = 0xff
)

// VirtAddr is a guest virtual address
type VirtAddr uint32

// Mmu is a sparse byte addressable memory space covering the whole 32 bit
// address range. Only bytes that have been written are backed.
type Mmu struct {
	// memory holds every byte written so far
	memory map[VirtAddr]uint8

	// console intercepts word sized accesses to ConsolePort
	console Console
}

// NewMmu creates an empty memory whose console port is served by console
func NewMmu(console Console) *Mmu {
	return &Mmu{
		memory:  make(map[VirtAddr]uint8),
		console: console,
	}
}

// LoadByte returns the byte at addr or Sentinel if it was never written.
func (m *Mmu) LoadByte(addr VirtAddr) uint8 {
	if val, ok := m.memory[addr]; ok {
		return val
	}
	return Sentinel
}

// StoreByte writes a single byte, the console port is not intercepted here
func (m *Mmu) StoreByte(addr VirtAddr, val uint8) {
	m.memory[addr] = val
}

// WriteFrom copies the buffer `buf` into memory starting at `addr`. The
// address wraps around at the end of the address space.
func (m *Mmu) WriteFrom(addr VirtAddr, buf []uint8) {
	for i, b := range buf {
		m.StoreByte(addr+VirtAddr(i), b)
	}
}

// ReadInto reads `len(buf)` bytes from memory starting at addr into buf
func (m *Mmu) ReadInto(addr VirtAddr, buf []uint8) {
	for i := range buf {
		buf[i] = m.LoadByte(addr + VirtAddr(i))
	}
}

// LoadImage places an initial memory image at base.
func (m *Mmu) LoadImage(base VirtAddr, image []uint8) {
	m.WriteFrom(base, image)
}

// Touched reports how many distinct bytes have been written.
func (m *Mmu) Touched() int { return len(m.memory) }

// Primitive is a generic type consisting of the integer widths a load or
// store can move
type Primitive interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32
}

// ReadIntoVal reads sizeof(T) bytes little endian from `addr`. A word read
// at ConsolePort is served by the console instead of memory.
func ReadIntoVal[T Primitive](m *Mmu, addr VirtAddr) (T, error) {
	var val T
	size := unsafe.Sizeof(val)
	if size == 4 && addr == ConsolePort {
		n, err := m.console.ReadInt()
		if err != nil {
			return 0, err
		}
		return T(n), nil
	}

	var raw uint32
	for i := uintptr(0); i < size; i++ {
		raw |= uint32(m.LoadByte(addr+VirtAddr(i))) << (8 * i)
	}
	return T(raw), nil
}

// WriteFromVal writes sizeof(T) bytes little endian to `addr`. A word write
// at ConsolePort emits the low byte through the console and leaves memory
// untouched.
func WriteFromVal[T Primitive](m *Mmu, addr VirtAddr, val T) error {
	size := unsafe.Sizeof(val)
	if size == 4 && addr == ConsolePort {
		return m.console.WriteChar(uint8(val))
	}

	raw := uint32(val)
	for i := uintptr(0); i < size; i++ {
		m.StoreByte(addr+VirtAddr(i), uint8(raw>>(8*i)))
	}
	return nil
}
