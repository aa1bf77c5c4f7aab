// Package loader loads flat binary images into simulator memory.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/sarchlab/rvfront/emu"
)

// Program represents a loaded flat image ready for execution.
type Program struct {
	// Base is the load address, which is also the entry point.
	Base uint32
	// Data is the raw image: little-endian RV32I words.
	Data []byte
}

// Load reads a flat little-endian binary image from path.
func Load(path string, base uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("image size %d is not word-aligned", len(data))
	}
	return &Program{Base: base, Data: data}, nil
}

// FromWords builds an in-memory program from instruction words.
func FromWords(base uint32, words []uint32) *Program {
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[4*i:], w)
	}
	return &Program{Base: base, Data: data}
}

// LoadInto copies the program image into memory at its base address.
func (p *Program) LoadInto(mem *emu.Memory) {
	mem.LoadImage(p.Base, p.Data)
}
