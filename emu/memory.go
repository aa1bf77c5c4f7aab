package emu

// pageSize is the granularity of lazy memory allocation.
const pageSize = 4096

// Memory is a sparse, byte-addressed little-endian memory.
// Pages are allocated on first touch; reads from untouched pages return 0.
type Memory struct {
	pages map[uint32][]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{
		pages: make(map[uint32][]byte),
	}
}

func (m *Memory) page(addr uint32, alloc bool) []byte {
	base := addr / pageSize
	p, ok := m.pages[base]
	if !ok && alloc {
		p = make([]byte, pageSize)
		m.pages[base] = p
	}
	return p
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) uint8 {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr%pageSize]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) {
	m.page(addr, true)[addr%pageSize] = value
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.Read8(addr)) | uint16(m.Read8(addr+1))<<8
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) {
	m.Write8(addr, uint8(value))
	m.Write8(addr+1, uint8(value>>8))
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	return uint32(m.Read16(addr)) | uint32(m.Read16(addr+2))<<16
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.Write16(addr, uint16(value))
	m.Write16(addr+2, uint16(value>>16))
}

// LoadImage copies a flat byte image into memory starting at base.
func (m *Memory) LoadImage(base uint32, data []byte) {
	for i, b := range data {
		m.Write8(base+uint32(i), b)
	}
}

// Reset drops all allocated pages.
func (m *Memory) Reset() {
	m.pages = make(map[uint32][]byte)
}
