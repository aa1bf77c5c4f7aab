// Package cache models an L1 instruction cache in front of the fetch
// port, using Akita cache components for tag and replacement state.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/rvfront/emu"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in bytes (cache line size).
	BlockSize int
	// HitLatency in cycles.
	HitLatency uint64
	// MissLatency in cycles (includes the memory round trip).
	MissLatency uint64
}

// DefaultL1IConfig returns a default L1I configuration: 16KB, 4-way,
// 64B lines, 1-cycle hits, 20-cycle misses.
func DefaultL1IConfig() Config {
	return Config{
		Size:          16 * 1024,
		Associativity: 4,
		BlockSize:     64,
		HitLatency:    1,
		MissLatency:   20,
	}
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads     uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the hit rate as a percentage.
func (s Statistics) HitRate() float64 {
	if s.Reads == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Reads) * 100
}

// ICache is a read-only L1 instruction cache. Tag state and LRU
// replacement come from an Akita cache directory; line data lives in a
// local store indexed by (set, way). Fetch implements the pipeline's
// instruction port: it returns the word plus the access latency, so a
// miss shows up as a multi-cycle fetch.
type ICache struct {
	config    Config
	directory *akitacache.DirectoryImpl

	// Line data, indexed by setID*associativity + wayID.
	dataStore [][]byte

	backing *emu.Memory
	stats   Statistics
}

// New creates an instruction cache over the given backing memory.
func New(config Config, backing *emu.Memory) *ICache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &ICache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *ICache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *ICache) Stats() Statistics {
	return c.stats
}

// blockIndex computes the dataStore index for a directory block.
func (c *ICache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Fetch reads the instruction word at addr, returning the word and the
// access latency in cycles.
func (c *ICache) Fetch(addr uint32) (uint32, uint64) {
	c.stats.Reads++

	blockAddr := uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
	offset := uint64(addr) % uint64(c.config.BlockSize)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return readWord(c.dataStore[c.blockIndex(block)], offset), c.config.HitLatency
	}

	c.stats.Misses++
	return c.handleMiss(blockAddr, offset)
}

// handleMiss fills a line from backing memory, evicting the LRU victim.
// Lines are never dirty on the instruction side, so eviction is a plain
// overwrite.
func (c *ICache) handleMiss(blockAddr, offset uint64) (uint32, uint64) {
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		// Cannot happen with a well-formed directory.
		return 0, c.config.MissLatency
	}

	if victim.IsValid {
		c.stats.Evictions++
	}

	data := c.dataStore[c.blockIndex(victim)]
	for i := range data {
		data[i] = c.backing.Read8(uint32(blockAddr) + uint32(i))
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return readWord(data, offset), c.config.MissLatency
}

// Invalidate drops the line containing addr, if present.
func (c *ICache) Invalidate(addr uint32) {
	blockAddr := uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all lines and clears statistics.
func (c *ICache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

// readWord extracts a little-endian word at offset.
func readWord(data []byte, offset uint64) uint32 {
	if int(offset)+4 > len(data) {
		return 0
	}
	var w uint32
	for i := 0; i < 4; i++ {
		w |= uint32(data[int(offset)+i]) << (i * 8)
	}
	return w
}
