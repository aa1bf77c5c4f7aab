// Package main provides the rvfront entry point: a cycle-level simulator
// of a speculative RV32I front end with branch prediction.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/loader"
	"github.com/sarchlab/rvfront/timing/cache"
	"github.com/sarchlab/rvfront/timing/core"
	"github.com/sarchlab/rvfront/timing/pipeline"
	"github.com/sarchlab/rvfront/timing/predictor"
)

var (
	startPC   = flag.Uint("start", 0x1000, "Fetch start address (also the image load address)")
	maxCycles = flag.Uint64("cycles", 1_000_000, "Cycle limit (0 = unlimited)")
	useICache = flag.Bool("icache", false, "Model an L1 instruction cache")
	bhtSize   = flag.Uint("bht", 1024, "BHT entries (power of two)")
	btbSize   = flag.Uint("btb", 256, "BTB entries (power of two)")
	verbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	var prog *loader.Program
	if flag.NArg() >= 1 {
		p, err := loader.Load(flag.Arg(0), uint32(*startPC))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
			os.Exit(1)
		}
		prog = p
	} else {
		prog = demoProgram(uint32(*startPC))
		if *verbose {
			fmt.Println("No image given; running the built-in countdown loop")
		}
	}

	memory := emu.NewMemory()
	prog.LoadInto(memory)
	regFile := &emu.RegFile{}

	opts := []pipeline.Option{
		pipeline.WithStartPC(prog.Base),
		pipeline.WithPredictorConfig(predictor.Config{
			BHTSize: uint32(*bhtSize),
			BTBSize: uint32(*btbSize),
		}),
	}
	var icache *cache.ICache
	if *useICache {
		icache = cache.New(cache.DefaultL1IConfig(), memory)
		opts = append(opts, pipeline.WithInstMem(icache))
	}

	c := core.NewCore(regFile, memory, opts...)
	stats := c.Run(*maxCycles)

	if !c.Halted() {
		fmt.Fprintf(os.Stderr, "Warning: cycle limit reached before halt\n")
	}

	fmt.Printf("Cycles:          %d\n", stats.Cycles)
	fmt.Printf("Instructions:    %d\n", stats.Instructions)
	fmt.Printf("CPI:             %.3f\n", stats.CPI)
	fmt.Printf("Mispredictions:  %d\n", stats.Mispredictions)
	fmt.Printf("Accuracy:        %.1f%%\n", stats.PredictionAccuracy)
	if icache != nil {
		cs := icache.Stats()
		fmt.Printf("I-cache hits:    %d/%d (%.1f%%)\n", cs.Hits, cs.Reads, cs.HitRate())
	}
	if *verbose {
		fmt.Printf("x10 (a0):        %d\n", regFile.ReadReg(10))
	}
}

// demoProgram is a countdown loop: it trains the BHT on a backward
// branch taken 99 times, then halts.
//
//	addi x5, x0, 100
//	addi x6, x0, 0
//	loop: addi x6, x6, 1
//	addi x5, x5, -1
//	bne  x5, x0, loop
//	add  x10, x0, x6
//	ebreak
func demoProgram(base uint32) *loader.Program {
	words := []uint32{
		insts.EncodeI(insts.OpADDI, 5, 0, 100),
		insts.EncodeI(insts.OpADDI, 6, 0, 0),
		insts.EncodeI(insts.OpADDI, 6, 6, 1),
		insts.EncodeI(insts.OpADDI, 5, 5, -1),
		insts.EncodeB(insts.OpBNE, 5, 0, -8),
		insts.EncodeR(insts.OpADD, 10, 0, 6),
		insts.EBreakWord,
	}
	return loader.FromWords(base, words)
}
