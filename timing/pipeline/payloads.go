// Package pipeline provides the cycle-level model of the speculative
// front end: instruction fetch with branch prediction, execute-stage
// branch resolution, and the backward resolver chain that carries
// bypass, stall, redirect, and predictor-update information between
// stages.
//
// All stages evaluate combinationally within one Tick from the previous
// cycle's registered state; the only state carried across cycles is the
// fetch PC, the predictor tables, and the stage payload registers.
package pipeline

import (
	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/timing/predictor"
)

// MemResponse is the instruction-memory response for one fetch request:
// the requested address echoed back with the word stored there.
type MemResponse struct {
	// Addr is the fetched PC.
	Addr uint32
	// Data is the raw instruction word.
	Data uint32
}

// FetchPayload is the forward payload from fetch to decode (the IF/ID
// register). The prediction is made once here and carried unchanged
// through decode to execute. Any predictor-update event handed to fetch
// by the resolver is applied to the predictor before this payload's
// prediction is produced, so the payload itself never carries one
// forward.
type FetchPayload struct {
	// Valid indicates the payload holds a fetched instruction.
	Valid bool

	// Resp is the instruction-memory response.
	Resp MemResponse

	// Pred is the prediction attached to this instruction.
	Pred predictor.Result
}

// BranchInfo carries the control-transfer facts decode extracts for the
// execute-stage resolution: the branch kind plus the base and offset
// whose sum is the architectural target.
type BranchInfo struct {
	// Kind is the closed branch classification.
	Kind insts.BranchKind

	// Base is the target base: the branch PC for JAL and conditional
	// branches, the rs1 value for JALR.
	Base uint32

	// Offset is the sign-extended immediate, as a wrapping addend.
	Offset uint32
}

// Target returns the architectural target address.
func (b BranchInfo) Target() uint32 {
	return b.Base + b.Offset
}

// DecodePayload is the forward payload from decode to execute (the
// ID/EX register). Operands are fully resolved here: bypassed values
// from later stages already selected, immediates folded in.
type DecodePayload struct {
	// Valid indicates the payload holds a decoded instruction.
	Valid bool

	// PC is the instruction's address.
	PC uint32

	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// Pred is the prediction made at fetch time, carried for the
	// execute-stage misprediction check.
	Pred predictor.Result

	// Op1 and Op2 are the selected ALU operands.
	Op1 uint32
	Op2 uint32

	// StoreValue is the rs2 value for store instructions.
	StoreValue uint32

	// Br is the control-transfer information for branch resolution.
	Br BranchInfo
}

// ExecutePayload is the forward payload from execute to memory (the
// EX/MEM register).
type ExecutePayload struct {
	// Valid indicates the payload holds an executed instruction.
	Valid bool

	// PC is the instruction's address.
	PC uint32

	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// ALUResult is the ALU output: the computed value for ALU
	// instructions, the effective address for loads and stores, the
	// link address for jumps.
	ALUResult uint32

	// StoreValue is the value to store for store instructions.
	StoreValue uint32
}

// WritebackPayload is the forward payload from memory to writeback (the
// MEM/WB register).
type WritebackPayload struct {
	// Valid indicates the payload holds a retiring instruction.
	Valid bool

	// PC is the instruction's address.
	PC uint32

	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// Value is the writeback value: loaded data for loads, the ALU
	// result otherwise.
	Value uint32
}
