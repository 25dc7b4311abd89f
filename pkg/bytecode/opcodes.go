package bytecode

import "fmt"

// Word is the machine word of the instruction stream. Programs are flat
// arrays of words: an opcode tag followed by a fixed number of operand
// words determined solely by the tag. All arithmetic on words wraps at
// 64 bits; wraparound is defined behavior, not an error.
type Word uint64

// Opcode is a word-sized instruction tag.
type Opcode Word

const (
	OpLoadImmediate Opcode = iota // LOAD_IMMEDIATE <value>
	OpStoreLocal                  // STORE_LOCAL <slot>
	OpLoadLocal                   // LOAD_LOCAL <slot>
	OpPrint                       // PRINT <string-ref>
	OpPrintI                      // PRINTI
	OpJmpNZ                       // JMPNZ <target>
	OpInc                         // INC
	OpDec                         // DEC
	OpAdd                         // ADD <slot> <slot>
	OpHalt                        // HALT
)

// LocalCount is the fixed capacity of the local-variable array. Every
// STORE_LOCAL, LOAD_LOCAL, and ADD slot operand must be below it.
const LocalCount = 256

// OpcodeInfo provides metadata about each opcode for encoding,
// decoding, and disassembly. Operands is the exact number of operand
// words following the tag; decoding a tag commits the decoder to
// consuming exactly that many words.
type OpcodeInfo struct {
	Name     string
	Operands int
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpLoadImmediate: {"LOAD_IMMEDIATE", 1},
	OpStoreLocal:    {"STORE_LOCAL", 1},
	OpLoadLocal:     {"LOAD_LOCAL", 1},
	OpPrint:         {"PRINT", 1},
	OpPrintI:        {"PRINTI", 0},
	OpJmpNZ:         {"JMPNZ", 1},
	OpInc:           {"INC", 0},
	OpDec:           {"DEC", 0},
	OpAdd:           {"ADD", 2},
	OpHalt:          {"HALT", 0},
}

// GetOpcodeInfo returns metadata for an opcode. The second return value
// is false if the tag is not recognized; the returned info then carries
// an UNKNOWN name and zero operands.
func GetOpcodeInfo(op Opcode) (OpcodeInfo, bool) {
	if info, ok := opcodeInfoTable[op]; ok {
		return info, true
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", Word(op))}, false
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	info, _ := GetOpcodeInfo(op)
	return info.Name
}

// OperandCount returns the number of operand words for this opcode.
// Unknown tags report zero operands; the engine refuses to decode past them.
func (op Opcode) OperandCount() int {
	info, _ := GetOpcodeInfo(op)
	return info.Operands
}

// InstructionLen returns the total word length of an instruction
// (1 for the tag plus its operand words).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandCount()
}

// IsJump returns true if this opcode may transfer control.
func (op Opcode) IsJump() bool {
	return op == OpJmpNZ
}

// IsTerminal returns true if this opcode ends execution.
func (op Opcode) IsTerminal() bool {
	return op == OpHalt
}

// AllOpcodes returns a slice of all defined opcodes.
// Useful for testing that every opcode has metadata.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
