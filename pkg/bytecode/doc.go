// Package bytecode defines the instruction set and encoding for the
// stencil interpreter: a minimal register/stack machine built as an
// ahead-of-time specialization target.
//
// A program is a flat array of machine words. Each instruction is an
// opcode tag followed by a fixed number of operand words determined
// solely by the tag; there is no length prefixing and no type tagging
// in the encoded form. The arity table lives in this package and is
// shared by the encoder, the decoder, the disassembler, and the engine.
//
// The encoding is designed for:
//   - Trivial decoding: one map lookup per instruction, fixed operand
//     counts, no variable-width fields
//   - Specialization: the whole code array can be handed to an external
//     specializer as a compile-time-constant memory region
//   - Easy serialization: the CBOR wire format in this package is the
//     persisted/compiled artifact engines consume
//
// # Operands
//
// The Builder accepts tagged operands (Immediate, LocalIndex,
// JumpTarget, StringRef) so that the intent of every word is explicit
// at assembly time. String literals are interned into a side table and
// referenced by index; the encoding never carries pointer-sized
// reinterpretations of host addresses.
//
// # Malformed programs
//
// A truncated final instruction or an unrecognized tag is a fatal
// malformed-program condition, not a recoverable runtime case.
// Program.Validate rejects such encodings statically, and
// UnmarshalProgram refuses to return a program that fails validation.
// The engine applies the same checks dynamically for programs that
// bypass validation.
package bytecode
