package bytecode

import (
	"errors"
	"fmt"
)

// ErrMalformedProgram indicates an encoding that cannot be decoded: an
// unrecognized opcode tag, an operand stream shorter than the tag's
// arity, or an operand outside its valid range. A malformed program
// does not self-correct; callers must not retry.
var ErrMalformedProgram = errors.New("malformed program")

// OperandKind discriminates the tagged operand variants accepted by the
// Builder. The encoded form is always a plain word; the kind exists so
// encoder and decoder share an explicit, portable contract instead of
// reinterpreting pointer-sized integers.
type OperandKind uint8

const (
	// OperandImmediate is a literal word value.
	OperandImmediate OperandKind = iota

	// OperandLocalIndex is a slot in the local-variable array,
	// in [0, LocalCount).
	OperandLocalIndex

	// OperandJumpTarget is an absolute code index addressing an
	// opcode tag.
	OperandJumpTarget

	// OperandStringRef is an index into the program's interned
	// string table.
	OperandStringRef
)

// String returns a human-readable name for OperandKind.
func (k OperandKind) String() string {
	switch k {
	case OperandImmediate:
		return "immediate"
	case OperandLocalIndex:
		return "local"
	case OperandJumpTarget:
		return "target"
	case OperandStringRef:
		return "string"
	default:
		return fmt.Sprintf("OperandKind(%d)", uint8(k))
	}
}

// Operand is a tagged operand word.
type Operand struct {
	Kind  OperandKind
	Value Word
}

// Immediate builds a literal word operand.
func Immediate(v Word) Operand {
	return Operand{Kind: OperandImmediate, Value: v}
}

// LocalIndex builds a local-slot operand.
func LocalIndex(slot int) Operand {
	return Operand{Kind: OperandLocalIndex, Value: Word(slot)}
}

// JumpTarget builds an absolute jump-target operand.
func JumpTarget(offset int) Operand {
	return Operand{Kind: OperandJumpTarget, Value: Word(offset)}
}

// StringRef builds an interned-string operand.
func StringRef(index Word) Operand {
	return Operand{Kind: OperandStringRef, Value: index}
}

// Program is an encoded instruction sequence plus its interned string
// table. It is constructed once, before any execution, and must not be
// mutated during a run. PRINT operands index Strings; the engine emits
// the referenced text verbatim without taking an owned copy.
type Program struct {
	Code    []Word   `cbor:"code"`
	Strings []string `cbor:"strings"`
}

// Validate statically walks the encoding and rejects anything the
// engine would fault on: unknown tags, a truncated final instruction,
// local slots at or beyond LocalCount, string refs outside the table,
// and jump targets that do not address an opcode tag.
func (p *Program) Validate() error {
	starts := make(map[Word]bool, len(p.Code)/2)
	type pendingJump struct {
		pc     int
		target Word
	}
	var jumps []pendingJump

	pc := 0
	for pc < len(p.Code) {
		starts[Word(pc)] = true
		op := Opcode(p.Code[pc])
		info, known := GetOpcodeInfo(op)
		if !known {
			return fmt.Errorf("%w: unknown opcode tag %d at pc %d", ErrMalformedProgram, Word(op), pc)
		}
		if pc+1+info.Operands > len(p.Code) {
			return fmt.Errorf("%w: %s at pc %d truncated: need %d operand words, have %d",
				ErrMalformedProgram, info.Name, pc, info.Operands, len(p.Code)-pc-1)
		}

		switch op {
		case OpStoreLocal, OpLoadLocal:
			if slot := p.Code[pc+1]; slot >= LocalCount {
				return fmt.Errorf("%w: %s at pc %d: slot %d exceeds local capacity %d",
					ErrMalformedProgram, info.Name, pc, slot, LocalCount)
			}
		case OpAdd:
			for i := 1; i <= 2; i++ {
				if slot := p.Code[pc+i]; slot >= LocalCount {
					return fmt.Errorf("%w: ADD at pc %d: slot %d exceeds local capacity %d",
						ErrMalformedProgram, pc, slot, LocalCount)
				}
			}
		case OpPrint:
			if ref := p.Code[pc+1]; ref >= Word(len(p.Strings)) {
				return fmt.Errorf("%w: PRINT at pc %d: string ref %d outside table of %d",
					ErrMalformedProgram, pc, ref, len(p.Strings))
			}
		case OpJmpNZ:
			jumps = append(jumps, pendingJump{pc: pc, target: p.Code[pc+1]})
		}

		pc += info.Operands + 1
	}

	for _, j := range jumps {
		if !starts[j.target] {
			return fmt.Errorf("%w: JMPNZ at pc %d: target %d does not address an opcode",
				ErrMalformedProgram, j.pc, j.target)
		}
	}
	return nil
}

// Builder assembles a Program incrementally. Operands are checked
// against each opcode's arity table as they are emitted; range and
// jump-target errors surface from Program's final validation.
type Builder struct {
	code    []Word
	strings []string
	interns map[string]Word
}

// NewBuilder creates an empty program builder.
func NewBuilder() *Builder {
	return &Builder{
		code:    make([]Word, 0, 32),
		interns: make(map[string]Word),
	}
}

// Intern adds a string to the table and returns its ref, reusing the
// existing entry if the string was interned before.
func (b *Builder) Intern(s string) Word {
	if ref, ok := b.interns[s]; ok {
		return ref
	}
	ref := Word(len(b.strings))
	b.strings = append(b.strings, s)
	b.interns[s] = ref
	return ref
}

// Offset returns the code index the next emitted instruction will
// occupy. Loop heads are marked by capturing this before emitting the
// first instruction of the loop body.
func (b *Builder) Offset() int {
	return len(b.code)
}

// Emit appends an instruction. The operand count must match the
// opcode's arity exactly; a mismatch is a programming error and panics.
// Returns the code offset of the emitted tag.
func (b *Builder) Emit(op Opcode, operands ...Operand) int {
	info, known := GetOpcodeInfo(op)
	if !known {
		panic(fmt.Sprintf("bytecode: emit of unknown opcode tag %d", Word(op)))
	}
	if len(operands) != info.Operands {
		panic(fmt.Sprintf("bytecode: %s takes %d operand(s), got %d", info.Name, info.Operands, len(operands)))
	}
	offset := len(b.code)
	b.code = append(b.code, Word(op))
	for _, operand := range operands {
		b.code = append(b.code, operand.Value)
	}
	return offset
}

// EmitLoadImmediate emits LOAD_IMMEDIATE <value>.
func (b *Builder) EmitLoadImmediate(v Word) int {
	return b.Emit(OpLoadImmediate, Immediate(v))
}

// EmitStoreLocal emits STORE_LOCAL <slot>.
func (b *Builder) EmitStoreLocal(slot int) int {
	return b.Emit(OpStoreLocal, LocalIndex(slot))
}

// EmitLoadLocal emits LOAD_LOCAL <slot>.
func (b *Builder) EmitLoadLocal(slot int) int {
	return b.Emit(OpLoadLocal, LocalIndex(slot))
}

// EmitPrint interns s and emits PRINT <string-ref>.
func (b *Builder) EmitPrint(s string) int {
	return b.Emit(OpPrint, StringRef(b.Intern(s)))
}

// EmitPrintI emits PRINTI.
func (b *Builder) EmitPrintI() int {
	return b.Emit(OpPrintI)
}

// EmitJmpNZ emits JMPNZ <target> with an absolute code index.
func (b *Builder) EmitJmpNZ(target int) int {
	return b.Emit(OpJmpNZ, JumpTarget(target))
}

// EmitInc emits INC.
func (b *Builder) EmitInc() int {
	return b.Emit(OpInc)
}

// EmitDec emits DEC.
func (b *Builder) EmitDec() int {
	return b.Emit(OpDec)
}

// EmitAdd emits ADD <slot> <slot>.
func (b *Builder) EmitAdd(i, j int) int {
	return b.Emit(OpAdd, LocalIndex(i), LocalIndex(j))
}

// EmitHalt emits HALT.
func (b *Builder) EmitHalt() int {
	return b.Emit(OpHalt)
}

// Program finalizes and validates the assembled program.
func (b *Builder) Program() (*Program, error) {
	p := &Program{
		Code:    append([]Word(nil), b.code...),
		Strings: append([]string(nil), b.strings...),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
