package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; Stencil bytecode, %d words\n", len(p.Code)))

	if len(p.Strings) > 0 {
		sb.WriteString("; Strings:\n")
		for i, s := range p.Strings {
			display := s
			if len(display) > 40 {
				display = display[:37] + "..."
			}
			display = strings.ReplaceAll(display, "\n", "\\n")
			display = strings.ReplaceAll(display, "\t", "\\t")
			sb.WriteString(fmt.Sprintf(";   [%3d] %q\n", i, display))
		}
	}

	sb.WriteString("; Code:\n")
	pc := 0
	for pc < len(p.Code) {
		line, length := p.disassembleInstruction(pc)
		sb.WriteString(fmt.Sprintf("%04d  %s\n", pc, line))
		if length == 0 {
			break
		}
		pc += length
	}
	return sb.String()
}

// disassembleInstruction renders one instruction at pc. Returns the
// formatted line and the instruction's word length; a zero length means
// decoding cannot continue.
func (p *Program) disassembleInstruction(pc int) (string, int) {
	op := Opcode(p.Code[pc])
	info, known := GetOpcodeInfo(op)
	if !known {
		return fmt.Sprintf("%-16s ; undecodable", info.Name), 0
	}
	if pc+1+info.Operands > len(p.Code) {
		return fmt.Sprintf("%-16s ; truncated", info.Name), 0
	}

	switch op {
	case OpLoadImmediate:
		return fmt.Sprintf("%-16s %d", info.Name, p.Code[pc+1]), 2
	case OpStoreLocal, OpLoadLocal:
		return fmt.Sprintf("%-16s local[%d]", info.Name, p.Code[pc+1]), 2
	case OpPrint:
		ref := p.Code[pc+1]
		text := "<bad ref>"
		if ref < Word(len(p.Strings)) {
			text = fmt.Sprintf("%q", p.Strings[ref])
			if len(text) > 40 {
				text = text[:37] + "..."
			}
		}
		return fmt.Sprintf("%-16s [%d] %s", info.Name, ref, text), 2
	case OpJmpNZ:
		return fmt.Sprintf("%-16s -> %04d", info.Name, p.Code[pc+1]), 2
	case OpAdd:
		return fmt.Sprintf("%-16s local[%d], local[%d]", info.Name, p.Code[pc+1], p.Code[pc+2]), 3
	default:
		return info.Name, 1
	}
}
