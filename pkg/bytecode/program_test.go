package bytecode

import (
	"errors"
	"testing"
)

func TestCountdownSumEncoding(t *testing.T) {
	// The fixture layout is load-bearing: the loop head must sit at
	// code index 8 and the JMPNZ must target it.
	p := CountdownSum(5)

	want := []Word{
		Word(OpLoadImmediate), 0,
		Word(OpStoreLocal), 0,
		Word(OpLoadImmediate), 5,
		Word(OpStoreLocal), 1,
		Word(OpAdd), 0, 1,
		Word(OpStoreLocal), 0,
		Word(OpLoadLocal), 1,
		Word(OpDec),
		Word(OpStoreLocal), 1,
		Word(OpJmpNZ), 8,
		Word(OpPrint), 0,
		Word(OpLoadLocal), 0,
		Word(OpPrintI),
		Word(OpPrint), 1,
		Word(OpHalt),
	}

	if len(p.Code) != len(want) {
		t.Fatalf("Code length = %d, want %d", len(p.Code), len(want))
	}
	for i, w := range want {
		if p.Code[i] != w {
			t.Errorf("Code[%d] = %d, want %d", i, p.Code[i], w)
		}
	}
	if len(p.Strings) != 2 || p.Strings[0] != "Result: " || p.Strings[1] != "\n" {
		t.Errorf("Strings = %q, want [\"Result: \" \"\\n\"]", p.Strings)
	}
}

func TestBuilderInterning(t *testing.T) {
	b := NewBuilder()
	b.EmitPrint("hello")
	b.EmitPrint("world")
	b.EmitPrint("hello")
	b.EmitHalt()

	p, err := b.Program()
	if err != nil {
		t.Fatalf("Program failed: %v", err)
	}
	if len(p.Strings) != 2 {
		t.Fatalf("Strings length = %d, want 2 (interning should deduplicate)", len(p.Strings))
	}
	if p.Code[1] != p.Code[5] {
		t.Errorf("Identical strings got different refs: %d vs %d", p.Code[1], p.Code[5])
	}
}

func TestBuilderArityPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Emit with wrong arity should panic")
		}
	}()
	b := NewBuilder()
	b.Emit(OpAdd, Immediate(1)) // ADD takes two operands
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		program Program
		wantErr bool
	}{
		{
			name:    "halt only",
			program: Program{Code: []Word{Word(OpHalt)}},
		},
		{
			name:    "empty program",
			program: Program{},
		},
		{
			name:    "truncated final instruction",
			program: Program{Code: []Word{Word(OpHalt), Word(OpLoadImmediate)}},
			wantErr: true,
		},
		{
			name:    "truncated add",
			program: Program{Code: []Word{Word(OpAdd), 0}},
			wantErr: true,
		},
		{
			name:    "unknown tag",
			program: Program{Code: []Word{42, Word(OpHalt)}},
			wantErr: true,
		},
		{
			name:    "store slot at capacity",
			program: Program{Code: []Word{Word(OpStoreLocal), LocalCount, Word(OpHalt)}},
			wantErr: true,
		},
		{
			name:    "store slot in range",
			program: Program{Code: []Word{Word(OpStoreLocal), LocalCount - 1, Word(OpHalt)}},
		},
		{
			name:    "add slot out of range",
			program: Program{Code: []Word{Word(OpAdd), 0, 300, Word(OpHalt)}},
			wantErr: true,
		},
		{
			name:    "print ref outside table",
			program: Program{Code: []Word{Word(OpPrint), 0, Word(OpHalt)}},
			wantErr: true,
		},
		{
			name: "print ref in table",
			program: Program{
				Code:    []Word{Word(OpPrint), 0, Word(OpHalt)},
				Strings: []string{"ok"},
			},
		},
		{
			name: "jump into operand word",
			program: Program{Code: []Word{
				Word(OpLoadImmediate), 1,
				Word(OpJmpNZ), 1, // index 1 is an operand, not a tag
				Word(OpHalt),
			}},
			wantErr: true,
		},
		{
			name: "jump past end",
			program: Program{Code: []Word{
				Word(OpJmpNZ), 99,
				Word(OpHalt),
			}},
			wantErr: true,
		},
		{
			name: "backward jump to opcode",
			program: Program{Code: []Word{
				Word(OpDec),
				Word(OpJmpNZ), 0,
				Word(OpHalt),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.program.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate should have failed")
				}
				if !errors.Is(err, ErrMalformedProgram) {
					t.Errorf("error = %v, want ErrMalformedProgram", err)
				}
			} else if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestOperandKinds(t *testing.T) {
	tests := []struct {
		operand Operand
		kind    OperandKind
		value   Word
	}{
		{Immediate(7), OperandImmediate, 7},
		{LocalIndex(3), OperandLocalIndex, 3},
		{JumpTarget(8), OperandJumpTarget, 8},
		{StringRef(1), OperandStringRef, 1},
	}
	for _, tt := range tests {
		if tt.operand.Kind != tt.kind || tt.operand.Value != tt.value {
			t.Errorf("operand = %+v, want kind %s value %d", tt.operand, tt.kind, tt.value)
		}
	}
}

func TestBuilderOffset(t *testing.T) {
	b := NewBuilder()
	if b.Offset() != 0 {
		t.Fatalf("empty builder offset = %d, want 0", b.Offset())
	}
	b.EmitLoadImmediate(1) // 2 words
	if b.Offset() != 2 {
		t.Errorf("offset after LOAD_IMMEDIATE = %d, want 2", b.Offset())
	}
	b.EmitAdd(0, 1) // 3 words
	if b.Offset() != 5 {
		t.Errorf("offset after ADD = %d, want 5", b.Offset())
	}
}
