package engine

import (
	"errors"
	"fmt"

	"github.com/chazu/stencil/pkg/bytecode"
	"github.com/chazu/stencil/pkg/specialize"
)

// ErrLocalIndexOutOfRange reports a local slot at or beyond capacity.
// The reference machine leaves this undefined; here it is a defined,
// reported fault rather than silent memory corruption.
var ErrLocalIndexOutOfRange = errors.New("local index out of range")

// LocalStore is the strategy for local-variable storage, chosen once
// per invocation. Both variants satisfy the same transparency contract:
// Store(i, v) immediately followed by Load(i), with no intervening
// write to i, yields v.
type LocalStore interface {
	Load(slot bytecode.Word) (bytecode.Word, error)
	Store(slot bytecode.Word, v bytecode.Word) error
}

// DirectLocals is ordinary private in-memory storage for one call.
type DirectLocals struct {
	slots [bytecode.LocalCount]bytecode.Word
}

// NewDirectLocals returns a zeroed local array for one invocation.
func NewDirectLocals() *DirectLocals {
	return &DirectLocals{}
}

// Load reads a slot.
func (d *DirectLocals) Load(slot bytecode.Word) (bytecode.Word, error) {
	if slot >= bytecode.LocalCount {
		return 0, fmt.Errorf("%w: slot %d, capacity %d", ErrLocalIndexOutOfRange, slot, bytecode.LocalCount)
	}
	return d.slots[slot], nil
}

// Store writes a slot.
func (d *DirectLocals) Store(slot bytecode.Word, v bytecode.Word) error {
	if slot >= bytecode.LocalCount {
		return fmt.Errorf("%w: slot %d, capacity %d", ErrLocalIndexOutOfRange, slot, bytecode.LocalCount)
	}
	d.slots[slot] = v
	return nil
}

// RedirectedRegisters routes every local read and write through the
// register capability supplied by the specializer integration:
// conceptually named registers rather than array slots.
type RedirectedRegisters struct {
	regs specialize.RegisterFile
}

// NewRedirectedRegisters wraps a register file for one invocation.
func NewRedirectedRegisters(regs specialize.RegisterFile) *RedirectedRegisters {
	return &RedirectedRegisters{regs: regs}
}

// Load reads a register.
func (r *RedirectedRegisters) Load(slot bytecode.Word) (bytecode.Word, error) {
	if slot >= bytecode.LocalCount {
		return 0, fmt.Errorf("%w: slot %d, capacity %d", ErrLocalIndexOutOfRange, slot, bytecode.LocalCount)
	}
	return r.regs.ReadReg(slot), nil
}

// Store writes a register.
func (r *RedirectedRegisters) Store(slot bytecode.Word, v bytecode.Word) error {
	if slot >= bytecode.LocalCount {
		return fmt.Errorf("%w: slot %d, capacity %d", ErrLocalIndexOutOfRange, slot, bytecode.LocalCount)
	}
	r.regs.WriteReg(slot, v)
	return nil
}
