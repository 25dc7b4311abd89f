package specialize

import (
	"fmt"

	"github.com/chazu/stencil/pkg/bytecode"
)

// Register performs the one-time registration of a specializable entry
// point with the specializer: it opens a request naming the
// redirected-mode entry and its output slot, declares the whole encoded
// program a compile-time-constant memory region, and submits.
//
// Call this during process initialization, before any Dispatch. A
// failure here must not stop the program: dispatch works unchanged over
// an unset slot.
func Register(integ Integration, entry EntryPoint, slot *EntrySlot, prog *bytecode.Program) error {
	req := integ.BeginRequest(entry, slot)
	req.AppendMemory(prog.Code)
	if err := integ.Submit(req); err != nil {
		return fmt.Errorf("specialize: submit request: %w", err)
	}
	return nil
}

// Dispatch is the normal entry into program logic. If the slot holds a
// specialized entry point it is invoked with no further input — all
// data was embedded as constants during specialization. Otherwise the
// generic fallback runs over the explicit program data. Safe to call
// whether or not specialization ever completed.
func Dispatch(slot *EntrySlot, fallback EntryPoint) (bytecode.Word, error) {
	if fn, ok := slot.Get(); ok {
		return fn()
	}
	return fallback()
}
