package specialize

import (
	"errors"
	"sync/atomic"
)

// ErrSlotAlreadySet reports a second write to an entry slot.
var ErrSlotAlreadySet = errors.New("specialize: entry slot already set")

// EntrySlot holds at most one specialized entry point. Its lifecycle is
// init-then-freeze: written at most once, during process
// initialization, strictly before any dispatch reads it. Reads tolerate
// a slot that is never written — dispatch then falls back to the
// generic engine — and remain safe if initialization and first dispatch
// are not otherwise ordered.
//
// The zero value is an unset slot ready for use.
type EntrySlot struct {
	fn atomic.Pointer[EntryPoint]
}

// Set installs the specialized entry point. Only the first write
// succeeds; any later write returns ErrSlotAlreadySet and leaves the
// slot unchanged.
func (s *EntrySlot) Set(fn EntryPoint) error {
	if fn == nil {
		return errors.New("specialize: nil entry point")
	}
	if !s.fn.CompareAndSwap(nil, &fn) {
		return ErrSlotAlreadySet
	}
	return nil
}

// Get returns the specialized entry point, or false if specialization
// never completed.
func (s *EntrySlot) Get() (EntryPoint, bool) {
	p := s.fn.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}
