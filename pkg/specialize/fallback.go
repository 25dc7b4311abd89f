package specialize

import "github.com/chazu/stencil/pkg/bytecode"

// Fallback is the integration used when no external specializer is
// linked into the process. Requests are accepted and recorded but never
// produce a specialized entry point, so dispatch always falls back to
// the generic engine. The hook primitives are no-ops except for
// registers, which are backed by a real dense file so that
// redirected-mode execution stays behaviorally identical to direct
// mode.
type Fallback struct {
	requests []*Request
}

// NewFallback creates a fallback integration.
func NewFallback() *Fallback {
	return &Fallback{}
}

// BeginRequest opens a request for the given entry point and slot.
func (f *Fallback) BeginRequest(entry EntryPoint, slot *EntrySlot) *Request {
	return &Request{Entry: entry, Slot: slot}
}

// Submit records the request. The slot is deliberately left unset:
// there is no specializer to fill it.
func (f *Fallback) Submit(req *Request) error {
	f.requests = append(f.requests, req)
	return nil
}

// Requests returns every submitted request, in submission order.
func (f *Fallback) Requests() []*Request {
	return f.requests
}

// AssertConstPC is a no-op without a specializer.
func (f *Fallback) AssertConstPC(pc uint32, site SourceTag) {}

// OpenRegisters returns a fresh dense register file for one invocation.
func (f *Fallback) OpenRegisters(size int) RegisterFile {
	return &denseRegisters{regs: make([]bytecode.Word, size)}
}

// PushContext is a no-op without a specializer.
func (f *Fallback) PushContext(pc uint32) {}

// UpdateContext is a no-op without a specializer.
func (f *Fallback) UpdateContext(pc uint32) {}

// PopContext is a no-op without a specializer.
func (f *Fallback) PopContext() {}

// denseRegisters backs redirected-mode locals with an ordinary slice.
type denseRegisters struct {
	regs []bytecode.Word
}

func (d *denseRegisters) ReadReg(idx bytecode.Word) bytecode.Word {
	if idx >= bytecode.Word(len(d.regs)) {
		return 0
	}
	return d.regs[idx]
}

func (d *denseRegisters) WriteReg(idx bytecode.Word, v bytecode.Word) {
	if idx < bytecode.Word(len(d.regs)) {
		d.regs[idx] = v
	}
}
