package specialize

import "github.com/chazu/stencil/pkg/bytecode"

// EntryPoint is an executable entry into program logic. A specialized
// entry point takes no input: everything it needs was embedded as
// constants when the specializer generated it.
type EntryPoint func() (bytecode.Word, error)

// SourceTag identifies the call site of a constancy assertion, letting
// the specializer report which assertion failed.
type SourceTag uint32

// RegisterFile is the capability backing local-variable storage in
// redirected mode: named registers supplied by the specializer instead
// of an in-memory array. Implementations are private to one invocation;
// the engine never shares a file between calls.
//
// Indices are guaranteed by the caller to be below the size requested
// from OpenRegisters.
type RegisterFile interface {
	ReadReg(idx bytecode.Word) bytecode.Word
	WriteReg(idx bytecode.Word, v bytecode.Word)
}

// Integration is the boundary toward the external specializer. The
// specialization work itself happens out of process on a snapshot; this
// interface only carries the structural information the specializer
// needs and receives the one-time registration of specializable entry
// points.
//
// Six primitives, mirrored by any conforming implementation:
//
//  1. BeginRequest — open a specialization request for an entry point
//     and the output slot that will receive the specialized version
//  2. Request.AppendMemory — declare a memory region compile-time-constant
//  3. Submit — hand a finalized request over
//  4. AssertConstPC — assert the program counter is compile-time-known
//     at the tagged site
//  5. OpenRegisters — obtain the register capability for one invocation
//  6. PushContext / UpdateContext / PopContext — bracket a
//     re-specializable control-flow unit, keyed by program counter
//
// The hook primitives (4-6) have zero effect on program semantics; they
// exist solely to expose loop structure and constancy to the
// specializer.
type Integration interface {
	BeginRequest(entry EntryPoint, slot *EntrySlot) *Request
	Submit(req *Request) error

	AssertConstPC(pc uint32, site SourceTag)
	OpenRegisters(size int) RegisterFile

	PushContext(pc uint32)
	UpdateContext(pc uint32)
	PopContext()
}
