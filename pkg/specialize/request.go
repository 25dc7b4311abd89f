package specialize

import "github.com/chazu/stencil/pkg/bytecode"

// MemoryRegion is a contiguous run of words declared compile-time
// constant for the duration of specialization. In-process it is a
// slice; the snapshot tooling resolves it to an address and length when
// the request crosses the process boundary.
type MemoryRegion struct {
	Words []bytecode.Word
}

// Request describes one specialization: which entry point to
// specialize, which slot receives the result, and which memory regions
// the specializer may treat as constants. A request is built exactly
// once, during process initialization, and submitted through an
// Integration.
type Request struct {
	Entry   EntryPoint
	Slot    *EntrySlot
	Regions []MemoryRegion
}

// AppendMemory declares a contiguous region compile-time-constant.
func (r *Request) AppendMemory(words []bytecode.Word) {
	r.Regions = append(r.Regions, MemoryRegion{Words: words})
}
