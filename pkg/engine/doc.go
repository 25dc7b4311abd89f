// Package engine implements the fetch/decode/execute loop over VM
// state: one accumulator, a fixed array of 256 locals, a program
// counter, and a reserved (currently unused) stack area.
//
// One engine body runs in two behaviorally identical modes. Direct mode
// keeps locals in a private array per call. Redirected mode routes
// every local access through the specializer integration's register
// capability and additionally reports loop structure — program-counter
// constancy at the top of each iteration, and context scopes bracketing
// the loop — so an external specializer can generate a
// program-hardwired version of this loop. Neither mode changes
// observable semantics or output.
//
// Execution is single-threaded, synchronous, and fully deterministic:
// no randomness, no clock, no I/O beyond the injected output stream.
// Faults (malformed encodings, out-of-range local indices) terminate
// only the current invocation, go to the diagnostic log rather than the
// output stream, and yield a zero sentinel.
package engine
