// Package specialize is the boundary between the interpreter and an
// external ahead-of-time specializer.
//
// The specializer observes one fixed program being interpreted and
// emits a version of the interpreter hardwired for that program, with
// interpretation overhead removed. That work happens out of process, on
// a snapshot; this package only defines the integration surface:
//
//   - Integration: the six primitives a conforming specializer backend
//     implements (request construction, constant-memory declaration,
//     submission, program-counter constancy assertions, register
//     read/write, and context-scope brackets)
//   - EntrySlot: the explicit single-writer, many-reader slot that
//     receives the specialized entry point, with an init-then-freeze
//     lifecycle
//   - Register / Dispatch: the one-time registration performed during
//     process initialization, and the per-entry check that selects the
//     specialized entry point when one exists and the generic engine
//     when none does
//
// Fallback is the in-core backend used when no specializer is linked:
// it accepts requests, never fills the slot, and backs redirected-mode
// registers with an ordinary dense file so both engine modes stay
// behaviorally identical. Recorder additionally captures hook traffic
// for inspection.
package specialize
