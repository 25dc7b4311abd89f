package engine

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/chazu/stencil/pkg/bytecode"
	"github.com/chazu/stencil/pkg/specialize"
)

// State is the execution state of one invocation.
type State uint8

const (
	StateRunning State = iota
	StateHalted
	StateFaulted
)

// String returns a human-readable name for State.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// loopHeadSite tags the constancy assertion at the top of the dispatch
// loop, the single site where the program counter must be
// compile-time-known for specialization of one fixed program.
const loopHeadSite specialize.SourceTag = 1

// stackDepth is the size of the reserved stack area carried in every
// frame. No opcode in the current instruction set touches it; it is a
// placeholder for future stack opcodes.
const stackDepth = 256

// frame is the private VM state of one invocation: accumulator, local
// storage, program counter, and the reserved stack area. A fresh frame
// is allocated per call and discarded on return, so concurrent
// invocations never share state.
type frame struct {
	acc    bytecode.Word
	pc     int
	locals LocalStore
	stack  [stackDepth]bytecode.Word
	sp     int
	state  State
}

// Engine executes encoded programs. An engine runs in one of two
// behaviorally identical modes, fixed at construction:
//
//   - Direct: locals live in a private in-memory array per call.
//   - Redirected: locals are routed through the specializer
//     integration's register capability, and the loop reports
//     program-counter constancy and context scopes to the integration.
//
// Regardless of mode, the hooks have zero effect on program semantics
// or output. The engine itself holds no per-invocation state and may be
// shared across sequential calls; each Run gets a fresh frame.
type Engine struct {
	out   io.Writer
	log   commonlog.Logger
	integ specialize.Integration // nil in direct mode

	// Trace logs every fetched instruction at debug level.
	Trace bool
}

// New creates a Direct-mode engine writing to stdout.
func New() *Engine {
	return &Engine{
		out: os.Stdout,
		log: commonlog.GetLogger("stencil.engine"),
	}
}

// NewSpecializable creates a Redirected-mode engine: the specializable
// variant whose local storage and control flow are exposed to the given
// specializer integration.
func NewSpecializable(integ specialize.Integration) *Engine {
	e := New()
	e.integ = integ
	return e
}

// SetOutput redirects the output stream. PRINT and PRINTI write here;
// diagnostics never do.
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// SetLogger replaces the diagnostic logger.
func (e *Engine) SetLogger(log commonlog.Logger) {
	e.log = log
}

// Redirected reports whether the engine routes locals through the
// specializer integration.
func (e *Engine) Redirected() bool {
	return e.integ != nil
}

// Run executes the program from pc 0 with fresh, zeroed state and
// returns the accumulator at HALT.
//
// A malformed encoding (unknown tag, truncated operand stream, bad jump
// target) or a local index at or beyond capacity faults the invocation:
// the condition is reported on the diagnostic channel, the zero
// sentinel is returned together with the error, and no further operand
// words are consumed. Faults terminate only this invocation.
//
// There is no cancellation primitive: a program lacking a reachable
// HALT runs forever by design.
func (e *Engine) Run(p *bytecode.Program) (bytecode.Word, error) {
	f := &frame{state: StateRunning}
	redirected := e.integ != nil
	if redirected {
		f.locals = NewRedirectedRegisters(e.integ.OpenRegisters(bytecode.LocalCount))
		e.integ.PushContext(0)
		defer e.integ.PopContext()
	} else {
		f.locals = NewDirectLocals()
	}

	code := p.Code
	for {
		if redirected {
			// Precondition for specializing one fixed program: pc is
			// compile-time-known at the top of every iteration.
			e.integ.AssertConstPC(uint32(f.pc), loopHeadSite)
		}
		if f.pc >= len(code) {
			return e.fault(f, fmt.Errorf("%w: pc %d past end of program", bytecode.ErrMalformedProgram, f.pc))
		}

		at := f.pc
		op := bytecode.Opcode(code[f.pc])
		f.pc++

		if e.Trace {
			e.log.Debugf("[%04d] %-16s acc=%d", at, op, f.acc)
		}

		switch op {
		case bytecode.OpLoadImmediate:
			v, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			f.acc = v

		case bytecode.OpStoreLocal:
			slot, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			if err := f.locals.Store(slot, f.acc); err != nil {
				return e.fault(f, err)
			}

		case bytecode.OpLoadLocal:
			slot, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			v, err := f.locals.Load(slot)
			if err != nil {
				return e.fault(f, err)
			}
			f.acc = v

		case bytecode.OpPrint:
			ref, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			if ref >= bytecode.Word(len(p.Strings)) {
				return e.fault(f, fmt.Errorf("%w: PRINT at pc %d: string ref %d outside table of %d",
					bytecode.ErrMalformedProgram, at, ref, len(p.Strings)))
			}
			// Emit the interned text verbatim, no added terminator.
			if _, err := io.WriteString(e.out, p.Strings[ref]); err != nil {
				return e.fault(f, fmt.Errorf("write output: %w", err))
			}

		case bytecode.OpPrintI:
			buf := strconv.AppendUint(make([]byte, 0, 20), uint64(f.acc), 10)
			if _, err := e.out.Write(buf); err != nil {
				return e.fault(f, fmt.Errorf("write output: %w", err))
			}

		case bytecode.OpJmpNZ:
			// The operand word is consumed regardless of branch outcome.
			target, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			if f.acc != 0 {
				if target >= bytecode.Word(len(code)) {
					return e.fault(f, fmt.Errorf("%w: JMPNZ at pc %d: target %d past end of program",
						bytecode.ErrMalformedProgram, at, target))
				}
				f.pc = int(target)
			}

		case bytecode.OpInc:
			f.acc++

		case bytecode.OpDec:
			f.acc--

		case bytecode.OpAdd:
			i, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			j, err := e.operand(f, code, op, at)
			if err != nil {
				return e.fault(f, err)
			}
			x, err := f.locals.Load(i)
			if err != nil {
				return e.fault(f, err)
			}
			y, err := f.locals.Load(j)
			if err != nil {
				return e.fault(f, err)
			}
			f.acc = x + y

		case bytecode.OpHalt:
			f.state = StateHalted
			return f.acc, nil

		default:
			// Unknown tag: report it and stop without consuming any
			// operand words that may follow.
			return e.fault(f, fmt.Errorf("%w: unknown opcode tag %d at pc %d",
				bytecode.ErrMalformedProgram, code[at], at))
		}

		if redirected {
			e.integ.UpdateContext(uint32(f.pc))
		}
	}
}

// operand consumes the next operand word, faulting on a truncated
// stream. Consuming fewer operand words than the opcode's arity is a
// fatal malformed-program condition, never silently tolerated.
func (e *Engine) operand(f *frame, code []bytecode.Word, op bytecode.Opcode, at int) (bytecode.Word, error) {
	if f.pc >= len(code) {
		return 0, fmt.Errorf("%w: %s at pc %d truncated: operand stream ends at %d",
			bytecode.ErrMalformedProgram, op, at, f.pc)
	}
	v := code[f.pc]
	f.pc++
	return v, nil
}

// fault transitions the invocation to Faulted, reports the condition on
// the diagnostic channel, and returns the zero sentinel. The output
// stream is never written to here.
func (e *Engine) fault(f *frame, err error) (bytecode.Word, error) {
	f.state = StateFaulted
	e.log.Errorf("engine faulted: %s", err.Error())
	return 0, err
}
