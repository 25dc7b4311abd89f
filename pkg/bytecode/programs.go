package bytecode

// Local slot assignments for CountdownSum.
const (
	countdownResult = 0
	countdownLoop   = 1
)

// CountdownSum builds the canonical benchmark program: set a running
// sum to zero and a counter to goal, then loop adding the counter into
// the sum and decrementing the counter until it reaches zero, finally
// printing "Result: ", the decimal sum, and a newline. The counter is
// added before it is decremented, so a goal of 5 sums 5+4+3+2+1.
//
// The goal is a fixture parameter, not a property of the interpreter;
// callers pick whatever iteration count suits them.
func CountdownSum(goal Word) *Program {
	b := NewBuilder()

	b.EmitLoadImmediate(0)
	b.EmitStoreLocal(countdownResult)
	b.EmitLoadImmediate(goal)
	b.EmitStoreLocal(countdownLoop)

	loop := b.Offset()
	b.EmitAdd(countdownResult, countdownLoop)
	b.EmitStoreLocal(countdownResult)
	b.EmitLoadLocal(countdownLoop)
	b.EmitDec()
	b.EmitStoreLocal(countdownLoop)
	b.EmitJmpNZ(loop)

	b.EmitPrint("Result: ")
	b.EmitLoadLocal(countdownResult)
	b.EmitPrintI()
	b.EmitPrint("\n")
	b.EmitHalt()

	p, err := b.Program()
	if err != nil {
		// The fixture is statically well formed; a failure here is a
		// bug in the builder itself.
		panic(err)
	}
	return p
}
