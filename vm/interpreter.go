package vm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/whitvm/whitvm/program"
	"github.com/whitvm/whitvm/value"
	"github.com/whitvm/whitvm/werr"
)

// Interpreter is the WhitVM execution engine: program counter, variable
// store, input reader, output writer, and PRNG (spec.md §4.4).
type Interpreter struct {
	Prog *program.Program
	Data *DataStore
	PC   int

	in  LineReader
	out io.Writer
	rng RNG
}

// RNG is the PRNG surface the interpreter needs; *rand.Rand from
// math/rand/v2 (see NewPRNG) satisfies it.
type RNG interface {
	Int64N(n int64) int64
}

// New constructs an Interpreter ready to Run. rng may be nil only if the
// program is known not to call `rng`: evaluating an `rng` call with no
// PRNG bound returns a TypeError from eval.Eval's nil check.
func New(prog *program.Program, in LineReader, out io.Writer, rng RNG) *Interpreter {
	return &Interpreter{Prog: prog, Data: NewDataStore(), in: in, out: out, rng: rng}
}

// Run executes the program from pc 0 to termination (spec.md §4.4's main
// loop) and returns the first fatal error encountered, or nil on a
// normal halt (pc reaches len(instructions), or a halt/say-terminated
// walk-off).
func (vm *Interpreter) Run() error {
	n := vm.Prog.Len()
	for vm.PC < n {
		inst := vm.Prog.Instructions[vm.PC]
		if err := vm.step(inst); err != nil {
			return err
		}
	}
	return nil
}

// step dispatches one instruction and advances pc, except where the
// handler sets pc itself (jmp-taken, halt-taken, ask): spec.md §4.4.
func (vm *Interpreter) step(inst program.Instruction) error {
	switch inst.Op {
	case program.OpSet:
		return vm.execSet(inst)
	case program.OpSay:
		return vm.execSay(inst)
	case program.OpJmp:
		return vm.execJmp(inst)
	case program.OpHalt:
		return vm.execHalt(inst)
	case program.OpAsk:
		return vm.execAsk(inst)
	default:
		return werr.Type(inst.Line, "unknown opcode %q", inst.Op)
	}
}

func (vm *Interpreter) eval(op program.Operand, line int) (value.Value, error) {
	return op.Eval(vm.Data, vm.rng, line)
}

func (vm *Interpreter) execSet(inst program.Instruction) error {
	v, err := vm.eval(inst.Value, inst.Line)
	if err != nil {
		return err
	}
	vm.Data.Set(inst.Dest, v)
	vm.PC++
	return nil
}

func (vm *Interpreter) execSay(inst program.Instruction) error {
	cond, err := vm.eval(inst.Cond, inst.Line)
	if err != nil {
		return err
	}
	if !cond.Truthy() {
		vm.PC++
		return nil
	}
	val, err := vm.eval(inst.Val, inst.Line)
	if err != nil {
		return err
	}
	nlV, err := vm.eval(inst.Nl, inst.Line)
	if err != nil {
		return err
	}
	nlInt, ok := nlV.AsInt()
	if !ok {
		return werr.Type(inst.Line, "say nl_qty operand %s is not an integer", nlV)
	}
	if nlInt.I < 0 {
		return werr.RangeErr(inst.Line, "say nl_qty must be non-negative, got %d", nlInt.I)
	}
	if _, err := io.WriteString(vm.out, val.Render()); err != nil {
		return err
	}
	if nlInt.I > 0 {
		if _, err := io.WriteString(vm.out, strings.Repeat("\n", int(nlInt.I))); err != nil {
			return err
		}
	}
	vm.PC++
	return nil
}

func (vm *Interpreter) execJmp(inst program.Instruction) error {
	cond, err := vm.eval(inst.Cond, inst.Line)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		idx, ok := vm.Prog.Labels[inst.Label]
		if !ok {
			// Unreachable given parser-time label totality, but kept as
			// a defensive fatal rather than an index panic.
			return werr.Label(inst.Line, inst.Label, "jump to undeclared label")
		}
		vm.PC = idx
		return nil
	}
	vm.PC++
	return nil
}

func (vm *Interpreter) execHalt(inst program.Instruction) error {
	cond, err := vm.eval(inst.Cond, inst.Line)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		vm.PC = vm.Prog.Len()
		return nil
	}
	vm.PC++
	return nil
}

// execAsk is the ask-dispatch instruction (spec.md §4.4 and GLOSSARY,
// "Ask dispatch"): its condition gates whether it behaves as a menu read
// or a skip-N, and its "call" is really just an offset computed from
// either the n operand or user input.
func (vm *Interpreter) execAsk(inst program.Instruction) error {
	cond, err := vm.eval(inst.Cond, inst.Line)
	if err != nil {
		return err
	}
	nV, err := vm.eval(inst.N, inst.Line)
	if err != nil {
		return err
	}
	nInt, ok := nV.AsInt()
	if !ok {
		return werr.Type(inst.Line, "ask n operand %s is not an integer", nV)
	}
	n := nInt.I
	if n < 1 {
		return werr.RangeErr(inst.Line, "ask n must be >= 1, got %d", n)
	}

	if !cond.Truthy() {
		vm.PC = vm.PC + 1 + int(n)
		return nil
	}

	line, ok := vm.in.ReadLine()
	if !ok {
		return werr.Input(inst.Line, "ask: no input available")
	}
	k, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return werr.Input(inst.Line, "ask: input %q is not an integer", line)
	}

	if k >= 1 && k <= n {
		vm.PC = vm.PC + 1 + int(k-1)
	} else {
		// Out-of-range input is not an error: it defaults to option 1
		// (spec.md §4.4, §7).
		vm.PC = vm.PC + 1
	}
	return nil
}

// String renders the current pc/variable state for diagnostics, in the
// "REPL /scope" spirit of the teacher's main/main.go help text.
func (vm *Interpreter) String() string {
	return fmt.Sprintf("pc=%d/%d vars=%d", vm.PC, vm.Prog.Len(), len(vm.Data.Snapshot()))
}
