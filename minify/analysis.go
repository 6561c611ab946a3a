package minify

import "github.com/whitvm/whitvm/program"

// readOperands returns the operands of inst that are evaluated for their
// value (as opposed to Dest/Label, which merely name something).
func readOperands(inst program.Instruction) []program.Operand {
	switch inst.Op {
	case program.OpSet:
		return []program.Operand{inst.Value}
	case program.OpSay:
		return []program.Operand{inst.Val, inst.Nl, inst.Cond}
	case program.OpAsk:
		return []program.Operand{inst.N, inst.Cond}
	case program.OpJmp, program.OpHalt:
		return []program.Operand{inst.Cond}
	default:
		return nil
	}
}

// readsVar reports whether inst reads name anywhere in its operands
// (including inside expression trees).
func readsVar(inst program.Instruction, name string) bool {
	found := false
	for _, op := range readOperands(inst) {
		switch op.Kind {
		case program.OVarRef:
			if op.Name == name {
				found = true
			}
		case program.OExpr:
			walkVars(op.Expr, func(n string) {
				if n == name {
					found = true
				}
			})
		}
	}
	return found
}

// protection describes which instruction indices a removal pass must
// never touch, and whether removal is safe to attempt at all.
type protection struct {
	locked map[int]bool
	safe   bool
}

func (p protection) isLocked(i int) bool { return p.locked[i] }

// computeProtection finds every instruction that is one of an `ask n`'s n
// contiguous dispatch targets (spec.md §4.5 pass 8: these are reachable
// by construction and must keep their exact positional offsets from the
// ask that addresses them). When any ask's n operand is not a literal,
// its dispatch span cannot be bounded statically, so safe is false and
// every removal-capable pass becomes a no-op for the whole program —
// the conservative choice over risking a positional-offset corruption.
func computeProtection(prog *program.Program) protection {
	locked := make(map[int]bool)
	safe := true
	for i, inst := range prog.Instructions {
		if inst.Op != program.OpAsk {
			continue
		}
		if inst.N.Kind != program.OLiteral || !inst.N.Lit.IsInt() {
			safe = false
			continue
		}
		n := int(inst.N.Lit.I)
		for k := 1; k <= n; k++ {
			locked[i+k] = true
		}
	}
	return protection{locked: locked, safe: safe}
}

// reachable computes the forward-reachable instruction set (spec.md §4.5
// pass 8): fallthrough for set/say, branch-and-maybe-fallthrough for
// jmp/halt keyed on whether the condition is the literal-1 default
// (unconditional), and the full dispatch span for ask, plus the
// instruction just past that span when the ask's condition is not the
// literal-1 default (a disabled ask skips there). Every label
// target is seeded as reachable unconditionally, since a label is a
// potential entry point regardless of whether any jmp in the program
// currently targets it.
func reachable(prog *program.Program) map[int]bool {
	n := prog.Len()
	seen := make(map[int]bool, n)
	if n == 0 {
		return seen
	}

	var queue []int
	push := func(i int) {
		if i >= 0 && i < n && !seen[i] {
			seen[i] = true
			queue = append(queue, i)
		}
	}

	push(0)
	for _, idx := range prog.Labels {
		push(idx)
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		inst := prog.Instructions[i]
		switch inst.Op {
		case program.OpSet, program.OpSay:
			push(i + 1)
		case program.OpJmp:
			if target, ok := prog.Labels[inst.Label]; ok {
				push(target)
			}
			if !inst.Cond.IsDefaultCond() {
				push(i + 1)
			}
		case program.OpHalt:
			if !inst.Cond.IsDefaultCond() {
				push(i + 1)
			}
		case program.OpAsk:
			if inst.N.Kind == program.OLiteral && inst.N.Lit.IsInt() {
				nn := int(inst.N.Lit.I)
				for k := 1; k <= nn; k++ {
					push(i + k)
				}
				if !inst.Cond.IsDefaultCond() {
					push(i + nn + 1)
				}
			} else {
				// Unknown dispatch width: conservatively mark the rest of
				// the program reachable rather than guess a span.
				for k := i + 1; k < n; k++ {
					push(k)
				}
			}
		}
	}
	return seen
}
