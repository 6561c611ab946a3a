package minify

import (
	"sort"

	"github.com/whitvm/whitvm/eval"
	"github.com/whitvm/whitvm/program"
	"github.com/whitvm/whitvm/value"
)

// passConstantFold evaluates every expression operand whose tree has no
// variable reference and no rng call, replacing it with its literal
// result (spec.md §4.5 pass 5).
func passConstantFold(prog *program.Program) *program.Program {
	out := &program.Program{Instructions: make([]program.Instruction, len(prog.Instructions)), Labels: prog.Labels}
	for i, inst := range prog.Instructions {
		inst.Value = foldOperand(inst.Value)
		inst.Val = foldOperand(inst.Val)
		inst.Nl = foldOperand(inst.Nl)
		inst.N = foldOperand(inst.N)
		inst.Cond = foldOperand(inst.Cond)
		out.Instructions[i] = inst
	}
	return out
}

func foldOperand(op program.Operand) program.Operand {
	if op.Kind != program.OExpr {
		return op
	}
	folded := foldConstants(op.Expr)
	switch n := folded.(type) {
	case eval.NumberLit:
		return program.Literal(value.Int(n.Value))
	case eval.StringLit:
		return program.Literal(value.Text(n.Value))
	default:
		return program.ExprOperand(folded)
	}
}

// passStringPool hoists every #…# literal used at least threshold times
// into a single `set` at program start and rewrites each use to a
// variable reference (spec.md §4.5 pass 6). The insertion point is
// instruction 0, which trivially dominates every other instruction since
// execution always begins there.
func passStringPool(prog *program.Program, threshold int) *program.Program {
	counts := make(map[string]int)
	var order []string
	seen := make(map[string]bool)
	note := func(s string) {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
		counts[s]++
	}
	for _, inst := range prog.Instructions {
		for _, op := range readOperands(inst) {
			switch op.Kind {
			case program.OLiteral:
				if op.Lit.IsText() {
					note(op.Lit.S)
				}
			case program.OExpr:
				collectStringLits(op.Expr, note)
			}
		}
	}

	var pooled []string
	for _, s := range order {
		if counts[s] >= threshold {
			pooled = append(pooled, s)
		}
	}
	if len(pooled) == 0 {
		return prog
	}

	varOf := make(map[string]string, len(pooled))
	lead := make([]program.Instruction, 0, len(pooled))
	for i, s := range pooled {
		name := "pool" + itoa(i)
		varOf[s] = name
		lead = append(lead, program.Instruction{Op: program.OpSet, Dest: name, Value: program.Literal(value.Text(s))})
	}

	rewritten := make([]program.Instruction, len(prog.Instructions))
	for i, inst := range prog.Instructions {
		inst.Value = poolOperand(inst.Value, varOf)
		inst.Val = poolOperand(inst.Val, varOf)
		inst.Nl = poolOperand(inst.Nl, varOf)
		inst.N = poolOperand(inst.N, varOf)
		inst.Cond = poolOperand(inst.Cond, varOf)
		rewritten[i] = inst
	}

	mid := &program.Program{Instructions: rewritten, Labels: prog.Labels}
	return prepend(mid, lead)
}

func poolOperand(op program.Operand, varOf map[string]string) program.Operand {
	switch op.Kind {
	case program.OLiteral:
		if op.Lit.IsText() {
			if name, ok := varOf[op.Lit.S]; ok {
				return program.VarRef(name)
			}
		}
		return op
	case program.OExpr:
		node := op.Expr
		for s, name := range varOf {
			node = replaceStringLit(node, s, name)
		}
		return program.ExprOperand(node)
	default:
		return op
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	return string(buf)
}

// passDeadStoreElim removes `set *v* …` instructions whose target is
// never read before the next write to the same variable or the end of
// the program (spec.md §4.5 pass 7). The scan is positional, following
// the spec's own wording ("never subsequently read … before another set
// of the same variable") rather than a full control-flow dataflow
// analysis: it does not account for a backward jmp re-executing an
// earlier read, a deliberate simplification recorded in the project's
// design notes.
func passDeadStoreElim(prog *program.Program, prot protection) *program.Program {
	remove := make(map[int]bool)
	n := len(prog.Instructions)
	for i, inst := range prog.Instructions {
		if inst.Op != program.OpSet || prot.isLocked(i) {
			continue
		}
		dead := true
		for j := i + 1; j < n; j++ {
			next := prog.Instructions[j]
			if readsVar(next, inst.Dest) {
				dead = false
				break
			}
			if next.Op == program.OpSet && next.Dest == inst.Dest {
				break
			}
		}
		if dead {
			remove[i] = true
		}
	}
	if len(remove) == 0 {
		return prog
	}
	return compact(prog, remove)
}

// passUnreachableElim deletes every instruction forward-reachability
// analysis cannot reach from pc 0 or from a label (spec.md §4.5 pass 8).
func passUnreachableElim(prog *program.Program, prot protection) *program.Program {
	live := reachable(prog)
	remove := make(map[int]bool)
	for i := range prog.Instructions {
		if !live[i] && !prot.isLocked(i) {
			remove[i] = true
		}
	}
	if len(remove) == 0 {
		return prog
	}
	return compact(prog, remove)
}

// passNameShrink renames every variable and every label to the shortest
// possible identifier, in order of first appearance, so the rewrite is
// deterministic across runs (spec.md §4.5 pass 4). Run last in the
// pipeline so it also picks up variables introduced by string pooling.
func passNameShrink(prog *program.Program) *program.Program {
	varMap := firstAppearanceRename(collectVarNames(prog))
	labelMap := firstAppearanceRename(collectLabelNames(prog))

	out := make([]program.Instruction, len(prog.Instructions))
	for i, inst := range prog.Instructions {
		if inst.Op == program.OpSet {
			inst.Dest = renameIfMapped(inst.Dest, varMap)
		}
		if inst.Op == program.OpJmp {
			inst.Label = renameIfMapped(inst.Label, labelMap)
		}
		inst.Value = renameOperandVars(inst.Value, varMap)
		inst.Val = renameOperandVars(inst.Val, varMap)
		inst.Nl = renameOperandVars(inst.Nl, varMap)
		inst.N = renameOperandVars(inst.N, varMap)
		inst.Cond = renameOperandVars(inst.Cond, varMap)
		out[i] = inst
	}

	newLabels := make(map[string]int, len(prog.Labels))
	for name, idx := range prog.Labels {
		newLabels[renameIfMapped(name, labelMap)] = idx
	}
	return &program.Program{Instructions: out, Labels: newLabels}
}

func renameIfMapped(name string, mapping map[string]string) string {
	if to, ok := mapping[name]; ok {
		return to
	}
	return name
}

func renameOperandVars(op program.Operand, mapping map[string]string) program.Operand {
	switch op.Kind {
	case program.OVarRef:
		return program.VarRef(renameIfMapped(op.Name, mapping))
	case program.OExpr:
		return program.ExprOperand(renameVarsInNode(op.Expr, mapping))
	default:
		return op
	}
}

// collectVarNames returns every variable name touched by prog, in order
// of first appearance (write or read, whichever comes first).
func collectVarNames(prog *program.Program) []string {
	var order []string
	seen := make(map[string]bool)
	note := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, inst := range prog.Instructions {
		if inst.Op == program.OpSet {
			note(inst.Dest)
		}
		for _, op := range readOperands(inst) {
			switch op.Kind {
			case program.OVarRef:
				note(op.Name)
			case program.OExpr:
				walkVars(op.Expr, note)
			}
		}
	}
	return order
}

// collectLabelNames returns every label name in prog, ordered by the
// instruction index it resolves to (ties broken lexically) so renaming
// is stable regardless of Go's randomized map iteration.
func collectLabelNames(prog *program.Program) []string {
	names := make([]string, 0, len(prog.Labels))
	for name := range prog.Labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if prog.Labels[names[i]] != prog.Labels[names[j]] {
			return prog.Labels[names[i]] < prog.Labels[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func firstAppearanceRename(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for i, name := range names {
		out[name] = shortName(i)
	}
	return out
}
