/*
Package minify implements spec.md §4.5: a pipeline of semantics-preserving
rewrites over a parsed program.Program, plus the source printer shared by
the round-trip property and by minified output.

Grounded on the teacher's main/print_visitor.go (akashmaji946/go-mix),
whose visitor walks an AST to produce a debug dump; adapted here from a
debug-printer into a semantics-preserving *source emitter* that the
parser can re-read, since WhitVM's minifier needs to turn a Program back
into text rather than into a human-readable trace.
*/
package minify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whitvm/whitvm/eval"
	"github.com/whitvm/whitvm/program"
)

// PrintOpts controls the textual form Print produces.
type PrintOpts struct {
	// ElideDefaults drops trailing nl_qty/condition operands equal to
	// their defaults (spec.md §4.5 pass 2).
	ElideDefaults bool
}

// Print renders a Program back to WhitVM source text. Output is already
// whitespace-normalized (spec.md §4.5 pass 3): one instruction per line,
// single spaces between tokens, no indentation, no blank lines.
func Print(prog *program.Program, opts PrintOpts) string {
	labelsAt := invertLabels(prog)

	var b strings.Builder
	for i, inst := range prog.Instructions {
		for _, name := range labelsAt[i] {
			fmt.Fprintf(&b, ":%s:\n", name)
		}
		b.WriteString(printInstruction(inst, opts))
		b.WriteByte('\n')
	}
	// Labels bound past the last instruction (declared at end of file).
	for _, name := range labelsAt[len(prog.Instructions)] {
		fmt.Fprintf(&b, ":%s:\n", name)
	}
	return b.String()
}

// invertLabels maps each instruction index to the (sorted) label names
// bound there, so Print can emit label declarations immediately before
// the instruction they bind to.
func invertLabels(prog *program.Program) map[int][]string {
	out := make(map[int][]string)
	for name, idx := range prog.Labels {
		out[idx] = append(out[idx], name)
	}
	for idx := range out {
		// Deterministic order regardless of map iteration.
		names := out[idx]
		for i := 1; i < len(names); i++ {
			for j := i; j > 0 && names[j-1] > names[j]; j-- {
				names[j-1], names[j] = names[j], names[j-1]
			}
		}
	}
	return out
}

func printInstruction(inst program.Instruction, opts PrintOpts) string {
	switch inst.Op {
	case program.OpSet:
		return fmt.Sprintf("set *%s* %s", inst.Dest, printOperand(inst.Value))
	case program.OpSay:
		parts := []string{"say", printOperand(inst.Val)}
		nl := printOperand(inst.Nl)
		cond := printOperand(inst.Cond)
		if opts.ElideDefaults && inst.Cond.IsDefaultCond() {
			if inst.Nl.IsDefaultCond() {
				return strings.Join(parts, " ")
			}
			return strings.Join(append(parts, nl), " ")
		}
		return strings.Join(append(parts, nl, cond), " ")
	case program.OpAsk:
		parts := []string{"ask", printOperand(inst.N)}
		if opts.ElideDefaults && inst.Cond.IsDefaultCond() {
			return strings.Join(parts, " ")
		}
		return strings.Join(append(parts, printOperand(inst.Cond)), " ")
	case program.OpJmp:
		parts := []string{"jmp", ":" + inst.Label + ":"}
		if opts.ElideDefaults && inst.Cond.IsDefaultCond() {
			return strings.Join(parts, " ")
		}
		return strings.Join(append(parts, printOperand(inst.Cond)), " ")
	case program.OpHalt:
		if opts.ElideDefaults && inst.Cond.IsDefaultCond() {
			return "halt"
		}
		return "halt " + printOperand(inst.Cond)
	default:
		return fmt.Sprintf("; unknown opcode %q", inst.Op)
	}
}

func printOperand(o program.Operand) string {
	switch o.Kind {
	case program.OLiteral:
		if o.Lit.IsInt() {
			return strconv.FormatInt(o.Lit.I, 10)
		}
		return "#" + o.Lit.S + "#"
	case program.OVarRef:
		return "*" + o.Name + "*"
	case program.OLabelRef:
		return ":" + o.Name + ":"
	case program.OExpr:
		return "(" + exprToSource(o.Expr, true) + ")"
	default:
		return "?"
	}
}

// exprToSource renders an expression tree. top suppresses the redundant
// parenthesization that would otherwise wrap every binary node: the
// enclosing Operand already supplies the one required pair of parens
// (spec.md §4.1, the `(…)` token delimiter).
func exprToSource(n eval.Node, top bool) string {
	switch v := n.(type) {
	case eval.NumberLit:
		return strconv.FormatInt(v.Value, 10)
	case eval.StringLit:
		return "#" + v.Value + "#"
	case eval.VarRef:
		return "*" + v.Name + "*"
	case eval.RNGCall:
		return "(rng " + exprToSource(v.Min, true) + " " + exprToSource(v.Max, true) + ")"
	case eval.Binary:
		s := exprToSource(v.Left, false) + " " + string(v.Op) + " " + exprToSource(v.Right, false)
		if top {
			return s
		}
		return "(" + s + ")"
	default:
		return "?"
	}
}
