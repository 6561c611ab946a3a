/*
Package program holds WhitVM's parsed representation (spec.md §3):
Operand, Instruction, and Program. It is produced by package parser,
consumed by package vm (execution) and package minify (rewriting).
*/
package program

import (
	"github.com/whitvm/whitvm/eval"
	"github.com/whitvm/whitvm/value"
	"github.com/whitvm/whitvm/werr"
)

// OperandKind discriminates the four operand shapes of spec.md §3.
type OperandKind int

const (
	OLiteral OperandKind = iota
	OVarRef
	OExpr
	OLabelRef
)

// Operand is the parsed form of an instruction argument.
type Operand struct {
	Kind OperandKind
	Lit  value.Value // OLiteral
	Name string      // OVarRef: variable name; OLabelRef: label name
	Expr eval.Node   // OExpr
}

func Literal(v value.Value) Operand   { return Operand{Kind: OLiteral, Lit: v} }
func VarRef(name string) Operand      { return Operand{Kind: OVarRef, Name: name} }
func ExprOperand(n eval.Node) Operand { return Operand{Kind: OExpr, Expr: n} }
func LabelRef(name string) Operand    { return Operand{Kind: OLabelRef, Name: name} }

// DefaultNl and DefaultCond are the literal-1 defaults substituted for
// omitted nl_qty/condition operands (spec.md §3, §4.2).
var (
	DefaultNl   = Literal(value.Int(1))
	DefaultCond = Literal(value.Int(1))
)

// Eval resolves an operand to a runtime Value. LabelRef operands are not
// evaluable (they are consumed directly by the interpreter's jmp
// handling) and return a TypeError if evaluated.
func (o Operand) Eval(store eval.Store, rng eval.RNG, line int) (value.Value, error) {
	switch o.Kind {
	case OLiteral:
		return o.Lit, nil
	case OVarRef:
		v, ok := store.Get(o.Name)
		if !ok {
			return value.Value{}, werr.Undefined(line, o.Name)
		}
		return v, nil
	case OExpr:
		return eval.Eval(o.Expr, store, rng, line)
	default:
		return value.Value{}, werr.Type(line, "label reference is not a value operand")
	}
}

// IsDefaultCond reports whether o is the literal-1 default condition,
// used by the minifier's default-elision pass.
func (o Operand) IsDefaultCond() bool {
	return o.Kind == OLiteral && o.Lit.IsInt() && o.Lit.I == 1
}

// IsLiteralZero reports whether o is the literal-0 condition, the
// unreachable-by-construction marker used to recognize comment
// instructions (spec.md §4.5 pass 1).
func (o Operand) IsLiteralZero() bool {
	return o.Kind == OLiteral && o.Lit.IsInt() && o.Lit.I == 0
}
