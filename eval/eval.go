package eval

import (
	"github.com/whitvm/whitvm/value"
	"github.com/whitvm/whitvm/werr"
)

// Store resolves variable references during evaluation. vm.DataStore
// implements this.
type Store interface {
	Get(name string) (value.Value, bool)
}

// RNG is the minimal surface the `rng` builtin needs. *rand.Rand from
// math/rand/v2 satisfies it directly (structural typing — no adapter
// needed), matching the teacher's std/math.go `rand.Int63n` PRNG idiom
// ported to the v2 API.
type RNG interface {
	Int64N(n int64) int64
}

// Eval evaluates a parsed expression tree against a variable store and
// PRNG, implementing the semantics of spec.md §4.3. line is used to
// attribute errors to the instruction being evaluated (expression trees
// themselves carry no position once parsed).
func Eval(node Node, store Store, rng RNG, line int) (value.Value, error) {
	switch n := node.(type) {
	case NumberLit:
		return value.Int(n.Value), nil
	case StringLit:
		return value.Text(n.Value), nil
	case VarRef:
		v, ok := store.Get(n.Name)
		if !ok {
			return value.Value{}, werr.Undefined(line, n.Name)
		}
		return v, nil
	case RNGCall:
		return evalRNG(n, store, rng, line)
	case Binary:
		return evalBinary(n, store, rng, line)
	default:
		return value.Value{}, werr.Type(line, "unevaluable expression node %T", node)
	}
}

func evalRNG(n RNGCall, store Store, rng RNG, line int) (value.Value, error) {
	minV, err := Eval(n.Min, store, rng, line)
	if err != nil {
		return value.Value{}, err
	}
	maxV, err := Eval(n.Max, store, rng, line)
	if err != nil {
		return value.Value{}, err
	}
	min, max, err := asIntPair(minV, maxV, line)
	if err != nil {
		return value.Value{}, err
	}
	if min > max {
		return value.Value{}, werr.RangeErr(line, "rng: min (%d) > max (%d)", min, max)
	}
	if rng == nil {
		return value.Value{}, werr.Type(line, "rng called without a PRNG bound")
	}
	return value.Int(min + rng.Int64N(max-min+1)), nil
}

func evalBinary(n Binary, store Store, rng RNG, line int) (value.Value, error) {
	left, err := Eval(n.Left, store, rng, line)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(n.Right, store, rng, line)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case Mul, Div, Mod, Add, Sub:
		a, b, err := asIntPair(left, right, line)
		if err != nil {
			return value.Value{}, err
		}
		return evalArith(n.Op, a, b, line)
	case Eq:
		return value.Bool(value.Equal(left, right)), nil
	case Ne:
		return value.Bool(!value.Equal(left, right)), nil
	case Lt, Gt, Le, Ge:
		return evalOrder(n.Op, left, right, line)
	default:
		return value.Value{}, werr.Type(line, "unknown operator %q", n.Op)
	}
}

// asIntPair coerces both operands to integers per the arithmetic-context
// coercion rule (spec.md §4.3): a string that parses as an integer is
// coerced; anything else is a fatal TypeError.
func asIntPair(left, right value.Value, line int) (int64, int64, error) {
	a, ok := left.AsInt()
	if !ok {
		return 0, 0, werr.Type(line, "operand %s is not an integer and does not coerce to one", left)
	}
	b, ok := right.AsInt()
	if !ok {
		return 0, 0, werr.Type(line, "operand %s is not an integer and does not coerce to one", right)
	}
	return a.I, b.I, nil
}

func evalArith(op Op, a, b int64, line int) (value.Value, error) {
	switch op {
	case Mul:
		return value.Int(a * b), nil
	case Div:
		if b == 0 {
			return value.Value{}, werr.DivZero(line, "division by zero")
		}
		return value.Int(floorDiv(a, b)), nil
	case Mod:
		if b == 0 {
			return value.Value{}, werr.DivZero(line, "modulo by zero")
		}
		return value.Int(floorMod(a, b)), nil
	case Add:
		return value.Int(a + b), nil
	case Sub:
		return value.Int(a - b), nil
	default:
		return value.Value{}, werr.Type(line, "unknown arithmetic operator %q", op)
	}
}

// floorDiv and floorMod implement spec.md §8's "integer division floors"
// rule: the quotient rounds toward -∞, not toward zero, matching the
// Python semantics of the spec's original (floor(-7,2) = -4, rem 1).
// Go's native / and % truncate toward zero, so they differ from this
// whenever the operands have opposite signs and don't divide evenly.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

// evalOrder implements ordering comparisons: numeric for two integers,
// lexicographic for two strings, fatal for mixed kinds (spec.md §4.3).
func evalOrder(op Op, left, right value.Value, line int) (value.Value, error) {
	if left.Kind != right.Kind {
		return value.Value{}, werr.Type(line, "cannot order %s against %s: mismatched kinds", left, right)
	}
	var cmp int
	if left.IsInt() {
		switch {
		case left.I < right.I:
			cmp = -1
		case left.I > right.I:
			cmp = 1
		}
	} else {
		switch {
		case left.S < right.S:
			cmp = -1
		case left.S > right.S:
			cmp = 1
		}
	}
	switch op {
	case Lt:
		return value.Bool(cmp < 0), nil
	case Gt:
		return value.Bool(cmp > 0), nil
	case Le:
		return value.Bool(cmp <= 0), nil
	case Ge:
		return value.Bool(cmp >= 0), nil
	default:
		return value.Value{}, werr.Type(line, "unknown ordering operator %q", op)
	}
}

// EvalConstant evaluates an expression known to be constant (IsConstant
// reports true): no variable store or PRNG is needed since the tree
// contains neither VarRef nor RNGCall. Used by the minifier's
// constant-folding pass.
func EvalConstant(node Node) (value.Value, error) {
	return Eval(node, nilStore{}, nil, 0)
}

type nilStore struct{}

func (nilStore) Get(string) (value.Value, bool) { return value.Value{}, false }
