package minify

import (
	"github.com/whitvm/whitvm/eval"
)

// walkVars calls fn for every variable name referenced anywhere in node
// (used by dead-store and name-shrink analysis).
func walkVars(node eval.Node, fn func(name string)) {
	switch n := node.(type) {
	case eval.VarRef:
		fn(n.Name)
	case eval.Binary:
		walkVars(n.Left, fn)
		walkVars(n.Right, fn)
	case eval.RNGCall:
		walkVars(n.Min, fn)
		walkVars(n.Max, fn)
	}
}

// renameVarsInNode returns a copy of node with every VarRef renamed per
// mapping (names absent from mapping are left untouched).
func renameVarsInNode(node eval.Node, mapping map[string]string) eval.Node {
	switch n := node.(type) {
	case eval.VarRef:
		if to, ok := mapping[n.Name]; ok {
			return eval.VarRef{Name: to}
		}
		return n
	case eval.Binary:
		return eval.Binary{Op: n.Op, Left: renameVarsInNode(n.Left, mapping), Right: renameVarsInNode(n.Right, mapping)}
	case eval.RNGCall:
		return eval.RNGCall{Min: renameVarsInNode(n.Min, mapping), Max: renameVarsInNode(n.Max, mapping)}
	default:
		return node
	}
}

// foldConstants returns a copy of node with every fully-constant subtree
// (spec.md §4.5 pass 5: no VarRef, no RNGCall anywhere beneath it)
// replaced by its literal leaf, folded bottom-up so partially-constant
// trees ("1 + 2 + *x*") still fold their constant half ("3 + *x*").
func foldConstants(node eval.Node) eval.Node {
	switch n := node.(type) {
	case eval.Binary:
		left := foldConstants(n.Left)
		right := foldConstants(n.Right)
		folded := eval.Binary{Op: n.Op, Left: left, Right: right}
		if eval.IsConstant(left) && eval.IsConstant(right) {
			if v, err := eval.EvalConstant(folded); err == nil {
				if v.IsInt() {
					return eval.NumberLit{Value: v.I}
				}
				return eval.StringLit{Value: v.S}
			}
		}
		return folded
	case eval.RNGCall:
		// rng is never constant-foldable itself, but its bounds can be.
		return eval.RNGCall{Min: foldConstants(n.Min), Max: foldConstants(n.Max)}
	default:
		return node
	}
}

// collectStringLits calls fn for every #…# literal (StringLit leaf)
// reachable from node, recursing through Binary operands and rng bounds.
func collectStringLits(node eval.Node, fn func(s string)) {
	switch n := node.(type) {
	case eval.StringLit:
		fn(n.Value)
	case eval.Binary:
		collectStringLits(n.Left, fn)
		collectStringLits(n.Right, fn)
	case eval.RNGCall:
		collectStringLits(n.Min, fn)
		collectStringLits(n.Max, fn)
	}
}

// replaceStringLit returns a copy of node with every StringLit leaf equal
// to target replaced by a reference to variable name.
func replaceStringLit(node eval.Node, target, varName string) eval.Node {
	switch n := node.(type) {
	case eval.StringLit:
		if n.Value == target {
			return eval.VarRef{Name: varName}
		}
		return n
	case eval.Binary:
		return eval.Binary{Op: n.Op, Left: replaceStringLit(n.Left, target, varName), Right: replaceStringLit(n.Right, target, varName)}
	case eval.RNGCall:
		return eval.RNGCall{Min: replaceStringLit(n.Min, target, varName), Max: replaceStringLit(n.Max, target, varName)}
	default:
		return node
	}
}
