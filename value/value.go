/*
Package value defines WhitVM's runtime data model: a tagged scalar that is
either a signed integer or an opaque byte string, mirroring the
objects.GoMixObject sum-type pattern (objects/objects.go in the teacher
interpreter) but collapsed to WhitVM's two-kind data model (spec.md §3).
*/
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies a Value's tag.
type Kind string

const (
	IntegerKind Kind = "int"
	TextKind    Kind = "text"
)

// Value is a tagged scalar: exactly one of Integer or Text is meaningful,
// selected by Kind. There is no pointer-to-interface indirection — the
// language has exactly two shapes of data, so a small tagged struct beats
// the allocation and type-assertion overhead of an interface per value.
type Value struct {
	Kind Kind
	I    int64
	S    string
}

// Int constructs an Integer value.
func Int(i int64) Value { return Value{Kind: IntegerKind, I: i} }

// Text constructs a Text value.
func Text(s string) Value { return Value{Kind: TextKind, S: s} }

// True and False are the canonical boolean encodings (spec.md §3: booleans
// are the integers 1 and 0).
var (
	True  = Int(1)
	False = Int(0)
)

// Bool encodes a Go bool as the canonical Integer(1)/Integer(0).
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsInt and IsText report the value's tag.
func (v Value) IsInt() bool  { return v.Kind == IntegerKind }
func (v Value) IsText() bool { return v.Kind == TextKind }

// Truthy implements the boolean-context rule (spec.md §4.3): the integer
// 0 is false, any other integer is true; strings are truthy iff non-empty.
func (v Value) Truthy() bool {
	if v.IsInt() {
		return v.I != 0
	}
	return v.S != ""
}

// Render renders the value as it is written to program output by `say`:
// integers in decimal, strings as their raw bytes (spec.md §4.4).
func (v Value) Render() string {
	if v.IsInt() {
		return strconv.FormatInt(v.I, 10)
	}
	return v.S
}

// String implements fmt.Stringer for diagnostics and pretty-printing; it
// is never used for `say` output (use Render for that).
func (v Value) String() string {
	if v.IsInt() {
		return strconv.FormatInt(v.I, 10)
	}
	return fmt.Sprintf("#%s#", v.S)
}

// AsInt coerces a string that parses as a base-10 integer into an integer
// Value, per the arithmetic-context coercion rule in spec.md §4.3. An
// Integer is returned unchanged with ok true; ok is false only for a
// non-parseable string.
func (v Value) AsInt() (Value, bool) {
	if v.IsInt() {
		return v, true
	}
	i, err := strconv.ParseInt(v.S, 10, 64)
	if err != nil {
		return v, false
	}
	return Int(i), true
}

// Equal implements the language's equality semantics (spec.md §4.3):
// mixed-kind operands are never equal; same-kind operands compare by
// value.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.IsInt() {
		return a.I == b.I
	}
	return a.S == b.S
}
