/*
Package vm implements the execution engine of spec.md §4.4: the program
counter, the variable store, and the dispatch loop over the five
opcodes. Grounded on the teacher's eval.Evaluator (eval/evaluator.go,
akashmaji946/go-mix), which likewise owns a scope, a reader, and a
writer and walks a parsed program to produce effects — generalized here
from a tree-walking evaluator over a lexically-scoped AST to a
program-counter loop over a flat instruction sequence, since WhitVM has
no scopes or closures (spec.md §9, "Global variable namespace").
*/
package vm

import "github.com/whitvm/whitvm/value"

// DataStore is WhitVM's flat, mutable variable namespace (DMEM, spec.md
// GLOSSARY). Unlike the teacher's scope.Scope, there is no parent chain:
// the language has exactly one scope for the lifetime of a program.
type DataStore struct {
	vars map[string]value.Value
}

// NewDataStore returns an empty variable store.
func NewDataStore() *DataStore {
	return &DataStore{vars: make(map[string]value.Value)}
}

// Get resolves a variable reference. A read of an absent key is a fatal
// runtime error at the call site (spec.md §3) — Get itself just reports
// presence.
func (d *DataStore) Get(name string) (value.Value, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// Set writes a binding, overwriting any prior value (spec.md §4.4,
// `set`).
func (d *DataStore) Set(name string, v value.Value) {
	d.vars[name] = v
}

// Snapshot returns a copy of the current bindings, used by diagnostics
// (Interpreter.String); it does not alias the live store.
func (d *DataStore) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(d.vars))
	for k, v := range d.vars {
		out[k] = v
	}
	return out
}
