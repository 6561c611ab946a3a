package minify

import "github.com/whitvm/whitvm/program"

// passCommentRemoval drops `say val nl 0` instructions: a literal-zero
// condition makes the say unconditionally skip, which is WhitVM's only
// comment convention (spec.md §4.5 pass 1). A comment instruction that
// happens to be one of an ask's dispatch targets is left in place —
// removing it would shift every option after it.
func passCommentRemoval(prog *program.Program, prot protection) *program.Program {
	remove := make(map[int]bool)
	for i, inst := range prog.Instructions {
		if inst.Op != program.OpSay {
			continue
		}
		if !inst.Cond.IsLiteralZero() {
			continue
		}
		if prot.isLocked(i) {
			continue
		}
		remove[i] = true
	}
	if len(remove) == 0 {
		return prog
	}
	return compact(prog, remove)
}
