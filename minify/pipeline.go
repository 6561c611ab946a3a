package minify

import (
	"fmt"

	"github.com/whitvm/whitvm/parser"
	"github.com/whitvm/whitvm/program"
)

// maxFixpointRounds bounds the dead-store/unreachable-code fixpoint loop:
// each round can only shrink the program, so it terminates well before
// this in practice, but a hard cap keeps a pathological input from
// spinning.
const maxFixpointRounds = 50

// Minify parses src, applies the always-on passes and every pass cfg
// enables, and serializes the result back to source text (spec.md §4.5).
// It returns an error if src fails to parse, or if the rewritten program
// fails to reparse — the pipeline's own correctness check.
func Minify(src string, cfg *Config) (string, error) {
	prog, err := parser.NewParser(src).Parse()
	if err != nil {
		return "", fmt.Errorf("minify: input does not parse: %w", err)
	}

	prog = passCommentRemoval(prog, computeProtection(prog))

	if cfg.ConstantFold {
		prog = passConstantFold(prog)
	}

	// Dead-store/unreachable-code elimination must run before string
	// pooling: pooling hoists a repeated literal into a new set at pc 0
	// and rewrites every occurrence to read it, which turns what would
	// have been dead-store-eliminated into a live pool variable read —
	// worse than the unpooled original (spec.md §9 Design Notes).
	if cfg.DeadStore || cfg.UnreachableCode {
		prog = runFixpoint(prog, cfg)
	}

	if cfg.StringPool {
		threshold := cfg.StringPoolThreshold
		if threshold <= 0 {
			threshold = 2
		}
		prog = passStringPool(prog, threshold)
		if cfg.DeadStore || cfg.UnreachableCode {
			prog = runFixpoint(prog, cfg)
		}
	}

	if cfg.NameShrink {
		prog = passNameShrink(prog)
	}

	out := Print(prog, PrintOpts{ElideDefaults: true})

	if _, err := parser.NewParser(out).Parse(); err != nil {
		return "", fmt.Errorf("minify: rewritten program does not reparse: %w", err)
	}
	return out, nil
}

// runFixpoint alternates dead-store and unreachable-code elimination
// until a round removes nothing: eliminating a dead store can orphan the
// code that used to read it (if that code is otherwise unreached), and
// eliminating unreachable code can turn a previously-live store dead.
func runFixpoint(prog *program.Program, cfg *Config) *program.Program {
	for round := 0; round < maxFixpointRounds; round++ {
		before := len(prog.Instructions)
		prot := computeProtection(prog)
		if !prot.safe {
			return prog
		}
		if cfg.DeadStore {
			prog = passDeadStoreElim(prog, prot)
			prot = computeProtection(prog)
		}
		if cfg.UnreachableCode {
			prog = passUnreachableElim(prog, prot)
		}
		if len(prog.Instructions) == before {
			break
		}
	}
	return prog
}
