package minify

import "github.com/whitvm/whitvm/program"

// compact drops the instructions at the given indices and rebuilds the
// label table so every label keeps pointing at "the instruction that
// used to be at or after" its old target — deleting a commented-out or
// dead instruction that a label happened to sit on repoints the label to
// whatever now occupies that position, exactly as if the label had been
// declared on the next surviving line.
func compact(prog *program.Program, remove map[int]bool) *program.Program {
	n := len(prog.Instructions)
	survivedBefore := make([]int, n+1)
	count := 0
	newInstructions := make([]program.Instruction, 0, n-len(remove))
	for i := 0; i < n; i++ {
		survivedBefore[i] = count
		if !remove[i] {
			count++
			newInstructions = append(newInstructions, prog.Instructions[i])
		}
	}
	survivedBefore[n] = count

	newLabels := make(map[string]int, len(prog.Labels))
	for name, idx := range prog.Labels {
		newLabels[name] = survivedBefore[idx]
	}

	return &program.Program{Instructions: newInstructions, Labels: newLabels}
}

// prepend inserts instructions at the front of prog, shifting every
// label target uniformly; used by the string-pooling pass to install
// pool initializers at the one point guaranteed to dominate every use.
func prepend(prog *program.Program, lead []program.Instruction) *program.Program {
	shift := len(lead)
	newInstructions := make([]program.Instruction, 0, shift+len(prog.Instructions))
	newInstructions = append(newInstructions, lead...)
	newInstructions = append(newInstructions, prog.Instructions...)

	newLabels := make(map[string]int, len(prog.Labels))
	for name, idx := range prog.Labels {
		newLabels[name] = idx + shift
	}
	return &program.Program{Instructions: newInstructions, Labels: newLabels}
}
