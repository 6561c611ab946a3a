package main

import "github.com/chzyer/readline"

// readlineInput adapts a *readline.Instance to vm.LineReader, giving the
// `ask` instruction history and line editing on an interactive terminal
// the same way the teacher's repl package does for its own prompt loop.
type readlineInput struct {
	rl *readline.Instance
}

func newReadlineInput() (*readlineInput, error) {
	rl, err := readline.New("> ")
	if err != nil {
		return nil, err
	}
	return &readlineInput{rl: rl}, nil
}

func (r *readlineInput) ReadLine() (string, bool) {
	line, err := r.rl.Readline()
	if err != nil {
		return "", false
	}
	return line, true
}

func (r *readlineInput) Close() error {
	return r.rl.Close()
}
