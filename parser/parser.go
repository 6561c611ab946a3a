/*
Package parser implements spec.md §4.2: it converts tokenized source
lines into a program.Program across three passes — line classification,
label resolution, and operand typing — collecting every error it finds
along the way rather than stopping at the first one, in the style of the
teacher's parser.Parser (parser/parser.go, akashmaji946/go-mix) which
exposes HasErrors()/GetErrors() so a caller can report every problem in
one pass instead of a fix-one-rerun loop.
*/
package parser

import (
	"strconv"
	"strings"

	"github.com/whitvm/whitvm/eval"
	"github.com/whitvm/whitvm/program"
	"github.com/whitvm/whitvm/token"
	"github.com/whitvm/whitvm/value"
	"github.com/whitvm/whitvm/werr"
)

var opcodes = map[string]program.Opcode{
	"set":  program.OpSet,
	"say":  program.OpSay,
	"ask":  program.OpAsk,
	"jmp":  program.OpJmp,
	"halt": program.OpHalt,
}

// Parser holds the accumulated state of a load-and-validate pass.
type Parser struct {
	src  string
	errs []error
}

// NewParser constructs a Parser over WhitVM source text.
func NewParser(src string) *Parser {
	return &Parser{src: src}
}

// HasErrors reports whether the most recent Parse() found any error.
func (p *Parser) HasErrors() bool { return len(p.errs) > 0 }

// GetErrors returns every error found during the most recent Parse().
func (p *Parser) GetErrors() []error { return p.errs }

// Parse runs all three passes and returns the resulting Program. If any
// pass recorded an error, Parse returns nil and the first error; the
// full list is available from GetErrors().
func (p *Parser) Parse() (*program.Program, error) {
	p.errs = nil
	prog := program.New()

	lines := strings.Split(p.src, "\n")
	var pendingLabels []string

	for i, rawLine := range lines {
		lineNo := i + 1
		if strings.TrimSpace(rawLine) == "" {
			continue
		}

		toks, err := token.Tokenize(rawLine, lineNo)
		if err != nil {
			p.errs = append(p.errs, err)
			continue
		}
		if len(toks) == 0 {
			continue
		}

		if len(toks) == 1 && toks[0].Kind == token.Label {
			name := toks[0].Text
			if _, dup := prog.Labels[name]; dup {
				p.errs = append(p.errs, werr.Label(lineNo, name, "duplicate label declaration"))
				continue
			}
			if containsString(pendingLabels, name) {
				p.errs = append(p.errs, werr.Label(lineNo, name, "duplicate label declaration"))
				continue
			}
			pendingLabels = append(pendingLabels, name)
			continue
		}

		first := toks[0]
		if first.Kind != token.Word {
			p.errs = append(p.errs, werr.Syntax(lineNo, "expected an opcode, got %s", first.Kind))
			continue
		}
		op, ok := opcodes[first.Text]
		if !ok {
			p.errs = append(p.errs, werr.Syntax(lineNo, "unrecognized opcode %q", first.Text))
			continue
		}

		inst, err := parseInstruction(op, lineNo, toks[1:])
		if err != nil {
			p.errs = append(p.errs, err)
			continue
		}

		for _, name := range pendingLabels {
			prog.Labels[name] = len(prog.Instructions)
		}
		pendingLabels = nil
		prog.Instructions = append(prog.Instructions, inst)
	}

	// A label with nothing following it resolves to the past-the-end
	// index, a valid pc value (spec.md §3 invariants).
	for _, name := range pendingLabels {
		if _, dup := prog.Labels[name]; !dup {
			prog.Labels[name] = len(prog.Instructions)
		}
	}

	// Label resolution totality (spec.md §3 invariants): every jmp
	// target must resolve.
	for _, inst := range prog.Instructions {
		if inst.Op == program.OpJmp {
			if _, ok := prog.Labels[inst.Label]; !ok {
				p.errs = append(p.errs, werr.Label(inst.Line, inst.Label, "jump to undeclared label"))
			}
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	return prog, nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func parseInstruction(op program.Opcode, line int, args []token.Token) (program.Instruction, error) {
	switch op {
	case program.OpSet:
		return parseSet(line, args)
	case program.OpSay:
		return parseSay(line, args)
	case program.OpAsk:
		return parseAsk(line, args)
	case program.OpJmp:
		return parseJmp(line, args)
	case program.OpHalt:
		return parseHalt(line, args)
	default:
		return program.Instruction{}, werr.Syntax(line, "unreachable opcode %q", op)
	}
}

func parseSet(line int, args []token.Token) (program.Instruction, error) {
	if len(args) != 2 {
		return program.Instruction{}, werr.Arity(line, "set requires exactly 2 operands, got %d", len(args))
	}
	if args[0].Kind != token.VarOrExpr {
		return program.Instruction{}, werr.Arity(line, "set destination must be a *variable*")
	}
	val, err := operandFrom(args[1], line)
	if err != nil {
		return program.Instruction{}, err
	}
	if val.Kind == program.OLabelRef {
		return program.Instruction{}, werr.Arity(line, "set value cannot be a label reference")
	}
	return program.Instruction{Op: program.OpSet, Line: line, Dest: args[0].Text, Value: val}, nil
}

func parseSay(line int, args []token.Token) (program.Instruction, error) {
	if len(args) < 1 || len(args) > 3 {
		return program.Instruction{}, werr.Arity(line, "say takes 1-3 operands, got %d", len(args))
	}
	val, err := operandFrom(args[0], line)
	if err != nil {
		return program.Instruction{}, err
	}
	if val.Kind == program.OLabelRef {
		return program.Instruction{}, werr.Arity(line, "say value cannot be a label reference")
	}
	inst := program.Instruction{Op: program.OpSay, Line: line, Val: val, Nl: program.DefaultNl, Cond: program.DefaultCond}
	if len(args) >= 2 {
		nl, err := operandFrom(args[1], line)
		if err != nil {
			return program.Instruction{}, err
		}
		if nl.Kind == program.OLabelRef {
			return program.Instruction{}, werr.Arity(line, "say nl_qty cannot be a label reference")
		}
		inst.Nl = nl
	}
	if len(args) == 3 {
		cond, err := operandFrom(args[2], line)
		if err != nil {
			return program.Instruction{}, err
		}
		if cond.Kind == program.OLabelRef {
			return program.Instruction{}, werr.Arity(line, "say condition cannot be a label reference")
		}
		inst.Cond = cond
	}
	return inst, nil
}

func parseAsk(line int, args []token.Token) (program.Instruction, error) {
	if len(args) < 1 || len(args) > 2 {
		return program.Instruction{}, werr.Arity(line, "ask takes 1-2 operands, got %d", len(args))
	}
	n, err := operandFrom(args[0], line)
	if err != nil {
		return program.Instruction{}, err
	}
	if n.Kind == program.OLabelRef {
		return program.Instruction{}, werr.Arity(line, "ask n cannot be a label reference")
	}
	if n.Kind == program.OLiteral && n.Lit.IsInt() && n.Lit.I == 0 {
		return program.Instruction{}, werr.Arity(line, "ask 0 is not permitted")
	}
	inst := program.Instruction{Op: program.OpAsk, Line: line, N: n, Cond: program.DefaultCond}
	if len(args) == 2 {
		cond, err := operandFrom(args[1], line)
		if err != nil {
			return program.Instruction{}, err
		}
		if cond.Kind == program.OLabelRef {
			return program.Instruction{}, werr.Arity(line, "ask condition cannot be a label reference")
		}
		inst.Cond = cond
	}
	return inst, nil
}

func parseJmp(line int, args []token.Token) (program.Instruction, error) {
	if len(args) < 1 || len(args) > 2 {
		return program.Instruction{}, werr.Arity(line, "jmp takes 1-2 operands, got %d", len(args))
	}
	if args[0].Kind != token.Label {
		return program.Instruction{}, werr.Arity(line, "jmp target must be a :label:")
	}
	inst := program.Instruction{Op: program.OpJmp, Line: line, Label: args[0].Text, Cond: program.DefaultCond}
	if len(args) == 2 {
		cond, err := operandFrom(args[1], line)
		if err != nil {
			return program.Instruction{}, err
		}
		if cond.Kind == program.OLabelRef {
			return program.Instruction{}, werr.Arity(line, "jmp condition cannot be a label reference")
		}
		inst.Cond = cond
	}
	return inst, nil
}

func parseHalt(line int, args []token.Token) (program.Instruction, error) {
	if len(args) > 1 {
		return program.Instruction{}, werr.Arity(line, "halt takes 0-1 operands, got %d", len(args))
	}
	inst := program.Instruction{Op: program.OpHalt, Line: line, Cond: program.DefaultCond}
	if len(args) == 1 {
		cond, err := operandFrom(args[0], line)
		if err != nil {
			return program.Instruction{}, err
		}
		if cond.Kind == program.OLabelRef {
			return program.Instruction{}, werr.Arity(line, "halt condition cannot be a label reference")
		}
		inst.Cond = cond
	}
	return inst, nil
}

// operandFrom converts one source token into a parsed Operand (spec.md
// §3), rejecting ask-as-operand forms at parse time rather than at
// runtime (spec.md §9, Open Questions).
func operandFrom(t token.Token, line int) (program.Operand, error) {
	switch t.Kind {
	case token.Word:
		i, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return program.Operand{}, werr.Syntax(line, "expected an integer literal, got %q", t.Text)
		}
		return program.Literal(value.Int(i)), nil
	case token.String:
		return program.Literal(value.Text(t.Text)), nil
	case token.VarOrExpr:
		return program.VarRef(t.Text), nil
	case token.Expr:
		node, err := eval.ParseExpr(t.Text, line)
		if err != nil {
			return program.Operand{}, err
		}
		return program.ExprOperand(node), nil
	case token.Label:
		return program.LabelRef(t.Text), nil
	default:
		return program.Operand{}, werr.Syntax(line, "unexpected token kind %s", t.Kind)
	}
}
