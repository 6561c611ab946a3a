package eval

import (
	"strconv"

	"github.com/whitvm/whitvm/werr"
)

// exprParser is a recursive-descent, precedence-climbing parser over the
// token stream produced by lexExpr, implementing the grammar of spec.md
// §4.3 (tightest first: multiplicative, additive, relational).
type exprParser struct {
	toks []exprTok
	pos  int
	line int
}

// ParseExpr parses the raw content of a `(…)` expression token (with the
// outer parens already stripped by package token) into an expression
// tree.
func ParseExpr(src string, line int) (Node, error) {
	toks, err := lexExpr(src, line)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks, line: line}
	node, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tEOF {
		return nil, werr.Syntax(line, "unexpected trailing token %q in expression", p.cur().text)
	}
	return node, nil
}

func (p *exprParser) cur() exprTok { return p.toks[p.pos] }
func (p *exprParser) advance()     { p.pos++ }
func (p *exprParser) isOp(ops ...string) bool {
	if p.cur().kind != tOp {
		return false
	}
	for _, o := range ops {
		if p.cur().text == o {
			return true
		}
	}
	return false
}

func (p *exprParser) parseRelational() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.isOp("==", "!=", "<", ">", "<=", ">=") {
		op := Op(p.cur().text)
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := Op(p.cur().text)
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseMultiplicative() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/", "%") {
		op := Op(p.cur().text)
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (Node, error) {
	t := p.cur()
	switch t.kind {
	case tOp:
		if t.text != "-" {
			return nil, werr.Syntax(p.line, "unexpected operator %q in expression", t.text)
		}
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return Binary{Op: Sub, Left: NumberLit{Value: 0}, Right: operand}, nil
	case tNum:
		p.advance()
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, werr.Syntax(p.line, "invalid integer literal %q", t.text)
		}
		return NumberLit{Value: i}, nil
	case tStr:
		p.advance()
		return StringLit{Value: t.text}, nil
	case tVar:
		p.advance()
		return VarRef{Name: t.text}, nil
	case tLParen:
		p.advance()
		if p.cur().kind == tIdent && p.cur().text == "rng" {
			p.advance()
			min, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			max, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			if p.cur().kind != tRParen {
				return nil, werr.Syntax(p.line, "expected ')' closing rng call")
			}
			p.advance()
			return RNGCall{Min: min, Max: max}, nil
		}
		inner, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tRParen {
			return nil, werr.Syntax(p.line, "expected ')' closing subexpression")
		}
		p.advance()
		return inner, nil
	default:
		return nil, werr.Syntax(p.line, "unexpected token in expression")
	}
}
