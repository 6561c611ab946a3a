package eval

import (
	"github.com/whitvm/whitvm/werr"
)

type exprTokKind int

const (
	tNum exprTokKind = iota
	tStr
	tVar
	tIdent
	tLParen
	tRParen
	tOp
	tEOF
)

type exprTok struct {
	kind exprTokKind
	text string
}

// lexExpr tokenizes the raw content of a `(…)` expression token. It
// implements the `*` disambiguation rule from spec.md §4.1/§4.3: a `*`
// immediately adjacent to an identifier on both sides (no intervening
// whitespace) opens a variable reference; otherwise it is the
// multiplication operator.
func lexExpr(src string, line int) ([]exprTok, error) {
	var toks []exprTok
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, exprTok{tLParen, "("})
			i++
		case c == ')':
			toks = append(toks, exprTok{tRParen, ")"})
			i++
		case c == '#':
			end := i + 1
			for end < n && src[end] != '#' {
				end++
			}
			if end >= n {
				return nil, werr.Syntax(line, "unclosed '#' string in expression")
			}
			toks = append(toks, exprTok{tStr, src[i+1 : end]})
			i = end + 1
		case c == '*':
			if name, j, ok := scanAdjacentVar(src, i); ok {
				toks = append(toks, exprTok{tVar, name})
				i = j
			} else {
				toks = append(toks, exprTok{tOp, "*"})
				i++
			}
		case c == '=' && i+1 < n && src[i+1] == '=':
			toks = append(toks, exprTok{tOp, "=="})
			i += 2
		case c == '!' && i+1 < n && src[i+1] == '=':
			toks = append(toks, exprTok{tOp, "!="})
			i += 2
		case c == '<' && i+1 < n && src[i+1] == '=':
			toks = append(toks, exprTok{tOp, "<="})
			i += 2
		case c == '>' && i+1 < n && src[i+1] == '=':
			toks = append(toks, exprTok{tOp, ">="})
			i += 2
		case c == '<':
			toks = append(toks, exprTok{tOp, "<"})
			i++
		case c == '>':
			toks = append(toks, exprTok{tOp, ">"})
			i++
		case c == '/' || c == '%' || c == '+' || c == '-':
			toks = append(toks, exprTok{tOp, string(c)})
			i++
		case isDigit(c):
			start := i
			for i < n && isDigit(src[i]) {
				i++
			}
			toks = append(toks, exprTok{tNum, src[start:i]})
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, exprTok{tIdent, src[start:i]})
		default:
			return nil, werr.Syntax(line, "unexpected character %q in expression", c)
		}
	}
	toks = append(toks, exprTok{tEOF, ""})
	return toks, nil
}

// scanAdjacentVar attempts to read a *name* variable sigil starting at
// the '*' found at position i. It requires an identifier character
// immediately after the opening '*' and a closing '*' immediately after
// the identifier run, with no intervening whitespace on either side.
func scanAdjacentVar(src string, i int) (name string, next int, ok bool) {
	n := len(src)
	j := i + 1
	if j >= n || !isIdentStart(src[j]) {
		return "", 0, false
	}
	start := j
	for j < n && isIdentPart(src[j]) {
		j++
	}
	if j >= n || src[j] != '*' {
		return "", 0, false
	}
	return src[start:j], j + 1, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }
