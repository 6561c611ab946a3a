/*
Package token implements WhitVM's line tokenizer (spec.md §4.1): it splits
one logical source line into a sequence of typed lexemes, disambiguating
the four overlapping sigils `#…#`, `*…*`, `:…:`, `(…)` by their opening
delimiter alone — the `*` operator/sigil ambiguity lives one layer down,
inside the expression grammar (see package eval), not here.

Grounded on the delimiter-driven scanning style of the teacher's
lexer/lexer.go (akashmaji946/go-mix), adapted from a single-character
operator switch to a delimiter-matching scanner since WhitVM tokens are
bracketed spans rather than punctuation.
*/
package token

import (
	"github.com/whitvm/whitvm/werr"
)

// Kind identifies a token's lexical class.
type Kind int

const (
	// Word is a bare identifier or number, terminated by whitespace or
	// the start of any delimiter.
	Word Kind = iota
	// String is #…# — a string literal, captured verbatim, no escapes.
	String
	// VarOrExpr is *…* — a variable reference at the top level.
	VarOrExpr
	// Expr is (…) — a parenthesized expression, nesting-aware.
	Expr
	// Label is :…: — a label declaration or reference.
	Label
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case String:
		return "String"
	case VarOrExpr:
		return "VarOrExpr"
	case Expr:
		return "Expr"
	case Label:
		return "Label"
	default:
		return "Unknown"
	}
}

// Token is one lexeme plus its source extent, used for diagnostics.
type Token struct {
	Kind Kind
	// Text is the token's payload: for Word, the literal text; for the
	// delimited kinds, the content strictly between the delimiters
	// (verbatim, no escape processing).
	Text string
	Line int
	Col  int // 1-indexed column of the opening character
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func isDelimStart(b byte) bool {
	return b == '#' || b == '*' || b == ':' || b == '('
}

// Tokenize splits one logical source line into its top-level tokens.
func Tokenize(line string, lineNo int) ([]Token, error) {
	var toks []Token
	i := 0
	n := len(line)
	for i < n {
		if isSpace(line[i]) {
			i++
			continue
		}
		col := i + 1
		switch line[i] {
		case '#':
			end := indexFrom(line, i+1, '#')
			if end < 0 {
				return nil, werr.Syntax(lineNo, "unclosed '#' string starting at column %d", col)
			}
			toks = append(toks, Token{Kind: String, Text: line[i+1 : end], Line: lineNo, Col: col})
			i = end + 1
		case ':':
			end := indexFrom(line, i+1, ':')
			if end < 0 {
				return nil, werr.Syntax(lineNo, "unclosed ':' label starting at column %d", col)
			}
			toks = append(toks, Token{Kind: Label, Text: line[i+1 : end], Line: lineNo, Col: col})
			i = end + 1
		case '*':
			end := indexFrom(line, i+1, '*')
			if end < 0 {
				return nil, werr.Syntax(lineNo, "unclosed '*' variable starting at column %d", col)
			}
			toks = append(toks, Token{Kind: VarOrExpr, Text: line[i+1 : end], Line: lineNo, Col: col})
			i = end + 1
		case '(':
			end, err := matchParen(line, i, lineNo)
			if err != nil {
				return nil, err
			}
			toks = append(toks, Token{Kind: Expr, Text: line[i+1 : end], Line: lineNo, Col: col})
			i = end + 1
		default:
			start := i
			for i < n && !isSpace(line[i]) && !isDelimStart(line[i]) {
				i++
			}
			if i == start {
				// A delimiter start character was seen by isDelimStart
				// but not handled above — unreachable given the switch
				// covers every isDelimStart character, but guard against
				// an infinite loop regardless.
				i++
				continue
			}
			toks = append(toks, Token{Kind: Word, Text: line[start:i], Line: lineNo, Col: start + 1})
		}
	}
	return toks, nil
}

// indexFrom returns the index of the next occurrence of b at or after
// from, or -1 if absent.
func indexFrom(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// matchParen finds the index of the ')' matching the '(' at position
// open, tracking nesting depth so inner (…) do not close the outer
// expression.
func matchParen(line string, open, lineNo int) (int, error) {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, werr.Syntax(lineNo, "unbalanced '(' starting at column %d", open+1)
}
