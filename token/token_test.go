package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitvm/whitvm/token"
)

func TestTokenizeKinds(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		kinds []token.Kind
		texts []string
	}{
		{
			name:  "set instruction",
			line:  "set *count* 0",
			kinds: []token.Kind{token.Word, token.VarOrExpr, token.Word},
			texts: []string{"set", "count", "0"},
		},
		{
			name:  "say with string",
			line:  "say #hello# 1 1",
			kinds: []token.Kind{token.Word, token.String, token.Word, token.Word},
			texts: []string{"say", "hello", "1", "1"},
		},
		{
			name:  "label declaration",
			line:  ":loop:",
			kinds: []token.Kind{token.Label},
			texts: []string{"loop"},
		},
		{
			name:  "jmp with label and cond expr",
			line:  "jmp :loop: (*x* > 0)",
			kinds: []token.Kind{token.Word, token.Label, token.Expr},
			texts: []string{"jmp", "loop", "*x* > 0"},
		},
		{
			name:  "nested parens captured whole",
			line:  "set *y* ((*x*+1)*2)",
			kinds: []token.Kind{token.Word, token.VarOrExpr, token.Expr},
			texts: []string{"set", "y", "(*x*+1)*2"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := token.Tokenize(c.line, 1)
			require.NoError(t, err)
			require.Len(t, toks, len(c.kinds))
			for i, tok := range toks {
				assert.Equal(t, c.kinds[i], tok.Kind, "token %d kind", i)
				assert.Equal(t, c.texts[i], tok.Text, "token %d text", i)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []string{
		"say #unterminated",
		"set *unterminated 0",
		"jmp :unterminated",
		"set *x* (unbalanced",
	}
	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			_, err := token.Tokenize(line, 1)
			assert.Error(t, err)
		})
	}
}

func TestTokenizeEmptyLine(t *testing.T) {
	toks, err := token.Tokenize("   ", 1)
	require.NoError(t, err)
	assert.Empty(t, toks)
}
