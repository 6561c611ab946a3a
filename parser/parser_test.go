package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitvm/whitvm/parser"
	"github.com/whitvm/whitvm/program"
)

func TestParseSimpleProgram(t *testing.T) {
	src := "set *i* 0\n:loop:\nsay *i* 1 1\nset *i* (*i*+1)\njmp :loop: (*i* < 3)\nhalt\n"
	p := parser.NewParser(src)
	prog, err := p.Parse()
	require.NoError(t, err)
	require.False(t, p.HasErrors())
	assert.Equal(t, 5, prog.Len())
	assert.Equal(t, 1, prog.Labels["loop"])
}

func TestParseTrailingLabelResolvesPastEnd(t *testing.T) {
	src := "say #done# 1 1\n:end:\n"
	p := parser.NewParser(src)
	prog, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Labels["end"])
}

func TestParseDuplicateLabelIsError(t *testing.T) {
	src := ":a:\nsay #x# 1 1\n:a:\nhalt\n"
	p := parser.NewParser(src)
	_, err := p.Parse()
	assert.Error(t, err)
	assert.True(t, p.HasErrors())
}

func TestParseUndeclaredJumpTargetIsError(t *testing.T) {
	src := "jmp :nowhere:\n"
	p := parser.NewParser(src)
	_, err := p.Parse()
	assert.Error(t, err)
}

func TestParseAskZeroIsRejected(t *testing.T) {
	src := "ask 0\n"
	p := parser.NewParser(src)
	_, err := p.Parse()
	assert.Error(t, err)
}

func TestParseAskArity(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"one operand ok", "ask 3\n", false},
		{"two operands ok", "ask 3 (*flag*)\n", false},
		{"zero operands is error", "ask\n", true},
		{"three operands is error", "ask 3 1 1\n", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parser.NewParser(c.src).Parse()
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSetRejectsLabelValue(t *testing.T) {
	src := "set *x* :somewhere:\n"
	_, err := parser.NewParser(src).Parse()
	assert.Error(t, err)
}

func TestParseSetRequiresVarDestination(t *testing.T) {
	src := "set 5 1\n"
	_, err := parser.NewParser(src).Parse()
	assert.Error(t, err)
}

func TestParseSayDefaults(t *testing.T) {
	prog, err := parser.NewParser("say #hi#\n").Parse()
	require.NoError(t, err)
	require.Equal(t, 1, prog.Len())
	inst := prog.Instructions[0]
	assert.True(t, inst.Nl.IsDefaultCond())
	assert.True(t, inst.Cond.IsDefaultCond())
}

func TestParseJmpRequiresLabelOperand(t *testing.T) {
	_, err := parser.NewParser("jmp *notalabel*\n").Parse()
	assert.Error(t, err)
}

func TestOperandSitesRejectLabelReferenceAtLoadTime(t *testing.T) {
	cases := []string{
		"say :somewhere: 1 1\n",
		"say #x# :somewhere: 1\n",
		"say #x# 1 :somewhere:\n",
		"ask :somewhere:\n",
		"ask 2 :somewhere:\n",
		"jmp :a: :somewhere:\n:a:\n",
		"halt :somewhere:\n",
	}
	for _, src := range cases {
		_, err := parser.NewParser(src).Parse()
		assert.Error(t, err, "a label reference in a non-jmp-target operand must be a load-time error:\n%s", src)
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	src := "ask 0\njmp :missing:\nset 5 1\n"
	p := parser.NewParser(src)
	_, err := p.Parse()
	assert.Error(t, err)
	assert.GreaterOrEqual(t, len(p.GetErrors()), 3)
}

func TestParseBlankLinesIgnored(t *testing.T) {
	src := "\n\nhalt\n\n"
	prog, err := parser.NewParser(src).Parse()
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Len())
}

func TestParseExprOperand(t *testing.T) {
	prog, err := parser.NewParser("set *x* ((*x*)+1)\n").Parse()
	require.NoError(t, err)
	inst := prog.Instructions[0]
	assert.Equal(t, program.OExpr, inst.Value.Kind)
}
