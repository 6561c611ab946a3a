package minify_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitvm/whitvm/minify"
	"github.com/whitvm/whitvm/parser"
	"github.com/whitvm/whitvm/vm"
)

func runProgram(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.NewParser(src).Parse()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, vm.New(prog, noInput{}, &out, nil).Run())
	return out.String()
}

type noInput struct{}

func (noInput) ReadLine() (string, bool) { return "", false }

func allPasses() *minify.Config { return minify.DefaultConfig() }

func noPasses() *minify.Config {
	return &minify.Config{StringPoolThreshold: 2}
}

func TestMinifyPreservesObservableOutput(t *testing.T) {
	srcs := []string{
		"set *i* 0\n:loop:\nsay *i* 1 1\nset *i* (*i*+1)\njmp :loop: (*i* < 3)\nhalt\n",
		"set *greeting* #hello#\nsay *greeting* 1 1\nsay #hello# 1 1\nsay #hello# 1 1\n",
		"set *unused* 1\nset *unused* 2\nsay #done# 1 1\n",
		"say #reached# 1 1\nhalt\nsay #dead# 1 1\n",
	}
	for _, src := range srcs {
		before := runProgram(t, src)
		out, err := minify.Minify(src, allPasses())
		require.NoError(t, err)
		after := runProgram(t, out)
		assert.Equal(t, before, after, "minified program for %q must behave identically:\n%s", src, out)
	}
}

func TestMinifyCommentRemoval(t *testing.T) {
	src := "say #a note# 0 0\nsay #real# 1 1\n"
	out, err := minify.Minify(src, noPasses())
	require.NoError(t, err)
	assert.NotContains(t, out, "a note")
	assert.Contains(t, out, "real")
}

func TestMinifyCommentRemovalProtectsAskDispatchSlot(t *testing.T) {
	// The comment-shaped instruction at pc+1 is also ask 1's sole dispatch
	// target: it must survive even though its condition is literal 0.
	src := "ask 1\nsay #comment shaped# 1 0\nsay #after# 1 1\n"
	out, err := minify.Minify(src, noPasses())
	require.NoError(t, err)
	reparsed, err := parser.NewParser(out).Parse()
	require.NoError(t, err)
	assert.Equal(t, 3, reparsed.Len(), "ask's dispatch slot must not be deleted:\n%s", out)
}

func TestMinifyConstantFolding(t *testing.T) {
	src := "say (1+2*3) 1 1\n"
	cfg := noPasses()
	cfg.ConstantFold = true
	out, err := minify.Minify(src, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "say 7")
}

func TestMinifyStringPoolingDeduplicates(t *testing.T) {
	src := "say #same# 1 1\nsay #same# 1 1\nsay #same# 1 1\n"
	cfg := noPasses()
	cfg.StringPool = true
	cfg.StringPoolThreshold = 2
	out, err := minify.Minify(src, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "#same#"), "the literal should appear once, in the pool initializer:\n%s", out)
}

func TestMinifyDeadStoreElimination(t *testing.T) {
	src := "set *x* 1\nset *x* 2\nsay *x* 1 1\n"
	cfg := noPasses()
	cfg.DeadStore = true
	out, err := minify.Minify(src, cfg)
	require.NoError(t, err)
	reparsed, err := parser.NewParser(out).Parse()
	require.NoError(t, err)
	assert.Equal(t, 2, reparsed.Len(), "the dead first store should be removed")
}

func TestMinifyUnreachableCodeElimination(t *testing.T) {
	src := "halt\nsay #dead# 1 1\n"
	cfg := noPasses()
	cfg.UnreachableCode = true
	out, err := minify.Minify(src, cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "dead")
}

func TestMinifyNameShrinkRenamesDeterministically(t *testing.T) {
	src := "set *counter* 0\nsay *counter* 1 1\n"
	cfg := noPasses()
	cfg.NameShrink = true
	out, err := minify.Minify(src, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "*a*")
	assert.NotContains(t, out, "counter")
}

func TestMinifyIsIdempotent(t *testing.T) {
	src := "set *i* 0\n:loop:\nsay *i* 1 1\nset *i* (*i*+1)\njmp :loop: (*i* < 3)\nhalt\n"
	once, err := minify.Minify(src, allPasses())
	require.NoError(t, err)
	twice, err := minify.Minify(once, allPasses())
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestMinifyRejectsUnparsableInput(t *testing.T) {
	_, err := minify.Minify("jmp :nowhere:\n", allPasses())
	assert.Error(t, err)
}
