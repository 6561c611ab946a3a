package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitvm/whitvm/eval"
	"github.com/whitvm/whitvm/value"
)

type fakeStore map[string]value.Value

func (f fakeStore) Get(name string) (value.Value, bool) {
	v, ok := f[name]
	return v, ok
}

type fixedRNG struct{ n int64 }

func (f fixedRNG) Int64N(n int64) int64 { return f.n % n }

func evalSrc(t *testing.T, src string, store fakeStore, rng eval.RNG) value.Value {
	t.Helper()
	node, err := eval.ParseExpr(src, 1)
	require.NoError(t, err)
	v, err := eval.Eval(node, store, rng, 1)
	require.NoError(t, err)
	return v
}

func TestEvalArithmetic(t *testing.T) {
	assert.Equal(t, value.Int(7), evalSrc(t, "1+2*3", nil, nil))
	assert.Equal(t, value.Int(2), evalSrc(t, "7/3", nil, nil))
	assert.Equal(t, value.Int(1), evalSrc(t, "7%3", nil, nil))
}

func TestEvalArithmeticFloorsTowardNegativeInfinity(t *testing.T) {
	// floor(-7, 3) = -3 with remainder 2, not truncated -2 remainder -1.
	assert.Equal(t, value.Int(-3), evalSrc(t, "(0-7)/3", nil, nil))
	assert.Equal(t, value.Int(2), evalSrc(t, "(0-7)%3", nil, nil))
	assert.Equal(t, value.Int(-3), evalSrc(t, "-7/3", nil, nil))
}

func TestEvalDivisionByZero(t *testing.T) {
	node, err := eval.ParseExpr("1/0", 1)
	require.NoError(t, err)
	_, err = eval.Eval(node, nil, nil, 1)
	assert.Error(t, err)
}

func TestEvalStringCoercion(t *testing.T) {
	store := fakeStore{"n": value.Text("41")}
	assert.Equal(t, value.Int(42), evalSrc(t, "*n*+1", store, nil))
}

func TestEvalOrderingStrings(t *testing.T) {
	store := fakeStore{"a": value.Text("apple"), "b": value.Text("banana")}
	assert.Equal(t, value.True, evalSrc(t, "*a* < *b*", store, nil))
}

func TestEvalOrderingMismatchedKinds(t *testing.T) {
	store := fakeStore{"a": value.Int(1), "b": value.Text("1")}
	node, err := eval.ParseExpr("*a* < *b*", 1)
	require.NoError(t, err)
	_, err = eval.Eval(node, store, nil, 1)
	assert.Error(t, err)
}

func TestEvalEqualityNeverCrossesKinds(t *testing.T) {
	store := fakeStore{"a": value.Int(0), "b": value.Text("0")}
	assert.Equal(t, value.False, evalSrc(t, "*a* == *b*", store, nil))
}

func TestEvalRNGRange(t *testing.T) {
	store := fakeStore{}
	v := evalSrc(t, "(rng 5 5)", store, fixedRNG{n: 0})
	assert.Equal(t, value.Int(5), v)
}

func TestEvalRNGInvertedRangeErrors(t *testing.T) {
	node, err := eval.ParseExpr("(rng 9 1)", 1)
	require.NoError(t, err)
	_, err = eval.Eval(node, fakeStore{}, fixedRNG{}, 1)
	assert.Error(t, err)
}

func TestEvalUndefinedVariable(t *testing.T) {
	node, err := eval.ParseExpr("*missing*", 1)
	require.NoError(t, err)
	_, err = eval.Eval(node, fakeStore{}, nil, 1)
	assert.Error(t, err)
}

func TestIsConstantAndEvalConstant(t *testing.T) {
	node, err := eval.ParseExpr("2*(3+4)", 1)
	require.NoError(t, err)
	assert.True(t, eval.IsConstant(node))
	v, err := eval.EvalConstant(node)
	require.NoError(t, err)
	assert.Equal(t, value.Int(14), v)

	varNode, err := eval.ParseExpr("*x*+1", 1)
	require.NoError(t, err)
	assert.False(t, eval.IsConstant(varNode))

	rngNode, err := eval.ParseExpr("(rng 1 2)", 1)
	require.NoError(t, err)
	assert.False(t, eval.IsConstant(rngNode))
}
