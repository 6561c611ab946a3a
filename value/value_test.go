package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whitvm/whitvm/value"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"zero int is false", value.Int(0), false},
		{"nonzero int is true", value.Int(7), true},
		{"negative int is true", value.Int(-1), true},
		{"empty string is false", value.Text(""), false},
		{"nonempty string is true", value.Text("a"), true},
		{"string zero is still true", value.Text("0"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.Truthy())
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "42", value.Int(42).Render())
	assert.Equal(t, "-3", value.Int(-3).Render())
	assert.Equal(t, "hello", value.Text("hello").Render())
}

func TestAsInt(t *testing.T) {
	v, ok := value.Text("123").AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(123), v.I)

	_, ok = value.Text("abc").AsInt()
	assert.False(t, ok)

	v, ok = value.Int(5).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(5), v.I)
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(value.Int(3), value.Int(3)))
	assert.False(t, value.Equal(value.Int(3), value.Int(4)))
	assert.True(t, value.Equal(value.Text("x"), value.Text("x")))
	assert.False(t, value.Equal(value.Int(0), value.Text("0")), "mixed kinds are never equal")
}

func TestBool(t *testing.T) {
	assert.Equal(t, value.Int(1), value.Bool(true))
	assert.Equal(t, value.Int(0), value.Bool(false))
}
