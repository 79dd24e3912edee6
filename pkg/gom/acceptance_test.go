package gom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tuple1 stands in for a one-field tuple value.
type tuple1 struct {
	V0 int32
}

func TestAcceptance_NumberAndObject(t *testing.T) {
	require.NoError(t, Register("Number1", int64(12)))

	n, ok := Apply("Number1", func(x *int64) int64 { return *x })
	require.True(t, ok)
	assert.Equal(t, int64(12), n)

	require.NoError(t, Register("Object1", tuple1{V0: 56}))

	_, ok = Apply("Object1", func(o *tuple1) struct{} {
		o.V0 = 78
		return struct{}{}
	})
	require.True(t, ok)

	obj, ok := Remove[tuple1]("Object1")
	require.True(t, ok)
	assert.Equal(t, tuple1{V0: 78}, obj)
	assert.False(t, Exists("Object1"))

	assert.True(t, Delete("Number1"))
}

func TestAcceptance_WrongTypeIsAbsence(t *testing.T) {
	require.NoError(t, Register("acceptance.wrong", "text"))
	defer Delete("acceptance.wrong")

	_, ok := Apply("acceptance.wrong", func(v *int) int { return *v })
	assert.False(t, ok)
	_, ok = Remove[int]("acceptance.wrong")
	assert.False(t, ok)

	s, ok := With("acceptance.wrong", func(v string) string { return v })
	assert.True(t, ok)
	assert.Equal(t, "text", s)
}

func TestAcceptance_Reregister(t *testing.T) {
	require.NoError(t, Register("acceptance.re", 1))
	require.NoError(t, Register("acceptance.re", 2))

	v, ok := Remove[int]("acceptance.re")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
