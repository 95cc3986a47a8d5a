package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmetic(t *testing.T) {
	a := FromUint64(5)
	b := FromUint64(3)

	assert.True(t, Equal(Add(a, b), FromUint64(8)))
	assert.True(t, Equal(Sub(a, b), FromUint64(2)))
	assert.True(t, Equal(Mul(a, b), FromUint64(15)))
}

func TestFromInt64Negative(t *testing.T) {
	neg := FromInt64(-7)
	pos := FromUint64(7)
	assert.True(t, Equal(Add(neg, pos), Zero()))
}

func TestInverseZeroIsZero(t *testing.T) {
	assert.True(t, Equal(Inverse(Zero()), Zero()))
}

func TestInverseRoundTrip(t *testing.T) {
	v := FromUint64(42)
	inv := Inverse(v)
	assert.True(t, Equal(Mul(v, inv), One()))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(Zero()))
	assert.False(t, IsZero(One()))
}

func TestToBigInt(t *testing.T) {
	b := ToBigInt(FromUint64(123))
	assert.Equal(t, int64(123), b.Int64())
}

func TestLinearCommitDeterministic(t *testing.T) {
	pairs := [][2]uint64{{1, 100}, {2, 200}}
	c1 := LinearCommit(pairs)
	c2 := LinearCommit(pairs)
	assert.True(t, Equal(c1, c2))

	reordered := [][2]uint64{{2, 200}, {1, 100}}
	c3 := LinearCommit(reordered)
	assert.True(t, Equal(c1, c3), "linear accumulator is order-independent")
}

func TestLinearCommitDistinguishesValues(t *testing.T) {
	a := LinearCommit([][2]uint64{{1, 100}})
	b := LinearCommit([][2]uint64{{1, 101}})
	assert.False(t, Equal(a, b))
}
