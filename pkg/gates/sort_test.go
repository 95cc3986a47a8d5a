package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortAcceptsValidPermutation(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	input := []uint64{30, 10, 20}
	sorted := []uint64{10, 20, 30}

	res, err := Sort(tr, sys, alloc, input, sorted, table)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Len)
	assert.NoError(t, sys.Accepts(tr))
}

func TestSortRejectsNonMonotonicOutput(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	input := []uint64{1, 2, 3}
	notSorted := []uint64{2, 1, 3}

	_, err := Sort(tr, sys, alloc, input, notSorted, table)
	assert.Error(t, err)
}

func TestSortRejectsNonPermutation(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	input := []uint64{1, 2, 3}
	// Claims to be sorted but isn't a permutation of input (swapped a value
	// for one not present in the original set).
	fakeSorted := []uint64{1, 2, 4}

	_, err := Sort(tr, sys, alloc, input, fakeSorted, table)
	require.NoError(t, err)
	assert.Error(t, sys.Accepts(tr))
}

func TestSortLengthMismatch(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	_, err := Sort(tr, sys, alloc, []uint64{1, 2}, []uint64{1}, table)
	assert.Error(t, err)
}

func TestSortEmptyInput(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Sort(tr, sys, alloc, nil, nil, table)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len)
}

func TestSortSingleElement(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Sort(tr, sys, alloc, []uint64{42}, []uint64{42}, table)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len)
	assert.NoError(t, sys.Accepts(tr))
}
