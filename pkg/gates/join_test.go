package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkquery/zkquery/pkg/field"
)

func TestJoinMatchesEqualKeys(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Join(tr, sys, alloc, []uint64{1, 2, 3}, []uint64{10, 20, 30}, []uint64{1, 2, 4}, []uint64{100, 200, 400}, table)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matches)
	assert.NoError(t, sys.Accepts(tr))
}

func TestJoinHandlesUnevenTableLengths(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Join(tr, sys, alloc, []uint64{1, 2}, []uint64{10, 20}, []uint64{1, 2, 3}, []uint64{100, 200, 300}, table)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Len)
	assert.Equal(t, 2, res.Matches)
	assert.NoError(t, sys.Accepts(tr))
}

func TestJoinRejectsMismatchedKeyValueLengths(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	_, err := Join(tr, sys, alloc, []uint64{1, 2}, []uint64{10}, []uint64{1}, []uint64{10}, table)
	assert.Error(t, err)
}

func TestJoinEmptyTables(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Join(tr, sys, alloc, nil, nil, nil, nil, table)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len)
}

// TestJoinProvesResidueDisjointness exercises the §8 Scenario 5 shape: an
// inner join between two 3-row tables with exactly one non-matching row on
// each side (residues {1} and {4}), asserting the residue collection
// sorts cleanly and the resulting Sort-gate constraints are accepted.
func TestJoinProvesResidueDisjointness(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Join(tr, sys, alloc,
		[]uint64{1, 2, 3}, []uint64{10, 20, 30},
		[]uint64{4, 2, 3}, []uint64{100, 200, 300},
		table,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matches)

	require.Equal(t, 1, res.Miss1.Len)
	require.Equal(t, 1, res.Miss2.Len)

	missCol, ok := tr.ColumnByName("advice_chunk_3")
	require.True(t, ok)
	assert.True(t, field.Equal(missCol.Get(res.Miss1.OutputRow), field.FromUint64(1)))
	assert.True(t, field.Equal(missCol.Get(res.Miss2.OutputRow), field.FromUint64(4)))

	assert.NoError(t, sys.Accepts(tr))
}

// TestJoinResidueRejectsTamperedSort tampers with a sorted residue's
// witnessed "copy" cell (the Sort gate's permutation-argument stand-in)
// after assembly and expects the registered MultisetEqualConstraint for
// that residue to reject it.
func TestJoinResidueRejectsTamperedSort(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := Join(tr, sys, alloc,
		[]uint64{1, 2, 3, 5}, []uint64{10, 20, 30, 50},
		[]uint64{4, 2, 3, 6}, []uint64{100, 200, 300, 600},
		table,
	)
	require.NoError(t, err)
	require.Equal(t, 2, res.Miss1.Len)

	col, ok := tr.ColumnByName("advice_chunk_2")
	require.True(t, ok)
	copyRow := res.Miss1.OutputRow + res.Miss1.Len
	col.Set(copyRow, field.FromUint64(99))

	assert.Error(t, sys.Accepts(tr))
}
