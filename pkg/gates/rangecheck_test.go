package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

func newFixture() (trace.Trace, *air.System, *layout.RowAllocator, []field.Element) {
	tr := trace.NewTrace(0, layout.AllColumnNames()...)
	sys := &air.System{}
	alloc := layout.NewRowAllocator()
	table := make([]field.Element, 256)
	for i := range table {
		table[i] = field.FromUint64(uint64(i))
	}
	return tr, sys, alloc, table
}

func TestCheckLessThanSelectedWhenBelowThreshold(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := CheckLessThan(tr, sys, alloc, 10, 20, 8, table)
	require.NoError(t, err)
	assert.True(t, res.Selected)
	assert.NoError(t, sys.Accepts(tr))
}

func TestCheckLessThanNotSelectedWhenAboveThreshold(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := CheckLessThan(tr, sys, alloc, 30, 20, 8, table)
	require.NoError(t, err)
	assert.False(t, res.Selected)
	assert.NoError(t, sys.Accepts(tr))
}

func TestCheckLessThanEqualIsNotSelected(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	res, err := CheckLessThan(tr, sys, alloc, 20, 20, 8, table)
	require.NoError(t, err)
	assert.False(t, res.Selected)
	assert.NoError(t, sys.Accepts(tr))
}

func TestCheckLessThanAllowsLargeU(t *testing.T) {
	// u >= 256 is no longer rejected: Decompose64 always fully proves the
	// diff regardless of magnitude.
	tr, sys, alloc, table := newFixture()
	_, err := CheckLessThan(tr, sys, alloc, 100, 1000, 5000, table)
	require.NoError(t, err)
	assert.NoError(t, sys.Accepts(tr))
}

func TestCheckLessThanRejectsForgedSelector(t *testing.T) {
	tr, sys, alloc, table := newFixture()
	_, err := CheckLessThan(tr, sys, alloc, 30, 20, 8, table)
	require.NoError(t, err)

	// Tamper with the witnessed "selected" flag after the fact; the
	// diff-definition identity must catch the forgery.
	col, ok := tr.ColumnByName(layout.AdviceDiff)
	require.True(t, ok)
	col.Set(0, field.One())

	assert.Error(t, sys.Accepts(tr))
}

func TestDecompose64ReconstructsValue(t *testing.T) {
	tr, sys, _, table := newFixture()
	trace.EnsureHeight(tr, 1)
	Decompose64(tr, sys, 0, 1234567, table, "test")
	assert.NoError(t, sys.Accepts(tr))
}
