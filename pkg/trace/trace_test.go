package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkquery/zkquery/pkg/field"
)

func TestNewTraceColumnLookup(t *testing.T) {
	tr := NewTrace(4, "a", "b")

	col, ok := tr.ColumnByName("a")
	require.True(t, ok)
	assert.Equal(t, "a", col.Name())
	assert.Equal(t, 4, col.Len())

	_, ok = tr.ColumnByName("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, len(tr.Columns()))
	assert.Equal(t, 4, tr.Height())
}

func TestColumnSetGet(t *testing.T) {
	tr := NewTrace(3, "x")
	col, _ := tr.ColumnByName("x")
	col.Set(1, field.FromUint64(7))
	assert.True(t, field.Equal(col.Get(1), field.FromUint64(7)))
	assert.True(t, field.IsZero(col.Get(0)))
}

func TestColumnOutOfRangePanics(t *testing.T) {
	tr := NewTrace(2, "x")
	col, _ := tr.ColumnByName("x")
	assert.Panics(t, func() { col.Get(5) })
	assert.Panics(t, func() { col.Set(-1, field.Zero()) })
}

func TestEnsureHeightGrowsAllColumns(t *testing.T) {
	tr := NewTrace(2, "a", "b")
	EnsureHeight(tr, 10)
	assert.Equal(t, 10, tr.Height())
	for _, c := range tr.Columns() {
		assert.Equal(t, 10, c.Len())
	}
}

func TestEnsureHeightPreservesExistingValues(t *testing.T) {
	tr := NewTrace(2, "a")
	col, _ := tr.ColumnByName("a")
	col.Set(1, field.FromUint64(99))
	EnsureHeight(tr, 5)
	col, _ = tr.ColumnByName("a")
	assert.True(t, field.Equal(col.Get(1), field.FromUint64(99)))
}

func TestColumnByIndex(t *testing.T) {
	tr := NewTrace(1, "first", "second")
	assert.Equal(t, "first", tr.ColumnByIndex(0).Name())
	assert.Equal(t, "second", tr.ColumnByIndex(1).Name())
}
