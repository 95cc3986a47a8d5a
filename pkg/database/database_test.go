package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertAndColumn(t *testing.T) {
	tbl := &Table{Name: "orders", Columns: []string{"id", "amount"}}
	require.NoError(t, tbl.Insert([]uint64{1, 100}))
	require.NoError(t, tbl.Insert([]uint64{2, 200}))

	col, err := tbl.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, []uint64{100, 200}, col)

	assert.Equal(t, 1, tbl.ColumnIndex("amount"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
}

func TestTableInsertWrongArity(t *testing.T) {
	tbl := &Table{Name: "orders", Columns: []string{"id", "amount"}}
	assert.Error(t, tbl.Insert([]uint64{1}))
}

func TestTableColumnUnknown(t *testing.T) {
	tbl := &Table{Name: "orders", Columns: []string{"id"}}
	_, err := tbl.Column("amount")
	assert.Error(t, err)
}

func TestCatalogAddAndLookup(t *testing.T) {
	cat := NewCatalog()
	tbl := &Table{Name: "orders", Columns: []string{"id", "amount"}}
	cat.AddTable(tbl)

	got, ok := cat.Table("orders")
	require.True(t, ok)
	assert.Same(t, tbl, got)

	_, ok = cat.Table("missing")
	assert.False(t, ok)
}

func TestCatalogCommit(t *testing.T) {
	cat := NewCatalog()
	tbl := &Table{Name: "orders", Columns: []string{"id", "amount"}}
	require.NoError(t, tbl.Insert([]uint64{1, 100}))
	require.NoError(t, tbl.Insert([]uint64{2, 200}))
	cat.AddTable(tbl)

	c1, err := cat.Commit([]string{"orders"})
	require.NoError(t, err)
	c2, err := cat.Commit([]string{"orders"})
	require.NoError(t, err)
	assert.True(t, c1.Verify([][2]uint64{{1, 100}, {2, 200}}))
	assert.Equal(t, c1.Value, c2.Value)
}

func TestCatalogCommitUnknownTable(t *testing.T) {
	cat := NewCatalog()
	_, err := cat.Commit([]string{"missing"})
	assert.Error(t, err)
}

func TestCatalogCommitTooFewColumns(t *testing.T) {
	cat := NewCatalog()
	cat.AddTable(&Table{Name: "t", Columns: []string{"id"}})
	_, err := cat.Commit([]string{"t"})
	assert.Error(t, err)
}

func TestCommitmentVerifyDetectsTamper(t *testing.T) {
	c := NewCommitment([][2]uint64{{1, 100}})
	assert.True(t, c.Verify([][2]uint64{{1, 100}}))
	assert.False(t, c.Verify([][2]uint64{{1, 101}}))
}
