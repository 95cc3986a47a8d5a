package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllColumnNamesIncludesEveryColumn(t *testing.T) {
	names := AllColumnNames()
	assert.Len(t, names, len(AdviceColumns)+len(FixedColumns)+1)
	assert.Contains(t, names, InstanceColumn)
	assert.Contains(t, names, AdviceChunk0)
	assert.Contains(t, names, FixedU)
}

func TestAdviceColumnsHasFifteenEntries(t *testing.T) {
	assert.Len(t, AdviceColumns, 15)
}

func TestChunkLookupTableCoversByteRange(t *testing.T) {
	table := ChunkLookupTable()
	assert.Len(t, table, 256)
	assert.Equal(t, uint64(0), table[0])
	assert.Equal(t, uint64(255), table[255])
}

func TestRowAllocatorReserveIsDisjoint(t *testing.T) {
	alloc := NewRowAllocator()
	r1 := alloc.Reserve(4)
	r2 := alloc.Reserve(3)

	assert.Equal(t, Region{Start: 0, Len: 4}, r1)
	assert.Equal(t, Region{Start: 4, Len: 3}, r2)
	assert.Equal(t, 4, r1.End())
	assert.Equal(t, 7, alloc.Height())
}

func TestRowAllocatorZeroReserve(t *testing.T) {
	alloc := NewRowAllocator()
	r := alloc.Reserve(0)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 0, alloc.Height())
}
