// Package layout defines the fixed column ABI shared by every gate and the
// circuit assembler, described in SPEC_FULL.md §6 and grounded on
// original_source/src/circuit/config.rs's PoneglyphConfig. It also
// provides the bump-pointer row allocator gates use to claim disjoint
// regions on the shared advice columns.
package layout

// Column names for the 15 advice columns, 2 fixed columns and 1 instance
// column. Several advice columns are deliberately reused by more than one
// gate at disjoint row ranges — the comments below name every gate that
// may claim a region of that column, exactly mirroring config.rs's own
// column-allocation comment block.
const (
	// AdviceChunk0..AdviceChunk7: Range Check 8-bit decomposition chunks.
	// AdviceChunk2..AdviceChunk4 double as the Sort gate's
	// input/output/diff columns; AdviceChunk5..AdviceChunk7 double as the
	// Group-By gate's key/boundary/inverse columns.
	AdviceChunk0 = "advice_chunk_0"
	AdviceChunk1 = "advice_chunk_1"
	AdviceChunk2 = "advice_chunk_2" // Sort: input
	AdviceChunk3 = "advice_chunk_3" // Sort: output
	AdviceChunk4 = "advice_chunk_4" // Sort: diff
	AdviceChunk5 = "advice_chunk_5" // Group-By: key
	AdviceChunk6 = "advice_chunk_6" // Group-By: boundary
	AdviceChunk7 = "advice_chunk_7" // Group-By: inverse

	// AdviceCheckX / AdviceDiff: Range Check writes x into AdviceCheckX and
	// its check flag into AdviceDiff; Decompose64 also writes the value it
	// decomposes (e.g. a Range Check diff) into AdviceCheckX on its own row.
	// The check flag and x do not share a column. Aggregation reuses the
	// pair as value/result.
	AdviceCheckX = "advice_check_x"    // Range Check: x, decomposed value; Aggregation: value
	AdviceDiff   = "advice_diff"       // Range Check: check flag; Aggregation: result

	// AdviceJoin*: Join gate's five dedicated columns, not shared with any
	// other gate (the original circuit expanded the advice set from 10 to
	// 15 columns specifically to give Join its own space).
	AdviceJoinT1Key   = "advice_join_t1_key"
	AdviceJoinT1Value = "advice_join_t1_value"
	AdviceJoinT2Key   = "advice_join_t2_key"
	AdviceJoinT2Value = "advice_join_t2_value"
	AdviceJoinMatch   = "advice_join_match"

	// Fixed columns.
	FixedThreshold = "fixed_threshold" // Range Check: t
	FixedU         = "fixed_u"         // Range Check: u

	// Instance column rows.
	InstanceColumn       = "instance"
	InstanceRowCommitment = 0
	InstanceRowResult     = 1

	// LookupChunkTable is the name of the system-wide [0,256) lookup table
	// backing every 8-bit chunk decomposition and diff residue check.
	LookupChunkTable = "lookup_chunk_table"
)

// AdviceColumns lists every advice column name in allocation order,
// matching config.rs's advice[0..15] array exactly.
var AdviceColumns = []string{
	AdviceChunk0, AdviceChunk1, AdviceChunk2, AdviceChunk3, AdviceChunk4,
	AdviceChunk5, AdviceChunk6, AdviceChunk7,
	AdviceCheckX, AdviceDiff,
	AdviceJoinT1Key, AdviceJoinT1Value, AdviceJoinT2Key, AdviceJoinT2Value, AdviceJoinMatch,
}

// FixedColumns lists the two fixed columns.
var FixedColumns = []string{FixedThreshold, FixedU}

// AllColumnNames lists advice, fixed and instance columns together, the
// full set a fresh Trace must be initialized with.
func AllColumnNames() []string {
	names := make([]string, 0, len(AdviceColumns)+len(FixedColumns)+1)
	names = append(names, AdviceColumns...)
	names = append(names, FixedColumns...)
	names = append(names, InstanceColumn)
	return names
}

// ChunkLookupTable returns the field elements 0..255, the lookup table
// backing every 8-bit decomposition (config.rs's load_lookup_table).
func ChunkLookupTable() []uint64 {
	t := make([]uint64, 256)
	for i := range t {
		t[i] = uint64(i)
	}
	return t
}
