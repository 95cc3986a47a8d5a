package circuit

// The five op kinds below are the data-model entities of SPEC_FULL.md §3,
// grounded directly on original_source/src/circuit/mod.rs's RangeCheckOp /
// SortOp / GroupByOp / JoinOp / AggregationOp structs. A CompiledQuery is
// nothing more than five ordered slices of these, consumed strictly in
// that order by the Assembler.

// RangeCheckOp proves Selected == (Value < Threshold). U is carried as
// data-model metadata holding the comparison's residue (the compiler sets
// it to Threshold-Value-1 when Value < Threshold, else Value-Threshold);
// the Assembler's underlying gate always fully range-proves the
// comparison's diff via an 8-byte decomposition regardless of U's
// magnitude, so no upper bound on U is enforced here (SPEC_FULL.md §3/§9).
type RangeCheckOp struct {
	Value     uint64
	Threshold uint64
	U         uint64
}

// SortOp proves SortedOutput is a permutation of Input in non-decreasing
// order.
type SortOp struct {
	Input        []uint64
	SortedOutput []uint64
}

// GroupByOp proves the boundary flags derived from pre-sorted GroupKeys are
// correctly computed (boundary[i] == 1 iff GroupKeys[i] != GroupKeys[i-1]).
type GroupByOp struct {
	GroupKeys []uint64
}

// JoinOp proves a per-row inner-join match flag between two key/value
// table fragments.
type JoinOp struct {
	Table1Keys   []uint64
	Table1Values []uint64
	Table2Keys   []uint64
	Table2Values []uint64
}

// AggregationKind enumerates the four in-circuit aggregate functions. AVG
// is never represented here: the compiler lowers it into a (Sum, Count)
// pair and divides outside the circuit (SPEC_FULL.md §4.5/§9).
type AggregationKind string

const (
	AggSum   AggregationKind = "sum"
	AggCount AggregationKind = "count"
	AggMax   AggregationKind = "max"
	AggMin   AggregationKind = "min"
)

// AggregationOp proves a per-group recurrence (SUM/COUNT/MAX/MIN) over
// Values, restarting at each GroupKeys boundary.
type AggregationOp struct {
	GroupKeys []uint64
	Values    []uint64
	Kind      AggregationKind
}
