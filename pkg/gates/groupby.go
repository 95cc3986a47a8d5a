package gates

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

// GroupByResult carries the computed boundary flags, both as a dense
// bitset (handed to the Aggregation gate, which restarts its recurrence at
// every boundary) and as the row range they were written to. Boundary bit
// i is set when row i starts a new group (groupKeys[i] != groupKeys[i-1],
// or i == 0) — the inverse polarity of the in-circuit "boundary" witness
// column, which follows group_by.rs's convention of 1 meaning "same group
// as predecessor".
type GroupByResult struct {
	Row      int
	Len      int
	Boundary *bitset.BitSet
}

// GroupBy proves, for pre-sorted groupKeys, that the in-circuit boundary
// flag at row i is 1 exactly when groupKeys[i] == groupKeys[i-1] and 0 when
// they differ (and the flag at row 0 is witnessed as 1, unconstrained,
// matching group_by.rs's singleton case); the returned Boundary bitset
// holds the opposite polarity (see GroupByResult). Grounded on group_by.rs's
// group_and_verify: each row carries a boolean flag plus an inverse witness
// proving the flag is the correct indicator of "diff == 0" (field.Inverse's IsZero-safe
// convention, SPEC_FULL.md §9's "inverse witnesses are load-bearing" note).
func GroupBy(tr trace.Trace, sys *air.System, alloc *layout.RowAllocator, groupKeys []uint64) (GroupByResult, error) {
	n := len(groupKeys)
	if n == 0 {
		return GroupByResult{}, nil
	}
	region := alloc.Reserve(n)
	trace.EnsureHeight(tr, region.End())

	keyCol, _ := tr.ColumnByName(layout.AdviceChunk5)
	boundaryCol, _ := tr.ColumnByName(layout.AdviceChunk6)
	inverseCol, _ := tr.ColumnByName(layout.AdviceChunk7)

	bounds := bitset.New(uint(n))
	handle := fmt.Sprintf("group_by@%d", region.Start)

	for i := 0; i < n; i++ {
		row := region.Start + i
		keyCol.Set(row, field.FromUint64(groupKeys[i]))

		if i == 0 {
			// Row 0 has no predecessor; boundary is witnessed as 1 but,
			// as in group_by.rs, the gate selector is not enabled here
			// since there is no "previous row" to reference.
			boundaryCol.Set(row, field.One())
			inverseCol.Set(row, field.Zero())
			bounds.Set(0)
			continue
		}

		if groupKeys[i] < groupKeys[i-1] {
			return GroupByResult{}, fmt.Errorf("gates: group-by keys not sorted at index %d", i)
		}
		diff := field.Sub(field.FromUint64(groupKeys[i]), field.FromUint64(groupKeys[i-1]))
		isBoundary := !field.IsZero(diff)
		var boundary, inverse field.Element
		if isBoundary {
			boundary = field.Zero()
			inverse = field.Inverse(diff)
			bounds.Set(uint(i))
		} else {
			boundary = field.One()
			inverse = field.Zero()
			bounds.Clear(uint(i))
		}
		boundaryCol.Set(row, boundary)
		inverseCol.Set(row, inverse)

		diffExpr := air.Sub(air.Col(layout.AdviceChunk5), air.Prev(layout.AdviceChunk5))

		// boolean: boundary*(1-boundary) == 0
		sys.Add(air.VanishingConstraint{
			Handle:   fmt.Sprintf("%s/boolean@%d", handle, i),
			Expr:     air.Mul(air.Col(layout.AdviceChunk6), air.Sub(air.One(), air.Col(layout.AdviceChunk6))),
			FirstRow: row,
			LastRow:  row + 1,
		})
		// definitional: boundary == 1 - diff*inverse
		sys.Add(air.VanishingConstraint{
			Handle: fmt.Sprintf("%s/definitional@%d", handle, i),
			Expr: air.Sub(
				air.Col(layout.AdviceChunk6),
				air.Sub(air.One(), air.Mul(diffExpr, air.Col(layout.AdviceChunk7))),
			),
			FirstRow: row,
			LastRow:  row + 1,
		})
		// inverse-check: inverse*diff == 1-boundary
		sys.Add(air.VanishingConstraint{
			Handle: fmt.Sprintf("%s/inverse_check@%d", handle, i),
			Expr: air.Sub(
				air.Mul(air.Col(layout.AdviceChunk7), diffExpr),
				air.Sub(air.One(), air.Col(layout.AdviceChunk6)),
			),
			FirstRow: row,
			LastRow:  row + 1,
		})
	}

	// Note: boundary semantics here are "same group as predecessor" (1 if
	// equal), matching groupKeys[i]==groupKeys[i-1]. Row 0 is always
	// treated as starting a new group by the Aggregation gate regardless
	// of this flag's witnessed value, per aggregate_and_verify's explicit
	// row-0 special case.
	return GroupByResult{Row: region.Start, Len: n, Boundary: bounds}, nil
}
