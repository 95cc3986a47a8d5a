package gates

import (
	"fmt"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

// SortResult reports where the sorted output landed, for gates (Join,
// Group-By, Aggregation) that consume a Sort gate's output as their own
// input.
type SortResult struct {
	OutputRow int // first row of the n-row sorted output region
	Len       int
}

// Sort proves sortedOutput is a non-decreasing permutation of input.
// Grounded on sort.rs's sort_and_verify: input is assigned once into the
// input column at [row, row+n) ("input region"), sortedOutput is assigned
// twice — once into the dedicated output column at [row+n, row+2n), where
// the non-decreasing diffs are proven non-negative via Decompose64, and
// once again into the input column at [row+2n, row+3n) so a
// multiset-equality check can tie it back to the original input (standing
// in for Halo2's copy-constraint permutation argument, see
// air.MultisetEqualConstraint).
func Sort(tr trace.Trace, sys *air.System, alloc *layout.RowAllocator, input, sortedOutput []uint64, table []field.Element) (SortResult, error) {
	n := len(input)
	if n != len(sortedOutput) {
		return SortResult{}, fmt.Errorf("gates: sort input/output length mismatch: %d vs %d", n, len(sortedOutput))
	}
	if n == 0 {
		return SortResult{}, nil
	}

	inputRegion := alloc.Reserve(n)
	outputRegion := alloc.Reserve(n)
	copyRegion := alloc.Reserve(n)
	trace.EnsureHeight(tr, copyRegion.End())

	inputCol, _ := tr.ColumnByName(layout.AdviceChunk2)
	outputCol, _ := tr.ColumnByName(layout.AdviceChunk3)
	diffCol, _ := tr.ColumnByName(layout.AdviceChunk4)

	for i := 0; i < n; i++ {
		inputCol.Set(inputRegion.Start+i, field.FromUint64(input[i]))
		outputCol.Set(outputRegion.Start+i, field.FromUint64(sortedOutput[i]))
		inputCol.Set(copyRegion.Start+i, field.FromUint64(sortedOutput[i]))
	}

	handle := fmt.Sprintf("sort@%d", inputRegion.Start)

	// sort_selector gate: for every adjacent pair, the diff column holds
	// output[i+1]-output[i], and that diff is proven to be a valid
	// non-negative 64-bit value via Decompose64 (mirroring sort.rs, which
	// calls decompose_64bit on exactly this quantity). The reconstructed
	// value Decompose64 commits to (at AdviceCheckX on the diff's own row)
	// is tied back to the two adjacent output cells by the identity below,
	// so a prover cannot substitute an unrelated but validly-64-bit diff.
	diffRegion := alloc.Reserve(2 * (n - 1))
	trace.EnsureHeight(tr, diffRegion.End())
	for i := 0; i < n-1; i++ {
		if sortedOutput[i+1] < sortedOutput[i] {
			return SortResult{}, fmt.Errorf("gates: sort output not non-decreasing at index %d", i)
		}
		diff := sortedOutput[i+1] - sortedOutput[i]
		diffCol.Set(outputRegion.Start+i, field.FromUint64(diff))
		diffRow := diffRegion.Start + 2*i
		Decompose64(tr, sys, diffRow, diff, table, fmt.Sprintf("%s/nonneg@%d", handle, i))

		evalRow := outputRegion.Start + i
		sys.Add(air.VanishingConstraint{
			Handle: fmt.Sprintf("%s/sort_selector@%d", handle, i),
			Expr: air.Sub(
				air.Sub(air.Next(layout.AdviceChunk3), air.Col(layout.AdviceChunk3)),
				air.ColumnAt{Column: layout.AdviceCheckX, Offset: diffRow - evalRow},
			),
			FirstRow: evalRow,
			LastRow:  evalRow + 1,
		})
	}

	// Permutation argument stand-in: the multiset of values written into
	// the input column's "copy" region must equal the multiset of the
	// original input region.
	sys.Add(air.MultisetEqualConstraint{
		Handle:     handle + "/permutation",
		Left:       air.Col(layout.AdviceChunk2),
		Right:      air.Col(layout.AdviceChunk2),
		LeftFirst:  inputRegion.Start,
		LeftLast:   inputRegion.End(),
		RightFirst: copyRegion.Start,
		RightLast:  copyRegion.End(),
	})

	return SortResult{OutputRow: outputRegion.Start, Len: n}, nil
}
