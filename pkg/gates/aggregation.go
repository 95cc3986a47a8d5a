package gates

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

// AggregationKind mirrors circuit.AggregationKind without importing the
// circuit package (gates sits below circuit in the dependency graph).
type AggregationKind string

const (
	Sum   AggregationKind = "sum"
	Count AggregationKind = "count"
	Max   AggregationKind = "max"
	Min   AggregationKind = "min"
)

// AggregationResult reports the running value at the last row (Final),
// which is the final value of the last group only, and the row range the
// recurrence was written to.
type AggregationResult struct {
	Row      int
	Len      int
	Final    uint64
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// Aggregate proves a per-group SUM/COUNT/MAX/MIN recurrence over values,
// restarting at every group boundary. Grounded on aggregation.rs's
// aggregate_and_verify: row 0 is a special case (boundary hardcoded true,
// but the selector is not enabled since there is no previous row to
// reference); rows i>=1 use the gate's recurrence identity. For MAX/MIN,
// the recurrence identity itself only enforces a tautology while
// continuing a group (result=result); the actual monotonicity guarantee
// comes from the auxiliary Decompose64 calls on the saturating_sub diffs
// below, exactly mirroring aggregation.rs's "real check happens outside
// the gate" structure (SPEC_FULL.md §4.5/§9 "MAX/MIN monotonicity
// delegated to Range Check").
func Aggregate(tr trace.Trace, sys *air.System, alloc *layout.RowAllocator, groupKeys, values []uint64, kind AggregationKind, boundary *bitset.BitSet, table []field.Element) (AggregationResult, error) {
	n := len(values)
	if len(groupKeys) != n {
		return AggregationResult{}, fmt.Errorf("gates: aggregation group-key/value length mismatch: %d vs %d", len(groupKeys), n)
	}
	if n == 0 {
		return AggregationResult{}, nil
	}

	region := alloc.Reserve(n)
	trace.EnsureHeight(tr, region.End())

	valueCol, _ := tr.ColumnByName(layout.AdviceCheckX)
	resultCol, _ := tr.ColumnByName(layout.AdviceDiff)

	results := make([]uint64, n)
	isNewGroup := func(i int) bool {
		if i == 0 {
			return true
		}
		if boundary == nil {
			return groupKeys[i] != groupKeys[i-1]
		}
		return boundary.Test(uint(i))
	}

	for i := 0; i < n; i++ {
		if isNewGroup(i) {
			switch kind {
			case Sum:
				results[i] = values[i]
			case Count:
				results[i] = 1
			case Max, Min:
				results[i] = values[i]
			}
			continue
		}
		switch kind {
		case Sum:
			results[i] = results[i-1] + values[i]
		case Count:
			results[i] = results[i-1] + 1
		case Max:
			if values[i] > results[i-1] {
				results[i] = values[i]
			} else {
				results[i] = results[i-1]
			}
		case Min:
			if values[i] < results[i-1] {
				results[i] = values[i]
			} else {
				results[i] = results[i-1]
			}
		}
	}

	handle := fmt.Sprintf("aggregation_%s@%d", kind, region.Start)

	for i := 0; i < n; i++ {
		row := region.Start + i
		valueCol.Set(row, field.FromUint64(values[i]))
		resultCol.Set(row, field.FromUint64(results[i]))

		if i == 0 {
			continue // no Rotation::prev(); selector not enabled, as in aggregation.rs
		}

		boundaryFlag := field.Zero()
		if isNewGroup(i) {
			boundaryFlag = field.One()
		}
		b := air.Const{Value: boundaryFlag}
		value := air.Col(layout.AdviceCheckX)
		result := air.Col(layout.AdviceDiff)
		prevResult := air.Prev(layout.AdviceDiff)

		var expr air.Expr
		switch kind {
		case Sum:
			// result = boundary*value + (1-boundary)*(prevResult+value)
			expr = air.Sub(result, air.Add(air.Mul(b, value), air.Mul(air.Sub(air.One(), b), air.Add(prevResult, value))))
		case Count:
			expr = air.Sub(result, air.Add(air.Mul(b, air.One()), air.Mul(air.Sub(air.One(), b), air.Add(prevResult, air.One()))))
		case Max, Min:
			// Tautology while continuing a group; only meaningfully
			// constrains at a fresh boundary (result = value).
			expr = air.Sub(result, air.Add(air.Mul(b, value), air.Mul(air.Sub(air.One(), b), result)))
		}
		sys.Add(air.VanishingConstraint{
			Handle:   fmt.Sprintf("%s/recurrence@%d", handle, i),
			Expr:     expr,
			FirstRow: row,
			LastRow:  row + 1,
		})

		if kind == Max || kind == Min {
			// "beats current value": result[i] dominates value[i].
			var diff uint64
			if kind == Max {
				diff = saturatingSub(results[i], values[i])
			} else {
				diff = saturatingSub(values[i], results[i])
			}
			diffRegion := alloc.Reserve(1)
			trace.EnsureHeight(tr, diffRegion.End())
			Decompose64(tr, sys, diffRegion.Start, diff, table, fmt.Sprintf("%s/beats_value@%d", handle, i))
			hi, lo := result, value
			if kind == Min {
				hi, lo = value, result
			}
			// Tie the decomposed diff back to this row's result/value cells.
			sys.Add(air.VanishingConstraint{Handle: fmt.Sprintf("%s/beats_value_tie@%d", handle, i), Expr: air.Sub(air.Sub(hi, lo), air.ColumnAt{Column: layout.AdviceCheckX, Offset: diffRegion.Start - row}), FirstRow: row, LastRow: row + 1})

			if !isNewGroup(i) {
				// "beats prev result": monotonic vs. the running value.
				var prevDiff uint64
				if kind == Max {
					prevDiff = saturatingSub(results[i], results[i-1])
				} else {
					prevDiff = saturatingSub(results[i-1], results[i])
				}
				prevDiffRegion := alloc.Reserve(1)
				trace.EnsureHeight(tr, prevDiffRegion.End())
				Decompose64(tr, sys, prevDiffRegion.Start, prevDiff, table, fmt.Sprintf("%s/beats_prev@%d", handle, i))
				hi, lo = result, prevResult
				if kind == Min {
					hi, lo = prevResult, result
				}
				sys.Add(air.VanishingConstraint{Handle: fmt.Sprintf("%s/beats_prev_tie@%d", handle, i), Expr: air.Sub(air.Sub(hi, lo), air.ColumnAt{Column: layout.AdviceCheckX, Offset: prevDiffRegion.Start - row}), FirstRow: row, LastRow: row + 1})
			}
		}
	}

	return AggregationResult{Row: region.Start, Len: n, Final: results[n-1]}, nil
}
