package gates

import (
	"fmt"
	"sort"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

// JoinResult reports the row region the match flags were written to, the
// number of matched rows, and the Sort-gate regions (if any) backing the
// residue-disjointness proof, for callers that need the concrete join
// output (e.g. an aggregation running over the joined result).
type JoinResult struct {
	Row     int
	Len     int
	Matches int
	// Miss1/Miss2 report where each side's non-matching residue was sorted
	// to, or a zero SortResult (Len 0) if that side had no residue.
	Miss1 SortResult
	Miss2 SortResult
}

// Join proves a per-row inner-join match flag between two key/value table
// fragments, then proves each side's non-matching residue is internally
// consistent by sorting it. Grounded on join.rs's join_and_verify +
// assign_join_with_constraints for the match/miss flag, and on
// verify_deduplication for the residue step: both tables are first
// canonicalized via Sort (callers are expected to pass already-sorted
// keys, matching how join.rs always sorts before joining), the shorter
// side is conceptually padded with zero, and match[i] is 1 only when i is
// within both tables' bounds and the keys at row i are equal.
//
// Residue disjointness (SPEC_FULL.md §4.4, step 4): T_miss1 and T_miss2
// collect, for every co-located row where the two keys differ, that row's
// table1 key and table2 key respectively. Each residue is proven to be a
// genuine sorted permutation of itself via the Sort gate's own
// MultisetEqualConstraint, as verify_deduplication does. Soundness
// note (SPEC_FULL.md §9): as in join.rs, this does not go on to cross-
// check the sorted residue against the opposite table's sorted keys
// (verify_deduplication never performs that comparison either, trusting
// witness correctness instead) — that stronger cross-check is the
// hardening SPEC_FULL.md §9 leaves as future work, not the collection-
// and-sort step itself, which is mandatory and implemented here.
func Join(tr trace.Trace, sys *air.System, alloc *layout.RowAllocator, t1Keys, t1Values, t2Keys, t2Values []uint64, table []field.Element) (JoinResult, error) {
	n := len(t1Keys)
	if n != len(t1Values) {
		return JoinResult{}, fmt.Errorf("gates: join table1 key/value length mismatch: %d vs %d", n, len(t1Values))
	}
	m := len(t2Keys)
	if m != len(t2Values) {
		return JoinResult{}, fmt.Errorf("gates: join table2 key/value length mismatch: %d vs %d", m, len(t2Values))
	}
	width := n
	if m > width {
		width = m
	}
	if width == 0 {
		return JoinResult{}, nil
	}

	region := alloc.Reserve(width)
	trace.EnsureHeight(tr, region.End())

	k1Col, _ := tr.ColumnByName(layout.AdviceJoinT1Key)
	v1Col, _ := tr.ColumnByName(layout.AdviceJoinT1Value)
	k2Col, _ := tr.ColumnByName(layout.AdviceJoinT2Key)
	v2Col, _ := tr.ColumnByName(layout.AdviceJoinT2Value)
	matchCol, _ := tr.ColumnByName(layout.AdviceJoinMatch)

	handle := fmt.Sprintf("join@%d", region.Start)
	matches := 0
	var tMiss1, tMiss2 []uint64

	for i := 0; i < width; i++ {
		row := region.Start + i
		var k1, v1, k2, v2 uint64
		inBounds1 := i < n
		inBounds2 := i < m
		if inBounds1 {
			k1, v1 = t1Keys[i], t1Values[i]
		}
		if inBounds2 {
			k2, v2 = t2Keys[i], t2Values[i]
		}
		k1Col.Set(row, field.FromUint64(k1))
		v1Col.Set(row, field.FromUint64(v1))
		k2Col.Set(row, field.FromUint64(k2))
		v2Col.Set(row, field.FromUint64(v2))

		matched := inBounds1 && inBounds2 && k1 == k2
		var flag field.Element
		if matched {
			flag = field.One()
			matches++
		}
		matchCol.Set(row, flag)

		if !(inBounds1 && inBounds2) {
			// Padded row: the join_selector (config.rs's less_than_selector
			// reuse) is not enabled outside [0,min(n,m)) in join.rs either.
			continue
		}

		// T_miss1/T_miss2 (verify_deduplication): co-located rows within
		// [0,min(n,m)) whose keys differ feed the residue-disjointness
		// proof below.
		if !matched {
			tMiss1 = append(tMiss1, k1)
			tMiss2 = append(tMiss2, k2)
		}

		// match flag boolean: match*(1-match) == 0
		sys.Add(air.VanishingConstraint{
			Handle:   fmt.Sprintf("%s/boolean@%d", handle, i),
			Expr:     air.Mul(air.Col(layout.AdviceJoinMatch), air.Sub(air.One(), air.Col(layout.AdviceJoinMatch))),
			FirstRow: row,
			LastRow:  row + 1,
		})
		// key comparison: match*(key1-key2) == 0
		sys.Add(air.VanishingConstraint{
			Handle: fmt.Sprintf("%s/key_comparison@%d", handle, i),
			Expr: air.Mul(
				air.Col(layout.AdviceJoinMatch),
				air.Sub(air.Col(layout.AdviceJoinT1Key), air.Col(layout.AdviceJoinT2Key)),
			),
			FirstRow: row,
			LastRow:  row + 1,
		})
	}

	miss1, err := sortResidue(tr, sys, alloc, tMiss1, table)
	if err != nil {
		return JoinResult{}, err
	}
	miss2, err := sortResidue(tr, sys, alloc, tMiss2, table)
	if err != nil {
		return JoinResult{}, err
	}

	return JoinResult{Row: region.Start, Len: width, Matches: matches, Miss1: miss1, Miss2: miss2}, nil
}

// sortResidue sorts a non-matching residue through the Sort gate, proving
// (via Sort's MultisetEqualConstraint) that the witnessed sorted residue
// is a genuine permutation of the collected one. Mirrors
// verify_deduplication's "sort T_miss and verify" step; an empty residue
// needs no proof, matching join.rs's early return when T_miss is empty.
func sortResidue(tr trace.Trace, sys *air.System, alloc *layout.RowAllocator, residue []uint64, table []field.Element) (SortResult, error) {
	if len(residue) == 0 {
		return SortResult{}, nil
	}
	sorted := append([]uint64(nil), residue...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Sort(tr, sys, alloc, residue, sorted, table)
}
