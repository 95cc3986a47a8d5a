package sql

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zkquery/zkquery/pkg/circuit"
	"github.com/zkquery/zkquery/pkg/database"
)

var log = logrus.WithField("component", "sql.compiler")

// Compile lowers a parsed SelectStatement against cat into an ordered
// circuit.CompiledQuery, following the op-vector order of
// original_source/src/sql/mod.rs's SQLCompiler::compile: WHERE, ORDER BY,
// GROUP BY, JOIN, then aggregate functions, assembled into the fixed
// (RangeChecks, Sorts, GroupBys, Joins, Aggregations) shape the Assembler
// expects.
func Compile(stmt *SelectStatement, cat *database.Catalog) (*circuit.CompiledQuery, error) {
	table, ok := cat.Table(stmt.From)
	if !ok {
		return nil, resolutionErrorf("unknown table %q", stmt.From)
	}

	cq := &circuit.CompiledQuery{QueryID: uuid.New()}

	if stmt.Where != nil {
		ops, err := compileWhere(stmt.Where, table)
		if err != nil {
			return nil, err
		}
		cq.RangeChecks = append(cq.RangeChecks, ops...)
	}

	for _, ob := range stmt.OrderBy {
		data, err := table.Column(ob.Column)
		if err != nil {
			return nil, resolutionErrorf("%v", err)
		}
		sorted := append([]uint64(nil), data...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		if ob.Direction == Desc {
			reverse(sorted)
		}
		cq.Sorts = append(cq.Sorts, circuit.SortOp{Input: data, SortedOutput: sorted})
	}

	var groupKeysSorted []uint64
	var groupPermutation []int
	if len(stmt.GroupBy) > 0 {
		col := stmt.GroupBy[0]
		data, err := table.Column(col)
		if err != nil {
			return nil, resolutionErrorf("%v", err)
		}
		groupPermutation = sortIndices(data)
		groupKeysSorted = permuteU64(data, groupPermutation)
		cq.Sorts = append(cq.Sorts, circuit.SortOp{Input: data, SortedOutput: groupKeysSorted})
		cq.GroupBys = append(cq.GroupBys, circuit.GroupByOp{GroupKeys: groupKeysSorted})
	}

	for _, jc := range stmt.Joins {
		if jc.Type != JoinInner {
			return nil, resolutionErrorf("join type %s is not supported; only INNER joins are compiled", jc.Type)
		}
		other, ok := cat.Table(jc.Table)
		if !ok {
			return nil, resolutionErrorf("unknown join table %q", jc.Table)
		}
		leftKeys, err := table.Column(jc.LeftColumn)
		if err != nil {
			return nil, resolutionErrorf("%v", err)
		}
		rightKeys, err := other.Column(jc.RightColumn)
		if err != nil {
			return nil, resolutionErrorf("%v", err)
		}
		leftValues, err := resolveJoinValues(table, jc.LeftColumn)
		if err != nil {
			return nil, err
		}
		rightValues, err := resolveJoinValues(other, jc.RightColumn)
		if err != nil {
			return nil, err
		}

		leftPerm := sortIndices(leftKeys)
		rightPerm := sortIndices(rightKeys)
		sortedLeftKeys := permuteU64(leftKeys, leftPerm)
		sortedLeftValues := permuteU64(leftValues, leftPerm)
		sortedRightKeys := permuteU64(rightKeys, rightPerm)
		sortedRightValues := permuteU64(rightValues, rightPerm)

		cq.Sorts = append(cq.Sorts,
			circuit.SortOp{Input: leftKeys, SortedOutput: sortedLeftKeys},
			circuit.SortOp{Input: rightKeys, SortedOutput: sortedRightKeys},
		)
		cq.Joins = append(cq.Joins, circuit.JoinOp{
			Table1Keys:   sortedLeftKeys,
			Table1Values: sortedLeftValues,
			Table2Keys:   sortedRightKeys,
			Table2Values: sortedRightValues,
		})
	}

	for _, agg := range stmt.Aggregations {
		ops, err := compileAggregation(agg, table, groupKeysSorted, groupPermutation)
		if err != nil {
			return nil, err
		}
		cq.Aggregations = append(cq.Aggregations, ops...)
	}

	if stmt.Having != nil {
		ops, err := compileHaving(stmt.Having, table, groupKeysSorted, groupPermutation)
		if err != nil {
			return nil, err
		}
		cq.RangeChecks = append(cq.RangeChecks, ops...)
	}

	log.WithFields(logrus.Fields{
		"query_id":     cq.QueryID,
		"range_checks": len(cq.RangeChecks),
		"sorts":        len(cq.Sorts),
		"group_bys":    len(cq.GroupBys),
		"joins":        len(cq.Joins),
		"aggregations": len(cq.Aggregations),
	}).Info("compiled query")

	return cq, nil
}

// compileWhere walks the AND-only predicate tree (OR is rejected, per
// SPEC_FULL.md REDESIGN FLAGS) and lowers every leaf Comparison into one
// RangeCheckOp per row of its column (two per row for Equal, see
// lowerComparison) — matching original_source's per-row WHERE lowering.
func compileWhere(pred *Predicate, table *database.Table) ([]circuit.RangeCheckOp, error) {
	comparisons, err := collectAndComparisons(pred)
	if err != nil {
		return nil, err
	}
	var ops []circuit.RangeCheckOp
	for _, cmp := range comparisons {
		data, err := table.Column(cmp.Column)
		if err != nil {
			return nil, resolutionErrorf("%v", err)
		}
		rowOps, err := lowerComparison(cmp, data)
		if err != nil {
			return nil, err
		}
		ops = append(ops, rowOps...)
	}
	return ops, nil
}

func collectAndComparisons(pred *Predicate) ([]Comparison, error) {
	if pred.IsLeaf() {
		return []Comparison{*pred.Leaf}, nil
	}
	if pred.Op == BoolOr {
		return nil, resolutionErrorf("WHERE ... OR ... is not supported: an OR predicate would have to be lowered as a union of residues, which is not a sound circuit-level disjunction (see design notes); rewrite the query without OR")
	}
	left, err := collectAndComparisons(pred.Left)
	if err != nil {
		return nil, err
	}
	right, err := collectAndComparisons(pred.Right)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// lowerComparison produces, for every row value in data, the RangeCheckOp
// set proving that row satisfies cmp.
//
//   - LessThan:    one op, threshold = cmp.Value.
//   - GreaterThan: one op, threshold = cmp.Value + 1. Because the gate's
//     native selected bit means value < threshold, "row selected" for a
//     GreaterThan predicate is the *complement* (check == 0) of the gate's
//     own selected bit — DESIGN.md's "WHERE col > k" note; callers
//     evaluating truth from a synthesized trace must account for this.
//   - Equal: two ops proving both bounds of the half-open interval
//     [cmp.Value, cmp.Value+1): value < cmp.Value+1 and NOT(value <
//     cmp.Value). The Rust reference only emits the upper-bound op,
//     leaving Equal's lower bound unconstrained; this implementation
//     deliberately strengthens it (see DESIGN.md).
func lowerComparison(cmp Comparison, data []uint64) ([]circuit.RangeCheckOp, error) {
	var ops []circuit.RangeCheckOp
	switch cmp.Op {
	case OpLess:
		for _, v := range data {
			ops = append(ops, rangeOp(v, cmp.Value))
		}
	case OpGreater:
		threshold := cmp.Value + 1
		for _, v := range data {
			ops = append(ops, rangeOp(v, threshold))
		}
	case OpEqual:
		upper := cmp.Value + 1
		for _, v := range data {
			ops = append(ops, rangeOp(v, upper))
			ops = append(ops, rangeOp(v, cmp.Value))
		}
	default:
		return nil, resolutionErrorf("unsupported comparison operator %s", cmp.Op)
	}
	return ops, nil
}

func rangeOp(value, threshold uint64) circuit.RangeCheckOp {
	var u uint64
	if value < threshold {
		u = threshold - value - 1
	} else {
		u = value - threshold
	}
	return circuit.RangeCheckOp{Value: value, Threshold: threshold, U: u}
}

// compileAggregation lowers one SELECT-list aggregate function call. AVG
// is lowered to a (Sum, Count) pair, documented in SPEC_FULL.md §4.5/§9 as
// requiring a post-circuit divide of the two results — never its own
// AggregationOp kind.
func compileAggregation(agg AggregationClause, table *database.Table, groupKeysSorted []uint64, perm []int) ([]circuit.AggregationOp, error) {
	values, err := table.Column(agg.Column)
	if err != nil {
		return nil, resolutionErrorf("%v", err)
	}
	groupKeys, alignedValues := alignForAggregation(groupKeysSorted, perm, values)

	switch agg.Function {
	case FuncSum:
		return []circuit.AggregationOp{{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggSum}}, nil
	case FuncCount:
		return []circuit.AggregationOp{{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggCount}}, nil
	case FuncMax:
		return []circuit.AggregationOp{{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggMax}}, nil
	case FuncMin:
		return []circuit.AggregationOp{{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggMin}}, nil
	case FuncAvg:
		log.Warn("lowering AVG to a SUM/COUNT pair; the quotient must be computed outside the circuit")
		return []circuit.AggregationOp{
			{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggSum},
			{GroupKeys: groupKeys, Values: alignedValues, Kind: circuit.AggCount},
		}, nil
	default:
		return nil, resolutionErrorf("unsupported aggregate function %s", agg.Function)
	}
}

// compileHaving lowers a HAVING clause into RangeCheckOps comparing the
// aggregate's per-group final value against the clause's threshold.
// Supplemented from original_source (present in its AST, never compiled
// there).
func compileHaving(h *HavingClause, table *database.Table, groupKeysSorted []uint64, perm []int) ([]circuit.RangeCheckOp, error) {
	aggOps, err := compileAggregation(h.Aggregation, table, groupKeysSorted, perm)
	if err != nil {
		return nil, err
	}
	finals := finalPerGroup(aggOps[0])
	var ops []circuit.RangeCheckOp
	for _, v := range finals {
		switch h.Op {
		case HavingLess:
			ops = append(ops, rangeOp(v, h.Value))
		case HavingGreater:
			ops = append(ops, rangeOp(v, h.Value+1))
		case HavingEqual:
			ops = append(ops, rangeOp(v, h.Value+1), rangeOp(v, h.Value))
		default:
			return nil, resolutionErrorf("unsupported HAVING operator")
		}
	}
	return ops, nil
}

// finalPerGroup recomputes the recurrence described by op off-circuit and
// returns the last running value of every contiguous group, the same
// values the Aggregation gate's final row per group would witness.
func finalPerGroup(op circuit.AggregationOp) []uint64 {
	var finals []uint64
	var running uint64
	for i, v := range op.Values {
		newGroup := i == 0 || op.GroupKeys[i] != op.GroupKeys[i-1]
		if newGroup {
			if i != 0 {
				finals = append(finals, running)
			}
			switch op.Kind {
			case circuit.AggCount:
				running = 1
			default:
				running = v
			}
			continue
		}
		switch op.Kind {
		case circuit.AggSum:
			running += v
		case circuit.AggCount:
			running++
		case circuit.AggMax:
			if v > running {
				running = v
			}
		case circuit.AggMin:
			if v < running {
				running = v
			}
		}
	}
	if len(op.Values) > 0 {
		finals = append(finals, running)
	}
	return finals
}

func reverse(s []uint64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func sortIndices(data []uint64) []int {
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return data[idx[i]] < data[idx[j]] })
	return idx
}

func permuteU64(data []uint64, perm []int) []uint64 {
	out := make([]uint64, len(data))
	for i, p := range perm {
		out[i] = data[p]
	}
	return out
}

// alignForAggregation orders values by the same permutation groupBy used
// to produce groupKeysSorted, so Aggregation's per-row recurrence sees
// values aligned with their group. If no GROUP BY clause was present,
// groupKeysSorted/perm are both empty and the aggregate runs as a single
// implicit group over the column in its original order, with GroupKeys all
// zero (one group covering every row).
func alignForAggregation(groupKeysSorted []uint64, perm []int, values []uint64) (groupKeys, alignedValues []uint64) {
	if len(groupKeysSorted) == 0 {
		groupKeys = make([]uint64, len(values))
		return groupKeys, values
	}
	return groupKeysSorted, permuteU64(values, perm)
}

// resolveJoinValues resolves the value column for a join side: the first
// declared column that is not the join key itself, falling back to the
// key column only for single-column tables. This improves on join.rs's
// arbitrary "table's first column" projection (which silently returns the
// key itself whenever the key happens to be column 0), by instead always
// preferring a genuinely distinct value column when the catalog has one
// (see DESIGN.md's JOIN value-column decision).
func resolveJoinValues(table *database.Table, keyColumn string) ([]uint64, error) {
	for _, name := range table.Columns {
		if name != keyColumn {
			return table.Column(name)
		}
	}
	return table.Column(keyColumn)
}
