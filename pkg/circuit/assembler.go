package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/gates"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

var log = logrus.WithField("component", "circuit")

// Assembled is the synthesized form of a CompiledQuery: a witnessed Trace
// plus every air.Constraint the gates registered while being assembled, in
// strict textual op order (Range Check, Sort, Group-By, Join, Aggregation
// — SPEC_FULL.md §2/§5). It is what a prover.Backend consumes.
type Assembled struct {
	Trace       trace.Trace
	Constraints *air.System
	PublicInputs PublicInputs
}

// Assembler synthesizes a sequence of gate operations onto the shared
// column layout, guaranteeing disjoint row regions via its RowAllocator.
// Grounded on original_source/src/circuit/mod.rs's PoneglyphCircuit::
// synthesize, which loops over each op vector in the same fixed order.
type Assembler struct {
	tr    trace.Trace
	alloc *layout.RowAllocator
	sys   *air.System
	table []field.Element
}

// NewAssembler creates an empty assembler with a fresh trace over the
// fixed column layout.
func NewAssembler() *Assembler {
	tr := trace.NewTrace(0, layout.AllColumnNames()...)
	raw := layout.ChunkLookupTable()
	table := make([]field.Element, len(raw))
	for i, v := range raw {
		table[i] = field.FromUint64(v)
	}
	return &Assembler{
		tr:    tr,
		alloc: layout.NewRowAllocator(),
		sys:   &air.System{},
		table: table,
	}
}

// RangeChecks synthesizes a sequence of Range Check ops in order.
func (a *Assembler) RangeChecks(ops []RangeCheckOp) error {
	for i, op := range ops {
		log.WithFields(logrus.Fields{"index": i, "value": op.Value, "threshold": op.Threshold}).Debug("synthesizing range check")
		if _, err := gates.CheckLessThan(a.tr, a.sys, a.alloc, op.Value, op.Threshold, op.U, a.table); err != nil {
			return fmt.Errorf("circuit: range check %d: %w", i, err)
		}
	}
	return nil
}

// Sorts synthesizes a sequence of Sort ops in order.
func (a *Assembler) Sorts(ops []SortOp) error {
	for i, op := range ops {
		log.WithFields(logrus.Fields{"index": i, "len": len(op.Input)}).Debug("synthesizing sort")
		if _, err := gates.Sort(a.tr, a.sys, a.alloc, op.Input, op.SortedOutput, a.table); err != nil {
			return fmt.Errorf("circuit: sort %d: %w", i, err)
		}
	}
	return nil
}

// GroupByResults are kept per op index so the Aggregation stage can look up
// the boundary bitset an earlier Group-By op computed over the same key
// column, matching how a SQL query's GROUP BY clause feeds its aggregate
// functions.
type GroupByResults []gates.GroupByResult

// GroupBys synthesizes a sequence of Group-By ops in order and returns
// their results for later Aggregation ops to consume.
func (a *Assembler) GroupBys(ops []GroupByOp) (GroupByResults, error) {
	results := make(GroupByResults, 0, len(ops))
	for i, op := range ops {
		log.WithFields(logrus.Fields{"index": i, "len": len(op.GroupKeys)}).Debug("synthesizing group-by")
		r, err := gates.GroupBy(a.tr, a.sys, a.alloc, op.GroupKeys)
		if err != nil {
			return nil, fmt.Errorf("circuit: group-by %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Joins synthesizes a sequence of Join ops in order.
func (a *Assembler) Joins(ops []JoinOp) error {
	for i, op := range ops {
		log.WithFields(logrus.Fields{"index": i, "t1_len": len(op.Table1Keys), "t2_len": len(op.Table2Keys)}).Debug("synthesizing join")
		if _, err := gates.Join(a.tr, a.sys, a.alloc, op.Table1Keys, op.Table1Values, op.Table2Keys, op.Table2Values, a.table); err != nil {
			return fmt.Errorf("circuit: join %d: %w", i, err)
		}
	}
	return nil
}

// Aggregations synthesizes a sequence of Aggregation ops in order, returning
// each op's gates.AggregationResult so the caller can bind a single
// unambiguous final value to the public QueryResult (see
// CompiledQuery.Assemble). groupBoundaries, if provided, is paired with ops
// by index: aggregation op i uses the boundary bitset of Group-By result i,
// without comparing the two ops' GroupKeys. Ops with no result at their
// index (or a nil Boundary) derive boundaries directly from GroupKeys
// equality.
func (a *Assembler) Aggregations(ops []AggregationOp, groupBoundaries GroupByResults) ([]gates.AggregationResult, error) {
	results := make([]gates.AggregationResult, 0, len(ops))
	for i, op := range ops {
		log.WithFields(logrus.Fields{"index": i, "kind": op.Kind, "len": len(op.Values)}).Debug("synthesizing aggregation")
		var boundary *bitset.BitSet
		if groupBoundaries != nil && i < len(groupBoundaries) {
			boundary = groupBoundaries[i].Boundary
		}
		r, err := gates.Aggregate(a.tr, a.sys, a.alloc, op.GroupKeys, op.Values, gates.AggregationKind(op.Kind), boundary, a.table)
		if err != nil {
			return nil, fmt.Errorf("circuit: aggregation %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}
