package circuit

import (
	"github.com/google/uuid"

	"github.com/zkquery/zkquery/pkg/air"
	"github.com/zkquery/zkquery/pkg/layout"
	"github.com/zkquery/zkquery/pkg/trace"
)

// CompiledQuery is the output of pkg/sql's compiler: five ordered op
// vectors, consumed strictly in this order by Assemble. Grounded on
// original_source/src/sql/mod.rs's CompiledQuery struct; QueryID is this
// module's addition (SPEC_FULL.md §3) for batch/log correlation.
type CompiledQuery struct {
	QueryID      uuid.UUID
	RangeChecks  []RangeCheckOp
	Sorts        []SortOp
	GroupBys     []GroupByOp
	Joins        []JoinOp
	Aggregations []AggregationOp
}

// Assemble synthesizes every op in cq, in the fixed leaf-first order
// (Range Check -> Sort -> Group-By -> Join -> Aggregation), and binds the
// given public inputs to the resulting trace.
func Assemble(cq CompiledQuery, pub PublicInputs) (*Assembled, error) {
	a := NewAssembler()

	if err := a.RangeChecks(cq.RangeChecks); err != nil {
		return nil, err
	}
	if err := a.Sorts(cq.Sorts); err != nil {
		return nil, err
	}
	groupResults, err := a.GroupBys(cq.GroupBys)
	if err != nil {
		return nil, err
	}
	if err := a.Joins(cq.Joins); err != nil {
		return nil, err
	}
	aggResults, err := a.Aggregations(cq.Aggregations, groupResults)
	if err != nil {
		return nil, err
	}

	trace.EnsureHeight(a.tr, 2)
	if c, ok := a.tr.ColumnByName(layout.InstanceColumn); ok {
		c.Set(layout.InstanceRowCommitment, pub.DatabaseCommitment)
		c.Set(layout.InstanceRowResult, pub.QueryResult)
	}

	// A single Aggregation op has one unambiguous final value (the last
	// row of its recurrence) to bind to the public QueryResult; with more
	// than one op (e.g. an AVG's SUM/COUNT pair, or several SELECT-list
	// aggregates) there is no single value the public input could name
	// without the caller also specifying which one, so no binding
	// constraint is added and the caller is responsible for checking the
	// relevant op's witnessed result out of band.
	if len(aggResults) == 1 && aggResults[0].Len > 0 {
		finalRow := aggResults[0].Row + aggResults[0].Len - 1
		a.sys.Add(air.VanishingConstraint{
			Handle: "public_result_binding",
			Expr: air.Sub(
				air.Col(layout.AdviceDiff),
				air.ColumnAt{Column: layout.InstanceColumn, Offset: layout.InstanceRowResult - finalRow},
			),
			FirstRow: finalRow,
			LastRow:  finalRow + 1,
		})
	}

	return &Assembled{Trace: a.tr, Constraints: a.sys, PublicInputs: pub}, nil
}
