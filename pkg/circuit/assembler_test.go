package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/layout"
)

// TestAssembleFullPipeline exercises a single CompiledQuery touching every
// op kind, confirming the fixed leaf-first synthesis order produces a
// trace every registered constraint accepts.
func TestAssembleFullPipeline(t *testing.T) {
	cq := CompiledQuery{
		RangeChecks: []RangeCheckOp{{Value: 5, Threshold: 10, U: 8}},
		Sorts:       []SortOp{{Input: []uint64{3, 1, 2}, SortedOutput: []uint64{1, 2, 3}}},
		GroupBys:    []GroupByOp{{GroupKeys: []uint64{1, 1, 2}}},
		Joins: []JoinOp{{
			Table1Keys: []uint64{1, 2}, Table1Values: []uint64{10, 20},
			Table2Keys: []uint64{1, 3}, Table2Values: []uint64{100, 300},
		}},
		Aggregations: []AggregationOp{{GroupKeys: []uint64{1, 1, 2}, Values: []uint64{10, 20, 5}, Kind: AggSum}},
	}
	// public_result_binding ties the claimed result to the aggregation's
	// last witnessed row, which restarts its running sum at each group
	// boundary; with keys [1,1,2] the last row is group 2's lone value (5),
	// not a grand total across both groups.
	pub := PublicInputs{DatabaseCommitment: field.FromUint64(1), QueryResult: field.FromUint64(5)}

	assembled, err := Assemble(cq, pub)
	require.NoError(t, err)
	require.NoError(t, assembled.Constraints.Accepts(assembled.Trace))

	instCol, ok := assembled.Trace.ColumnByName(layout.InstanceColumn)
	require.True(t, ok)
	assert.True(t, field.Equal(instCol.Get(0), field.FromUint64(1)))
	assert.True(t, field.Equal(instCol.Get(1), field.FromUint64(5)))
}

func TestAssembleGroupByFeedsAggregationBoundaries(t *testing.T) {
	cq := CompiledQuery{
		GroupBys:     []GroupByOp{{GroupKeys: []uint64{1, 1, 2, 2}}},
		Aggregations: []AggregationOp{{GroupKeys: []uint64{1, 1, 2, 2}, Values: []uint64{1, 1, 1, 1}, Kind: AggCount}},
	}
	// Last row is group 2's own count (2), not a total across both groups.
	pub := PublicInputs{QueryResult: field.FromUint64(2)}
	assembled, err := Assemble(cq, pub)
	require.NoError(t, err)
	assert.NoError(t, assembled.Constraints.Accepts(assembled.Trace))
}

func TestAssemblePropagatesGateErrors(t *testing.T) {
	cq := CompiledQuery{
		Sorts: []SortOp{{Input: []uint64{1, 2}, SortedOutput: []uint64{2, 1}}},
	}
	_, err := Assemble(cq, PublicInputs{})
	assert.Error(t, err)
}

func TestAssembleEmptyQuery(t *testing.T) {
	assembled, err := Assemble(CompiledQuery{}, PublicInputs{})
	require.NoError(t, err)
	assert.NoError(t, assembled.Constraints.Accepts(assembled.Trace))
}
