package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse("SELECT id, amount FROM orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount"}, stmt.Columns)
	assert.Equal(t, "orders", stmt.From)
}

func TestParseWhereClause(t *testing.T) {
	stmt, err := Parse("SELECT id FROM orders WHERE amount < 100 AND amount > 10")
	require.NoError(t, err)
	require.NotNil(t, stmt.Where)
	assert.False(t, stmt.Where.IsLeaf())
	assert.Equal(t, BoolAnd, stmt.Where.Op)
}

func TestParseGroupByOrderByHaving(t *testing.T) {
	stmt, err := Parse("SELECT id FROM orders GROUP BY category HAVING sum(amount) > 100 ORDER BY id DESC")
	require.NoError(t, err)
	assert.Equal(t, []string{"category"}, stmt.GroupBy)
	require.NotNil(t, stmt.Having)
	assert.Equal(t, FuncSum, stmt.Having.Aggregation.Function)
	assert.Equal(t, HavingGreater, stmt.Having.Op)
	require.Len(t, stmt.OrderBy, 1)
	assert.Equal(t, Desc, stmt.OrderBy[0].Direction)
}

func TestParseJoinClause(t *testing.T) {
	stmt, err := Parse("SELECT id FROM orders INNER JOIN customers ON orders.customer_id = customers.id")
	require.NoError(t, err)
	require.Len(t, stmt.Joins, 1)
	jc := stmt.Joins[0]
	assert.Equal(t, "customers", jc.Table)
	assert.Equal(t, "customer_id", jc.LeftColumn)
	assert.Equal(t, "id", jc.RightColumn)
	assert.Equal(t, JoinInner, jc.Type)
}

func TestParseAggregateSelectList(t *testing.T) {
	stmt, err := Parse("SELECT count(id) FROM orders")
	require.NoError(t, err)
	require.Len(t, stmt.Aggregations, 1)
	assert.Equal(t, FuncCount, stmt.Aggregations[0].Function)
	assert.Equal(t, "id", stmt.Aggregations[0].Column)
}

func TestParseStarSelect(t *testing.T) {
	stmt, err := Parse("SELECT * FROM orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, stmt.Columns)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse("SELECT id FROM orders )")
	assert.Error(t, err)
}

func TestParseRejectsMissingFrom(t *testing.T) {
	_, err := Parse("SELECT id")
	assert.Error(t, err)
	var ce *CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, KindGrammar, ce.Kind)
}
