// Package trace defines the column-oriented witness storage shared by every
// gate. Its shapes follow go-corset's pkg/table.Column / pkg/table.Trace
// pair, narrowed to the fixed column set this module needs: there is no
// generic module/register system here, just a dense 2-D array indexed by
// (column, row).
package trace

import (
	"fmt"

	"github.com/zkquery/zkquery/pkg/field"
)

// Element aliases the shared field element type, so trace depends only on
// pkg/field's type and never on pkg/air, keeping the dependency edge
// one-directional as in go-corset's own table package.
type Element = field.Element

// Column is a single named witness column: a dense vector of field
// elements, one per row, addressable by row index.
type Column interface {
	Name() string
	Len() int
	Get(row int) Element
	Set(row int, v Element)
}

// arrayColumn is the concrete dense-vector Column implementation, the
// direct analogue of go-corset's table.ArrayTrace column storage.
type arrayColumn struct {
	name string
	data []Element
}

// NewColumn allocates a zero-filled column of the given length.
func NewColumn(name string, length int) Column {
	return &arrayColumn{name: name, data: make([]Element, length)}
}

func (c *arrayColumn) Name() string { return c.name }
func (c *arrayColumn) Len() int     { return len(c.data) }

func (c *arrayColumn) Get(row int) Element {
	if row < 0 || row >= len(c.data) {
		panic(fmt.Sprintf("trace: column %q: row %d out of range [0,%d)", c.name, row, len(c.data)))
	}
	return c.data[row]
}

func (c *arrayColumn) Set(row int, v Element) {
	if row < 0 || row >= len(c.data) {
		panic(fmt.Sprintf("trace: column %q: row %d out of range [0,%d)", c.name, row, len(c.data)))
	}
	c.data[row] = v
}

// Grow extends the column to at least n rows, zero-filling the new tail.
// Gate regions are allocated incrementally by the bump-pointer allocator
// (pkg/layout), so columns grow on demand rather than being pre-sized.
func Grow(c Column, n int) Column {
	ac, ok := c.(*arrayColumn)
	if !ok || n <= ac.Len() {
		return c
	}
	grown := make([]Element, n)
	for i := 0; i < ac.Len(); i++ {
		grown[i] = ac.data[i]
	}
	ac.data = grown
	return ac
}

// Trace is the full witness: every column plus the fixed-column and
// instance-column values a gate's Accepts check needs to read. It mirrors
// go-corset's table.Trace interface (ColumnByName / Columns / Height)
// narrowed to this module's fixed topology.
type Trace interface {
	ColumnByName(name string) (Column, bool)
	ColumnByIndex(idx int) Column
	Columns() []Column
	Height() int
}

// arrayTrace is the concrete Trace, grounded on go-corset's
// pkg/table.ArrayTrace.
type arrayTrace struct {
	cols    []Column
	byName  map[string]int
	height  int
}

// NewTrace builds an empty trace over the given column names, all
// initially sized to height rows.
func NewTrace(height int, names ...string) Trace {
	t := &arrayTrace{byName: make(map[string]int, len(names)), height: height}
	for _, n := range names {
		t.byName[n] = len(t.cols)
		t.cols = append(t.cols, NewColumn(n, height))
	}
	return t
}

func (t *arrayTrace) ColumnByName(name string) (Column, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[idx], true
}

func (t *arrayTrace) ColumnByIndex(idx int) Column {
	return t.cols[idx]
}

func (t *arrayTrace) Columns() []Column { return t.cols }

func (t *arrayTrace) Height() int {
	h := t.height
	for _, c := range t.cols {
		if c.Len() > h {
			h = c.Len()
		}
	}
	return h
}

// EnsureHeight grows every column in the trace to at least n rows.
func EnsureHeight(t Trace, n int) {
	at, ok := t.(*arrayTrace)
	if !ok {
		return
	}
	if n > at.height {
		at.height = n
	}
	for i, c := range at.cols {
		at.cols[i] = Grow(c, n)
	}
}
