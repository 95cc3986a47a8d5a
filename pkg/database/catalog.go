// Package database provides the read-only table catalog a query is
// compiled against and the baseline commitment scheme binding its
// contents into a proof's public inputs. Grounded on
// original_source/src/database/mod.rs's DatabaseTable/DatabaseCommitment.
package database

import "fmt"

// Table is a single named table: an ordered list of column names plus
// row-major u64 data, matching original_source's DatabaseTable.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]uint64
}

// Insert appends a row, validating it has one value per declared column.
func (t *Table) Insert(row []uint64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("database: table %q: row has %d values, want %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the 0-based index of name within the table, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column extracts every row's value for the named column, in row order.
func (t *Table) Column(name string) ([]uint64, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("database: table %q has no column %q", t.Name, name)
	}
	out := make([]uint64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Catalog is the set of tables a query compiles against — table name to
// Table, mirroring the HashMap<table, HashMap<col, Vec<u64>>> shape
// SQLCompiler::compile takes in the Rust reference, restructured as named
// tables rather than a bare nested map so column resolution can report a
// useful error (SPEC_FULL.md §7).
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog builds an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// AddTable registers t, replacing any existing table of the same name.
func (c *Catalog) AddTable(t *Table) {
	c.tables[t.Name] = t
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Commit computes the database commitment over every table's first two
// columns (key, value), in the table order given by order, then row order — the
// same convention as original_source's DatabaseTable::commit, which reads
// kv_pairs as (row[0], row[1]).
func (c *Catalog) Commit(order []string) (Commitment, error) {
	var pairs [][2]uint64
	for _, name := range order {
		t, ok := c.tables[name]
		if !ok {
			return Commitment{}, fmt.Errorf("database: commit: unknown table %q", name)
		}
		if len(t.Columns) < 2 {
			return Commitment{}, fmt.Errorf("database: commit: table %q needs at least 2 columns", name)
		}
		for _, row := range t.Rows {
			pairs = append(pairs, [2]uint64{row[0], row[1]})
		}
	}
	return NewCommitment(pairs), nil
}
