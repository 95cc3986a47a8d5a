package air

import (
	"fmt"

	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/trace"
)

// Constraint checks a polynomial identity (or lookup/range membership)
// against a witnessed trace. Accepts mirrors go-corset's
// air.VanishingConstraint / air.RangeConstraint pattern
// (pkg/air/constraint.go): a constraint is active on a subset of rows and
// returns a descriptive error the first time it is violated, rather than a
// bare boolean, so a failing proof attempt can be diagnosed.
type Constraint interface {
	Name() string
	Accepts(tr trace.Trace) error
}

// VanishingConstraint requires Expr to evaluate to zero on every row in
// [FirstRow, LastRow), where a LastRow of 0 stands for tr.Height(). This
// is the single most common constraint shape
// used by every gate: boolean checks, definitional checks, and recurrence
// identities are all vanishing constraints over a region of rows.
type VanishingConstraint struct {
	Handle    string
	Expr      Expr
	FirstRow  int
	LastRow   int // exclusive; 0 means "use trace height"
}

func (v VanishingConstraint) Name() string { return v.Handle }

func (v VanishingConstraint) Accepts(tr trace.Trace) error {
	last := v.LastRow
	if last == 0 {
		last = tr.Height()
	}
	for row := v.FirstRow; row < last; row++ {
		got, err := v.Expr.Eval(tr, row)
		if err != nil {
			return fmt.Errorf("constraint %q: row %d: %w", v.Handle, row, err)
		}
		if !field.IsZero(got) {
			return fmt.Errorf("constraint %q violated at row %d: got %s, want 0", v.Handle, row, field.ToBigInt(got))
		}
	}
	return nil
}

// LookupConstraint requires every value produced by Expr over
// [FirstRow, LastRow) to appear somewhere in Table. This is the
// circuit-level analogue of a Halo2 TableColumn lookup (the shared
// [0,256) chunk table every Range Check decomposition and diff residue
// check is looked up against).
type LookupConstraint struct {
	Handle   string
	Expr     Expr
	Table    []field.Element
	FirstRow int
	LastRow  int
}

func (l LookupConstraint) Name() string { return l.Handle }

func (l LookupConstraint) Accepts(tr trace.Trace) error {
	set := make(map[string]struct{}, len(l.Table))
	for _, v := range l.Table {
		set[field.ToBigInt(v).String()] = struct{}{}
	}
	last := l.LastRow
	if last == 0 {
		last = tr.Height()
	}
	for row := l.FirstRow; row < last; row++ {
		got, err := l.Expr.Eval(tr, row)
		if err != nil {
			return fmt.Errorf("lookup %q: row %d: %w", l.Handle, row, err)
		}
		if _, ok := set[field.ToBigInt(got).String()]; !ok {
			return fmt.Errorf("lookup %q failed at row %d: value %s not in table", l.Handle, row, field.ToBigInt(got))
		}
	}
	return nil
}

// RangeConstraint requires every value of Expr over [FirstRow, LastRow) to
// lie in [0, Bound) as an integer, checked via the element's canonical
// big.Int representation. No gate in pkg/gates registers it: the 8-bit
// chunk columns are checked with LookupConstraint against the [0,256) table.
type RangeConstraint struct {
	Handle   string
	Expr     Expr
	Bound    uint64
	FirstRow int
	LastRow  int
}

func (r RangeConstraint) Name() string { return r.Handle }

func (r RangeConstraint) Accepts(tr trace.Trace) error {
	last := r.LastRow
	if last == 0 {
		last = tr.Height()
	}
	for row := r.FirstRow; row < last; row++ {
		got, err := r.Expr.Eval(tr, row)
		if err != nil {
			return fmt.Errorf("range %q: row %d: %w", r.Handle, row, err)
		}
		bi := field.ToBigInt(got)
		if !bi.IsUint64() || bi.Uint64() >= r.Bound {
			return fmt.Errorf("range %q violated at row %d: %s not in [0,%d)", r.Handle, row, bi, r.Bound)
		}
	}
	return nil
}

// MultisetEqualConstraint requires the multiset of values produced by Left
// over its row range to equal the multiset produced by Right over its own
// row range. This stands in for the permutation argument a real PLONKish
// backend would enforce natively (see SPEC_FULL.md §4.2): the Sort gate's
// "sorted copy is a permutation of the input" guarantee is expressed this
// way rather than via column-equality copy constraints, since this module
// does not implement a polynomial permutation argument itself.
type MultisetEqualConstraint struct {
	Handle                 string
	Left, Right            Expr
	LeftFirst, LeftLast    int
	RightFirst, RightLast  int
}

func (m MultisetEqualConstraint) Name() string { return m.Handle }

func (m MultisetEqualConstraint) Accepts(tr trace.Trace) error {
	count := make(map[string]int)
	for row := m.LeftFirst; row < m.LeftLast; row++ {
		v, err := m.Left.Eval(tr, row)
		if err != nil {
			return fmt.Errorf("multiset %q: left row %d: %w", m.Handle, row, err)
		}
		count[field.ToBigInt(v).String()]++
	}
	for row := m.RightFirst; row < m.RightLast; row++ {
		v, err := m.Right.Eval(tr, row)
		if err != nil {
			return fmt.Errorf("multiset %q: right row %d: %w", m.Handle, row, err)
		}
		key := field.ToBigInt(v).String()
		count[key]--
		if count[key] < 0 {
			return fmt.Errorf("multiset %q: value %s on the right has no matching left occurrence", m.Handle, key)
		}
	}
	for k, c := range count {
		if c != 0 {
			return fmt.Errorf("multiset %q: value %s occurs %d more times on the left than the right", m.Handle, k, c)
		}
	}
	return nil
}

// System is an ordered collection of constraints, checked in registration
// order. This mirrors go-corset's schema.Accepts loop over all registered
// constraints (pkg/table's constraint-checking pattern), reduced to a flat
// slice since this module has no module/register hierarchy.
type System struct {
	constraints []Constraint
}

// Add registers a constraint.
func (s *System) Add(c Constraint) { s.constraints = append(s.constraints, c) }

// Accepts runs every registered constraint against tr, returning the first
// error encountered, or nil if the whole trace satisfies the system. This
// is the core of the mock-proving backend (pkg/prover.MockBackend).
func (s *System) Accepts(tr trace.Trace) error {
	for _, c := range s.constraints {
		if err := c.Accepts(tr); err != nil {
			return err
		}
	}
	return nil
}

// Constraints returns the registered constraints in order, primarily for
// diagnostics and tests.
func (s *System) Constraints() []Constraint { return s.constraints }
