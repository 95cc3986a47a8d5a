// Package air provides a small, self-contained arithmetic expression tree
// and a family of constraints that evaluate it against a witnessed trace.
// It is grounded on go-corset's pkg/air package, narrowed to this module's
// fixed-topology circuit: there is no generic schema/module system here,
// just columns, rows, and polynomial identities over them.
package air

import (
	"fmt"

	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/trace"
)

// Expr is a node in an arithmetic expression tree evaluated over a single
// row of a trace. This mirrors go-corset's air.Expr wrapping a Term tree
// (pkg/air/expr.go), reduced to the handful of node kinds this circuit's
// gates actually need.
type Expr interface {
	Eval(tr trace.Trace, row int) (field.Element, error)
	String() string
}

// Const is a fixed field element.
type Const struct{ Value field.Element }

func (c Const) Eval(trace.Trace, int) (field.Element, error) { return c.Value, nil }
func (c Const) String() string                                { return field.ToBigInt(c.Value).String() }

// ConstUint64 builds a Const from a raw row value.
func ConstUint64(v uint64) Const { return Const{Value: field.FromUint64(v)} }

// ColumnAt reads a named column at a fixed row offset relative to the row
// the constraint is being checked at. Offset 0 is "this row", 1 is "the
// next row" (go-corset's Rotation(1) equivalent), -1 "the previous row".
type ColumnAt struct {
	Column string
	Offset int
}

func (c ColumnAt) Eval(tr trace.Trace, row int) (field.Element, error) {
	col, ok := tr.ColumnByName(c.Column)
	if !ok {
		return field.Zero(), fmt.Errorf("air: unknown column %q", c.Column)
	}
	r := row + c.Offset
	if r < 0 || r >= col.Len() {
		return field.Zero(), fmt.Errorf("air: column %q: row %d out of range", c.Column, r)
	}
	return col.Get(r), nil
}

func (c ColumnAt) String() string {
	if c.Offset == 0 {
		return c.Column
	}
	return fmt.Sprintf("%s[%+d]", c.Column, c.Offset)
}

// Col is shorthand for ColumnAt{Column: name, Offset: 0}.
func Col(name string) ColumnAt { return ColumnAt{Column: name} }

// Next is shorthand for ColumnAt{Column: name, Offset: 1}.
func Next(name string) ColumnAt { return ColumnAt{Column: name, Offset: 1} }

// Prev is shorthand for ColumnAt{Column: name, Offset: -1}.
func Prev(name string) ColumnAt { return ColumnAt{Column: name, Offset: -1} }

// binary implements the three arithmetic combinators as a single node type,
// following go-corset's approach of a small closed set of Term operators.
type binary struct {
	op          byte // '+', '-', '*'
	left, right Expr
}

func (b binary) Eval(tr trace.Trace, row int) (field.Element, error) {
	l, err := b.left.Eval(tr, row)
	if err != nil {
		return field.Zero(), err
	}
	r, err := b.right.Eval(tr, row)
	if err != nil {
		return field.Zero(), err
	}
	switch b.op {
	case '+':
		return field.Add(l, r), nil
	case '-':
		return field.Sub(l, r), nil
	case '*':
		return field.Mul(l, r), nil
	default:
		panic("air: unknown binary op")
	}
}

func (b binary) String() string {
	return fmt.Sprintf("(%s %c %s)", b.left, b.op, b.right)
}

// Add builds l + r.
func Add(l, r Expr) Expr { return binary{op: '+', left: l, right: r} }

// Sub builds l - r.
func Sub(l, r Expr) Expr { return binary{op: '-', left: l, right: r} }

// Mul builds l * r.
func Mul(l, r Expr) Expr { return binary{op: '*', left: l, right: r} }

// One is the constant 1, used constantly in boolean gates (b*(1-b)=0).
func One() Expr { return Const{Value: field.One()} }

// Zero is the constant 0.
func Zero() Expr { return Const{Value: field.Zero()} }
