// Package field wraps the scalar field used throughout the circuit: the
// BLS12-377 scalar field exposed by gnark-crypto as fr.Element. All witness
// and public-input values are lifted into this field before they touch a
// column.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Element is the field element type shared by every package in this module.
type Element = fr.Element

// FromUint64 lifts a row value into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// FromInt64 lifts a signed delta (e.g. a sort or aggregation diff prior to
// range-proving its sign) into the field. Negative values wrap modulo the
// field characteristic, matching how a circuit would represent them.
func FromInt64(v int64) Element {
	var e Element
	if v >= 0 {
		e.SetUint64(uint64(v))
		return e
	}
	e.SetUint64(uint64(-v))
	e.Neg(&e)
	return e
}

// Zero returns the additive identity.
func Zero() Element {
	var e Element
	return e
}

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.SetOne()
	return e
}

// Inverse returns the multiplicative inverse of e, or zero if e is zero.
// This mirrors the "pseudo-inverse" convention used by the Group-By gate's
// boundary-detection witness: Inverse(0) == 0 rather than undefined, which
// lets a single algebraic identity cover both the zero and non-zero cases.
func Inverse(e Element) Element {
	var out Element
	if e.IsZero() {
		return out
	}
	out.Inverse(&e)
	return out
}

// Sub returns a - b.
func Sub(a, b Element) Element {
	var out Element
	out.Sub(&a, &b)
	return out
}

// Add returns a + b.
func Add(a, b Element) Element {
	var out Element
	out.Add(&a, &b)
	return out
}

// Mul returns a * b.
func Mul(a, b Element) Element {
	var out Element
	out.Mul(&a, &b)
	return out
}

// IsZero reports whether e is the additive identity.
func IsZero(e Element) bool {
	return e.IsZero()
}

// Equal reports whether a and b represent the same field element.
func Equal(a, b Element) bool {
	return a.Equal(&b)
}

// ToBigInt renders e as a big.Int in [0, modulus).
func ToBigInt(e Element) *big.Int {
	var b big.Int
	e.BigInt(&b)
	return &b
}

// LinearCommit computes the baseline database commitment used by
// pkg/database: a deterministic but non-collision-resistant accumulator
// over (key, value) pairs, hash = sum(key * 1_000_000 + value). This is
// grounded directly on original_source's DatabaseCommitment::hash_data and
// is explicitly NOT suitable for production use (see pkg/database/commitment.go).
func LinearCommit(pairs [][2]uint64) Element {
	var sum Element
	var scale Element
	scale.SetUint64(1_000_000)
	for _, kv := range pairs {
		k := FromUint64(kv[0])
		v := FromUint64(kv[1])
		var term Element
		term.Mul(&k, &scale)
		term.Add(&term, &v)
		sum.Add(&sum, &term)
	}
	return sum
}
