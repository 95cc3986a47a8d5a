package database

import "github.com/zkquery/zkquery/pkg/field"

// Commitment is the public binding between a database's contents and a
// proof: a single field element every circuit's instance column row 0
// must match. Grounded on original_source's DatabaseCommitment, which sets
// commitment == data_hash directly (no separate opening value).
//
// This is explicitly a BASELINE, illustrative commitment: the accumulator
// in field.LinearCommit is a sum of key*1_000_000+value terms, which is
// not collision-resistant (two different multisets of (key,value) pairs
// can trivially hash to the same sum). SPEC_FULL.md §9 and
// original_source both flag this; a production deployment should
// substitute a collision-resistant algebraic hash such as Poseidon.
type Commitment struct {
	Value field.Element
}

// NewCommitment computes the baseline linear commitment over pairs.
func NewCommitment(pairs [][2]uint64) Commitment {
	return Commitment{Value: field.LinearCommit(pairs)}
}

// Verify recomputes the commitment over pairs and compares it to c.
func (c Commitment) Verify(pairs [][2]uint64) bool {
	recomputed := field.LinearCommit(pairs)
	return field.Equal(c.Value, recomputed)
}
