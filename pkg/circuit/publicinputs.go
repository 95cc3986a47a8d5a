package circuit

import "github.com/zkquery/zkquery/pkg/field"

// PublicInputs is the two-row instance column every proof binds: row 0 the
// database commitment, row 1 the claimed query result, per SPEC_FULL.md §6
// and original_source's get_public_input_layout.
type PublicInputs struct {
	DatabaseCommitment field.Element
	QueryResult        field.Element
}

// Rows renders the instance column as an ordered slice, row 0 first.
func (p PublicInputs) Rows() []field.Element {
	return []field.Element{p.DatabaseCommitment, p.QueryResult}
}
