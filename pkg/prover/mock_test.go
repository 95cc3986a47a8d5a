package prover

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkquery/zkquery/pkg/circuit"
	"github.com/zkquery/zkquery/pkg/field"
)

func validQuery(t *testing.T, result uint64) *circuit.Assembled {
	t.Helper()
	cq := circuit.CompiledQuery{
		Aggregations: []circuit.AggregationOp{{
			GroupKeys: []uint64{0, 0, 0},
			Values:    []uint64{10, 20, 5},
			Kind:      circuit.AggSum,
		}},
	}
	pub := circuit.PublicInputs{DatabaseCommitment: field.FromUint64(1), QueryResult: field.FromUint64(result)}
	assembled, err := circuit.Assemble(cq, pub)
	require.NoError(t, err)
	return assembled
}

func TestMockBackendAcceptsConsistentProof(t *testing.T) {
	backend := MockBackend{}
	assembled := validQuery(t, 35)

	params, err := backend.Setup(0)
	require.NoError(t, err)
	vk, err := backend.KeygenVK(params, *assembled)
	require.NoError(t, err)
	pk, err := backend.KeygenPK(params, vk, *assembled)
	require.NoError(t, err)

	proof, err := backend.CreateProof(params, pk, assembled, bytes.NewReader(nil))
	require.NoError(t, err)

	ok, err := backend.VerifyProof(params, vk, assembled.PublicInputs, proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMockBackendRejectsWrongClaimedResult(t *testing.T) {
	// The claimed result (999) doesn't match what the aggregation
	// recurrence actually proves (35): the public_result_binding
	// constraint ties the aggregation's final witnessed value to the
	// instance column, so synthesis itself must fail.
	backend := MockBackend{}
	assembled := validQuery(t, 999)

	params, _ := backend.Setup(0)
	vk, _ := backend.KeygenVK(params, *assembled)
	pk, _ := backend.KeygenPK(params, vk, *assembled)

	_, err := backend.CreateProof(params, pk, assembled, bytes.NewReader(nil))
	require.Error(t, err)
	var synthErr *SynthesisError
	assert.ErrorAs(t, err, &synthErr)
}

func TestMockBackendRejectsInvalidTrace(t *testing.T) {
	backend := MockBackend{}
	cq := circuit.CompiledQuery{
		Sorts: []circuit.SortOp{{Input: []uint64{1, 2}, SortedOutput: []uint64{1, 2}}},
	}
	assembled, err := circuit.Assemble(cq, circuit.PublicInputs{})
	require.NoError(t, err)

	// Tamper with the witnessed output after assembly to break a constraint.
	col, ok := assembled.Trace.ColumnByName("advice_chunk_3")
	require.True(t, ok)
	col.Set(0, field.FromUint64(99))

	params, _ := backend.Setup(0)
	vk, _ := backend.KeygenVK(params, *assembled)
	pk, _ := backend.KeygenPK(params, vk, *assembled)

	_, err = backend.CreateProof(params, pk, assembled, bytes.NewReader(nil))
	assert.Error(t, err)
	var synthErr *SynthesisError
	assert.ErrorAs(t, err, &synthErr)
}

func TestMockBackendVerifyRejectsGarbageProof(t *testing.T) {
	backend := MockBackend{}
	assembled := validQuery(t, 35)
	params, _ := backend.Setup(0)
	vk, _ := backend.KeygenVK(params, *assembled)

	_, err := backend.VerifyProof(params, vk, assembled.PublicInputs, []byte("not a proof"))
	assert.Error(t, err)
}
