package prover

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/zkquery/zkquery/pkg/circuit"
	"github.com/zkquery/zkquery/pkg/field"
)

var log = logrus.WithField("component", "prover")

// MockBackend implements Backend by re-checking every constraint the
// gates registered during synthesis directly against the witnessed
// trace, the "mock-proving mode" of SPEC_FULL.md §7. Grounded on
// original_source's MockProverHelper::mock_prove_and_verify, which wraps
// Halo2's own MockProver in the same role: development-time verification
// without a real polynomial commitment scheme. The "proof" it produces is
// a placeholder token, not a cryptographic artifact — CreateProof never
// returns ok unless the trace already satisfies every constraint, and
// VerifyProof compares the token's embedded public inputs against the
// verifying key's commitment and the supplied public inputs; it does not
// re-check any constraint, so a token is only as trustworthy as the
// CreateProof call that produced it.
type MockBackend struct{}

type mockParams struct{ k uint }
type mockVK struct{ commitment field.Element }
type mockPK struct{ mockVK }

func (MockBackend) Setup(k uint) (Params, error) {
	return mockParams{k: k}, nil
}

func (MockBackend) KeygenVK(_ Params, assembled circuit.Assembled) (VerifyingKey, error) {
	return mockVK{commitment: assembled.PublicInputs.DatabaseCommitment}, nil
}

func (MockBackend) KeygenPK(_ Params, vk VerifyingKey, _ circuit.Assembled) (ProvingKey, error) {
	mvk, ok := vk.(mockVK)
	if !ok {
		return nil, &ProofError{Stage: "keygen_pk", Cause: errInvalidKey}
	}
	return mockPK{mvk}, nil
}

// mockProof is the token MockBackend.CreateProof returns: the public
// inputs it was synthesized against, serialized minimally. A real backend
// would return an opaque byte string; here the bytes are a direct,
// human-legible encoding since there is no cryptographic hiding to
// preserve in mock mode.
type mockProof struct {
	commitment field.Element
	result     field.Element
	ok         bool
}

func (MockBackend) CreateProof(_ Params, pk ProvingKey, assembled *circuit.Assembled, _ io.Reader) ([]byte, error) {
	if _, ok := pk.(mockPK); !ok {
		return nil, &ProofError{Stage: "create_proof", Cause: errInvalidKey}
	}
	if err := assembled.Constraints.Accepts(assembled.Trace); err != nil {
		log.WithError(err).Debug("mock proving: constraint violated")
		return nil, &SynthesisError{Cause: err}
	}
	return encodeMockProof(mockProof{
		commitment: assembled.PublicInputs.DatabaseCommitment,
		result:     assembled.PublicInputs.QueryResult,
		ok:         true,
	}), nil
}

func (MockBackend) VerifyProof(_ Params, vk VerifyingKey, pub circuit.PublicInputs, proof []byte) (bool, error) {
	mvk, ok := vk.(mockVK)
	if !ok {
		return false, &ProofError{Stage: "verify_proof", Cause: errInvalidKey}
	}
	p, err := decodeMockProof(proof)
	if err != nil {
		return false, &ProofError{Stage: "verify_proof", Cause: err}
	}
	if !field.Equal(p.commitment, mvk.commitment) {
		return false, nil
	}
	if !field.Equal(p.commitment, pub.DatabaseCommitment) {
		return false, nil
	}
	if !field.Equal(p.result, pub.QueryResult) {
		return false, nil
	}
	return p.ok, nil
}

var errInvalidKey = errors.New("prover: mismatched key type")
