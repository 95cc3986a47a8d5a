package prover

import (
	"io"

	"github.com/zkquery/zkquery/pkg/circuit"
)

// Params represents a backend's opaque public parameters (the equivalent
// of Halo2's Params<C> produced by trusted setup or a transparent SRS
// derivation — original_source/src/prover/mod.rs's Params<EqAffine>).
type Params interface{}

// VerifyingKey and ProvingKey are opaque backend-specific artifacts
// produced by KeygenVK/KeygenPK.
type VerifyingKey interface{}
type ProvingKey interface{}

// Backend is the pluggable proving-backend contract of SPEC_FULL.md §6.
// This module treats a concrete PLONKish backend (Halo2-style, with
// arbitrary-arity lookups and a permutation argument) as an external
// collaborator: it is never implemented here, only its shape. Two
// implementations ship for development and illustration:
// MockBackend (constraint re-checking, no real cryptography) and
// TranscriptBackend (a deterministic Fiat-Shamir sketch, explicitly not
// sound on its own — see transcript.go).
type Backend interface {
	Setup(k uint) (Params, error)
	KeygenVK(p Params, layout circuit.Assembled) (VerifyingKey, error)
	KeygenPK(p Params, vk VerifyingKey, layout circuit.Assembled) (ProvingKey, error)
	CreateProof(p Params, pk ProvingKey, assembled *circuit.Assembled, rng io.Reader) ([]byte, error)
	VerifyProof(p Params, vk VerifyingKey, pub circuit.PublicInputs, proof []byte) (bool, error)
}
