package prover

import (
	"fmt"
	"math/big"

	"github.com/segmentio/encoding/json"

	"github.com/zkquery/zkquery/pkg/field"
)

// mockProofWire is the JSON wire form of a mockProof. Using
// segmentio/encoding/json here (rather than encoding/json) matches
// SPEC_FULL.md §1.1's ambient-stack decision to use it for every
// circuit-adjacent JSON artifact in this module.
type mockProofWire struct {
	Commitment string `json:"commitment"`
	Result     string `json:"result"`
	OK         bool   `json:"ok"`
}

func encodeMockProof(p mockProof) []byte {
	wire := mockProofWire{
		Commitment: field.ToBigInt(p.commitment).String(),
		Result:     field.ToBigInt(p.result).String(),
		OK:         p.ok,
	}
	b, err := json.Marshal(wire)
	if err != nil {
		// Marshaling a struct of two decimal strings and a bool cannot
		// fail; a panic here would indicate a broken json implementation.
		panic(fmt.Sprintf("prover: marshal mock proof: %v", err))
	}
	return b
}

func decodeMockProof(data []byte) (mockProof, error) {
	var wire mockProofWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return mockProof{}, fmt.Errorf("prover: decode mock proof: %w", err)
	}
	commitmentBig, ok := new(big.Int).SetString(wire.Commitment, 10)
	if !ok {
		return mockProof{}, fmt.Errorf("prover: decode mock proof: invalid commitment %q", wire.Commitment)
	}
	resultBig, ok2 := new(big.Int).SetString(wire.Result, 10)
	if !ok2 {
		return mockProof{}, fmt.Errorf("prover: decode mock proof: invalid result %q", wire.Result)
	}
	var commitment, result field.Element
	commitment.SetBigInt(commitmentBig)
	result.SetBigInt(resultBig)
	return mockProof{commitment: commitment, result: result, ok: wire.OK}, nil
}
