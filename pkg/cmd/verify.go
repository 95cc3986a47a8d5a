package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zkquery/zkquery/pkg/circuit"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/prover"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof produced by 'prove' against a database commitment and a claimed result",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		result, _ := cmd.Flags().GetUint64("result")
		proofPath, _ := cmd.Flags().GetString("proof")

		cat, order, err := loadCatalog(dbPath)
		if err != nil {
			return fmt.Errorf("loading database: %w", err)
		}
		commitment, err := cat.Commit(order)
		if err != nil {
			return fmt.Errorf("computing database commitment: %w", err)
		}
		pub := circuit.PublicInputs{DatabaseCommitment: commitment.Value, QueryResult: field.FromUint64(result)}

		raw, err := os.ReadFile(proofPath)
		if err != nil {
			return fmt.Errorf("reading proof: %w", err)
		}
		proof, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return fmt.Errorf("decoding proof: %w", err)
		}

		backend := prover.MockBackend{}
		params, err := backend.Setup(0)
		if err != nil {
			return err
		}
		vk, err := backend.KeygenVK(params, circuit.Assembled{PublicInputs: pub})
		if err != nil {
			return err
		}
		ok, err := backend.VerifyProof(params, vk, pub, proof)
		if err != nil {
			return fmt.Errorf("verifying proof: %w", err)
		}
		if !ok {
			fmt.Fprintln(os.Stdout, "invalid")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, "valid")
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("db", "", "path to a database JSON file")
	verifyCmd.Flags().Uint64("result", 0, "claimed query result the proof attests to")
	verifyCmd.Flags().String("proof", "", "path to a hex-encoded proof file produced by 'prove'")
	_ = verifyCmd.MarkFlagRequired("db")
	_ = verifyCmd.MarkFlagRequired("proof")
	rootCmd.AddCommand(verifyCmd)
}
