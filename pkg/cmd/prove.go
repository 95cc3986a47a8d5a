package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zkquery/zkquery/pkg/circuit"
	"github.com/zkquery/zkquery/pkg/field"
	"github.com/zkquery/zkquery/pkg/prover"
	"github.com/zkquery/zkquery/pkg/sql"
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Compile a query, assemble its circuit, and produce a proof that it evaluates to --result",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		query, _ := cmd.Flags().GetString("query")
		result, _ := cmd.Flags().GetUint64("result")
		outPath, _ := cmd.Flags().GetString("out")

		cat, order, err := loadCatalog(dbPath)
		if err != nil {
			return fmt.Errorf("loading database: %w", err)
		}
		stmt, err := sql.Parse(query)
		if err != nil {
			return fmt.Errorf("parsing query: %w", err)
		}
		cq, err := sql.Compile(stmt, cat)
		if err != nil {
			return fmt.Errorf("compiling query: %w", err)
		}
		commitment, err := cat.Commit(order)
		if err != nil {
			return fmt.Errorf("computing database commitment: %w", err)
		}
		pub := circuit.PublicInputs{DatabaseCommitment: commitment.Value, QueryResult: field.FromUint64(result)}
		assembled, err := circuit.Assemble(*cq, pub)
		if err != nil {
			return fmt.Errorf("assembling circuit: %w", err)
		}

		backend := prover.MockBackend{}
		params, err := backend.Setup(0)
		if err != nil {
			return err
		}
		vk, err := backend.KeygenVK(params, *assembled)
		if err != nil {
			return err
		}
		pk, err := backend.KeygenPK(params, vk, *assembled)
		if err != nil {
			return err
		}
		proof, err := backend.CreateProof(params, pk, assembled, rand.Reader)
		if err != nil {
			return fmt.Errorf("creating proof: %w", err)
		}

		encoded := hex.EncodeToString(proof)
		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(encoded), 0o644); err != nil {
				return err
			}
		}
		fmt.Fprintln(os.Stdout, encoded)
		return nil
	},
}

func init() {
	proveCmd.Flags().String("db", "", "path to a database JSON file")
	proveCmd.Flags().String("query", "", "SQL query to prove")
	proveCmd.Flags().Uint64("result", 0, "claimed query result to prove")
	proveCmd.Flags().String("out", "", "optional file to write the hex-encoded proof to")
	_ = proveCmd.MarkFlagRequired("db")
	_ = proveCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(proveCmd)
}
