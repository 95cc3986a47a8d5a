package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/zkquery/zkquery/pkg/sql"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a SQL query against a database file into a CompiledQuery JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := cmd.Flags().GetString("db")
		if err != nil {
			return err
		}
		query, err := cmd.Flags().GetString("query")
		if err != nil {
			return err
		}
		cat, _, err := loadCatalog(dbPath)
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
		out, err := json.MarshalIndent(cq, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	compileCmd.Flags().String("db", "", "path to a database JSON file")
	compileCmd.Flags().String("query", "", "SQL query to compile")
	_ = compileCmd.MarkFlagRequired("db")
	_ = compileCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(compileCmd)
}
