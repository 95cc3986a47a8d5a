// Package cmd implements the zkquery command-line interface: compile,
// prove, verify and query subcommands over a JSON-described database and
// a SQL query string. Grounded on go-corset's pkg/cmd/root.go (cobra root
// command, flag registration via init()) and pkg/cmd/query.go
// (subcommand structure).
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "zkquery",
	Short: "Prove SQL query results over a committed database without revealing row contents",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the CLI, exiting the process with a non-zero status on
// error. This is the only entry point cmd/zkquery/main.go calls, mirroring
// go-corset's thin cmd/main.go + rich pkg/cmd split.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// terminalWidth returns the current terminal's column width, or a sane
// default when stdout is not a terminal (e.g. piped output, CI logs).
// No subcommand calls it, and the CLI prints no progress output; go-corset
// pulls in golang.org/x/term for its schema inspector TUI.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
