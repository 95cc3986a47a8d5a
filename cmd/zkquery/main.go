// Command zkquery compiles, proves and verifies SQL query results over a
// committed database without revealing row contents. All behavior lives in
// pkg/cmd; this file only wires the process entry point.
package main

import "github.com/zkquery/zkquery/pkg/cmd"

func main() {
	cmd.Execute()
}
