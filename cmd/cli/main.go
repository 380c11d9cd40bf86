package main

import (
	"fmt"
	"os"

	"github.com/crucial707/secure-notes/cmd/cli/notes"
	"github.com/crucial707/secure-notes/cmd/cli/root"
	"github.com/crucial707/secure-notes/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	users.Init(rootCmd)
	notes.Init(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
