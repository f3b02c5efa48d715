//go:build !(js && wasm)

// Package main is the entry point for the spin CLI, a native demo of
// mainloop.Run.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "spin",
		Short:        "spin — drive a stepper with mainloop.Run",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		runCmd(),
		initCmd(),
		logsCmd(),
		versionCmd(),
	)

	return root
}
