//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/mainloop/internal/config"
)

func runCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the countdown stepper until it terminates",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stepsSet = cmd.Flags().Changed("steps")
			opts.maxSet = cmd.Flags().Changed("max")
			opts.intervalSet = cmd.Flags().Changed("interval")
			return executeRun(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "countdown start (overrides run.steps)")
	cmd.Flags().IntVar(&opts.maxSteps, "max", 0, "hard cap on dispatched steps (0 = unlimited)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "pause between steps (overrides run.interval)")
	cmd.Flags().IntVar(&opts.repeat, "repeat", 1, "run the countdown this many times back to back")
	cmd.Flags().IntVar(&opts.failAt, "fail-at", 0, "simulate a failing step at this step number (0 = never)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run (overrides metrics.addr)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "print plain log lines instead of the TUI")
	cmd.Flags().BoolVar(&opts.noLog, "no-log", false, "do not write a session log")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create spin.toml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			touched, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(touched) == 0 {
				fmt.Fprintln(out, "All files already exist — nothing to create.")
				return nil
			}
			for _, path := range touched {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			return nil
		},
	}
}

func logsCmd() *cobra.Command {
	var sessionPath string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the steps recorded in the latest (or given) session log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showLogs(cmd.OutOrStdout(), sessionPath)
		},
	}
	cmd.Flags().StringVar(&sessionPath, "session", "", "path to a session .jsonl file (default: latest)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the spin version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spin %s\n", version)
		},
	}
}
