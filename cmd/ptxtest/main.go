package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ftvkyo/ptx-tests/pkg/cases"
	"github.com/ftvkyo/ptx-tests/pkg/cuda"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/result"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ptxtest",
		Short: "Differential conformance tests for PTX opcodes",
	}

	// list command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all registered tests",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range cases.All() {
				fmt.Println(c.Name)
			}
		},
	}

	// run command
	var filter string
	var backendName string
	var compilerPath string
	var arch string
	var output string
	var logLevel string

	failed := 0

	runCmd := &cobra.Command{
		Use:   "run [flags] <driver-library-path>",
		Short: "Run tests against a driver library, comparing device results to host references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			var re *regexp.Regexp
			if filter != "" {
				re, err = regexp.Compile(filter)
				if err != nil {
					return fmt.Errorf("invalid filter: %w", err)
				}
			}

			drv, err := cuda.Open(args[0])
			if err != nil {
				return err
			}
			dev, err := drv.NewDevice()
			if err != nil {
				return err
			}
			defer dev.Close()

			var backend harness.Backend
			switch backendName {
			case "direct":
				backend = harness.DirectBackend{}
			case "compiled":
				comp, err := cuda.OpenCompiler(compilerPath)
				if err != nil {
					return err
				}
				backend = harness.CompiledBackend{Compiler: comp, Arch: arch}
			default:
				return fmt.Errorf("unknown backend %q (want direct or compiled)", backendName)
			}

			log.Info().Str("driver", args[0]).Str("backend", backend.Name()).
				Msg("starting run")

			engine := harness.New(dev, backend, log)
			var records []result.Record
			for _, c := range cases.All() {
				if re != nil && !re.MatchString(c.Name) {
					continue
				}
				outcome, err := engine.Run(&c)
				if err != nil {
					var ierr *cuda.InvocationError
					if errors.As(err, &ierr) && ierr.Log != "" {
						log.Error().Msg(ierr.Log)
					}
					return err
				}
				fmt.Println(outcome.String())
				if outcome.Failed() {
					failed++
				}
				records = append(records, result.FromOutcome(outcome, backend.Name()))
			}

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := result.WriteJSON(f, records); err != nil {
					return err
				}
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&filter, "filter", "", "Only run tests whose name matches this regexp")
	runCmd.Flags().StringVar(&backendName, "backend", "direct", "Compilation front-end (direct or compiled)")
	runCmd.Flags().StringVar(&compilerPath, "compiler", "libnvrtc.so", "Runtime compiler library for the compiled backend")
	runCmd.Flags().StringVar(&arch, "arch", "compute_60", "Compiler target architecture for the compiled backend")
	runCmd.Flags().StringVar(&output, "output", "", "Write a JSON report to this file")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(listCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	// The exit code carries the number of failed tests so callers can
	// diff runs without parsing output.
	os.Exit(failed)
}
