// Command strix synthesizes a reactive controller from an LTL
// specification: parse the formula, decompose it into a deterministic
// parity automaton, build and solve the resulting two-player parity game
// on the fly, and extract a Mealy (realizable) or Moore (unrealizable
// witness) machine from the solver's committed strategy — the same
// pipeline original_source/src/strix/Main.cc drives, wired here over
// internal/ltl, internal/pipeline, internal/extract, internal/memin,
// internal/aiger, internal/kiss and internal/pgdump instead of Strix's
// Java/JNI/CUDD/ABC stack.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/pgdump"
)

func main() {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "strix [FILE]",
		Short: "Synthesize a reactive controller from an LTL specification",
		Long: `strix solves the realizability problem for an LTL specification over
declared input and output propositions and, when realizable, extracts an
executable controller (AIGER circuit or KISS Mealy table). When the
specification is unrealizable, it extracts an environment counterstrategy
witness instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	registerFlags(cmd, opts)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "strix: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *cliOptions, args []string) error {
	formula := opts.formula
	if formula == "" {
		if len(args) == 0 {
			return fmt.Errorf("no formula given: pass --formula or a FILE argument")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read formula file: %w", err)
		}
		formula = string(data)
	}

	params, err := opts.buildParameters()
	if err != nil {
		return err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("construct logger: %w", err)
	}
	defer log.Sync()

	translator, err := newTranslator(opts.owlJar)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := newRun(translator, formula, opts, params, log)
	if err != nil {
		return err
	}

	result, err := r.synthesize(ctx)
	if err != nil {
		return err
	}

	if opts.timing {
		r.timers.Report(os.Stderr)
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("open output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.parityGame {
		return pgdump.Write(out, r.arena)
	}

	switch result.Winner {
	case arena.SysPlayer:
		fmt.Fprintln(cmd.ErrOrStderr(), "REALIZABLE")
		if params.RealizabilityOnly {
			return nil
		}
		mach, err := r.extractMealy()
		if err != nil {
			return err
		}
		return writeMachine(out, mach, opts.format)
	case arena.EnvPlayer:
		fmt.Fprintln(cmd.ErrOrStderr(), "UNREALIZABLE")
		if params.RealizabilityOnly {
			return nil
		}
		mach, err := r.extractMoore()
		if err != nil {
			return err
		}
		return writeMachine(out, mach, opts.format)
	default:
		return fmt.Errorf("solver did not decide the initial node (timed out: %v)", result.TimedOut)
	}
}
