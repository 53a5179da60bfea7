package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tp971/strix/internal/config"
)

// cliOptions mirrors OptionParser.cc's option groups (input, output,
// synthesis, fine-tuning, debug output, misc), flattened onto one
// cobra.Command's flag set since this port has no input/output/synthesis
// option-group help sections to reproduce.
type cliOptions struct {
	formula string
	ins     string
	outs    string

	format string
	output string

	realizability   bool
	labels          bool
	minimize        bool
	exploration     string
	clearQueue      bool
	fromLTLf        bool
	parityGame      bool

	noSimplifyFormula bool
	threads           int
	noCompactColors   bool

	verbose bool
	owlJar  string
	timing  bool
}

func registerFlags(cmd *cobra.Command, o *cliOptions) {
	flags := cmd.Flags()

	flags.StringVarP(&o.formula, "formula", "f", "", "LTL formula to synthesize (instead of a FILE argument)")
	flags.StringVar(&o.ins, "ins", "", "comma-separated list of input propositions")
	flags.StringVar(&o.outs, "outs", "", "comma-separated list of output propositions")

	flags.StringVar(&o.format, "format", "aiger", "controller output format (aiger or kiss)")
	flags.StringVarP(&o.output, "output", "o", "", "write the controller to this file instead of stdout")

	flags.BoolVarP(&o.realizability, "realizability", "r", false, "only check realizability, do not extract a controller")
	flags.BoolVarP(&o.labels, "labels", "l", false, "use product state labels for the Mealy machine")
	flags.BoolVarP(&o.minimize, "minimize", "m", false, "minimize the Mealy machine via internal/memin")
	flags.StringVarP(&o.exploration, "explore", "e", "bfs", "exploration strategy (bfs or pq)")
	flags.BoolVarP(&o.clearQueue, "clear-queue", "c", false, "regularly clear the exploration queue of unreachable/decided states")
	flags.BoolVar(&o.fromLTLf, "from-ltlf", false, "treat the formula as LTLf over a finite trace")
	flags.BoolVarP(&o.parityGame, "parity-game", "p", false, "dump the solved parity game in PGSolver format instead of extracting a controller")

	flags.BoolVar(&o.noSimplifyFormula, "no-simplify-formula", false, "do not simplify the formula before decomposition")
	flags.IntVar(&o.threads, "threads", 1, "number of solver worker goroutines (0 or less runs a single worker)")
	flags.BoolVar(&o.noCompactColors, "no-compact-colors", false, "do not compact the parity game's colors after exploration")

	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose (development-mode) logging")
	flags.StringVar(&o.owlJar, "owl-jar", "", "path to the Owl library jar (unused: see newTranslator)")
	flags.BoolVarP(&o.timing, "timing", "t", false, "measure and print phase timing information")
}

// splitVars parses a comma-separated proposition list, skipping empty
// entries the way strings.Split would otherwise manufacture from a
// trailing comma.
func splitVars(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(csv, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// buildParameters maps cliOptions onto config.Parameters, the way
// OptionParser::parse populates its Options struct from parsed flags.
func (o *cliOptions) buildParameters() (config.Parameters, error) {
	p := config.DefaultParameters()

	switch strings.ToLower(o.exploration) {
	case "bfs", "":
		p.Exploration = config.BFS
	case "pq":
		p.Exploration = config.PQ
	default:
		return p, fmt.Errorf("--explore: unknown strategy %q (want bfs or pq)", o.exploration)
	}

	p.Workers = o.threads
	if p.Workers <= 0 {
		p.Workers = 1
	}
	p.ClearQueue = o.clearQueue
	p.CompactColors = !o.noCompactColors
	p.RealizabilityOnly = o.realizability
	p.Labels = o.labels
	p.Minimize = o.minimize
	p.FromLTLf = o.fromLTLf
	p.SimplifyFormula = !o.noSimplifyFormula

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
