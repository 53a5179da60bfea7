package main

import (
	"context"
	"fmt"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/config"
	"github.com/tp971/strix/internal/extract"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/ltl"
	"github.com/tp971/strix/internal/mealy"
	"github.com/tp971/strix/internal/memin"
	"github.com/tp971/strix/internal/metrics"
	"github.com/tp971/strix/internal/obslog"
	"github.com/tp971/strix/internal/obstime"
	"github.com/tp971/strix/internal/pipeline"
	"github.com/tp971/strix/internal/tree"

	"go.uber.org/zap"
)

// run carries one invocation's inputs and the arena/builder it
// constructs, letting main.go's command handler stay a thin dispatcher
// over parse -> decompose -> build+solve -> extract, the same sequence
// original_source/src/strix/Main.cc's main() drives.
type run struct {
	translator ltl.Translator
	formula    string
	opts       *cliOptions
	params     config.Parameters
	log        obslog.Logger
	met        *metrics.Metrics
	timers     *obstime.Timers

	inputs  []string
	outputs []string

	arena   *arena.Arena
	builder *arena.Builder
}

func newRun(translator ltl.Translator, formula string, opts *cliOptions, params config.Parameters, log obslog.Logger) (*run, error) {
	return &run{
		translator: translator,
		formula:    formula,
		opts:       opts,
		params:     params,
		log:        log,
		met:        metrics.New(nil),
		timers:     obstime.New(),
	}, nil
}

// synthesize parses the formula, decomposes it into leaf automata,
// builds the arena over the declared input/output propositions, and
// runs the on-the-fly builder/solver pipeline to a verdict.
func (r *run) synthesize(ctx context.Context) (pipeline.Result, error) {
	r.inputs = splitVars(r.opts.ins)
	r.outputs = splitVars(r.opts.outs)
	allVars := append(append([]string{}, r.inputs...), r.outputs...)

	r.timers.Start(obstime.PhaseParse)
	spec, err := r.translator.Parse(r.formula, allVars, r.params.FromLTLf)
	r.timers.Stop(obstime.PhaseParse)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("parse formula: %w", err)
	}
	r.log.Info("formula parsed", zap.Int("inputs", len(r.inputs)), zap.Int("outputs", len(r.outputs)))

	r.timers.Start(obstime.PhaseAutomaton)
	dpa, err := r.translator.CreateDecomposedAutomaton(spec, r.inputs, r.outputs)
	r.timers.Stop(obstime.PhaseAutomaton)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("decompose automaton: %w", err)
	}

	root := tree.Build(dpa.BuildTree())

	nIn, nOut := len(r.inputs), len(r.outputs)
	inputMask := maskRange(0, nIn)
	outputMask := maskRange(nIn, nOut)

	inBDD, err := bdd.NewManager(nIn)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("allocate input BDD manager: %w", err)
	}
	outBDD, err := bdd.NewManager(nOut)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("allocate output BDD manager: %w", err)
	}

	r.arena = arena.New(root, inputMask, outputMask, inBDD, outBDD)
	r.builder = arena.NewBuilder(r.arena, frontierFor(r.params.Exploration))

	p := pipeline.New(r.arena, r.builder, r.params, r.log, r.met)

	r.timers.Start(obstime.PhaseExplore)
	r.timers.Start(obstime.PhaseSolve)
	result := p.Run(ctx)
	r.timers.Stop(obstime.PhaseExplore)
	r.timers.Stop(obstime.PhaseSolve)

	return result, nil
}

// maskRange builds a letter.Mask marking bits [offset, offset+n) as
// relevant, the convention this command uses to lay declared inputs out
// before outputs in the shared proposition numbering (--ins arguments
// occupy the low bits, --outs the next ones).
func maskRange(offset, n int) letter.Mask {
	var rel letter.Letter
	for i := offset; i < offset+n; i++ {
		rel = rel.With(i, true)
	}
	return letter.Mask{Relevant: rel}
}

func frontierFor(strategy config.ExplorationStrategy) arena.Frontier {
	if strategy == config.PQ {
		return arena.NewPQ()
	}
	return arena.NewBFS()
}

// extractMealy walks the system's committed strategy into a controller,
// minimizing it first when --minimize was given.
func (r *run) extractMealy() (*mealy.Machine, error) {
	return r.extract(func(a *arena.Arena, opts extract.Options) (*mealy.Machine, error) {
		return extract.ExtractMealy(a, opts)
	})
}

// extractMoore walks the environment's committed strategy into an
// unrealizability witness.
func (r *run) extractMoore() (*mealy.Machine, error) {
	return r.extract(func(a *arena.Arena, opts extract.Options) (*mealy.Machine, error) {
		return extract.ExtractMoore(a, opts)
	})
}

func (r *run) extract(walk func(*arena.Arena, extract.Options) (*mealy.Machine, error)) (*mealy.Machine, error) {
	r.timers.Start(obstime.PhaseExtract)
	defer r.timers.Stop(obstime.PhaseExtract)

	mach, err := walk(r.arena, extract.Options{
		InputNames:       r.inputs,
		OutputNames:      r.outputs,
		AddProductLabels: r.opts.labels,
	})
	if err != nil {
		return nil, err
	}
	if !r.params.Minimize {
		return mach, nil
	}
	minimized, changed, err := memin.Minimize(mach)
	if err != nil {
		return nil, fmt.Errorf("minimize machine: %w", err)
	}
	if changed {
		return minimized, nil
	}
	return mach, nil
}
