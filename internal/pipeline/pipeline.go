// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline assembles stages into a single-record run. Stage
// contracts are checked once, when the pipeline is built; stages are then
// executed in order with no further type checking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/paperfetch/pkg/types"
)

// Stage declares the fields it reads and writes.
type Stage interface {
	Contract() types.StageContract
}

// Collector starts a run from a bare input and creates the Record.
type Collector interface {
	Stage
	Collect(ctx context.Context, input string) (*types.Record, error)
}

// Processor enriches a Record produced upstream.
type Processor interface {
	Stage
	Process(ctx context.Context, rec *types.Record) (*types.Record, error)
}

// ContractError reports a processor input that no upstream stage produces
// with the declared type.
type ContractError struct {
	Stage string
	Field string
	Want  types.FieldType
	// Got is empty when no upstream stage produces the field.
	Got types.FieldType
}

func (e *ContractError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("stage %s: input %q is not produced by any upstream stage", e.Stage, e.Field)
	}
	return fmt.Sprintf("stage %s: input %q wants %s, upstream produces %s", e.Stage, e.Field, e.Want, e.Got)
}

// StageError wraps a failure from one stage of a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline is a validated collector followed by processors.
type Pipeline struct {
	collector  Collector
	processors []Processor
	log        *zap.Logger
}

// New validates the stage contracts and returns the pipeline. A nil log
// disables logging.
func New(log *zap.Logger, collector Collector, processors ...Processor) (*Pipeline, error) {
	if collector == nil {
		return nil, errors.New("pipeline needs a collector")
	}
	if log == nil {
		log = zap.NewNop()
	}

	available := make(map[string]types.FieldType)
	for k, v := range collector.Contract().Outputs {
		available[k] = v
	}
	for _, p := range processors {
		c := p.Contract()
		for _, name := range c.InputNames() {
			want := c.Inputs[name]
			got, ok := available[name]
			if !ok {
				return nil, &ContractError{Stage: c.Name, Field: name, Want: want}
			}
			if got != want {
				return nil, &ContractError{Stage: c.Name, Field: name, Want: want, Got: got}
			}
		}
		for k, v := range c.Outputs {
			available[k] = v
		}
	}

	return &Pipeline{collector: collector, processors: processors, log: log}, nil
}

// Outputs returns every field the pipeline's Record holds after a
// successful run, with its type.
func (p *Pipeline) Outputs() map[string]types.FieldType {
	out := make(map[string]types.FieldType)
	for k, v := range p.collector.Contract().Outputs {
		out[k] = v
	}
	for _, proc := range p.processors {
		for k, v := range proc.Contract().Outputs {
			out[k] = v
		}
	}
	return out
}

// Describe renders the stage order, e.g. "arxiv_fetch -> transcribe".
func (p *Pipeline) Describe() string {
	names := []string{p.collector.Contract().Name}
	for _, proc := range p.processors {
		names = append(names, proc.Contract().Name)
	}
	return strings.Join(names, " -> ")
}

// Run collects input and passes the Record through every processor. The
// first stage error aborts the run and no Record is returned.
func (p *Pipeline) Run(ctx context.Context, input string) (*types.Record, error) {
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID), zap.String("input", input))

	name := p.collector.Contract().Name
	log.Debug("stage start", zap.String("stage", name))
	rec, err := p.collector.Collect(ctx, input)
	if err != nil {
		log.Error("stage failed", zap.String("stage", name), zap.Error(err))
		return nil, &StageError{Stage: name, Err: err}
	}

	for _, proc := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := proc.Contract().Name
		log.Debug("stage start", zap.String("stage", name))
		rec, err = proc.Process(ctx, rec)
		if err != nil {
			log.Error("stage failed", zap.String("stage", name), zap.Error(err))
			return nil, &StageError{Stage: name, Err: err}
		}
	}

	log.Info("run complete", zap.Int("fields", rec.Len()))
	return rec, nil
}

// Seed is a collector that stores its input under one string field. It
// lets a Processor-form stage run first.
type Seed struct {
	Field string
}

// Contract declares the single string output.
func (s Seed) Contract() types.StageContract {
	return types.StageContract{
		Name:    "seed",
		Inputs:  map[string]types.FieldType{},
		Outputs: map[string]types.FieldType{s.Field: types.FieldString},
	}
}

// Collect returns a Record holding input under s.Field.
func (s Seed) Collect(_ context.Context, input string) (*types.Record, error) {
	rec := types.NewRecord()
	rec.Set(s.Field, types.StringValue(input))
	return rec, nil
}
